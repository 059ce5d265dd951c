// internal/app/store/closet/closetstore.go
package closetstore

import (
	"context"
	"time"

	"github.com/fittedapp/fitted/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("closet_items")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.ClosetItem, error) {
	var it models.ClosetItem
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&it); err != nil {
		return models.ClosetItem{}, err
	}
	return it, nil
}

func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.ClosetItem, error) {
	var out []models.ClosetItem
	for _, chunk := range chunkIDs(ids, 10) {
		cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": chunk}})
		if err != nil {
			return nil, err
		}
		var batch []models.ClosetItem
		if err := cur.All(ctx, &batch); err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

func (s *Store) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.ClosetItem, error) {
	cur, err := s.c.Find(ctx, bson.M{"owner": owner})
	if err != nil {
		return nil, err
	}
	var out []models.ClosetItem
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, it models.ClosetItem) (models.ClosetItem, error) {
	now := time.Now().UTC()
	it.ID = primitive.NewObjectID()
	if it.Status == "" {
		it.Status = models.ItemStatusAvailable
	}
	it.CreatedAt = now
	it.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, it); err != nil {
		return models.ClosetItem{}, err
	}
	return it, nil
}

type InfoUpdate struct {
	Name         string
	Brand        string
	Size         string
	Color        string
	ClothingType string
	Price        float64
	Description  string
}

func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, upd InfoUpdate) error {
	set := bson.M{
		"brand":       upd.Brand,
		"size":        upd.Size,
		"color":       upd.Color,
		"type":        upd.ClothingType,
		"price":       upd.Price,
		"description": upd.Description,
		"updated_at":  time.Now().UTC(),
	}
	if upd.Name != "" {
		set["name"] = upd.Name
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

func (s *Store) SetImagePath(ctx context.Context, id primitive.ObjectID, path string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"image":      path,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// SetStatus writes the availability status and the requestedBy marker
// together. A nil requestedBy clears the marker, which is required when
// the item returns to available.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string, requestedBy *primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}}
	if requestedBy != nil {
		update["$set"].(bson.M)["requestedBy"] = *requestedBy
	} else {
		update["$unset"] = bson.M{"requestedBy": ""}
	}
	_, err := s.c.UpdateByID(ctx, id, update)
	return err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func chunkIDs(ids []primitive.ObjectID, size int) [][]primitive.ObjectID {
	if len(ids) == 0 {
		return nil
	}
	var chunks [][]primitive.ObjectID
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
