// internal/app/store/events/eventstore.go
package eventstore

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
	return &Store{c: db.Collection("events")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error) {
	var e models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Event, error) {
	var out []models.Event
	for _, chunk := range chunkIDs(ids, 10) {
		cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": chunk}})
		if err != nil {
			return nil, err
		}
		var batch []models.Event
		if err := cur.All(ctx, &batch); err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, e models.Event) (models.Event, error) {
	now := time.Now().UTC()
	e.ID = primitive.NewObjectID()
	e.CreatedAt = now
	e.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

type InfoUpdate struct {
	Name        string
	Description string
	Location    string
	Time        time.Time
}

func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, upd InfoUpdate) error {
	set := bson.M{
		"description": upd.Description,
		"location":    upd.Location,
		"updated_at":  time.Now().UTC(),
	}
	if upd.Name != "" {
		set["event_name"] = upd.Name
	}
	if !upd.Time.IsZero() {
		set["time"] = upd.Time
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

// StageItem links a closet item to the event. $addToSet keeps repeat
// staging from duplicating the link.
func (s *Store) StageItem(ctx context.Context, eventID, itemID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, eventID, bson.M{
		"$addToSet": bson.M{"items": itemID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

func (s *Store) UnstageItem(ctx context.Context, eventID, itemID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, eventID, bson.M{
		"$pull": bson.M{"items": itemID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// UnstageItems pulls every ID in itemIDs from the event's staged list in
// one update.
func (s *Store) UnstageItems(ctx context.Context, eventID primitive.ObjectID, itemIDs []primitive.ObjectID) error {
	if len(itemIDs) == 0 {
		return nil
	}
	_, err := s.c.UpdateByID(ctx, eventID, bson.M{
		"$pull": bson.M{"items": bson.M{"$in": itemIDs}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// UnstageItemEverywhere pulls itemID from every event that staged it.
// Used when a closet item is deleted outright.
func (s *Store) UnstageItemEverywhere(ctx context.Context, itemID primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx,
		bson.M{"items": itemID},
		bson.M{
			"$pull": bson.M{"items": itemID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	return err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteMany removes the given events in one call; used by group
// deletion after the per-event cleanup has run.
func (s *Store) DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
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
