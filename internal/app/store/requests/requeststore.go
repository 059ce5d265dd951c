// internal/app/store/requests/requeststore.go
package requeststore

import (
	"context"
	"time"

	"github.com/fittedapp/fitted/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("requests")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Request, error) {
	var r models.Request
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return models.Request{}, err
	}
	return r, nil
}

func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Request, error) {
	var out []models.Request
	for _, chunk := range chunkIDs(ids, 10) {
		cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": chunk}})
		if err != nil {
			return nil, err
		}
		var batch []models.Request
		if err := cur.All(ctx, &batch); err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

// ListByOwner returns requests on items the user owns, newest first.
func (s *Store) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Request, error) {
	return s.list(ctx, bson.M{"ownerId": owner})
}

// ListByRequester returns requests the user has made, newest first.
func (s *Store) ListByRequester(ctx context.Context, requester primitive.ObjectID) ([]models.Request, error) {
	return s.list(ctx, bson.M{"requesterId": requester})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Request, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var out []models.Request
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindApproved returns any approved request for the (item, event) pair.
// ApproveRequest uses this for its exclusivity check.
func (s *Store) FindApproved(ctx context.Context, itemID, eventID primitive.ObjectID) ([]models.Request, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"itemId":  itemID,
		"eventId": eventID,
		"status":  models.RequestStatusApproved,
	})
	if err != nil {
		return nil, err
	}
	var out []models.Request
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, r models.Request) (models.Request, error) {
	r.ID = primitive.NewObjectID()
	r.Status = models.RequestStatusPending
	r.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Request{}, err
	}
	return r, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"status": status}})
	return err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// FindByEventAndParticipant returns requests on the event in which the
// user appears on either side. Member-removal cleanup works from this
// set.
func (s *Store) FindByEventAndParticipant(ctx context.Context, eventID, uid primitive.ObjectID) ([]models.Request, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"eventId": eventID,
		"$or": []bson.M{
			{"ownerId": uid},
			{"requesterId": uid},
		},
	})
	if err != nil {
		return nil, err
	}
	var out []models.Request
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByItem returns every request referencing the item.
func (s *Store) FindByItem(ctx context.Context, itemID primitive.ObjectID) ([]models.Request, error) {
	cur, err := s.c.Find(ctx, bson.M{"itemId": itemID})
	if err != nil {
		return nil, err
	}
	var out []models.Request
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByGroup returns every request scoped to the group. Group deletion
// unwinds these.
func (s *Store) FindByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Request, error) {
	cur, err := s.c.Find(ctx, bson.M{"groupId": groupID})
	if err != nil {
		return nil, err
	}
	var out []models.Request
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByEvent removes every request scoped to the event.
func (s *Store) DeleteByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"eventId": eventID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteMany removes the given requests in one call.
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
