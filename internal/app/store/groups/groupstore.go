// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
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
	return &Store{c: db.Collection("groups")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// GetByCode looks a group up by its case-folded join code. Codes are not
// guaranteed unique; the oldest matching group wins.
func (s *Store) GetByCode(ctx context.Context, code string) (models.Group, error) {
	var g models.Group
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if err := s.c.FindOne(ctx, bson.M{"id_ci": text.Fold(code)}, opts).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// GetByEvent returns the group whose events array contains eventID.
// Events carry no group pointer of their own, so ownership is resolved
// through this back-reference.
func (s *Store) GetByEvent(ctx context.Context, eventID primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"events": eventID}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Group, error) {
	var out []models.Group
	for _, chunk := range chunkIDs(ids, 10) {
		cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": chunk}})
		if err != nil {
			return nil, err
		}
		var batch []models.Group
		if err := cur.All(ctx, &batch); err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

// ListByMember returns every group whose member array contains uid.
func (s *Store) ListByMember(ctx context.Context, uid primitive.ObjectID) ([]models.Group, error) {
	cur, err := s.c.Find(ctx, bson.M{"group_members": uid})
	if err != nil {
		return nil, err
	}
	var out []models.Group
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts the group with the owner pre-seeded into the member
// array. The document _id is assigned here.
func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.CodeCI = text.Fold(g.Code)
	g.MemberUIDs = []primitive.ObjectID{g.OwnerUID}
	g.CreatedAt = now
	g.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// InfoUpdate carries the editable group fields. Zero-valued fields are
// left untouched except Description, which may be cleared.
type InfoUpdate struct {
	Name        string
	Description string
	Code        string
	Passcode    *string
}

func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, upd InfoUpdate) error {
	set := bson.M{
		"description": upd.Description,
		"updated_at":  time.Now().UTC(),
	}
	if upd.Name != "" {
		set["group_name"] = upd.Name
	}
	if upd.Code != "" {
		set["id"] = upd.Code
		set["id_ci"] = text.Fold(upd.Code)
	}
	if upd.Passcode != nil {
		set["password"] = *upd.Passcode
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

// AddMember appends uid to the member array; $addToSet makes repeat
// joins idempotent.
func (s *Store) AddMember(ctx context.Context, groupID, uid primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, groupID, bson.M{
		"$addToSet": bson.M{"group_members": uid},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

func (s *Store) RemoveMember(ctx context.Context, groupID, uid primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, groupID, bson.M{
		"$pull": bson.M{"group_members": uid},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

func (s *Store) AddEvent(ctx context.Context, groupID, eventID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, groupID, bson.M{
		"$addToSet": bson.M{"events": eventID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

func (s *Store) RemoveEvent(ctx context.Context, groupID, eventID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, groupID, bson.M{
		"$pull": bson.M{"events": eventID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
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
