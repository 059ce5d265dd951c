// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/fittedapp/fitted/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateEmail = errors.New("an account with this email already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// GetByEmail looks a user up by case-folded email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email_ci": text.Fold(email)}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetByGoogleID(ctx context.Context, googleID string) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"google_id": googleID}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// GetByIDs fetches user documents for the given IDs. The $in filter is
// chunked at ten IDs per query to stay wire-compatible with the batched
// membership filter the legacy client used.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	var out []models.User
	for _, chunk := range chunkIDs(ids, 10) {
		cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": chunk}})
		if err != nil {
			return nil, err
		}
		var batch []models.User
		if err := cur.All(ctx, &batch); err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.EmailCI = text.Fold(u.Email)
	u.UsernameCI = text.Fold(u.Username)
	u.CreatedAt = now
	u.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// UpdateProfile sets the editable profile fields. Empty strings clear
// optional fields (venmo, phone); the name and username fields are only
// written when non-empty.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, p ProfileUpdate) error {
	set := bson.M{
		"updated_at":      time.Now().UTC(),
		"venmo":           p.Venmo,
		"phoneNumber":     p.Phone,
		"notificationsOn": p.NotificationsOn,
	}
	if p.FirstName != "" {
		set["firstName"] = p.FirstName
	}
	if p.LastName != "" {
		set["lastName"] = p.LastName
	}
	if p.Username != "" {
		set["username"] = p.Username
		set["username_ci"] = text.Fold(p.Username)
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// ProfileUpdate carries the fields a user may edit on their profile.
type ProfileUpdate struct {
	FirstName       string
	LastName        string
	Username        string
	Venmo           string
	Phone           string
	NotificationsOn bool
}

func (s *Store) SetProfilePicture(ctx context.Context, id primitive.ObjectID, path string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"profilePicture": path,
		"updated_at":     time.Now().UTC(),
	}})
	return err
}

// LinkGoogleID attaches a Google identity to an existing account.
func (s *Store) LinkGoogleID(ctx context.Context, id primitive.ObjectID, googleID string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"google_id":  googleID,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

func (s *Store) SetPasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"password_hash": hash,
		"updated_at":    time.Now().UTC(),
	}})
	return err
}

// chunkIDs splits ids into slices of at most size.
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
