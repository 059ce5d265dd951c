// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/fittedapp/fitted/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures inserts test documents directly, bypassing the stores, so
// store and lifecycle tests control their own starting state.
type Fixtures struct {
	t  *testing.T
	db *mongo.Database
}

func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	return &Fixtures{t: t, db: db}
}

func (f *Fixtures) DB() *mongo.Database { return f.db }

// CreateUser inserts a user with the given names and email.
func (f *Fixtures) CreateUser(ctx context.Context, first, last, email string) models.User {
	f.t.Helper()
	u := models.User{
		ID:              primitive.NewObjectID(),
		FirstName:       first,
		LastName:        last,
		Username:        first,
		UsernameCI:      text.Fold(first),
		Email:           email,
		EmailCI:         text.Fold(email),
		AuthMethod:      models.AuthMethodPassword,
		NotificationsOn: true,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("fixture user insert failed: %v", err)
	}
	return u
}

// CreateGroup inserts a group owned by owner, with the owner and any
// extra members in the member array and matching back-references on the
// user documents.
func (f *Fixtures) CreateGroup(ctx context.Context, name, code, passcode string, owner models.User, members ...models.User) models.Group {
	f.t.Helper()
	memberIDs := []primitive.ObjectID{owner.ID}
	for _, m := range members {
		memberIDs = append(memberIDs, m.ID)
	}
	g := models.Group{
		ID:         primitive.NewObjectID(),
		Code:       code,
		CodeCI:     text.Fold(code),
		Name:       name,
		Passcode:   passcode,
		OwnerUID:   owner.ID,
		MemberUIDs: memberIDs,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	if _, err := f.db.Collection("groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("fixture group insert failed: %v", err)
	}

	users := f.db.Collection("users")
	if _, err := users.UpdateByID(ctx, owner.ID, bson.M{
		"$addToSet": bson.M{"owned_groups": g.ID, "joined_groups": g.ID},
	}); err != nil {
		f.t.Fatalf("fixture owner back-reference failed: %v", err)
	}
	for _, m := range members {
		if _, err := users.UpdateByID(ctx, m.ID, bson.M{
			"$addToSet": bson.M{"joined_groups": g.ID},
		}); err != nil {
			f.t.Fatalf("fixture member back-reference failed: %v", err)
		}
	}
	return g
}

// CreateEvent inserts an event linked into the group's events array.
func (f *Fixtures) CreateEvent(ctx context.Context, group models.Group, name string) models.Event {
	f.t.Helper()
	e := models.Event{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Time:      time.Now().UTC().Add(72 * time.Hour),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("events").InsertOne(ctx, e); err != nil {
		f.t.Fatalf("fixture event insert failed: %v", err)
	}
	if _, err := f.db.Collection("groups").UpdateByID(ctx, group.ID, bson.M{
		"$addToSet": bson.M{"events": e.ID},
	}); err != nil {
		f.t.Fatalf("fixture event back-reference failed: %v", err)
	}
	return e
}

// CreateItem inserts an available closet item owned by owner, with the
// my_closet back-reference.
func (f *Fixtures) CreateItem(ctx context.Context, owner models.User, name string) models.ClosetItem {
	f.t.Helper()
	it := models.ClosetItem{
		ID:        primitive.NewObjectID(),
		Name:      name,
		OwnerUID:  owner.ID,
		Status:    models.ItemStatusAvailable,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("closet_items").InsertOne(ctx, it); err != nil {
		f.t.Fatalf("fixture item insert failed: %v", err)
	}
	if _, err := f.db.Collection("users").UpdateByID(ctx, owner.ID, bson.M{
		"$addToSet": bson.M{"my_closet": it.ID},
	}); err != nil {
		f.t.Fatalf("fixture closet back-reference failed: %v", err)
	}
	return it
}

// StageItem links an item onto an event's staged list.
func (f *Fixtures) StageItem(ctx context.Context, event models.Event, item models.ClosetItem) {
	f.t.Helper()
	if _, err := f.db.Collection("events").UpdateByID(ctx, event.ID, bson.M{
		"$addToSet": bson.M{"items": item.ID},
	}); err != nil {
		f.t.Fatalf("fixture staging failed: %v", err)
	}
}

// CreateRequest inserts a request with full back-references on both
// users and the pending marker on the item, mirroring what the
// lifecycle manager writes.
func (f *Fixtures) CreateRequest(ctx context.Context, item models.ClosetItem, event models.Event, group models.Group, requester models.User, status string) models.Request {
	f.t.Helper()
	r := models.Request{
		ID:          primitive.NewObjectID(),
		ItemID:      item.ID,
		OwnerID:     item.OwnerUID,
		RequesterID: requester.ID,
		EventID:     event.ID,
		GroupID:     group.ID,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := f.db.Collection("requests").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("fixture request insert failed: %v", err)
	}

	users := f.db.Collection("users")
	if _, err := users.UpdateByID(ctx, requester.ID, bson.M{
		"$addToSet": bson.M{"outgoingRequests": r.ID},
	}); err != nil {
		f.t.Fatalf("fixture requester back-reference failed: %v", err)
	}
	if _, err := users.UpdateByID(ctx, item.OwnerUID, bson.M{
		"$addToSet": bson.M{"incomingRequests": r.ID, "newRequests": r.ID},
	}); err != nil {
		f.t.Fatalf("fixture owner back-reference failed: %v", err)
	}
	if _, err := f.db.Collection("closet_items").UpdateByID(ctx, item.ID, bson.M{
		"$set": bson.M{"status": models.ItemStatusPending, "requestedBy": requester.ID},
	}); err != nil {
		f.t.Fatalf("fixture item status failed: %v", err)
	}
	return r
}
