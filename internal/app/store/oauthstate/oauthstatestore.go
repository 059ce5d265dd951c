// internal/app/store/oauthstate/oauthstatestore.go
//
// Single-use OAuth state tokens for the Google sign-in flow. States are
// consumed on the callback; a background sweeper reaps the ones that
// never come back.
package oauthstatestore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

type stateDoc struct {
	State     string    `bson:"state"`
	ReturnURL string    `bson:"return_url,omitempty"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("oauth_states")}
}

// Save records a state token with its expiry.
func (s *Store) Save(ctx context.Context, state, returnURL string, ttl time.Duration) error {
	now := time.Now().UTC()
	_, err := s.c.InsertOne(ctx, stateDoc{
		State:     state,
		ReturnURL: returnURL,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	})
	return err
}

// Consume atomically deletes the state and returns its return URL.
// Expired or unknown states fail with mongo.ErrNoDocuments.
func (s *Store) Consume(ctx context.Context, state string) (string, error) {
	var doc stateDoc
	err := s.c.FindOneAndDelete(ctx, bson.M{
		"state":      state,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&doc)
	if err != nil {
		return "", err
	}
	return doc.ReturnURL, nil
}

// DeleteExpired removes states past their expiry and reports how many
// were removed.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{
		"expires_at": bson.M{"$lte": time.Now().UTC()},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
