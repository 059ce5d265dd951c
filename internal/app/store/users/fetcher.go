// internal/app/store/users/fetcher.go
package userstore

import (
	"context"

	"github.com/fittedapp/fitted/internal/app/system/auth"
	"github.com/fittedapp/fitted/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fetcher adapts the user store to auth.UserFetcher so the session
// middleware can refresh the signed-in user on each request.
type Fetcher struct {
	users *Store
}

func NewFetcher(users *Store) *Fetcher { return &Fetcher{users: users} }

func (f *Fetcher) FetchSessionUser(ctx context.Context, userID string) (*auth.SessionUser, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	u, err := f.users.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	return &auth.SessionUser{
		ID:       u.ID.Hex(),
		Name:     u.FullName(),
		Username: u.Username,
		Email:    u.Email,
	}, nil
}
