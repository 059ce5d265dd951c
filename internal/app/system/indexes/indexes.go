// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureGroups(ctx, db); err != nil {
		problems = append(problems, "groups: "+err.Error())
	}
	if err := ensureClosetItems(ctx, db); err != nil {
		problems = append(problems, "closet_items: "+err.Error())
	}
	if err := ensureRequests(ctx, db); err != nil {
		problems = append(problems, "requests: "+err.Error())
	}
	if err := ensureOAuthStates(ctx, db); err != nil {
		problems = append(problems, "oauth_states: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: ensure a set of desired indexes for one collection            */
/* -------------------------------------------------------------------------- */

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	for _, m := range models {
		name := ""
		if m.Options != nil && m.Options.Name != nil {
			name = *m.Options.Name
		}
		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			// A same-keys index under a different name or with different
			// options already exists; surfaced so operators can reconcile.
			if isOptionsConflictErr(err) {
				errs = append(errs, fmt.Sprintf("%s(%s): conflicting index exists: %v", coll.Name(), name, err))
				continue
			}
			if isDuplicateKeyErr(err) {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), name))
				continue
			}
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 { // E11000 duplicate key error index
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

/* -------------------------------------------------------------------------- */
/* Per-collection index sets                                                  */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email_ci", Value: 1}},
			Options: &options.IndexOptions{
				Name:   strPtr("uniq_email_ci"),
				Unique: boolPtr(true),
				Sparse: boolPtr(true),
			},
		},
		{
			Keys:    bson.D{{Key: "username_ci", Value: 1}},
			Options: &options.IndexOptions{Name: strPtr("username_ci")},
		},
		{
			Keys: bson.D{{Key: "google_id", Value: 1}},
			Options: &options.IndexOptions{
				Name:   strPtr("google_id"),
				Sparse: boolPtr(true),
			},
		},
	})
}

func ensureGroups(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("groups"), []mongo.IndexModel{
		{
			// Join code lookup. Deliberately NOT unique: the legacy data
			// tolerates duplicate codes and JoinGroup takes the first match.
			Keys:    bson.D{{Key: "id_ci", Value: 1}},
			Options: &options.IndexOptions{Name: strPtr("code_ci")},
		},
		{
			Keys:    bson.D{{Key: "group_members", Value: 1}},
			Options: &options.IndexOptions{Name: strPtr("members")},
		},
		{
			Keys:    bson.D{{Key: "owner", Value: 1}},
			Options: &options.IndexOptions{Name: strPtr("owner")},
		},
	})
}

func ensureClosetItems(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("closet_items"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner", Value: 1}},
			Options: &options.IndexOptions{Name: strPtr("owner")},
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: &options.IndexOptions{Name: strPtr("status")},
		},
	})
}

func ensureRequests(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("requests"), []mongo.IndexModel{
		{
			// Approval-exclusivity check: (item, event, status) equality query.
			Keys: bson.D{
				{Key: "itemId", Value: 1},
				{Key: "eventId", Value: 1},
				{Key: "status", Value: 1},
			},
			Options: &options.IndexOptions{Name: strPtr("item_event_status")},
		},
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}},
			Options: &options.IndexOptions{Name: strPtr("owner")},
		},
		{
			Keys:    bson.D{{Key: "requesterId", Value: 1}},
			Options: &options.IndexOptions{Name: strPtr("requester")},
		},
		{
			Keys:    bson.D{{Key: "eventId", Value: 1}},
			Options: &options.IndexOptions{Name: strPtr("event")},
		},
		{
			Keys:    bson.D{{Key: "groupId", Value: 1}},
			Options: &options.IndexOptions{Name: strPtr("group")},
		},
	})
}

func ensureOAuthStates(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("oauth_states"), []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "state", Value: 1}},
			Options: &options.IndexOptions{
				Name:   strPtr("uniq_state"),
				Unique: boolPtr(true),
			},
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: &options.IndexOptions{Name: strPtr("expires_at")},
		},
	})
}
