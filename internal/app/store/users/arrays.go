// internal/app/store/users/arrays.go
//
// Denormalized back-reference edits on the user document. These are
// only called from the lifecycle manager so every mutation site that
// creates a reference also owns its unwind.
package userstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *Store) AddOwnedGroup(ctx context.Context, uid, groupID primitive.ObjectID) error {
	return s.push(ctx, uid, "owned_groups", groupID)
}

func (s *Store) AddJoinedGroup(ctx context.Context, uid, groupID primitive.ObjectID) error {
	return s.push(ctx, uid, "joined_groups", groupID)
}

func (s *Store) RemoveJoinedGroup(ctx context.Context, uid, groupID primitive.ObjectID) error {
	return s.pull(ctx, uid, "joined_groups", groupID)
}

func (s *Store) RemoveOwnedGroup(ctx context.Context, uid, groupID primitive.ObjectID) error {
	return s.pull(ctx, uid, "owned_groups", groupID)
}

// PullJoinedGroupMany removes groupID from joined_groups for every user
// in uids with a single UpdateMany.
func (s *Store) PullJoinedGroupMany(ctx context.Context, uids []primitive.ObjectID, groupID primitive.ObjectID) error {
	if len(uids) == 0 {
		return nil
	}
	_, err := s.c.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": uids}},
		bson.M{
			"$pull": bson.M{"joined_groups": groupID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	return err
}

func (s *Store) AddClosetItem(ctx context.Context, uid, itemID primitive.ObjectID) error {
	return s.push(ctx, uid, "my_closet", itemID)
}

func (s *Store) RemoveClosetItem(ctx context.Context, uid, itemID primitive.ObjectID) error {
	return s.pull(ctx, uid, "my_closet", itemID)
}

// AddRequestRefs appends the request ID to the requester's outgoing
// array and the owner's incoming and new arrays.
func (s *Store) AddRequestRefs(ctx context.Context, requestID, ownerID, requesterID primitive.ObjectID) error {
	now := time.Now().UTC()
	if _, err := s.c.UpdateByID(ctx, requesterID, bson.M{
		"$addToSet": bson.M{"outgoingRequests": requestID},
		"$set":      bson.M{"updated_at": now},
	}); err != nil {
		return err
	}
	_, err := s.c.UpdateByID(ctx, ownerID, bson.M{
		"$addToSet": bson.M{
			"incomingRequests": requestID,
			"newRequests":      requestID,
		},
		"$set": bson.M{"updated_at": now},
	})
	return err
}

// RemoveRequestRefs pulls the request ID from every request array on
// both participants. Pulling from arrays that never held the ID is a
// no-op, which keeps cancellation retryable.
func (s *Store) RemoveRequestRefs(ctx context.Context, requestID, ownerID, requesterID primitive.ObjectID) error {
	now := time.Now().UTC()
	if _, err := s.c.UpdateByID(ctx, requesterID, bson.M{
		"$pull": bson.M{"outgoingRequests": requestID},
		"$set":  bson.M{"updated_at": now},
	}); err != nil {
		return err
	}
	_, err := s.c.UpdateByID(ctx, ownerID, bson.M{
		"$pull": bson.M{
			"incomingRequests": requestID,
			"newRequests":      requestID,
		},
		"$set": bson.M{"updated_at": now},
	})
	return err
}

// ClearNewRequest marks an incoming request as seen by pulling it from
// the newRequests array only.
func (s *Store) ClearNewRequest(ctx context.Context, uid, requestID primitive.ObjectID) error {
	return s.pull(ctx, uid, "newRequests", requestID)
}

func (s *Store) push(ctx context.Context, uid primitive.ObjectID, field string, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, uid, bson.M{
		"$addToSet": bson.M{field: id},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

func (s *Store) pull(ctx context.Context, uid primitive.ObjectID, field string, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, uid, bson.M{
		"$pull": bson.M{field: id},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}
