// internal/domain/models/request.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Request lifecycle states.
//
// pending → approved and pending → denied are terminal; the only exit
// from any state is cancellation, which deletes the record outright.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusDenied   = "denied"
)

// Request links a requester to a closet item owned by another user,
// scoped to one event.
//
// Invariants:
//   - OwnerID never equals RequesterID (enforced at creation).
//   - At most one request per (ItemID, EventID) pair may hold status
//     approved; see lifecycle.ApproveRequest for how (and how far) this
//     is enforced.
type Request struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ItemID      primitive.ObjectID `bson:"itemId" json:"item_id"`
	OwnerID     primitive.ObjectID `bson:"ownerId" json:"owner_id"`
	RequesterID primitive.ObjectID `bson:"requesterId" json:"requester_id"`
	EventID     primitive.ObjectID `bson:"eventId" json:"event_id"`
	GroupID     primitive.ObjectID `bson:"groupId" json:"group_id"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"created_at"`
}
