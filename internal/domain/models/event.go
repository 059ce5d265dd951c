// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a time-scoped occasion within a group to which closet items
// are staged for borrowing. Events belong to exactly one group via the
// back-reference in Group.EventIDs; the event document itself carries no
// group pointer (legacy document shape).
type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"event_name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	Time        time.Time          `bson:"time" json:"time"`
	ImagePath   string             `bson:"image,omitempty" json:"image,omitempty"`

	// ItemIDs are links to closet items staged for this event, not copies.
	ItemIDs []primitive.ObjectID `bson:"items,omitempty" json:"item_ids,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
