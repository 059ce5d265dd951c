// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is a social circle of users sharing closet items for events.
//
// NOTE:
//   - The human-readable join code is stored under the legacy field name
//     "id" (distinct from the document _id). It is expected to be unique
//     but uniqueness is not enforced; JoinGroup takes the first match.
//   - MemberUIDs and EventIDs are denormalized arrays; the owner is
//     always present in MemberUIDs.
type Group struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code        string             `bson:"id" json:"code"`
	CodeCI      string             `bson:"id_ci" json:"-"` // lowercase, diacritics-stripped
	Name        string             `bson:"group_name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	// Passcode gates joining. Empty means the group is open.
	Passcode string `bson:"password,omitempty" json:"-"`

	// ImagePath is a blob-store path for the group photo.
	ImagePath string `bson:"image,omitempty" json:"image,omitempty"`

	OwnerUID   primitive.ObjectID   `bson:"owner" json:"owner_uid"`
	MemberUIDs []primitive.ObjectID `bson:"group_members" json:"member_uids"`
	EventIDs   []primitive.ObjectID `bson:"events,omitempty" json:"event_ids,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasImage reports whether the group has an uploaded photo.
func (g Group) HasImage() bool { return g.ImagePath != "" }
