// internal/domain/models/closetitem.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Item availability states.
//
// Invariant: StatusPending implies RequestedBy is set. The transitions
// are driven exclusively by the request lifecycle manager: creating a
// request moves an item to pending, cancelling a request moves it back
// to available.
const (
	ItemStatusAvailable   = "available"
	ItemStatusPending     = "pending"
	ItemStatusUnavailable = "unavailable"
)

// ClosetItem is a piece of clothing owned by one user. Items may be
// staged to any number of events; staging is a link from the event, not
// a copy.
type ClosetItem struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Brand        string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Size         string             `bson:"size,omitempty" json:"size,omitempty"`
	Color        string             `bson:"color,omitempty" json:"color,omitempty"`
	ClothingType string             `bson:"type,omitempty" json:"clothing_type,omitempty"`
	Price        float64            `bson:"price,omitempty" json:"price,omitempty"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	ImagePath    string             `bson:"image,omitempty" json:"image,omitempty"`

	OwnerUID primitive.ObjectID `bson:"owner" json:"owner_uid"`

	Status      string              `bson:"status" json:"status"`
	RequestedBy *primitive.ObjectID `bson:"requestedBy,omitempty" json:"requested_by,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Clothing size and type vocabularies used by the upload form.
var (
	ItemSizes = []string{"XS", "S", "M", "L", "XL"}

	ItemTypes = []string{"top", "bottom", "dress", "skirt", "set"}
)
