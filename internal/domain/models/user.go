// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account in the fitted service.
//
// NOTE:
//   - Group membership, closet contents, and request participation are
//     denormalized onto the user document as arrays of IDs. These arrays
//     are only ever edited through the lifecycle manager so that every
//     mutation site unwinds its back-references.
//   - The bson field names (owned_groups, incomingRequests, ...) preserve
//     the document shape the mobile client already reads.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName  string             `bson:"firstName" json:"first_name"`
	LastName   string             `bson:"lastName" json:"last_name"`
	Username   string             `bson:"username" json:"username"`
	UsernameCI string             `bson:"username_ci" json:"-"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`
	EmailCI    string             `bson:"email_ci" json:"-"`
	Phone      string             `bson:"phoneNumber,omitempty" json:"phone,omitempty"`
	Venmo      string             `bson:"venmo,omitempty" json:"venmo,omitempty"`

	// PasswordHash is a bcrypt hash; empty for OAuth-only accounts.
	PasswordHash string `bson:"password_hash,omitempty" json:"-"`
	AuthMethod   string `bson:"auth_method,omitempty" json:"-"` // "password" | "google"
	GoogleID     string `bson:"google_id,omitempty" json:"-"`

	// ProfilePicture is a blob-store path, resolvable through the
	// storage provider.
	ProfilePicture  string `bson:"profilePicture,omitempty" json:"profile_picture,omitempty"`
	NotificationsOn bool   `bson:"notificationsOn" json:"notifications_on"`

	OwnedGroups  []primitive.ObjectID `bson:"owned_groups,omitempty" json:"owned_groups,omitempty"`
	JoinedGroups []primitive.ObjectID `bson:"joined_groups,omitempty" json:"joined_groups,omitempty"`

	// MyCloset only ever references items this user owns.
	MyCloset []primitive.ObjectID `bson:"my_closet,omitempty" json:"my_closet,omitempty"`

	IncomingRequests []primitive.ObjectID `bson:"incomingRequests,omitempty" json:"incoming_requests,omitempty"`
	OutgoingRequests []primitive.ObjectID `bson:"outgoingRequests,omitempty" json:"outgoing_requests,omitempty"`
	NewRequests      []primitive.ObjectID `bson:"newRequests,omitempty" json:"new_requests,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// FullName joins the first and last name, skipping empty parts.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
