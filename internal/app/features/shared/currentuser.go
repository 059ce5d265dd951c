// internal/app/features/shared/currentuser.go
package shared

import (
	"net/http"

	"github.com/fittedapp/fitted/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CurrentUID returns the signed-in user's ObjectID from the request
// context. The bool is false when no user is signed in or the session
// carries a malformed ID.
func CurrentUID(r *http.Request) (primitive.ObjectID, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}
