// internal/app/features/groups/members.go
package groups

import (
	"context"
	"net/http"
	"strings"

	"github.com/fittedapp/fitted/internal/app/features/shared"
	"github.com/fittedapp/fitted/internal/app/system/timeouts"
	"github.com/fittedapp/fitted/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// memberView is the subset of a user document shown to fellow members.
type memberView struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	IsOwner        bool   `json:"is_owner"`
}

// ServeMembers handles GET /groups/{id}/members. Members only.
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	uid, ok := shared.CurrentUID(r)
	if !ok {
		shared.Error(w, http.StatusUnauthorized, "unauthenticated", "Please sign in to continue.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, ok := h.loadGroup(ctx, w, r)
	if !ok {
		return
	}
	if !isMember(g, uid) {
		shared.Error(w, http.StatusForbidden, "forbidden", "You are not a member of this group.")
		return
	}

	users, err := h.Users.GetByIDs(ctx, g.MemberUIDs)
	if err != nil {
		h.Log.Error("members: fetch failed", zap.String("group_id", g.ID.Hex()), zap.Error(err))
		shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		return
	}

	views := make([]memberView, 0, len(users))
	for _, u := range users {
		views = append(views, memberView{
			ID:             u.ID.Hex(),
			FirstName:      u.FirstName,
			LastName:       u.LastName,
			Username:       u.Username,
			ProfilePicture: u.ProfilePicture,
			IsOwner:        u.ID == g.OwnerUID,
		})
	}
	shared.JSON(w, http.StatusOK, views)
}

// HandleRemoveMember handles DELETE /groups/{id}/members/{uid}.
// The owner may remove anyone but themselves; a member may remove
// themselves (leave). The cascade runs in the lifecycle manager.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	uid, ok := shared.CurrentUID(r)
	if !ok {
		shared.Error(w, http.StatusUnauthorized, "unauthenticated", "Please sign in to continue.")
		return
	}

	target, err := primitive.ObjectIDFromHex(strings.TrimSpace(chi.URLParam(r, "uid")))
	if err != nil {
		shared.Error(w, http.StatusBadRequest, "bad_request", "Invalid member ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, ok := h.loadGroup(ctx, w, r)
	if !ok {
		return
	}
	if !canRemove(g, uid, target) {
		shared.Error(w, http.StatusForbidden, "forbidden", "You cannot remove this member.")
		return
	}

	if err := h.Lifecycle.RemoveMember(r.Context(), g.ID, target); err != nil {
		shared.RenderLifecycleError(w, h.Log, "remove member", err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// canRemove encodes the removal policy: owners remove others, members
// remove themselves, and the owner cannot leave their own group
// (deleting the group is the way out).
func canRemove(g models.Group, actor, target primitive.ObjectID) bool {
	if target == g.OwnerUID {
		return false
	}
	if actor == g.OwnerUID {
		return true
	}
	return actor == target
}
