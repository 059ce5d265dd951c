// internal/app/features/groups/groups.go
package groups

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/fittedapp/fitted/internal/app/features/shared"
	"github.com/fittedapp/fitted/internal/app/system/htmlsanitize"
	"github.com/fittedapp/fitted/internal/app/system/timeouts"
	groupstore "github.com/fittedapp/fitted/internal/app/store/groups"
	"github.com/fittedapp/fitted/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type createGroupRequest struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Passcode    string `json:"passcode"`
	Description string `json:"description"`
}

// HandleCreate handles POST /groups.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := shared.CurrentUID(r)
	if !ok {
		shared.Error(w, http.StatusUnauthorized, "unauthenticated", "Please sign in to continue.")
		return
	}

	var req createGroupRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, http.StatusBadRequest, "bad_request", "Invalid request body.")
		return
	}
	req.Name = htmlsanitize.StripTags(req.Name)
	req.Code = htmlsanitize.StripTags(req.Code)
	if req.Name == "" || req.Code == "" {
		shared.Error(w, http.StatusBadRequest, "bad_request", "A group name and join code are required.")
		return
	}

	g, err := h.Lifecycle.CreateGroup(r.Context(), models.Group{
		Name:        req.Name,
		Code:        req.Code,
		Passcode:    req.Passcode,
		Description: htmlsanitize.Sanitize(req.Description),
		OwnerUID:    uid,
	})
	if err != nil {
		shared.RenderLifecycleError(w, h.Log, "create group", err)
		return
	}
	shared.JSON(w, http.StatusCreated, g)
}

// ServeOwned handles GET /groups/owned.
func (h *Handler) ServeOwned(w http.ResponseWriter, r *http.Request) {
	h.serveGroupList(w, r, func(u models.User) []primitive.ObjectID { return u.OwnedGroups })
}

// ServeJoined handles GET /groups/joined.
func (h *Handler) ServeJoined(w http.ResponseWriter, r *http.Request) {
	h.serveGroupList(w, r, func(u models.User) []primitive.ObjectID { return u.JoinedGroups })
}

func (h *Handler) serveGroupList(w http.ResponseWriter, r *http.Request, pick func(models.User) []primitive.ObjectID) {
	uid, ok := shared.CurrentUID(r)
	if !ok {
		shared.Error(w, http.StatusUnauthorized, "unauthenticated", "Please sign in to continue.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		h.Log.Error("group list: load user failed", zap.String("user_id", uid.Hex()), zap.Error(err))
		shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		return
	}

	groups, err := h.Groups.GetByIDs(ctx, pick(u))
	if err != nil {
		h.Log.Error("group list: fetch failed", zap.String("user_id", uid.Hex()), zap.Error(err))
		shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		return
	}
	if groups == nil {
		groups = []models.Group{}
	}
	shared.JSON(w, http.StatusOK, groups)
}

// ServeGroup handles GET /groups/{id}. Only members may view.
func (h *Handler) ServeGroup(w http.ResponseWriter, r *http.Request) {
	uid, ok := shared.CurrentUID(r)
	if !ok {
		shared.Error(w, http.StatusUnauthorized, "unauthenticated", "Please sign in to continue.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, ok := h.loadGroup(ctx, w, r)
	if !ok {
		return
	}
	if !isMember(g, uid) {
		shared.Error(w, http.StatusForbidden, "forbidden", "You are not a member of this group.")
		return
	}
	shared.JSON(w, http.StatusOK, g)
}

type groupPatch struct {
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Passcode    *string `json:"passcode"`
	Description string  `json:"description"`
}

// HandleUpdate handles PATCH /groups/{id}. Owner only.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	uid, ok := shared.CurrentUID(r)
	if !ok {
		shared.Error(w, http.StatusUnauthorized, "unauthenticated", "Please sign in to continue.")
		return
	}

	var req groupPatch
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, http.StatusBadRequest, "bad_request", "Invalid request body.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, ok := h.loadGroup(ctx, w, r)
	if !ok {
		return
	}
	if g.OwnerUID != uid {
		shared.Error(w, http.StatusForbidden, "forbidden", "Only the group owner can edit the group.")
		return
	}

	err := h.Groups.UpdateInfo(ctx, g.ID, groupstore.InfoUpdate{
		Name:        htmlsanitize.StripTags(req.Name),
		Code:        htmlsanitize.StripTags(req.Code),
		Passcode:    req.Passcode,
		Description: htmlsanitize.Sanitize(req.Description),
	})
	if err != nil {
		h.Log.Error("group update failed", zap.String("group_id", g.ID.Hex()), zap.Error(err))
		shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		return
	}

	updated, err := h.Groups.GetByID(ctx, g.ID)
	if err != nil {
		h.Log.Error("group reload failed", zap.String("group_id", g.ID.Hex()), zap.Error(err))
		shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		return
	}
	shared.JSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /groups/{id}. Owner only; cascades
// through the lifecycle manager.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	uid, ok := shared.CurrentUID(r)
	if !ok {
		shared.Error(w, http.StatusUnauthorized, "unauthenticated", "Please sign in to continue.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, ok := h.loadGroup(ctx, w, r)
	if !ok {
		return
	}
	if g.OwnerUID != uid {
		shared.Error(w, http.StatusForbidden, "forbidden", "Only the group owner can delete the group.")
		return
	}

	if err := h.Lifecycle.DeleteGroup(r.Context(), g.ID); err != nil {
		shared.RenderLifecycleError(w, h.Log, "delete group", err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// loadGroup parses {id} and fetches the group, rendering the error
// responses itself. The bool reports whether the caller may proceed.
func (h *Handler) loadGroup(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Group, bool) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		shared.Error(w, http.StatusBadRequest, "bad_request", "Invalid group ID.")
		return models.Group{}, false
	}
	g, err := h.Groups.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			shared.Error(w, http.StatusNotFound, "not_found", "The requested record does not exist.")
		} else {
			h.Log.Error("group load failed", zap.String("group_id", id.Hex()), zap.Error(err))
			shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		}
		return models.Group{}, false
	}
	return g, true
}

func isMember(g models.Group, uid primitive.ObjectID) bool {
	for _, m := range g.MemberUIDs {
		if m == uid {
			return true
		}
	}
	return false
}
