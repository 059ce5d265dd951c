// internal/app/features/closet/feed.go
package closet

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/fittedapp/fitted/internal/app/features/shared"
	"github.com/fittedapp/fitted/internal/app/system/timeouts"
	"github.com/fittedapp/fitted/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// feedItem is a closet item annotated with its owner, for the group
// browsing screen.
type feedItem struct {
	models.ClosetItem
	OwnerName     string `json:"owner_name"`
	OwnerUsername string `json:"owner_username"`
}

// ServeGroupFeed handles GET /groups/{id}/closet: every member's items,
// with the caller's own items left out.
func (h *Handler) ServeGroupFeed(w http.ResponseWriter, r *http.Request) {
	uid, ok := shared.CurrentUID(r)
	if !ok {
		shared.Error(w, http.StatusUnauthorized, "unauthenticated", "Please sign in to continue.")
		return
	}

	groupID, err := primitive.ObjectIDFromHex(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		shared.Error(w, http.StatusBadRequest, "bad_request", "Invalid group ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			shared.Error(w, http.StatusNotFound, "not_found", "The requested record does not exist.")
		} else {
			h.Log.Error("feed: load group failed", zap.String("group_id", groupID.Hex()), zap.Error(err))
			shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		}
		return
	}

	member := false
	for _, m := range g.MemberUIDs {
		if m == uid {
			member = true
			break
		}
	}
	if !member {
		shared.Error(w, http.StatusForbidden, "forbidden", "You are not a member of this group.")
		return
	}

	users, err := h.Users.GetByIDs(ctx, g.MemberUIDs)
	if err != nil {
		h.Log.Error("feed: members fetch failed", zap.String("group_id", groupID.Hex()), zap.Error(err))
		shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		return
	}

	feed := []feedItem{}
	for _, u := range users {
		if u.ID == uid {
			continue
		}
		items, err := h.Closet.GetByIDs(ctx, u.MyCloset)
		if err != nil {
			h.Log.Error("feed: items fetch failed",
				zap.String("group_id", groupID.Hex()),
				zap.String("member_id", u.ID.Hex()),
				zap.Error(err))
			shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
			return
		}
		for _, it := range items {
			feed = append(feed, feedItem{
				ClosetItem:    it,
				OwnerName:     u.FullName(),
				OwnerUsername: u.Username,
			})
		}
	}
	shared.JSON(w, http.StatusOK, feed)
}
