// internal/app/features/events/stage.go
package events

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/fittedapp/fitted/internal/app/features/shared"
	"github.com/fittedapp/fitted/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleStageItem handles POST /events/{id}/items/{itemID}. A member
// stages one of their own closet items onto an event; staging is a
// link, not a copy, and repeat staging is idempotent.
func (h *Handler) HandleStageItem(w http.ResponseWriter, r *http.Request) {
	h.handleStaging(w, r, true)
}

// HandleUnstageItem handles DELETE /events/{id}/items/{itemID}.
func (h *Handler) HandleUnstageItem(w http.ResponseWriter, r *http.Request) {
	h.handleStaging(w, r, false)
}

func (h *Handler) handleStaging(w http.ResponseWriter, r *http.Request, stage bool) {
	uid, ok := shared.CurrentUID(r)
	if !ok {
		shared.Error(w, http.StatusUnauthorized, "unauthenticated", "Please sign in to continue.")
		return
	}

	itemID, err := primitive.ObjectIDFromHex(strings.TrimSpace(chi.URLParam(r, "itemID")))
	if err != nil {
		shared.Error(w, http.StatusBadRequest, "bad_request", "Invalid item ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	e, g, ok := h.loadEventWithGroup(ctx, w, r)
	if !ok {
		return
	}
	if !isMember(g, uid) {
		shared.Error(w, http.StatusForbidden, "forbidden", "You are not a member of this group.")
		return
	}

	item, err := h.Closet.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			shared.Error(w, http.StatusNotFound, "not_found", "The requested record does not exist.")
		} else {
			h.Log.Error("staging: item load failed", zap.String("item_id", itemID.Hex()), zap.Error(err))
			shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		}
		return
	}
	if item.OwnerUID != uid {
		shared.Error(w, http.StatusForbidden, "forbidden", "You can only stage your own items.")
		return
	}

	if stage {
		err = h.Events.StageItem(ctx, e.ID, itemID)
	} else {
		err = h.Events.UnstageItem(ctx, e.ID, itemID)
	}
	if err != nil {
		h.Log.Error("staging update failed",
			zap.String("event_id", e.ID.Hex()),
			zap.String("item_id", itemID.Hex()),
			zap.Bool("stage", stage),
			zap.Error(err))
		shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		return
	}

	status := "staged"
	if !stage {
		status = "unstaged"
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": status})
}
