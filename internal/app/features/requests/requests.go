// internal/app/features/requests/requests.go
package requests

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

type createRequest struct {
	ItemID  string `json:"item_id"`
	EventID string `json:"event_id"`
}

// HandleCreate handles POST /requests. The lifecycle manager rejects
// self-requests and applies the whole creation batch atomically.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := shared.CurrentUID(r)
	if !ok {
		shared.Error(w, http.StatusUnauthorized, "unauthenticated", "Please sign in to continue.")
		return
	}

	var req createRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, http.StatusBadRequest, "bad_request", "Invalid request body.")
		return
	}
	itemID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.ItemID))
	if err != nil {
		shared.Error(w, http.StatusBadRequest, "bad_request", "Invalid item ID.")
		return
	}
	eventID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.EventID))
	if err != nil {
		shared.Error(w, http.StatusBadRequest, "bad_request", "Invalid event ID.")
		return
	}

	created, err := h.Lifecycle.CreateRequest(r.Context(), itemID, eventID, uid)
	if err != nil {
		shared.RenderLifecycleError(w, h.Log, "create request", err)
		return
	}
	shared.JSON(w, http.StatusCreated, created)
}

// ServeOutgoing handles GET /requests/outgoing: requests the caller has
// made.
func (h *Handler) ServeOutgoing(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, func(ctx context.Context, uid primitive.ObjectID) ([]models.Request, error) {
		return h.Requests.ListByRequester(ctx, uid)
	})
}

// ServeIncoming handles GET /requests/incoming: requests on items the
// caller owns.
func (h *Handler) ServeIncoming(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, func(ctx context.Context, uid primitive.ObjectID) ([]models.Request, error) {
		return h.Requests.ListByOwner(ctx, uid)
	})
}

// requestView joins the request with its item and counterparty for the
// list screens.
type requestView struct {
	models.Request
	ItemName          string `json:"item_name"`
	ItemImage         string `json:"item_image,omitempty"`
	RequesterUsername string `json:"requester_username,omitempty"`
	OwnerUsername     string `json:"owner_username,omitempty"`
}

func (h *Handler) serveList(w http.ResponseWriter, r *http.Request, fetch func(context.Context, primitive.ObjectID) ([]models.Request, error)) {
	uid, ok := shared.CurrentUID(r)
	if !ok {
		shared.Error(w, http.StatusUnauthorized, "unauthenticated", "Please sign in to continue.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	reqs, err := fetch(ctx, uid)
	if err != nil {
		h.Log.Error("request list failed", zap.String("user_id", uid.Hex()), zap.Error(err))
		shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		return
	}

	views := make([]requestView, 0, len(reqs))
	for _, req := range reqs {
		v := requestView{Request: req}
		if item, err := h.Closet.GetByID(ctx, req.ItemID); err == nil {
			v.ItemName = item.Name
			v.ItemImage = item.ImagePath
		}
		if requester, err := h.Users.GetByID(ctx, req.RequesterID); err == nil {
			v.RequesterUsername = requester.Username
		}
		if owner, err := h.Users.GetByID(ctx, req.OwnerID); err == nil {
			v.OwnerUsername = owner.Username
		}
		views = append(views, v)
	}
	shared.JSON(w, http.StatusOK, views)
}

// HandleApprove handles POST /requests/{id}/approve. Item owner only.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	uid, ok := shared.CurrentUID(r)
	if !ok {
		shared.Error(w, http.StatusUnauthorized, "unauthenticated", "Please sign in to continue.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	req, ok := h.loadRequest(ctx, w, r)
	if !ok {
		return
	}
	if req.OwnerID != uid {
		shared.Error(w, http.StatusForbidden, "forbidden", "Only the item owner can approve a request.")
		return
	}

	if err := h.Lifecycle.ApproveRequest(r.Context(), req.ID); err != nil {
		shared.RenderLifecycleError(w, h.Log, "approve request", err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": models.RequestStatusApproved})
}

// HandleDeny handles POST /requests/{id}/deny. Item owner only.
func (h *Handler) HandleDeny(w http.ResponseWriter, r *http.Request) {
	uid, ok := shared.CurrentUID(r)
	if !ok {
		shared.Error(w, http.StatusUnauthorized, "unauthenticated", "Please sign in to continue.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	req, ok := h.loadRequest(ctx, w, r)
	if !ok {
		return
	}
	if req.OwnerID != uid {
		shared.Error(w, http.StatusForbidden, "forbidden", "Only the item owner can deny a request.")
		return
	}

	if err := h.Lifecycle.DenyRequest(r.Context(), req.ID); err != nil {
		shared.RenderLifecycleError(w, h.Log, "deny request", err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": models.RequestStatusDenied})
}

// HandleCancel handles DELETE /requests/{id}. Either participant may
// cancel; cancellation deletes the record and restores the item.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	uid, ok := shared.CurrentUID(r)
	if !ok {
		shared.Error(w, http.StatusUnauthorized, "unauthenticated", "Please sign in to continue.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	req, ok := h.loadRequest(ctx, w, r)
	if !ok {
		return
	}
	if req.OwnerID != uid && req.RequesterID != uid {
		shared.Error(w, http.StatusForbidden, "forbidden", "Only a participant can cancel a request.")
		return
	}

	if err := h.Lifecycle.CancelRequest(r.Context(), req.ID); err != nil {
		shared.RenderLifecycleError(w, h.Log, "cancel request", err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// HandleMarkSeen handles POST /requests/{id}/seen. Item owner only.
func (h *Handler) HandleMarkSeen(w http.ResponseWriter, r *http.Request) {
	uid, ok := shared.CurrentUID(r)
	if !ok {
		shared.Error(w, http.StatusUnauthorized, "unauthenticated", "Please sign in to continue.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	req, ok := h.loadRequest(ctx, w, r)
	if !ok {
		return
	}
	if req.OwnerID != uid {
		shared.Error(w, http.StatusForbidden, "forbidden", "Only the item owner can mark a request seen.")
		return
	}

	if err := h.Lifecycle.MarkRequestSeen(r.Context(), req.ID); err != nil {
		shared.RenderLifecycleError(w, h.Log, "mark request seen", err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "seen"})
}

func (h *Handler) loadRequest(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Request, bool) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		shared.Error(w, http.StatusBadRequest, "bad_request", "Invalid request ID.")
		return models.Request{}, false
	}
	req, err := h.Requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			shared.Error(w, http.StatusNotFound, "not_found", "The requested record does not exist.")
		} else {
			h.Log.Error("request load failed", zap.String("request_id", id.Hex()), zap.Error(err))
			shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		}
		return models.Request{}, false
	}
	return req, true
}
