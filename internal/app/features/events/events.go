// internal/app/features/events/events.go
package events

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fittedapp/fitted/internal/app/features/shared"
	"github.com/fittedapp/fitted/internal/app/system/htmlsanitize"
	"github.com/fittedapp/fitted/internal/app/system/timeouts"
	"github.com/fittedapp/fitted/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type createEventRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Time        time.Time `json:"time"`
}

// HandleCreateForGroup handles POST /groups/{id}/events. Members only.
func (h *Handler) HandleCreateForGroup(w http.ResponseWriter, r *http.Request) {
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

	var req createEventRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, http.StatusBadRequest, "bad_request", "Invalid request body.")
		return
	}
	req.Name = htmlsanitize.StripTags(req.Name)
	if req.Name == "" || req.Time.IsZero() {
		shared.Error(w, http.StatusBadRequest, "bad_request", "An event name and time are required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			shared.Error(w, http.StatusNotFound, "not_found", "The requested record does not exist.")
		} else {
			h.Log.Error("event create: load group failed", zap.String("group_id", groupID.Hex()), zap.Error(err))
			shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		}
		return
	}
	if !isMember(g, uid) {
		shared.Error(w, http.StatusForbidden, "forbidden", "You are not a member of this group.")
		return
	}

	e, err := h.Lifecycle.CreateEvent(r.Context(), groupID, models.Event{
		Name:        req.Name,
		Description: htmlsanitize.Sanitize(req.Description),
		Location:    htmlsanitize.StripTags(req.Location),
		Time:        req.Time,
	})
	if err != nil {
		shared.RenderLifecycleError(w, h.Log, "create event", err)
		return
	}
	shared.JSON(w, http.StatusCreated, e)
}

// ServeListForGroup handles GET /groups/{id}/events. Members only.
func (h *Handler) ServeListForGroup(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			shared.Error(w, http.StatusNotFound, "not_found", "The requested record does not exist.")
		} else {
			h.Log.Error("event list: load group failed", zap.String("group_id", groupID.Hex()), zap.Error(err))
			shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		}
		return
	}
	if !isMember(g, uid) {
		shared.Error(w, http.StatusForbidden, "forbidden", "You are not a member of this group.")
		return
	}

	events, err := h.Events.GetByIDs(ctx, g.EventIDs)
	if err != nil {
		h.Log.Error("event list: fetch failed", zap.String("group_id", groupID.Hex()), zap.Error(err))
		shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	shared.JSON(w, http.StatusOK, events)
}

// eventView is an event plus its staged items, resolved for the detail
// screen.
type eventView struct {
	models.Event
	Items []models.ClosetItem `json:"items"`
}

// ServeEvent handles GET /events/{id}. Members of the owning group only.
func (h *Handler) ServeEvent(w http.ResponseWriter, r *http.Request) {
	uid, ok := shared.CurrentUID(r)
	if !ok {
		shared.Error(w, http.StatusUnauthorized, "unauthenticated", "Please sign in to continue.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	e, g, ok := h.loadEventWithGroup(ctx, w, r)
	if !ok {
		return
	}
	if !isMember(g, uid) {
		shared.Error(w, http.StatusForbidden, "forbidden", "You are not a member of this group.")
		return
	}

	items, err := h.Closet.GetByIDs(ctx, e.ItemIDs)
	if err != nil {
		h.Log.Error("event view: items fetch failed", zap.String("event_id", e.ID.Hex()), zap.Error(err))
		shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		return
	}
	if items == nil {
		items = []models.ClosetItem{}
	}
	shared.JSON(w, http.StatusOK, eventView{Event: e, Items: items})
}

// loadEventWithGroup parses {id}, loads the event, and resolves its
// owning group through the events back-reference.
func (h *Handler) loadEventWithGroup(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Event, models.Group, bool) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		shared.Error(w, http.StatusBadRequest, "bad_request", "Invalid event ID.")
		return models.Event{}, models.Group{}, false
	}

	e, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			shared.Error(w, http.StatusNotFound, "not_found", "The requested record does not exist.")
		} else {
			h.Log.Error("event load failed", zap.String("event_id", id.Hex()), zap.Error(err))
			shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		}
		return models.Event{}, models.Group{}, false
	}

	g, err := h.Groups.GetByEvent(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			shared.Error(w, http.StatusNotFound, "not_found", "The requested record does not exist.")
		} else {
			h.Log.Error("event group resolve failed", zap.String("event_id", id.Hex()), zap.Error(err))
			shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		}
		return models.Event{}, models.Group{}, false
	}
	return e, g, true
}

func isMember(g models.Group, uid primitive.ObjectID) bool {
	for _, m := range g.MemberUIDs {
		if m == uid {
			return true
		}
	}
	return false
}
