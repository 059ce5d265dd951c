// internal/app/features/closet/items.go
package closet

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/fittedapp/fitted/internal/app/features/shared"
	"github.com/fittedapp/fitted/internal/app/system/htmlsanitize"
	"github.com/fittedapp/fitted/internal/app/system/timeouts"
	"github.com/fittedapp/fitted/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleUpload handles POST /closet/items. The body is a multipart form
// with the item fields and an optional "image" part.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	uid, ok := shared.CurrentUID(r)
	if !ok {
		shared.Error(w, http.StatusUnauthorized, "unauthenticated", "Please sign in to continue.")
		return
	}

	file, header, err := shared.ImageFromRequest(r)
	if err != nil {
		shared.Error(w, http.StatusBadRequest, "bad_request", "Invalid upload.")
		return
	}
	defer shared.DrainAndClose(file)

	name := htmlsanitize.StripTags(r.FormValue("name"))
	if name == "" {
		shared.Error(w, http.StatusBadRequest, "bad_request", "An item name is required.")
		return
	}
	size := strings.ToUpper(strings.TrimSpace(r.FormValue("size")))
	if size != "" && !contains(models.ItemSizes, size) {
		shared.Error(w, http.StatusBadRequest, "bad_request", "Unknown size.")
		return
	}
	clothingType := strings.ToLower(strings.TrimSpace(r.FormValue("type")))
	if clothingType != "" && !contains(models.ItemTypes, clothingType) {
		shared.Error(w, http.StatusBadRequest, "bad_request", "Unknown clothing type.")
		return
	}
	price, _ := strconv.ParseFloat(r.FormValue("price"), 64)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	imagePath := ""
	if file != nil {
		imagePath, err = shared.SaveImage(ctx, h.Files, "closet", file, header)
		if err != nil {
			h.Log.Error("item image upload failed", zap.String("user_id", uid.Hex()), zap.Error(err))
			shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
			return
		}
	}

	item, err := h.Lifecycle.AddClosetItem(r.Context(), models.ClosetItem{
		Name:         name,
		Brand:        htmlsanitize.StripTags(r.FormValue("brand")),
		Size:         size,
		Color:        htmlsanitize.StripTags(r.FormValue("color")),
		ClothingType: clothingType,
		Price:        price,
		Description:  htmlsanitize.Sanitize(r.FormValue("description")),
		ImagePath:    imagePath,
		OwnerUID:     uid,
	})
	if err != nil {
		shared.RenderLifecycleError(w, h.Log, "add closet item", err)
		return
	}
	shared.JSON(w, http.StatusCreated, item)
}

// ServeMyCloset handles GET /closet/items.
func (h *Handler) ServeMyCloset(w http.ResponseWriter, r *http.Request) {
	uid, ok := shared.CurrentUID(r)
	if !ok {
		shared.Error(w, http.StatusUnauthorized, "unauthenticated", "Please sign in to continue.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := h.Closet.ListByOwner(ctx, uid)
	if err != nil {
		h.Log.Error("closet list failed", zap.String("user_id", uid.Hex()), zap.Error(err))
		shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		return
	}
	if items == nil {
		items = []models.ClosetItem{}
	}
	shared.JSON(w, http.StatusOK, items)
}

// ServeItem handles GET /closet/items/{id}.
func (h *Handler) ServeItem(w http.ResponseWriter, r *http.Request) {
	if _, ok := shared.CurrentUID(r); !ok {
		shared.Error(w, http.StatusUnauthorized, "unauthenticated", "Please sign in to continue.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	item, ok := h.loadItem(ctx, w, r)
	if !ok {
		return
	}
	shared.JSON(w, http.StatusOK, item)
}

// HandleDelete handles DELETE /closet/items/{id}. Owner only; the
// lifecycle manager unstages the item everywhere and unwinds any
// requests that reference it.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	uid, ok := shared.CurrentUID(r)
	if !ok {
		shared.Error(w, http.StatusUnauthorized, "unauthenticated", "Please sign in to continue.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	item, ok := h.loadItem(ctx, w, r)
	if !ok {
		return
	}
	if item.OwnerUID != uid {
		shared.Error(w, http.StatusForbidden, "forbidden", "You can only delete your own items.")
		return
	}

	if err := h.Lifecycle.RemoveClosetItem(r.Context(), item.ID); err != nil {
		shared.RenderLifecycleError(w, h.Log, "remove closet item", err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) loadItem(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.ClosetItem, bool) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		shared.Error(w, http.StatusBadRequest, "bad_request", "Invalid item ID.")
		return models.ClosetItem{}, false
	}
	item, err := h.Closet.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			shared.Error(w, http.StatusNotFound, "not_found", "The requested record does not exist.")
		} else {
			h.Log.Error("item load failed", zap.String("item_id", id.Hex()), zap.Error(err))
			shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		}
		return models.ClosetItem{}, false
	}
	return item, true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
