// internal/app/features/groups/image.go
package groups

import (
	"context"
	"net/http"

	"github.com/fittedapp/fitted/internal/app/features/shared"
	"github.com/fittedapp/fitted/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleUploadImage handles POST /groups/{id}/image with a multipart
// "image" part. Owner only. A previous image blob is deleted
// best-effort after the new path is saved.
func (h *Handler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	uid, ok := shared.CurrentUID(r)
	if !ok {
		shared.Error(w, http.StatusUnauthorized, "unauthenticated", "Please sign in to continue.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	g, ok := h.loadGroup(ctx, w, r)
	if !ok {
		return
	}
	if g.OwnerUID != uid {
		shared.Error(w, http.StatusForbidden, "forbidden", "Only the group owner can change the group photo.")
		return
	}

	file, header, err := shared.ImageFromRequest(r)
	if err != nil {
		shared.Error(w, http.StatusBadRequest, "bad_request", "Invalid upload.")
		return
	}
	if file == nil {
		shared.Error(w, http.StatusBadRequest, "bad_request", "An image file is required.")
		return
	}
	defer shared.DrainAndClose(file)

	path, err := shared.SaveImage(ctx, h.Files, "groups", file, header)
	if err != nil {
		h.Log.Error("group image upload failed", zap.String("group_id", g.ID.Hex()), zap.Error(err))
		shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		return
	}

	if err := h.Groups.SetImagePath(ctx, g.ID, path); err != nil {
		h.Log.Error("group image save failed", zap.String("group_id", g.ID.Hex()), zap.Error(err))
		shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		return
	}

	if g.HasImage() {
		if err := h.Files.Delete(ctx, g.ImagePath); err != nil {
			h.Log.Warn("old group image delete failed",
				zap.String("group_id", g.ID.Hex()),
				zap.String("path", g.ImagePath),
				zap.Error(err))
		}
	}

	shared.JSON(w, http.StatusOK, map[string]string{
		"path": path,
		"url":  h.Files.URL(path),
	})
}
