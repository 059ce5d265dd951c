// internal/app/features/accounts/profile.go
package accounts

import (
	"context"
	"net/http"
	"strings"

	"github.com/fittedapp/fitted/internal/app/features/shared"
	"github.com/fittedapp/fitted/internal/app/system/timeouts"
	userstore "github.com/fittedapp/fitted/internal/app/store/users"
	"go.uber.org/zap"
)

// ServeProfile handles GET /accounts/profile.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := shared.CurrentUID(r)
	if !ok {
		shared.Error(w, http.StatusUnauthorized, "unauthenticated", "Please sign in to continue.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		h.Log.Error("profile: load failed", zap.String("user_id", uid.Hex()), zap.Error(err))
		shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		return
	}
	shared.JSON(w, http.StatusOK, u)
}

type profilePatch struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Username        string `json:"username"`
	Venmo           string `json:"venmo"`
	Phone           string `json:"phone"`
	NotificationsOn bool   `json:"notifications_on"`
}

// HandleUpdateProfile handles PATCH /accounts/profile.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := shared.CurrentUID(r)
	if !ok {
		shared.Error(w, http.StatusUnauthorized, "unauthenticated", "Please sign in to continue.")
		return
	}

	var req profilePatch
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, http.StatusBadRequest, "bad_request", "Invalid request body.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.Users.UpdateProfile(ctx, uid, userstore.ProfileUpdate{
		FirstName:       strings.TrimSpace(req.FirstName),
		LastName:        strings.TrimSpace(req.LastName),
		Username:        strings.TrimSpace(req.Username),
		Venmo:           strings.TrimSpace(req.Venmo),
		Phone:           strings.TrimSpace(req.Phone),
		NotificationsOn: req.NotificationsOn,
	})
	if err != nil {
		h.Log.Error("profile: update failed", zap.String("user_id", uid.Hex()), zap.Error(err))
		shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		return
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		h.Log.Error("profile: reload failed", zap.String("user_id", uid.Hex()), zap.Error(err))
		shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		return
	}
	shared.JSON(w, http.StatusOK, u)
}

// HandleUploadPicture handles POST /accounts/profile/picture with a
// multipart "image" part.
func (h *Handler) HandleUploadPicture(w http.ResponseWriter, r *http.Request) {
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
	if file == nil {
		shared.Error(w, http.StatusBadRequest, "bad_request", "An image file is required.")
		return
	}
	defer shared.DrainAndClose(file)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	path, err := shared.SaveImage(ctx, h.Files, "profiles", file, header)
	if err != nil {
		h.Log.Error("profile picture upload failed", zap.String("user_id", uid.Hex()), zap.Error(err))
		shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		return
	}

	if err := h.Users.SetProfilePicture(ctx, uid, path); err != nil {
		h.Log.Error("profile picture save failed", zap.String("user_id", uid.Hex()), zap.Error(err))
		shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		return
	}

	shared.JSON(w, http.StatusOK, map[string]string{
		"path": path,
		"url":  h.Files.URL(path),
	})
}
