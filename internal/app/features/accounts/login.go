// internal/app/features/accounts/login.go
package accounts

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/fittedapp/fitted/internal/app/features/shared"
	"github.com/fittedapp/fitted/internal/app/system/auth"
	"github.com/fittedapp/fitted/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin handles POST /accounts/login.
//
// Unknown email and wrong password produce the same response, so the
// endpoint cannot be used to probe for accounts.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, http.StatusBadRequest, "bad_request", "Invalid request body.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			h.Log.Error("login: user lookup failed", zap.Error(err))
		}
		shared.Error(w, http.StatusUnauthorized, "invalid_credentials", "Email or password is incorrect.")
		return
	}
	if u.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		shared.Error(w, http.StatusUnauthorized, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	if err := h.Sessions.SignIn(w, r, &auth.SessionUser{
		ID:       u.ID.Hex(),
		Name:     u.FullName(),
		Username: u.Username,
		Email:    u.Email,
	}); err != nil {
		h.Log.Error("login: session sign-in failed", zap.Error(err))
		shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		return
	}

	h.Log.Info("user logged in", zap.String("user_id", u.ID.Hex()))
	shared.JSON(w, http.StatusOK, u)
}

// HandleLogout handles POST /accounts/logout.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.SignOut(w, r); err != nil {
		h.Log.Error("logout failed", zap.Error(err))
		shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}
