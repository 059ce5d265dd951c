// internal/app/features/accounts/signup.go
package accounts

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/fittedapp/fitted/internal/app/features/shared"
	"github.com/fittedapp/fitted/internal/app/system/auth"
	"github.com/fittedapp/fitted/internal/app/system/timeouts"
	userstore "github.com/fittedapp/fitted/internal/app/store/users"
	"github.com/fittedapp/fitted/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type signupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Venmo     string `json:"venmo"`
	Password  string `json:"password"`
}

// HandleSignup handles POST /accounts/signup. Creates a password
// account and signs the new user in.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, http.StatusBadRequest, "bad_request", "Invalid request body.")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if req.Email == "" || req.Username == "" || len(req.Password) < 8 {
		shared.Error(w, http.StatusBadRequest, "bad_request",
			"Email, username, and a password of at least 8 characters are required.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("bcrypt hash failed", zap.Error(err))
		shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		FirstName:       strings.TrimSpace(req.FirstName),
		LastName:        strings.TrimSpace(req.LastName),
		Username:        req.Username,
		Email:           req.Email,
		Phone:           strings.TrimSpace(req.Phone),
		Venmo:           strings.TrimSpace(req.Venmo),
		PasswordHash:    string(hash),
		AuthMethod:      models.AuthMethodPassword,
		NotificationsOn: true,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			shared.Error(w, http.StatusConflict, "duplicate_email", "An account with this email already exists.")
			return
		}
		h.Log.Error("signup: create user failed", zap.Error(err))
		shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		return
	}

	if err := h.Sessions.SignIn(w, r, &auth.SessionUser{
		ID:       u.ID.Hex(),
		Name:     u.FullName(),
		Username: u.Username,
		Email:    u.Email,
	}); err != nil {
		h.Log.Error("signup: session sign-in failed", zap.Error(err))
		shared.Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
		return
	}

	h.Log.Info("account created", zap.String("user_id", u.ID.Hex()))
	shared.JSON(w, http.StatusCreated, u)
}
