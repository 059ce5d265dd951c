// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fittedapp/fitted/internal/app/system/auth"
	"github.com/fittedapp/fitted/internal/app/system/timeouts"
	oauthstatestore "github.com/fittedapp/fitted/internal/app/store/oauthstate"
	userstore "github.com/fittedapp/fitted/internal/app/store/users"
	"github.com/fittedapp/fitted/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Handler handles Google OAuth sign-in. Accounts are looked up by
// Google ID first, then by email (which links the Google ID); an
// unknown email creates a fresh account, since the mobile app has no
// separate Google signup screen.
type Handler struct {
	Users      *userstore.Store
	States     *oauthstatestore.Store
	SessionMgr *auth.SessionManager
	Log        *zap.Logger

	ClientID     string
	ClientSecret string
	RedirectURL  string
}

const stateTTL = 10 * time.Minute

func NewHandler(users *userstore.Store, states *oauthstatestore.Store, sm *auth.SessionManager, clientID, clientSecret, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		Users:        users,
		States:       states,
		SessionMgr:   sm,
		Log:          logger,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
	}
}

func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// IsConfigured returns true if Google OAuth is configured.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

// ServeLogin handles GET /auth/google: saves a single-use state token
// and redirects to Google's consent screen.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google OAuth not configured")
		http.Error(w, "Google sign-in is not available.", http.StatusServiceUnavailable)
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		http.Error(w, "Something went wrong. Please try again.", http.StatusInternalServerError)
		return
	}

	returnURL := r.URL.Query().Get("return")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.States.Save(ctx, state, returnURL, stateTTL); err != nil {
		h.Log.Error("failed to save OAuth state", zap.Error(err))
		http.Error(w, "Something went wrong. Please try again.", http.StatusInternalServerError)
		return
	}

	url := h.oauth2Config().AuthCodeURL(state, oauth2.AccessTypeOffline)

	h.Log.Debug("initiating Google OAuth flow", zap.String("return_url", returnURL))
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// ServeCallback handles GET /auth/google/callback: validates the state,
// exchanges the code, resolves or creates the account, and signs in.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		http.Error(w, "Google sign-in was denied.", http.StatusForbidden)
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		h.Log.Warn("missing OAuth state parameter")
		http.Error(w, "Invalid sign-in state.", http.StatusBadRequest)
		return
	}

	shortCtx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	if _, err := h.States.Consume(shortCtx, state); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.Log.Warn("invalid or expired OAuth state")
			http.Error(w, "Invalid sign-in state.", http.StatusBadRequest)
			return
		}
		h.Log.Error("failed to consume OAuth state", zap.Error(err))
		http.Error(w, "Something went wrong. Please try again.", http.StatusInternalServerError)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.Log.Warn("missing OAuth code parameter")
		http.Error(w, "Invalid sign-in code.", http.StatusBadRequest)
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		http.Error(w, "Google sign-in failed. Please try again.", http.StatusBadGateway)
		return
	}

	googleUser, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("failed to fetch Google user info", zap.Error(err))
		http.Error(w, "Google sign-in failed. Please try again.", http.StatusBadGateway)
		return
	}

	u, err := h.resolveAccount(shortCtx, googleUser)
	if err != nil {
		h.Log.Error("failed to resolve Google account", zap.Error(err))
		http.Error(w, "Something went wrong. Please try again.", http.StatusInternalServerError)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, &auth.SessionUser{
		ID:       u.ID.Hex(),
		Name:     u.FullName(),
		Username: u.Username,
		Email:    u.Email,
	}); err != nil {
		h.Log.Error("google sign-in: session failed", zap.Error(err))
		http.Error(w, "Something went wrong. Please try again.", http.StatusInternalServerError)
		return
	}

	h.Log.Info("user signed in via Google", zap.String("user_id", u.ID.Hex()))
	http.Redirect(w, r, "/accounts/profile", http.StatusSeeOther)
}

// resolveAccount maps a Google identity to a user document, creating
// one when neither the Google ID nor the email is known.
func (h *Handler) resolveAccount(ctx context.Context, gu *googleUserInfo) (models.User, error) {
	u, err := h.Users.GetByGoogleID(ctx, gu.ID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, err
	}

	u, err = h.Users.GetByEmail(ctx, gu.Email)
	if err == nil {
		if err := h.Users.LinkGoogleID(ctx, u.ID, gu.ID); err != nil {
			return models.User{}, err
		}
		u.GoogleID = gu.ID
		return u, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, err
	}

	username := gu.Email
	if at := strings.Index(username, "@"); at > 0 {
		username = username[:at]
	}
	return h.Users.Create(ctx, models.User{
		FirstName:       gu.GivenName,
		LastName:        gu.FamilyName,
		Username:        username,
		Email:           gu.Email,
		AuthMethod:      models.AuthMethodGoogle,
		GoogleID:        gu.ID,
		NotificationsOn: true,
	})
}

// googleUserInfo represents user info returned from Google.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// fetchGoogleUserInfo retrieves user information from Google's userinfo
// endpoint.
func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	return &info, nil
}

// generateState returns a cryptographically secure random state token.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
