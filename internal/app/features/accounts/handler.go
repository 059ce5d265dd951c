// internal/app/features/accounts/handler.go
package accounts

import (
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/fittedapp/fitted/internal/app/system/auth"
	userstore "github.com/fittedapp/fitted/internal/app/store/users"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the accounts feature:
// signup, login/logout, and profile management.
type Handler struct {
	Users    *userstore.Store
	Sessions *auth.SessionManager
	Files    storage.Store
	Log      *zap.Logger
}

func NewHandler(users *userstore.Store, sm *auth.SessionManager, files storage.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    users,
		Sessions: sm,
		Files:    files,
		Log:      logger,
	}
}
