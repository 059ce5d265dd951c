// internal/app/features/closet/handler.go
package closet

import (
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/fittedapp/fitted/internal/app/lifecycle"
	closetstore "github.com/fittedapp/fitted/internal/app/store/closet"
	groupstore "github.com/fittedapp/fitted/internal/app/store/groups"
	userstore "github.com/fittedapp/fitted/internal/app/store/users"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the closet feature.
type Handler struct {
	Lifecycle *lifecycle.Manager
	Closet    *closetstore.Store
	Groups    *groupstore.Store
	Users     *userstore.Store
	Files     storage.Store
	Log       *zap.Logger
}

func NewHandler(lc *lifecycle.Manager, closet *closetstore.Store, groups *groupstore.Store, users *userstore.Store, files storage.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Lifecycle: lc,
		Closet:    closet,
		Groups:    groups,
		Users:     users,
		Files:     files,
		Log:       logger,
	}
}
