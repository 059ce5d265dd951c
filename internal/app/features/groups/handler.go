// internal/app/features/groups/handler.go
package groups

import (
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/fittedapp/fitted/internal/app/lifecycle"
	groupstore "github.com/fittedapp/fitted/internal/app/store/groups"
	userstore "github.com/fittedapp/fitted/internal/app/store/users"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the groups feature.
// Mutations that touch back-references go through the lifecycle
// manager; plain reads and field edits use the stores directly.
type Handler struct {
	Lifecycle *lifecycle.Manager
	Groups    *groupstore.Store
	Users     *userstore.Store
	Files     storage.Store
	Log       *zap.Logger
}

func NewHandler(lc *lifecycle.Manager, groups *groupstore.Store, users *userstore.Store, files storage.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Lifecycle: lc,
		Groups:    groups,
		Users:     users,
		Files:     files,
		Log:       logger,
	}
}
