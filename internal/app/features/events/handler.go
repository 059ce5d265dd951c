// internal/app/features/events/handler.go
package events

import (
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/fittedapp/fitted/internal/app/lifecycle"
	closetstore "github.com/fittedapp/fitted/internal/app/store/closet"
	eventstore "github.com/fittedapp/fitted/internal/app/store/events"
	groupstore "github.com/fittedapp/fitted/internal/app/store/groups"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the events feature.
type Handler struct {
	Lifecycle *lifecycle.Manager
	Events    *eventstore.Store
	Groups    *groupstore.Store
	Closet    *closetstore.Store
	Files     storage.Store
	Log       *zap.Logger
}

func NewHandler(lc *lifecycle.Manager, events *eventstore.Store, groups *groupstore.Store, closet *closetstore.Store, files storage.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Lifecycle: lc,
		Events:    events,
		Groups:    groups,
		Closet:    closet,
		Files:     files,
		Log:       logger,
	}
}
