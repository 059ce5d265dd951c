// internal/app/features/requests/handler.go
package requests

import (
	"github.com/fittedapp/fitted/internal/app/lifecycle"
	closetstore "github.com/fittedapp/fitted/internal/app/store/closet"
	requeststore "github.com/fittedapp/fitted/internal/app/store/requests"
	userstore "github.com/fittedapp/fitted/internal/app/store/users"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the requests feature.
// Every mutation goes through the lifecycle manager; the stores here
// serve the list and detail reads.
type Handler struct {
	Lifecycle *lifecycle.Manager
	Requests  *requeststore.Store
	Closet    *closetstore.Store
	Users     *userstore.Store
	Log       *zap.Logger
}

func NewHandler(lc *lifecycle.Manager, requests *requeststore.Store, closet *closetstore.Store, users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Lifecycle: lc,
		Requests:  requests,
		Closet:    closet,
		Users:     users,
		Log:       logger,
	}
}
