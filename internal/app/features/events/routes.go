// internal/app/features/events/routes.go
package events

import (
	"github.com/fittedapp/fitted/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes covers the /events subtree. The group-scoped creation and
// listing endpoints live under /groups and are registered by the groups
// feature, which delegates to this handler.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/{id}", h.ServeEvent)
		pr.Post("/{id}/items/{itemID}", h.HandleStageItem)
		pr.Delete("/{id}/items/{itemID}", h.HandleUnstageItem)
	})

	return r
}
