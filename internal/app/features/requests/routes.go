// internal/app/features/requests/routes.go
package requests

import (
	"github.com/fittedapp/fitted/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/", h.HandleCreate)
		pr.Get("/outgoing", h.ServeOutgoing)
		pr.Get("/incoming", h.ServeIncoming)

		pr.Post("/{id}/approve", h.HandleApprove)
		pr.Post("/{id}/deny", h.HandleDeny)
		pr.Post("/{id}/seen", h.HandleMarkSeen)
		pr.Delete("/{id}", h.HandleCancel)
	})

	return r
}
