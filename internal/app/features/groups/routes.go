// internal/app/features/groups/routes.go
package groups

import (
	"github.com/fittedapp/fitted/internal/app/features/closet"
	"github.com/fittedapp/fitted/internal/app/features/events"
	"github.com/fittedapp/fitted/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes covers the /groups subtree. Event creation/listing and the
// closet feed are group-scoped, so their routes live here and delegate
// to the events and closet handlers.
func Routes(h *Handler, eh *events.Handler, ch *closet.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/", h.HandleCreate)
		pr.Get("/owned", h.ServeOwned)
		pr.Get("/joined", h.ServeJoined)
		pr.Post("/join", h.HandleJoin)

		pr.Get("/{id}", h.ServeGroup)
		pr.Patch("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
		pr.Post("/{id}/image", h.HandleUploadImage)

		pr.Get("/{id}/members", h.ServeMembers)
		pr.Delete("/{id}/members/{uid}", h.HandleRemoveMember)

		pr.Post("/{id}/events", eh.HandleCreateForGroup)
		pr.Get("/{id}/events", eh.ServeListForGroup)

		pr.Get("/{id}/closet", ch.ServeGroupFeed)
	})

	return r
}
