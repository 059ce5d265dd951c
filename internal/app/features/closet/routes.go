// internal/app/features/closet/routes.go
package closet

import (
	"github.com/fittedapp/fitted/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes covers /closet. The group feed endpoint lives under /groups
// and is registered by the groups feature, which delegates to this
// handler.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/items", h.HandleUpload)
		pr.Get("/items", h.ServeMyCloset)
		pr.Get("/items/{id}", h.ServeItem)
		pr.Delete("/items/{id}", h.HandleDelete)
	})

	return r
}
