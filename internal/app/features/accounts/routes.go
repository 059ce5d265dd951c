// internal/app/features/accounts/routes.go
package accounts

import (
	"github.com/fittedapp/fitted/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/signup", h.HandleSignup)
	r.Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/profile", h.ServeProfile)
		pr.Patch("/profile", h.HandleUpdateProfile)
		pr.Post("/profile/picture", h.HandleUploadPicture)
	})

	return r
}
