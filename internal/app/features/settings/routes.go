// internal/app/features/settings/routes.go
package settings

import (
	"github.com/membergate/membergate/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole("admin"))

		pr.Get("/", h.Show)
		pr.Post("/", h.Save)
	})

	return r
}
