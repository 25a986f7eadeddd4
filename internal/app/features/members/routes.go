// internal/app/features/members/routes.go
package members

import (
	"github.com/membergate/membergate/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole("admin"))

		pr.Get("/", h.ServeMembersList)
		pr.Get("/{id}/view", h.ServeMemberView)
	})

	return r
}
