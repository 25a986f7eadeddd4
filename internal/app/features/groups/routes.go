// internal/app/features/groups/routes.go
package groups

import (
	"github.com/membergate/membergate/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Everything under /admin/groups requires the admin role
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole("admin"))

		// LIST
		pr.Get("/", h.ServeGroupsList)

		// CREATE
		pr.Get("/new", h.ServeNewGroup)
		pr.Post("/", h.HandleCreateGroup)

		// EDIT
		pr.Get("/{id}/edit", h.ServeEditGroup)
		pr.Post("/{id}/edit", h.HandleEditGroup)

		// DELETE
		pr.Post("/{id}/delete", h.HandleDeleteGroup)

		// VIEW
		pr.Get("/{id}/view", h.ServeGroupView)
	})

	return r
}
