// internal/app/features/content/routes.go
package content

import (
	"github.com/membergate/membergate/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes serves the public content surface. The viewer route is open;
// the access engine inside the handler decides who sees what.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/{id}", h.View)

	return r
}

// AdminRoutes serves the content management screens, admin only.
func AdminRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole("admin"))

		// LIST
		pr.Get("/", h.List)

		// CREATE
		pr.Get("/new", h.ShowNew)
		pr.Post("/new", h.Create)

		// EDIT
		pr.Get("/{id}/edit", h.ShowEdit)
		pr.Post("/{id}", h.Update)

		// DELETE
		pr.Post("/{id}/delete", h.Delete)
	})

	return r
}
