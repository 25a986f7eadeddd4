// internal/app/features/approvals/routes.go
package approvals

import (
	"github.com/membergate/membergate/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes serves the approval endpoint. Admin only; the single-use token
// is verified on top of the role check.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole("admin"))
		pr.Get("/", h.Approve)
	})

	return r
}
