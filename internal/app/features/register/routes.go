// internal/app/features/register/routes.go
package register

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Routes serves the public registration form. No auth: visitors arrive
// here from invitation links.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ShowForm)
	r.Post("/", h.Submit)

	return r
}

func contextWithTimeout(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), d)
}
