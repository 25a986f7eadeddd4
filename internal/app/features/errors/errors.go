// internal/app/features/errors/errors.go
package errors

import "net/http"

// Handler serves the standalone error routes the session middleware
// redirects to. No DB needed; the pages render from session state only.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Forbidden handles GET /forbidden, reached when a signed-in account
// lacks the role an admin screen requires.
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	RenderForbidden(w, r, "This area is limited to site administrators.", "/")
}

// Unauthorized handles GET /unauthorized.
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	RenderUnauthorized(w, r, "")
}
