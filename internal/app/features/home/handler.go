// internal/app/features/home/handler.go
package home

import (
	"net/http"

	"github.com/membergate/membergate/internal/app/system/authz"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler owns the public landing page.
type Handler struct {
	Log *zap.Logger
}

// NewHandler constructs a home Handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

type pageData struct {
	Title      string
	IsLoggedIn bool
	Role       string
	UserName   string
}

// Serve handles GET /.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	role, name, _, signedIn := authz.UserCtx(r)
	templates.Render(w, r, "home", pageData{
		Title:      "Home",
		IsLoggedIn: signedIn,
		Role:       role,
		UserName:   name,
	})
}
