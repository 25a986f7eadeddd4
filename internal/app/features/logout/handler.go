// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/membergate/membergate/internal/app/system/auth"

	"go.uber.org/zap"
)

// Handler owns sign-out.
type Handler struct {
	Session *auth.SessionManager
	Log     *zap.Logger
}

// NewHandler constructs a logout Handler.
func NewHandler(sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{Session: sm, Log: logger}
}

// Serve clears the session and returns to the home page.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.SignOut(w, r); err != nil {
		h.Log.Warn("session clear failed", zap.Error(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
