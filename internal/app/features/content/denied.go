// internal/app/features/content/denied.go
package content

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/membergate/membergate/internal/app/access"
	"github.com/membergate/membergate/internal/app/system/authz"
	"github.com/membergate/membergate/internal/app/system/timeouts"

	"github.com/dalemusser/waffle/pantry/templates"
)

type deniedData struct {
	Title      string
	IsLoggedIn bool
	Role       string
	UserName   string
	Message    template.HTML
	Reason     string
	ReasonText string
	ShowLogin  bool
}

// reasonText maps decision reasons to a short line shown above the
// site's configured denial message.
func reasonText(reason string) (text string, showLogin bool) {
	switch reason {
	case access.ReasonNotAuth:
		return "Please sign in to view this content.", true
	case access.ReasonDripNotUnlocked:
		return "This content has not been released to you yet. Check back soon.", false
	case access.ReasonNotMember:
		return "This content is reserved for members of a group you do not belong to.", false
	default:
		return "", false
	}
}

// Denied handles GET /denied, the default destination for rejected
// viewers. The reason arrives as ?denied=<reason>.
func (h *Handler) Denied(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, timeouts.Short())
	defer cancel()

	settings, err := h.Settings.Get(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading site settings", err, "A database error occurred.", "/")
		return
	}

	reason := r.URL.Query().Get("denied")
	text, showLogin := reasonText(reason)

	role, name, _, signedIn := authz.UserCtx(r)
	templates.Render(w, r, "content_denied", deniedData{
		Title:      "Members only",
		IsLoggedIn: signedIn,
		Role:       role,
		UserName:   name,
		Message:    template.HTML(settings.DenialMessage), // sanitized on write
		Reason:     reason,
		ReasonText: text,
		ShowLogin:  showLogin && !signedIn,
	})
}

func contextWithTimeout(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), d)
}
