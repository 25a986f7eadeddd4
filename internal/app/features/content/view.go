// internal/app/features/content/view.go
package content

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/membergate/membergate/internal/app/access"
	"github.com/membergate/membergate/internal/app/system/authz"
	"github.com/membergate/membergate/internal/app/system/timeouts"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type viewData struct {
	Title      string
	IsLoggedIn bool
	Role       string
	UserName   string
	Body       template.HTML
}

// View handles GET /content/{id}: it runs the access decision and
// either renders the item or redirects to the configured denial page
// with the reason in the query string.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, timeouts.Medium())
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "malformed content id", err, "That page does not exist.", "/")
		return
	}

	item, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading content", err, "A database error occurred.", "/")
		return
	}
	if item == nil {
		http.NotFound(w, r)
		return
	}

	viewer := access.Anonymous
	if _, _, userID, ok := authz.UserCtx(r); ok {
		viewer = access.Viewer{UserID: userID, Authenticated: true}
	}

	decision, err := h.Engine.Decide(ctx, viewer, item)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "access decision failed", err, "A database error occurred.", "/")
		return
	}
	if !decision.Allowed {
		h.redirectDenied(w, r, decision.Reason)
		return
	}

	role, name, _, signedIn := authz.UserCtx(r)
	templates.Render(w, r, "content_view", viewData{
		Title:      item.Title,
		IsLoggedIn: signedIn,
		Role:       role,
		UserName:   name,
		Body:       template.HTML(item.Body), // sanitized on write
	})
}

// redirectDenied sends the viewer to the configured denial destination
// with the decision reason attached as ?denied=<reason>.
func (h *Handler) redirectDenied(w http.ResponseWriter, r *http.Request, reason string) {
	ctx, cancel := contextWithTimeout(r, timeouts.Short())
	defer cancel()

	dest := "/"
	if settings, err := h.Settings.Get(ctx); err == nil && settings.AccessDeniedURL != "" {
		dest = settings.AccessDeniedURL
	}

	sep := "?"
	if strings.Contains(dest, "?") {
		sep = "&"
	}
	http.Redirect(w, r, dest+sep+"denied="+url.QueryEscape(reason), http.StatusSeeOther)
}
