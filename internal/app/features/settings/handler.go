// internal/app/features/settings/handler.go
package settings

import (
	"context"
	"net/http"

	uierrors "github.com/membergate/membergate/internal/app/features/errors"
	"github.com/membergate/membergate/internal/app/store/sitesettings"
	"github.com/membergate/membergate/internal/app/system/authz"
	"github.com/membergate/membergate/internal/app/system/htmlsanitize"
	"github.com/membergate/membergate/internal/app/system/timeouts"
	"github.com/membergate/membergate/internal/domain/models"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the site settings editor.
type Handler struct {
	DB     *mongo.Database
	Store  *sitesettings.Store
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs a settings Handler.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Store:  sitesettings.New(db),
		Log:    logger,
		ErrLog: errLog,
	}
}

type pageData struct {
	Title      string
	IsLoggedIn bool
	Role       string
	UserName   string
	Settings   models.SiteSettings
	Saved      bool
}

// Show handles GET /admin/settings.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	st, err := h.Store.Get(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading settings", err, "A database error occurred.", "/")
		return
	}
	h.render(w, r, st, r.URL.Query().Get("saved") == "true")
}

// Save handles POST /admin/settings. The denial message accepts HTML
// but is sanitized before storage, so everything downstream can render
// it raw.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/admin/settings")
		return
	}

	deniedURL := r.FormValue("access_denied_url")
	message := htmlsanitize.Sanitize(r.FormValue("denial_message"))

	if err := h.Store.Update(ctx, deniedURL, message); err != nil {
		h.ErrLog.LogServerError(w, r, "database error saving settings", err, "A database error occurred.", "/admin/settings")
		return
	}
	http.Redirect(w, r, "/admin/settings?saved=true", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, st models.SiteSettings, saved bool) {
	role, name, _, signedIn := authz.UserCtx(r)
	templates.Render(w, r, "settings_edit", pageData{
		Title:      "Site Settings",
		IsLoggedIn: signedIn,
		Role:       role,
		UserName:   name,
		Settings:   st,
		Saved:      saved,
	})
}
