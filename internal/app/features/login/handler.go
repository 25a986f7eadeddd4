// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/membergate/membergate/internal/app/features/errors"
	userstore "github.com/membergate/membergate/internal/app/store/users"
	"github.com/membergate/membergate/internal/app/system/auth"
	"github.com/membergate/membergate/internal/app/system/timeouts"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the sign-in flow. Authentication is trust-based: a
// known, active email signs straight in. Identity assurance comes from
// the invitation and approval steps that created the account.
type Handler struct {
	DB      *mongo.Database
	Users   *userstore.Store
	Session *auth.SessionManager
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
}

// NewHandler constructs a login Handler.
func NewHandler(db *mongo.Database, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Users:   userstore.New(db),
		Session: sm,
		Log:     logger,
		ErrLog:  errLog,
	}
}

type pageData struct {
	Title     string
	Email     string
	ReturnURL string
	Error     string
}

// ShowForm handles GET /login.
func (h *Handler) ShowForm(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "login", pageData{
		Title:     "Sign in",
		ReturnURL: r.URL.Query().Get("return"),
	})
}

// Submit handles POST /login.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	returnURL := safeReturnURL(r.FormValue("return"))

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			h.renderError(w, r, email, returnURL, "No account exists for that email address.")
			return
		}
		h.ErrLog.LogServerError(w, r, "database error loading user", err, "A database error occurred.", "/login")
		return
	}

	switch u.Status {
	case "pending":
		h.renderError(w, r, email, returnURL, "Your membership request is still awaiting approval.")
		return
	case "disabled":
		h.renderError(w, r, email, returnURL, "This account has been disabled.")
		return
	}

	if err := h.Session.SignIn(w, r, u.ID.Hex()); err != nil {
		h.ErrLog.LogServerError(w, r, "session save failed", err, "Sign-in failed, please try again.", "/login")
		return
	}

	h.Log.Info("user signed in",
		zap.String("user_id", u.ID.Hex()),
		zap.String("role", u.Role))
	http.Redirect(w, r, returnURL, http.StatusSeeOther)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, email, returnURL, msg string) {
	templates.Render(w, r, "login", pageData{
		Title:     "Sign in",
		Email:     email,
		ReturnURL: returnURL,
		Error:     msg,
	})
}

// safeReturnURL keeps redirects on-site. Anything absolute or
// protocol-relative falls back to the home page.
func safeReturnURL(s string) string {
	if s == "" || !strings.HasPrefix(s, "/") || strings.HasPrefix(s, "//") {
		return "/"
	}
	return s
}
