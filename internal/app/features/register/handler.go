// internal/app/features/register/handler.go
package register

import (
	"net/http"
	"strings"

	uierrors "github.com/membergate/membergate/internal/app/features/errors"
	"github.com/membergate/membergate/internal/app/registration"
	"github.com/membergate/membergate/internal/app/system/timeouts"
	"github.com/membergate/membergate/internal/domain/models"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the public registration form reached through group
// invitation links.
type Handler struct {
	DB       *mongo.Database
	Workflow *registration.Workflow
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
}

// NewHandler constructs a register Handler.
func NewHandler(db *mongo.Database, wf *registration.Workflow, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Workflow: wf,
		Log:      logger,
		ErrLog:   errLog,
	}
}

type formData struct {
	Title      string
	IsLoggedIn bool
	Role       string
	UserName   string
	Group      models.Group
	Username   string
	Email      string
	Error      string
}

// errorMessages maps validation codes to the text shown on the form.
// Exactly one message is shown per failed submission.
var errorMessages = map[string]string{
	registration.CodeEmptyFields:    "Please fill in all required fields.",
	registration.CodeUsernameExists: "That username is already taken.",
	registration.CodeEmailExists:    "That email address is already registered.",
	registration.CodeInvalidEmail:   "Please enter a valid email address.",
	registration.CodeInvalidGroup:   "Invalid or expired invitation link.",
}

// ShowForm handles GET /register?group_id=...
//
// A missing or unknown group is a hard stop: the form never renders
// without a valid invitation, so there is nothing to submit against a
// forged link.
func (h *Handler) ShowForm(w http.ResponseWriter, r *http.Request) {
	group, ok := h.invitedGroup(w, r, r.URL.Query().Get("group_id"))
	if !ok {
		return
	}
	h.renderForm(w, r, group, "", "", "")
}

// Submit handles POST /register.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, timeouts.Medium())
	defer cancel()

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/")
		return
	}

	groupHex := r.FormValue("group_id")
	group, ok := h.invitedGroup(w, r, groupHex)
	if !ok {
		return
	}

	in := registration.SubmitInput{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		GroupID:  groupHex,
	}
	_, verr, err := h.Workflow.Submit(ctx, in)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "registration submit failed", err, "A database error occurred.", r.URL.String())
		return
	}
	if verr != nil {
		if verr.Code == registration.CodeInvalidGroup {
			uierrors.RenderSecurityFailure(w, r, "Invalid or expired invitation link.")
			return
		}
		h.renderForm(w, r, group, in.Username, in.Email, errorMessages[verr.Code])
		return
	}

	templates.Render(w, r, "register_success", formData{
		Title: "Registration received",
		Group: group,
	})
}

// invitedGroup resolves and checks the invitation's group ID, rendering
// the security failure page when the link is not valid.
func (h *Handler) invitedGroup(w http.ResponseWriter, r *http.Request, groupHex string) (models.Group, bool) {
	ctx, cancel := contextWithTimeout(r, timeouts.Short())
	defer cancel()

	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(groupHex))
	if err != nil {
		uierrors.RenderSecurityFailure(w, r, "Invalid or expired invitation link.")
		return models.Group{}, false
	}
	group, err := h.Workflow.Groups.GetByID(ctx, id)
	if err != nil {
		uierrors.RenderSecurityFailure(w, r, "Invalid or expired invitation link.")
		return models.Group{}, false
	}
	return group, true
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, group models.Group, username, email, formErr string) {
	templates.Render(w, r, "register_form", formData{
		Title:    "Join " + group.Name,
		Group:    group,
		Username: username,
		Email:    email,
		Error:    formErr,
	})
}
