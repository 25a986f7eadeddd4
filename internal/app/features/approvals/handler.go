// internal/app/features/approvals/handler.go
package approvals

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/membergate/membergate/internal/app/features/errors"
	"github.com/membergate/membergate/internal/app/registration"
	approvalstore "github.com/membergate/membergate/internal/app/store/approvals"
	"github.com/membergate/membergate/internal/app/system/timeouts"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the admin approval endpoint reached through the
// single-use links in the member review screen.
type Handler struct {
	DB       *mongo.Database
	Workflow *registration.Workflow
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
}

// NewHandler constructs an approvals Handler.
func NewHandler(db *mongo.Database, wf *registration.Workflow, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Workflow: wf,
		Log:      logger,
		ErrLog:   errLog,
	}
}

// Approve handles GET /admin/approve?user_id=...&token=...
//
// The route sits behind RequireRole("admin"), and the token is checked
// on top of that: it must match the user it was minted for, be
// unexpired, and never have been used. Any token failure is a hard
// stop, so a leaked or replayed link does nothing even in an admin's
// browser.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("user_id"))
	if err != nil {
		uierrors.RenderSecurityFailure(w, r, "This approval link is not valid.")
		return
	}
	token := r.URL.Query().Get("token")
	if token == "" {
		uierrors.RenderSecurityFailure(w, r, "This approval link is not valid.")
		return
	}

	if err := h.Workflow.Approvals.Verify(ctx, userID, token); err != nil {
		if errors.Is(err, approvalstore.ErrNotFound) {
			uierrors.RenderSecurityFailure(w, r, "This approval link has expired or was already used.")
			return
		}
		h.ErrLog.LogServerError(w, r, "approval token verify failed", err, "A database error occurred.", "/admin/members")
		return
	}

	approved, err := h.Workflow.Approve(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "approval failed", err, "A database error occurred.", "/admin/members")
		return
	}
	if !approved {
		h.Log.Info("approval was a no-op; request already handled",
			zap.String("user_id", userID.Hex()))
	}

	http.Redirect(w, r, "/admin/members?approved=true", http.StatusSeeOther)
}
