// internal/app/features/members/handler.go
package members

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/membergate/membergate/internal/app/features/errors"
	"github.com/membergate/membergate/internal/app/registration"
	groupstore "github.com/membergate/membergate/internal/app/store/groups"
	membershipstore "github.com/membergate/membergate/internal/app/store/memberships"
	userstore "github.com/membergate/membergate/internal/app/store/users"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the admin member review screens.
type Handler struct {
	DB          *mongo.Database
	Users       *userstore.Store
	Groups      *groupstore.Store
	Memberships *membershipstore.Store
	Workflow    *registration.Workflow
	Log         *zap.Logger
	ErrLog      *uierrors.ErrorLogger
}

// NewHandler constructs a members Handler. The group store is the
// shared instance so reads here see cache invalidations from admin
// writes.
func NewHandler(db *mongo.Database, groups *groupstore.Store, wf *registration.Workflow, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Users:       userstore.New(db),
		Groups:      groups,
		Memberships: membershipstore.New(db),
		Workflow:    wf,
		Log:         logger,
		ErrLog:      errLog,
	}
}

func contextWithTimeout(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), d)
}
