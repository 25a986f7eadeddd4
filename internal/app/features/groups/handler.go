// internal/app/features/groups/handler.go
package groups

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/membergate/membergate/internal/app/features/errors"
	groupstore "github.com/membergate/membergate/internal/app/store/groups"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the group management screens.
type Handler struct {
	DB      *mongo.Database
	Store   *groupstore.Store
	BaseURL string
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
}

// NewHandler constructs a groups Handler. The group store is shared
// with every other consumer so writes here invalidate the restriction
// cache the decision engine reads. baseURL is used to build the
// invitation links shown on the group detail page.
func NewHandler(db *mongo.Database, store *groupstore.Store, baseURL string, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Store:   store,
		BaseURL: baseURL,
		Log:     logger,
		ErrLog:  errLog,
	}
}

func contextWithTimeout(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), d)
}
