// internal/app/features/content/handler.go
package content

import (
	"context"

	"github.com/membergate/membergate/internal/app/access"
	uierrors "github.com/membergate/membergate/internal/app/features/errors"
	contentstore "github.com/membergate/membergate/internal/app/store/contents"
	groupstore "github.com/membergate/membergate/internal/app/store/groups"
	membershipstore "github.com/membergate/membergate/internal/app/store/memberships"
	"github.com/membergate/membergate/internal/app/store/sitesettings"
	"github.com/membergate/membergate/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns all content handlers: the gated viewer, the denial page,
// and the admin management screens.
type Handler struct {
	DB       *mongo.Database
	Store    *contentstore.Store
	Groups   *groupstore.Store
	Settings *sitesettings.Store
	Engine   *access.Engine
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
}

// membershipSource adapts the membership store to the access engine.
type membershipSource struct {
	store *membershipstore.Store
}

func (s membershipSource) Membership(ctx context.Context, userID, groupID primitive.ObjectID) (*models.Membership, error) {
	return s.store.Get(ctx, userID, groupID)
}

func (s membershipSource) ConfirmedGroupIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return s.store.ConfirmedGroupIDs(ctx, userID)
}

// NewHandler constructs a content Handler. The group store must be the
// instance shared with the admin group screens: its restriction cache
// is invalidated per instance, so the decision engine has to read
// through the same one the writers go through.
func NewHandler(db *mongo.Database, groups *groupstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	memberships := membershipstore.New(db)
	return &Handler{
		DB:       db,
		Store:    contentstore.New(db),
		Groups:   groups,
		Settings: sitesettings.New(db),
		Engine:   access.NewEngine(groups, membershipSource{store: memberships}),
		Log:      logger,
		ErrLog:   errLog,
	}
}
