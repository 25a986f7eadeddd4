// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	approvalstore "github.com/membergate/membergate/internal/app/store/approvals"
	groupstore "github.com/membergate/membergate/internal/app/store/groups"
	membershipstore "github.com/membergate/membergate/internal/app/store/memberships"
	userstore "github.com/membergate/membergate/internal/app/store/users"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// EnsureSchema creates the indexes the stores rely on: unique usernames
// and emails, unique group names, one membership per (user, group), and
// the TTL reaper for approval tokens.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	if err := userstore.New(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	if err := groupstore.New(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("groups indexes: %w", err)
	}
	if err := membershipstore.New(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("memberships indexes: %w", err)
	}
	if err := approvalstore.New(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("approval token indexes: %w", err)
	}

	logger.Info("database indexes ensured")
	return nil
}
