// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	membershipstore "github.com/membergate/membergate/internal/app/store/memberships"
	"go.uber.org/zap"
)

// ExpirationCheckJob creates the daily sweep that expires memberships
// whose expiration date has passed and revokes the matching group
// grants. A membership expiring today keeps access through the day; the
// sweep only touches records dated before today.
func ExpirationCheckJob(memberships *membershipstore.Store, logger *zap.Logger, spec string) Job {
	if spec == "" {
		spec = "@daily"
	}
	return Job{
		Name: "membership-expiration-check",
		Spec: spec,
		Run: func(ctx context.Context) error {
			count, err := memberships.ExpireDue(ctx, time.Now().UTC(), logger)
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Info("expired memberships", zap.Int64("count", count))
			}
			return nil
		},
	}
}
