// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	membershipstore "github.com/membergate/membergate/internal/app/store/memberships"
	"github.com/membergate/membergate/internal/app/system/tasks"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// scheduler holds the background job scheduler so Shutdown can stop it.
var scheduler *tasks.Scheduler

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// MemberGate starts the membership expiration sweep here so expired
// memberships lose access without any request traffic.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	scheduler = tasks.NewScheduler(logger)

	memberships := membershipstore.New(deps.MongoDatabase)
	if err := scheduler.Register(tasks.ExpirationCheckJob(memberships, logger, appCfg.SweepSchedule)); err != nil {
		return err
	}

	scheduler.Start()
	return nil
}
