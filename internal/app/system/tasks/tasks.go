// internal/app/system/tasks/tasks.go

// Package tasks runs the app's recurring background work on cron
// schedules. Jobs get a bounded context and a per-run ID so log lines
// from one run can be correlated.
package tasks

import (
	"context"
	"time"

	"github.com/membergate/membergate/internal/app/system/timeouts"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a named unit of recurring work. Spec is a standard cron
// expression or a descriptor like "@daily".
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

// Scheduler owns the cron runner for all registered jobs.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{cron: cron.New(), log: logger}
}

// Register adds a job to the schedule. The scheduler must not have been
// started yet.
func (s *Scheduler) Register(job Job) error {
	_, err := s.cron.AddFunc(job.Spec, func() {
		runID := uuid.NewString()
		log := s.log.With(
			zap.String("job", job.Name),
			zap.String("run_id", runID))

		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Long())
		defer cancel()

		start := time.Now()
		if err := job.Run(ctx); err != nil {
			log.Error("job failed",
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err))
			return
		}
		log.Info("job completed", zap.Duration("elapsed", time.Since(start)))
	})
	if err != nil {
		return err
	}
	s.log.Info("job registered",
		zap.String("job", job.Name),
		zap.String("spec", job.Spec))
	return nil
}

// Start begins running registered jobs in the background.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts scheduling and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
