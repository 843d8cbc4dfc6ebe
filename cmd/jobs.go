package cmd

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"laundry/internal/jobs"
	"laundry/internal/pkg/metrics"
)

// NewJobManager builds the background jobs over the composition root.
func NewJobManager(cfg Config, root *CompositionRoot, recorder *metrics.Recorder, logger *zap.Logger) *jobs.JobManager {
	reconcile := jobs.NewPartnerLoadReconciliationJob(
		root.CreateReconcilePartnerLoadCommandHandler(),
		recorder,
		cfg.Jobs.ReconcileSchedule,
		logger,
	)
	return jobs.NewJobManager(reconcile)
}

// RunJobs starts the scheduled jobs with the application when they are enabled.
func RunJobs(lc fx.Lifecycle, cfg Config, manager *jobs.JobManager, logger *zap.Logger) {
	if !cfg.Jobs.Enabled {
		logger.Info("background jobs disabled")
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return manager.StartAll()
		},
		OnStop: func(context.Context) error {
			manager.StopAll()
			return nil
		},
	})
}
