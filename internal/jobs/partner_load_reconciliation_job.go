package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/ports"
)

// DefaultReconcileSchedule runs the reconciliation at the top of every minute.
const DefaultReconcileSchedule = "0 * * * * *"

const reconcileTimeout = 30 * time.Second

type reconcileHandler interface {
	Handle(ctx context.Context, cmd commands.ReconcilePartnerLoadCommand) ([]ports.LoadCorrection, error)
}

type loadRecorder interface {
	LoadCorrected(n int)
}

// PartnerLoadReconciliationJob periodically recomputes each partner's load from its open
// orders. A run that is still going when the next one is due is skipped.
type PartnerLoadReconciliationJob struct {
	handler  reconcileHandler
	metrics  loadRecorder
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
}

// NewPartnerLoadReconciliationJob creates the job. schedule is a six-field cron
// expression; an empty one falls back to DefaultReconcileSchedule.
func NewPartnerLoadReconciliationJob(
	handler reconcileHandler,
	metrics loadRecorder,
	schedule string,
	logger *zap.Logger,
) *PartnerLoadReconciliationJob {
	if schedule == "" {
		schedule = DefaultReconcileSchedule
	}
	logger = logger.Named("partner_load_reconciliation_job")
	cronLog := cronLogger{logger: logger.Sugar()}

	return &PartnerLoadReconciliationJob{
		handler:  handler,
		metrics:  metrics,
		schedule: schedule,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		logger: logger,
	}
}

// Start schedules the job.
func (j *PartnerLoadReconciliationJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
		defer cancel()
		j.RunOnce(ctx)
	}); err != nil {
		return fmt.Errorf("schedule %q: %w", j.schedule, err)
	}

	j.cron.Start()
	j.logger.Info("partner load reconciliation job started", zap.String("schedule", j.schedule))
	return nil
}

// RunOnce performs a single reconciliation and reports how many partners were repaired.
func (j *PartnerLoadReconciliationJob) RunOnce(ctx context.Context) int {
	corrections, err := j.handler.Handle(ctx, commands.NewReconcilePartnerLoadCommand())
	if err != nil {
		j.logger.Error("partner load reconciliation failed", zap.Error(err))
		return 0
	}

	if len(corrections) > 0 {
		j.metrics.LoadCorrected(len(corrections))
		j.logger.Info("partner load reconciled", zap.Int("corrected", len(corrections)))
	}
	return len(corrections)
}

// Stop unschedules the job and waits for a running reconciliation to finish.
func (j *PartnerLoadReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("partner load reconciliation job stopped")
}

// cronLogger routes cron's own messages to zap.
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
