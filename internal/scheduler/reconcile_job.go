package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/services"
)

// ReconcileJob periodically repairs approved join requests that lack a collaboration
type ReconcileJob struct {
	service  services.ReconciliationService
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewReconcileJob creates the reconciliation job. Each run is bounded by the interval.
func NewReconcileJob(service services.ReconciliationService, interval time.Duration, logger zerolog.Logger) *ReconcileJob {
	return &ReconcileJob{
		service:  service,
		interval: interval,
		timeout:  interval,
		logger:   logger,
	}
}

// GetName returns the job name
func (j *ReconcileJob) GetName() string {
	return "reconcile_collaborations"
}

// GetSchedule returns the job schedule
func (j *ReconcileJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(j.interval)
}

// Execute runs one sweep
func (j *ReconcileJob) Execute() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	report, err := j.service.Reconcile(ctx)
	if err != nil {
		j.logger.Error().Err(err).Str("job", j.GetName()).Msg("Reconciliation sweep failed")
		return
	}
	if report.Examined == 0 {
		j.logger.Debug().Str("job", j.GetName()).Msg("Nothing to reconcile")
		return
	}

	j.logger.Info().
		Str("job", j.GetName()).
		Int("examined", report.Examined).
		Int("repaired", report.Repaired).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("Reconciliation sweep finished")
}
