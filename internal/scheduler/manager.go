// Package scheduler runs background maintenance jobs
package scheduler

import (
	"fmt"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// Job is a unit of periodic work
type Job interface {
	GetName() string
	GetSchedule() gocron.JobDefinition
	Execute()
}

// Manager owns the scheduler and its jobs
type Manager struct {
	scheduler gocron.Scheduler
	logger    zerolog.Logger
}

// NewManager creates a new task manager
func NewManager(logger zerolog.Logger) (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Manager{
		scheduler: s,
		logger:    logger,
	}, nil
}

// Register adds job to the scheduler. A run that is still in progress when the
// next one is due causes the next one to be skipped.
func (m *Manager) Register(job Job) error {
	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to register job %s: %w", job.GetName(), err)
	}

	m.logger.Info().Str("job", job.GetName()).Msg("Job registered")
	return nil
}

// Start starts the scheduler
func (m *Manager) Start() {
	m.scheduler.Start()
	m.logger.Info().Int("jobs", len(m.scheduler.Jobs())).Msg("Task manager started")
}

// Stop stops the scheduler, waiting for running jobs
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		m.logger.Error().Err(err).Msg("Failed to shutdown scheduler")
		return
	}
	m.logger.Info().Msg("Task manager stopped")
}
