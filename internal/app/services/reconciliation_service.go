package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/pkg/metrics"
)

// ReconcileConfig bounds a reconciliation sweep
type ReconcileConfig struct {
	Workers   int
	BatchSize int
}

// ReconcileReport summarizes one sweep
type ReconcileReport struct {
	Examined int `json:"examined"`
	Repaired int `json:"repaired"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// ReconciliationService repairs approved join requests that have no collaboration
type ReconciliationService interface {
	Reconcile(ctx context.Context) (*ReconcileReport, error)
}

type reconciliationServiceImpl struct {
	tx            Transactor
	requests      JoinRequestStore
	collaborators CollaborationLedger
	cfg           ReconcileConfig
	logger        zerolog.Logger
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(tx Transactor, requests JoinRequestStore, collaborators CollaborationLedger, cfg ReconcileConfig, logger zerolog.Logger) ReconciliationService {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 100
	}
	return &reconciliationServiceImpl{
		tx:            tx,
		requests:      requests,
		collaborators: collaborators,
		cfg:           cfg,
		logger:        logger,
	}
}

// Reconcile examines one batch of approved requests lacking a collaboration and
// inserts the missing rows concurrently
func (s *reconciliationServiceImpl) Reconcile(ctx context.Context) (*ReconcileReport, error) {
	orphans, err := s.requests.ListApprovedWithoutCollaboration(ctx, s.cfg.BatchSize)
	if err != nil {
		return nil, err
	}

	report := &ReconcileReport{Examined: len(orphans)}
	if len(orphans) == 0 {
		return report, nil
	}

	pool, err := ants.NewPool(s.cfg.Workers, ants.WithPanicHandler(func(v any) {
		s.logger.Error().Interface("panic", v).Msg("Reconciliation worker panicked")
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create reconciliation pool: %w", err)
	}
	defer pool.Release()

	var (
		wg                        sync.WaitGroup
		repaired, skipped, failed atomic.Int64
	)

	for i := range orphans {
		view := orphans[i]
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			outcome := s.repair(ctx, &view)
			metrics.ReconciliationRepairs.WithLabelValues(outcome).Inc()
			switch outcome {
			case "repaired":
				repaired.Add(1)
			case "skipped":
				skipped.Add(1)
			default:
				failed.Add(1)
			}
		})
		if submitErr != nil {
			wg.Done()
			failed.Add(1)
			s.logger.Error().Err(submitErr).Str("requestID", view.ID.String()).Msg("Failed to submit reconciliation task")
		}
	}
	wg.Wait()

	report.Repaired = int(repaired.Load())
	report.Skipped = int(skipped.Load())
	report.Failed = int(failed.Load())
	return report, nil
}

// repair inserts the collaboration an approved request should have produced
func (s *reconciliationServiceImpl) repair(ctx context.Context, view *models.JoinRequestView) string {
	created := false
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.collaborators.FindActive(ctx, view.ProjectID, view.RequesterID)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}

		ts := now()
		if view.ReviewedAt != nil {
			ts = *view.ReviewedAt
		}
		requestID := view.ID
		collaboration := &models.Collaboration{
			ID:             uuid.New(),
			ProjectID:      view.ProjectID,
			OwnerID:        view.Project.OwnerID,
			CollaboratorID: view.RequesterID,
			Role:           models.RoleOrDefault(view.RoleRequested),
			RequestID:      &requestID,
			StartedAt:      ts,
			CreatedAt:      now(),
			UpdatedAt:      now(),
		}
		if err := s.collaborators.Create(ctx, collaboration); err != nil {
			return err
		}
		created = true
		return nil
	})

	switch {
	case err == nil && created:
		s.logger.Info().
			Str("requestID", view.ID.String()).
			Str("projectID", view.ProjectID.String()).
			Msg("Repaired missing collaboration")
		return "repaired"
	case err == nil, errors.Is(err, apperrors.ErrConflict):
		return "skipped"
	default:
		s.logger.Error().Err(err).Str("requestID", view.ID.String()).Msg("Failed to repair collaboration")
		return "failed"
	}
}
