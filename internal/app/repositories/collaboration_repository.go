package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/db"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/pkg/dberrors"
)

var collaborationColumns = []string{
	"id", "project_id", "owner_id", "collaborator_id", "role", "contribution_summary",
	"request_id", "started_at", "created_at", "updated_at",
}

// CollaborationRepository is the ledger of accepted contributor relationships
type CollaborationRepository struct {
	db *db.PostgresDB
}

// NewCollaborationRepository creates a new CollaborationRepository
func NewCollaborationRepository(database *db.PostgresDB) *CollaborationRepository {
	return &CollaborationRepository{db: database}
}

// Create inserts a collaboration. An existing row for the same (project, collaborator)
// yields a Conflict error; the unique index backs the check under concurrency.
func (r *CollaborationRepository) Create(ctx context.Context, c *models.Collaboration) error {
	existing, err := r.FindActive(ctx, c.ProjectID, c.CollaboratorID)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperrors.NewConflictError("User is already a collaborator on this project")
	}

	sql, args, err := psql.Insert("collaborations").
		Columns(collaborationColumns...).
		Values(c.ID, c.ProjectID, c.OwnerID, c.CollaboratorID, c.Role, c.ContributionSummary,
			c.RequestID, c.StartedAt, c.CreatedAt, c.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "uq_collaborations_project_collaborator") {
			return apperrors.NewConflictError("User is already a collaborator on this project")
		}
		if dberrors.IsForeignKeyError(err) {
			return apperrors.NewResourceNotFoundError("Project or user not found")
		}
		return fmt.Errorf("error inserting collaboration: %w", err)
	}
	return nil
}

// FindActive returns the collaboration of a user on a project, or nil when there is none
func (r *CollaborationRepository) FindActive(ctx context.Context, projectID, collaboratorID uuid.UUID) (*models.Collaboration, error) {
	sql, args, err := psql.Select(collaborationColumns...).
		From("collaborations").
		Where(squirrel.Eq{"project_id": projectID, "collaborator_id": collaboratorID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var c models.Collaboration
	err = r.db.Querier(ctx).QueryRow(ctx, sql, args...).Scan(
		&c.ID, &c.ProjectID, &c.OwnerID, &c.CollaboratorID, &c.Role, &c.ContributionSummary,
		&c.RequestID, &c.StartedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &c, nil
}

// BuildListCollaboratorsQuery selects the collaborators of several projects in insertion order
func BuildListCollaboratorsQuery(projectIDs []uuid.UUID) squirrel.SelectBuilder {
	return psql.Select(
		"c.project_id", "u.id", "u.name", "u.username", "u.profile_photo", "c.role", "c.contribution_summary",
	).
		From("collaborations c").
		Join("users u ON u.id = c.collaborator_id").
		Where(squirrel.Eq{"c.project_id": projectIDs}).
		OrderBy("c.created_at ASC", "c.id ASC")
}

// ListCollaborators maps each project id to its collaborators, in one query
func (r *CollaborationRepository) ListCollaborators(ctx context.Context, projectIDs []uuid.UUID) (map[uuid.UUID][]models.CollaboratorSummary, error) {
	result := make(map[uuid.UUID][]models.CollaboratorSummary, len(projectIDs))
	if len(projectIDs) == 0 {
		return result, nil
	}

	sql, args, err := BuildListCollaboratorsQuery(projectIDs).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Querier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var projectID uuid.UUID
		var s models.CollaboratorSummary
		if err := rows.Scan(&projectID, &s.ID, &s.Name, &s.Username, &s.ProfilePhoto, &s.Role, &s.ContributionSummary); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		result[projectID] = append(result[projectID], s)
	}
	return result, rows.Err()
}
