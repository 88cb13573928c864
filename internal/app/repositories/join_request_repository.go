package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/db"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/pkg/dberrors"
)

var joinRequestColumns = []string{
	"id", "project_id", "requester_id", "message", "role_requested", "status",
	"reviewed_by", "reviewed_at", "created_at", "updated_at",
}

// JoinRequestRepository handles database operations for join requests
type JoinRequestRepository struct {
	db *db.PostgresDB
}

// NewJoinRequestRepository creates a new JoinRequestRepository
func NewJoinRequestRepository(database *db.PostgresDB) *JoinRequestRepository {
	return &JoinRequestRepository{db: database}
}

func joinRequestScanTargets(jr *models.JoinRequest) []interface{} {
	return []interface{}{
		&jr.ID, &jr.ProjectID, &jr.RequesterID, &jr.Message, &jr.RoleRequested, &jr.Status,
		&jr.ReviewedBy, &jr.ReviewedAt, &jr.CreatedAt, &jr.UpdatedAt,
	}
}

// Create inserts a pending request. A second pending request for the same
// (project, requester) violates uq_join_requests_pending and yields a Conflict error.
func (r *JoinRequestRepository) Create(ctx context.Context, jr *models.JoinRequest) error {
	sql, args, err := psql.Insert("join_requests").
		Columns(joinRequestColumns...).
		Values(jr.ID, jr.ProjectID, jr.RequesterID, jr.Message, jr.RoleRequested, jr.Status,
			jr.ReviewedBy, jr.ReviewedAt, jr.CreatedAt, jr.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "uq_join_requests_pending") {
			return apperrors.NewConflictError("You already have a pending request for this project")
		}
		return fmt.Errorf("error inserting join request: %w", err)
	}
	return nil
}

func (r *JoinRequestRepository) findOne(ctx context.Context, builder squirrel.SelectBuilder) (*models.JoinRequest, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var jr models.JoinRequest
	if err := r.db.Querier(ctx).QueryRow(ctx, sql, args...).Scan(joinRequestScanTargets(&jr)...); err != nil {
		return nil, err
	}
	return &jr, nil
}

// FindByID retrieves a join request by ID
func (r *JoinRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.JoinRequest, error) {
	jr, err := r.findOne(ctx, psql.Select(joinRequestColumns...).From("join_requests").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return nil, notFound(err, "Join request not found")
	}
	return jr, nil
}

// FindByIDForUpdate retrieves a join request and locks its row until the surrounding
// transaction ends.
func (r *JoinRequestRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.JoinRequest, error) {
	jr, err := r.findOne(ctx, psql.Select(joinRequestColumns...).
		From("join_requests").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE"))
	if err != nil {
		return nil, notFound(err, "Join request not found")
	}
	return jr, nil
}

// FindPending returns the pending request of a requester on a project, or nil
func (r *JoinRequestRepository) FindPending(ctx context.Context, projectID, requesterID uuid.UUID) (*models.JoinRequest, error) {
	jr, err := r.findOne(ctx, psql.Select(joinRequestColumns...).
		From("join_requests").
		Where(squirrel.Eq{"project_id": projectID, "requester_id": requesterID, "status": models.JoinRequestPending}))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return jr, nil
}

// UpdateStatus moves a request from one status to another only if it is still in the
// expected status. It reports whether the transition happened.
func (r *JoinRequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.JoinRequestStatus, reviewedBy *uuid.UUID, at time.Time) (bool, error) {
	update := psql.Update("join_requests").
		Set("status", to).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "status": from})
	if reviewedBy != nil {
		update = update.Set("reviewed_by", *reviewedBy).Set("reviewed_at", at)
	}

	sql, args, err := update.ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("error updating join request: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func joinRequestViewQuery() squirrel.SelectBuilder {
	return psql.Select(qualified("jr", joinRequestColumns)...).
		Columns("p.title", "p.slug", "p.owner_id", "o.username").
		Columns("u.id", "u.name", "u.username", "u.profile_photo").
		From("join_requests jr").
		Join("projects p ON p.id = jr.project_id").
		Join("users o ON o.id = p.owner_id").
		Join("users u ON u.id = jr.requester_id")
}

func (r *JoinRequestRepository) listViews(ctx context.Context, builder squirrel.SelectBuilder) ([]models.JoinRequestView, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Querier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	views := []models.JoinRequestView{}
	for rows.Next() {
		var v models.JoinRequestView
		targets := append(joinRequestScanTargets(&v.JoinRequest),
			&v.Project.Title, &v.Project.Slug, &v.Project.OwnerID, &v.Project.OwnerUsername,
			&v.Requester.ID, &v.Requester.Name, &v.Requester.Username, &v.Requester.ProfilePhoto,
		)
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		v.Project.ID = v.ProjectID
		views = append(views, v)
	}
	return views, rows.Err()
}

// ListForOwner lists requests on the projects of an owner, newest first,
// optionally restricted to one status
func (r *JoinRequestRepository) ListForOwner(ctx context.Context, ownerID uuid.UUID, status *models.JoinRequestStatus) ([]models.JoinRequestView, error) {
	builder := joinRequestViewQuery().
		Where(squirrel.Eq{"p.owner_id": ownerID}).
		OrderBy("jr.created_at DESC", "jr.id DESC")
	if status != nil {
		builder = builder.Where(squirrel.Eq{"jr.status": *status})
	}
	return r.listViews(ctx, builder)
}

// ListForRequester lists the requests a user has made, newest first
func (r *JoinRequestRepository) ListForRequester(ctx context.Context, requesterID uuid.UUID) ([]models.JoinRequestView, error) {
	return r.listViews(ctx, joinRequestViewQuery().
		Where(squirrel.Eq{"jr.requester_id": requesterID}).
		OrderBy("jr.created_at DESC", "jr.id DESC"))
}

// BuildApprovedWithoutCollaborationQuery selects approved requests that have no
// matching collaboration row, oldest first
func BuildApprovedWithoutCollaborationQuery(limit int) squirrel.SelectBuilder {
	return joinRequestViewQuery().
		LeftJoin("collaborations c ON c.project_id = jr.project_id AND c.collaborator_id = jr.requester_id").
		Where(squirrel.Eq{"jr.status": models.JoinRequestApproved}).
		Where("c.id IS NULL").
		OrderBy("jr.updated_at ASC", "jr.id ASC").
		Limit(uint64(limit))
}

// ListApprovedWithoutCollaboration finds approvals whose collaboration was never written
func (r *JoinRequestRepository) ListApprovedWithoutCollaboration(ctx context.Context, limit int) ([]models.JoinRequestView, error) {
	return r.listViews(ctx, BuildApprovedWithoutCollaborationQuery(limit))
}
