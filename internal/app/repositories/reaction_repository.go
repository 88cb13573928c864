package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/yigit/collabhub/internal/db"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/pkg/dberrors"
)

// ReactionRepository stores likes and bookmarks. Every write is an idempotent
// set insert or delete.
type ReactionRepository struct {
	db *db.PostgresDB
}

// NewReactionRepository creates a new ReactionRepository
func NewReactionRepository(database *db.PostgresDB) *ReactionRepository {
	return &ReactionRepository{db: database}
}

func (r *ReactionRepository) exec(ctx context.Context, sql string, args ...interface{}) error {
	if _, err := r.db.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.NewResourceNotFoundError("Project not found")
		}
		return fmt.Errorf("error executing statement: %w", err)
	}
	return nil
}

// AddLike records that userID likes projectID
func (r *ReactionRepository) AddLike(ctx context.Context, projectID, userID uuid.UUID) error {
	return r.exec(ctx, `INSERT INTO project_likes (project_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, projectID, userID)
}

// RemoveLike removes the like of userID on projectID, if any
func (r *ReactionRepository) RemoveLike(ctx context.Context, projectID, userID uuid.UUID) error {
	return r.exec(ctx, `DELETE FROM project_likes WHERE project_id = $1 AND user_id = $2`, projectID, userID)
}

// CountLikes returns the number of likes of a project
func (r *ReactionRepository) CountLikes(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Querier(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM project_likes WHERE project_id = $1`, projectID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return count, nil
}

// AddBookmark adds projectID to the bookmarks of userID
func (r *ReactionRepository) AddBookmark(ctx context.Context, userID, projectID uuid.UUID) error {
	return r.exec(ctx, `INSERT INTO user_bookmarks (user_id, project_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID, projectID)
}

// RemoveBookmark removes projectID from the bookmarks of userID, if present
func (r *ReactionRepository) RemoveBookmark(ctx context.Context, userID, projectID uuid.UUID) error {
	return r.exec(ctx, `DELETE FROM user_bookmarks WHERE user_id = $1 AND project_id = $2`, userID, projectID)
}
