package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/db"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/pkg/dberrors"
)

// CommentRepository handles database operations for project comments
type CommentRepository struct {
	db *db.PostgresDB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(database *db.PostgresDB) *CommentRepository {
	return &CommentRepository{db: database}
}

// Create inserts a comment
func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) error {
	sql, args, err := psql.Insert("comments").
		Columns("id", "project_id", "user_id", "content", "created_at").
		Values(c.ID, c.ProjectID, c.UserID, c.Content, c.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.NewResourceNotFoundError("Project not found")
		}
		return fmt.Errorf("error inserting comment: %w", err)
	}
	return nil
}

// ListByProject lists the comments of a project with their authors, newest first
func (r *CommentRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Comment, error) {
	sql, args, err := psql.Select(
		"c.id", "c.project_id", "c.user_id", "c.content", "c.created_at",
		"u.name", "u.username", "u.profile_photo",
	).
		From("comments c").
		Join("users u ON u.id = c.user_id").
		Where(squirrel.Eq{"c.project_id": projectID}).
		OrderBy("c.created_at DESC", "c.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Querier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.UserID, &c.Content, &c.CreatedAt,
			&c.Author.Name, &c.Author.Username, &c.Author.ProfilePhoto); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		c.Author.ID = c.UserID
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
