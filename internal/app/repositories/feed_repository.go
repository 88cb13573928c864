package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/db"
	"github.com/yigit/collabhub/internal/pkg/helpers"
)

// FeedRepository reads enriched project views. Filtering, ordering, owner join and
// per-viewer flags all happen in one statement.
type FeedRepository struct {
	db *db.PostgresDB
}

// NewFeedRepository creates a new FeedRepository
func NewFeedRepository(database *db.PostgresDB) *FeedRepository {
	return &FeedRepository{db: database}
}

// BuildFeedQuery translates a feed query into SQL ordered by (created_at, id) descending.
// q.Limit rows are fetched; zero means no limit.
func BuildFeedQuery(q models.FeedQuery) squirrel.SelectBuilder {
	builder := psql.Select(qualified("p", projectColumns)...).
		Columns("u.name", "u.username", "u.profile_photo").
		Column("(SELECT COUNT(*) FROM project_likes pl WHERE pl.project_id = p.id) AS like_count").
		Column("(SELECT COUNT(*) FROM comments cm WHERE cm.project_id = p.id) AS comment_count")

	if q.ViewerID != nil {
		builder = builder.
			Column("EXISTS(SELECT 1 FROM project_likes vl WHERE vl.project_id = p.id AND vl.user_id = ?) AS liked_by_user", *q.ViewerID).
			Column("EXISTS(SELECT 1 FROM user_bookmarks vb WHERE vb.project_id = p.id AND vb.user_id = ?) AS bookmarked_by_user", *q.ViewerID)
	} else {
		builder = builder.Column("FALSE AS liked_by_user").Column("FALSE AS bookmarked_by_user")
	}

	builder = builder.From("projects p").Join("users u ON u.id = p.owner_id")

	if q.BeforeCreatedAt != nil {
		if q.BeforeID != nil {
			builder = builder.Where("(p.created_at, p.id) < (?, ?)", *q.BeforeCreatedAt, *q.BeforeID)
		} else {
			builder = builder.Where("p.created_at < ?", *q.BeforeCreatedAt)
		}
	}
	if len(q.TechStack) > 0 {
		builder = builder.Where("p.tech_stack && ?", q.TechStack)
	}
	if len(q.Domains) > 0 {
		builder = builder.Where("p.domain = ANY(?)", q.Domains)
	}
	if q.Search != "" {
		pattern := "%" + helpers.EscapeLike(q.Search) + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.Expr("p.title ILIKE ?", pattern),
			squirrel.Expr("p.description ILIKE ?", pattern),
		})
	}
	if q.ProjectID != nil {
		builder = builder.Where(squirrel.Eq{"p.id": *q.ProjectID})
	}
	if q.OwnerID != nil {
		builder = builder.Where(squirrel.Eq{"p.owner_id": *q.OwnerID})
	}
	if q.CollaboratorID != nil {
		builder = builder.Where("EXISTS(SELECT 1 FROM collaborations fc WHERE fc.project_id = p.id AND fc.collaborator_id = ?)", *q.CollaboratorID)
	}
	if q.BookmarkedBy != nil {
		builder = builder.Where("EXISTS(SELECT 1 FROM user_bookmarks fb WHERE fb.project_id = p.id AND fb.user_id = ?)", *q.BookmarkedBy)
	}

	builder = builder.OrderBy("p.created_at DESC", "p.id DESC")
	if q.Limit > 0 {
		builder = builder.Limit(uint64(q.Limit))
	}
	return builder
}

// ListProjects returns the project views selected by q, without collaborators
func (r *FeedRepository) ListProjects(ctx context.Context, q models.FeedQuery) ([]models.ProjectView, error) {
	sql, args, err := BuildFeedQuery(q).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Querier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing feed query: %w", err)
	}
	defer rows.Close()

	views := []models.ProjectView{}
	for rows.Next() {
		var v models.ProjectView
		targets := append(projectScanTargets(&v.Project),
			&v.Owner.Name, &v.Owner.Username, &v.Owner.ProfilePhoto,
			&v.LikeCount, &v.CommentCount, &v.LikedByUser, &v.BookmarkedByUser,
		)
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		v.Owner.ID = v.OwnerID
		views = append(views, v)
	}
	return views, rows.Err()
}
