package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/db"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/pkg/dberrors"
)

var projectColumns = []string{
	"id", "owner_id", "title", "slug", "description", "domain", "tech_stack",
	"project_photo", "github_url", "deployment_url", "demo_url", "status",
	"looking_for_contributors", "created_at", "updated_at",
}

// qualified prefixes every column with a table alias
func qualified(alias string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}

// ProjectRepository handles database operations for projects
type ProjectRepository struct {
	db *db.PostgresDB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(database *db.PostgresDB) *ProjectRepository {
	return &ProjectRepository{db: database}
}

func projectScanTargets(p *models.Project) []interface{} {
	return []interface{}{
		&p.ID, &p.OwnerID, &p.Title, &p.Slug, &p.Description, &p.Domain, &p.TechStack,
		&p.ProjectPhoto, &p.GithubURL, &p.DeploymentURL, &p.DemoURL, &p.Status,
		&p.LookingForContributors, &p.CreatedAt, &p.UpdatedAt,
	}
}

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	if err := row.Scan(projectScanTargets(&p)...); err != nil {
		return nil, err
	}
	return &p, nil
}

func slugConflict(err error) error {
	if dberrors.IsDuplicateConstraintError(err, "uq_projects_owner_slug") {
		return apperrors.NewConflictError("You already have a project with this title")
	}
	return nil
}

// Create inserts a new project. A slug already used by the same owner yields a Conflict error.
func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) error {
	if p.TechStack == nil {
		p.TechStack = []string{}
	}

	sql, args, err := psql.Insert("projects").
		Columns(projectColumns...).
		Values(p.ID, p.OwnerID, p.Title, p.Slug, p.Description, p.Domain, p.TechStack,
			p.ProjectPhoto, p.GithubURL, p.DeploymentURL, p.DemoURL, p.Status,
			p.LookingForContributors, p.CreatedAt, p.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		if conflict := slugConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("error inserting project: %w", err)
	}
	return nil
}

// Update persists the mutable fields of a project. The owner never changes.
func (r *ProjectRepository) Update(ctx context.Context, p *models.Project) error {
	if p.TechStack == nil {
		p.TechStack = []string{}
	}

	sql, args, err := psql.Update("projects").
		SetMap(map[string]interface{}{
			"title":                    p.Title,
			"slug":                     p.Slug,
			"description":              p.Description,
			"domain":                   p.Domain,
			"tech_stack":               p.TechStack,
			"project_photo":            p.ProjectPhoto,
			"github_url":               p.GithubURL,
			"deployment_url":           p.DeploymentURL,
			"demo_url":                 p.DemoURL,
			"status":                   p.Status,
			"looking_for_contributors": p.LookingForContributors,
			"updated_at":               p.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if conflict := slugConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("error updating project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("Project not found")
	}
	return nil
}

// FindByID retrieves a project by ID
func (r *ProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	sql, args, err := psql.Select(projectColumns...).From("projects").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	project, err := scanProject(r.db.Querier(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err, "Project not found")
	}
	return project, nil
}

// FindBySlug retrieves an owner's project by slug, ignoring case
func (r *ProjectRepository) FindBySlug(ctx context.Context, ownerID uuid.UUID, slug string) (*models.Project, error) {
	sql, args, err := psql.Select(projectColumns...).
		From("projects").
		Where(squirrel.Eq{"owner_id": ownerID}).
		Where("lower(slug) = ?", strings.ToLower(slug)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	project, err := scanProject(r.db.Querier(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err, "Project not found")
	}
	return project, nil
}

// Exists reports whether a project with the given id exists
func (r *ProjectRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.Querier(ctx).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM projects WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error executing query: %w", err)
	}
	return exists, nil
}
