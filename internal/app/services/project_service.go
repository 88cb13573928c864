package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/auth"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/pkg/helpers"
)

// ProjectService defines the interface for project operations
type ProjectService interface {
	CreateProject(ctx context.Context, ownerID uuid.UUID, req *dto.CreateProjectRequest) (*models.ProjectView, error)
	GetProject(ctx context.Context, viewerID *uuid.UUID, ownerUsername, slug string) (*models.ProjectView, error)
	UpdateProject(ctx context.Context, actorID uuid.UUID, ownerUsername, slug string, req *dto.UpdateProjectRequest) (*models.ProjectView, error)
	ListOwnedProjects(ctx context.Context, userID uuid.UUID) ([]models.ProjectView, error)
	ListContributedProjects(ctx context.Context, userID uuid.UUID) ([]models.ProjectView, error)
	ResolveProject(ctx context.Context, ownerUsername, slug string) (*models.Project, error)
}

type projectServiceImpl struct {
	tx            Transactor
	users         UserStore
	projects      ProjectStore
	collaborators CollaborationLedger
	feed          FeedStore
	authz         *auth.AuthorizationService
	logger        zerolog.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	tx Transactor,
	users UserStore,
	projects ProjectStore,
	collaborators CollaborationLedger,
	feed FeedStore,
	authz *auth.AuthorizationService,
	logger zerolog.Logger,
) ProjectService {
	return &projectServiceImpl{
		tx:            tx,
		users:         users,
		projects:      projects,
		collaborators: collaborators,
		feed:          feed,
		authz:         authz,
		logger:        logger,
	}
}

// CreateProject creates a project and the collaborations of its initial contributors
// in one transaction
func (s *projectServiceImpl) CreateProject(ctx context.Context, ownerID uuid.UUID, req *dto.CreateProjectRequest) (*models.ProjectView, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("Title is required", map[string]interface{}{"field": "title"})
	}

	status := req.Status
	if status == "" {
		status = models.ProjectStatusOngoing
	}

	contributors, err := s.resolveContributors(ctx, ownerID, req.Contributors)
	if err != nil {
		return nil, err
	}

	projectID := uuid.New()
	slug, err := s.assignSlug(ctx, ownerID, projectID, title)
	if err != nil {
		return nil, err
	}

	ts := now()
	project := &models.Project{
		ID:                     projectID,
		OwnerID:                ownerID,
		Title:                  title,
		Slug:                   slug,
		Description:            req.Description,
		Domain:                 strings.TrimSpace(req.Domain),
		TechStack:              cleanTechStack(req.TechStack),
		ProjectPhoto:           req.ProjectPhoto,
		GithubURL:              req.GithubURL,
		DeploymentURL:          req.DeploymentURL,
		DemoURL:                req.DemoURL,
		Status:                 status,
		LookingForContributors: req.LookingForContributors,
		CreatedAt:              ts,
		UpdatedAt:              ts,
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.projects.Create(ctx, project); err != nil {
			return err
		}
		for _, c := range contributors {
			collaboration := &models.Collaboration{
				ID:                  uuid.New(),
				ProjectID:           project.ID,
				OwnerID:             ownerID,
				CollaboratorID:      c.UserID,
				Role:                models.RoleOrDefault(strings.TrimSpace(c.Role)),
				ContributionSummary: c.ContributionSummary,
				StartedAt:           ts,
				CreatedAt:           ts,
				UpdatedAt:           ts,
			}
			if err := s.collaborators.Create(ctx, collaboration); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("projectID", project.ID.String()).
		Str("ownerID", ownerID.String()).
		Str("slug", project.Slug).
		Int("contributors", len(contributors)).
		Msg("Project created")

	return s.loadView(ctx, project.ID, &ownerID)
}

// maxSlugAttempts bounds the numbered candidates tried before falling back to an id suffix
const maxSlugAttempts = 20

// assignSlug picks the slug of projectID among its owner's projects. Reusing a title the
// owner already has is a Conflict; a different title whose slug is taken gets the next
// numbered candidate. The unique index still rejects a concurrent duplicate.
func (s *projectServiceImpl) assignSlug(ctx context.Context, ownerID, projectID uuid.UUID, title string) (string, error) {
	base := helpers.Slugify(title)
	for n := 1; n <= maxSlugAttempts; n++ {
		candidate := helpers.SlugCandidate(base, n)
		existing, err := s.projects.FindBySlug(ctx, ownerID, candidate)
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		if existing.ID == projectID {
			return candidate, nil
		}
		if strings.EqualFold(existing.Title, title) {
			return "", apperrors.NewConflictError("You already have a project with this title")
		}
	}
	return base + "-" + projectID.String()[:8], nil
}

// resolveContributors drops the owner and duplicate entries and checks that every
// contributor exists
func (s *projectServiceImpl) resolveContributors(ctx context.Context, ownerID uuid.UUID, inputs []dto.ContributorInput) ([]dto.ContributorInput, error) {
	seen := map[uuid.UUID]bool{ownerID: true}
	var contributors []dto.ContributorInput
	var ids []uuid.UUID
	for _, c := range inputs {
		if seen[c.UserID] {
			continue
		}
		seen[c.UserID] = true
		contributors = append(contributors, c)
		ids = append(ids, c.UserID)
	}

	if len(ids) == 0 {
		return nil, nil
	}

	found, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return nil, apperrors.NewResourceNotFoundError("Contributor not found: " + id.String())
		}
	}
	return contributors, nil
}

// ResolveProject finds a project by its owner's username and its slug
func (s *projectServiceImpl) ResolveProject(ctx context.Context, ownerUsername, slug string) (*models.Project, error) {
	owner, err := s.users.FindByUsername(ctx, ownerUsername)
	if err != nil {
		return nil, err
	}
	return s.projects.FindBySlug(ctx, owner.ID, slug)
}

// GetProject returns the enriched view of a project for a viewer
func (s *projectServiceImpl) GetProject(ctx context.Context, viewerID *uuid.UUID, ownerUsername, slug string) (*models.ProjectView, error) {
	project, err := s.ResolveProject(ctx, ownerUsername, slug)
	if err != nil {
		return nil, err
	}
	return s.loadView(ctx, project.ID, viewerID)
}

// UpdateProject applies a partial update. Only the owner may update; a title change
// recomputes the slug.
func (s *projectServiceImpl) UpdateProject(ctx context.Context, actorID uuid.UUID, ownerUsername, slug string, req *dto.UpdateProjectRequest) (*models.ProjectView, error) {
	project, err := s.ResolveProject(ctx, ownerUsername, slug)
	if err != nil {
		return nil, err
	}

	if err := s.authz.CheckProjectOwner(actorID, project); err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("Title cannot be empty", map[string]interface{}{"field": "title"})
		}
		newSlug, err := s.assignSlug(ctx, project.OwnerID, project.ID, title)
		if err != nil {
			return nil, err
		}
		project.Title = title
		project.Slug = newSlug
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Domain != nil {
		project.Domain = strings.TrimSpace(*req.Domain)
	}
	if req.TechStack != nil {
		project.TechStack = cleanTechStack(*req.TechStack)
	}
	if req.ProjectPhoto != nil {
		project.ProjectPhoto = *req.ProjectPhoto
	}
	if req.GithubURL != nil {
		project.GithubURL = *req.GithubURL
	}
	if req.DeploymentURL != nil {
		project.DeploymentURL = *req.DeploymentURL
	}
	if req.DemoURL != nil {
		project.DemoURL = *req.DemoURL
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.LookingForContributors != nil {
		project.LookingForContributors = *req.LookingForContributors
	}
	project.UpdatedAt = now()

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info().Str("projectID", project.ID.String()).Str("slug", project.Slug).Msg("Project updated")
	return s.loadView(ctx, project.ID, &actorID)
}

// ListOwnedProjects lists the projects a user owns, newest first
func (s *projectServiceImpl) ListOwnedProjects(ctx context.Context, userID uuid.UUID) ([]models.ProjectView, error) {
	return s.listViews(ctx, models.FeedQuery{ViewerID: &userID, OwnerID: &userID})
}

// ListContributedProjects lists the projects a user collaborates on, newest first
func (s *projectServiceImpl) ListContributedProjects(ctx context.Context, userID uuid.UUID) ([]models.ProjectView, error) {
	return s.listViews(ctx, models.FeedQuery{ViewerID: &userID, CollaboratorID: &userID})
}

func (s *projectServiceImpl) listViews(ctx context.Context, q models.FeedQuery) ([]models.ProjectView, error) {
	views, err := s.feed.ListProjects(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := attachCollaborators(ctx, s.collaborators, views); err != nil {
		return nil, err
	}
	if views == nil {
		views = []models.ProjectView{}
	}
	return views, nil
}

func (s *projectServiceImpl) loadView(ctx context.Context, projectID uuid.UUID, viewerID *uuid.UUID) (*models.ProjectView, error) {
	views, err := s.listViews(ctx, models.FeedQuery{ViewerID: viewerID, ProjectID: &projectID, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, apperrors.NewResourceNotFoundError("Project not found")
	}
	return &views[0], nil
}

// cleanTechStack trims entries and drops blanks and case-insensitive duplicates
func cleanTechStack(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
