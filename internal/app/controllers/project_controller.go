package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/app/services"
	"github.com/yigit/collabhub/internal/middleware"
)

// ProjectController handles project and feed operations
type ProjectController struct {
	projectService services.ProjectService
	feedService    services.FeedService
	logger         zerolog.Logger
}

// NewProjectController creates a new ProjectController
func NewProjectController(projectService services.ProjectService, feedService services.FeedService, logger zerolog.Logger) *ProjectController {
	return &ProjectController{
		projectService: projectService,
		feedService:    feedService,
		logger:         logger,
	}
}

// GetFeed handles the paginated project feed
// @Summary Get the project feed
// @Description Returns projects newest first, enriched with owner, collaborators, like and comment counts and the viewer's like/bookmark flags. Filters combine with AND.
// @Tags projects
// @Produce json
// @Param cursor query string false "Opaque cursor from a previous page"
// @Param limit query int false "Page size (default 10, max 100)"
// @Param techStack query string false "Comma separated technologies, any match"
// @Param domain query string false "Comma separated domains, any match"
// @Param search query string false "Case-insensitive title search"
// @Success 200 {object} dto.StructuredResponse{data=dto.ProjectPage} "Feed page"
// @Failure 400 {object} dto.ErrorResponse "Malformed cursor or limit"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /projects/feed [get]
func (c *ProjectController) GetFeed(ctx *gin.Context) {
	var req dto.FeedRequest
	if !middleware.BindQuery(ctx, &req) {
		return
	}

	page, err := c.feedService.GetFeed(ctx.Request.Context(), middleware.GetOptionalUserID(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, dto.OK(page, "Feed retrieved successfully"))
}

// CreateProject handles project creation
// @Summary Create a project
// @Description Creates a project owned by the caller, optionally naming existing users as contributors
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProjectRequest true "Project"
// @Success 201 {object} dto.StructuredResponse{data=models.ProjectView} "Project created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Contributor not found"
// @Failure 409 {object} dto.ErrorResponse "Slug already used by this owner"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /projects [post]
func (c *ProjectController) CreateProject(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	project, err := c.projectService.CreateProject(ctx.Request.Context(), userID, &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("userID", userID.String()).Msg("Failed to create project")
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, dto.Created(project, "Project created successfully"))
}

// ListMine handles the caller's owned projects
// @Summary List my projects
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=[]models.ProjectView} "Owned projects"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /projects/mine [get]
func (c *ProjectController) ListMine(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	projects, err := c.projectService.ListOwnedProjects(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, dto.OK(projects, "Projects retrieved successfully"))
}

// ListContributed handles projects the caller collaborates on
// @Summary List projects I contribute to
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=[]models.ProjectView} "Contributed projects"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /projects/contributed [get]
func (c *ProjectController) ListContributed(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	projects, err := c.projectService.ListContributedProjects(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, dto.OK(projects, "Projects retrieved successfully"))
}

// GetProject handles the project detail page
// @Summary Get a project
// @Tags projects
// @Produce json
// @Param username path string true "Owner username"
// @Param slug path string true "Project slug"
// @Success 200 {object} dto.StructuredResponse{data=models.ProjectView} "Project"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /projects/{username}/{slug} [get]
func (c *ProjectController) GetProject(ctx *gin.Context) {
	project, err := c.projectService.GetProject(ctx.Request.Context(), middleware.GetOptionalUserID(ctx), ctx.Param("username"), ctx.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, dto.OK(project, "Project retrieved successfully"))
}

// UpdateProject handles a partial project update by its owner
// @Summary Update a project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param username path string true "Owner username"
// @Param slug path string true "Project slug"
// @Param request body dto.UpdateProjectRequest true "Fields to change"
// @Success 200 {object} dto.StructuredResponse{data=models.ProjectView} "Project updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Failure 409 {object} dto.ErrorResponse "Slug already used by this owner"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /projects/{username}/{slug} [patch]
func (c *ProjectController) UpdateProject(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	project, err := c.projectService.UpdateProject(ctx.Request.Context(), userID, ctx.Param("username"), ctx.Param("slug"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, dto.OK(project, "Project updated successfully"))
}
