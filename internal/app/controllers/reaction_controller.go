package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/app/services"
	"github.com/yigit/collabhub/internal/middleware"
)

// ReactionController handles likes and bookmarks
type ReactionController struct {
	projectService  services.ProjectService
	reactionService services.ReactionService
	feedService     services.FeedService
}

// NewReactionController creates a new ReactionController
func NewReactionController(projectService services.ProjectService, reactionService services.ReactionService, feedService services.FeedService) *ReactionController {
	return &ReactionController{
		projectService:  projectService,
		reactionService: reactionService,
		feedService:     feedService,
	}
}

// Like handles liking a project. Liking twice is not an error.
// @Summary Like a project
// @Tags reactions
// @Produce json
// @Security BearerAuth
// @Param username path string true "Owner username"
// @Param slug path string true "Project slug"
// @Success 200 {object} dto.StructuredResponse{data=dto.LikeResponse} "Liked"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /projects/{username}/{slug}/like [post]
func (c *ReactionController) Like(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	project, err := c.projectService.ResolveProject(ctx.Request.Context(), ctx.Param("username"), ctx.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.reactionService.Like(ctx.Request.Context(), userID, project.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, dto.OK(resp, "Project liked"))
}

// Unlike handles removing a like. Removing an absent like is not an error.
// @Summary Unlike a project
// @Tags reactions
// @Produce json
// @Security BearerAuth
// @Param username path string true "Owner username"
// @Param slug path string true "Project slug"
// @Success 200 {object} dto.StructuredResponse{data=dto.LikeResponse} "Unliked"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /projects/{username}/{slug}/like [delete]
func (c *ReactionController) Unlike(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	project, err := c.projectService.ResolveProject(ctx.Request.Context(), ctx.Param("username"), ctx.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.reactionService.Unlike(ctx.Request.Context(), userID, project.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, dto.OK(resp, "Project unliked"))
}

// ToggleBookmark handles adding or removing a bookmark
// @Summary Add or remove a bookmark
// @Tags reactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param request body dto.ToggleBookmarkRequest true "add or remove"
// @Success 200 {object} dto.StructuredResponse{data=dto.BookmarkResponse} "Bookmark state"
// @Failure 400 {object} dto.ErrorResponse "Invalid action or project ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/me/bookmarks/{projectId} [put]
func (c *ReactionController) ToggleBookmark(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	projectID, ok := uuidParam(ctx, "projectId", "project")
	if !ok {
		return
	}

	var req dto.ToggleBookmarkRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.reactionService.ToggleBookmark(ctx.Request.Context(), userID, projectID, req.Action)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, dto.OK(resp, "Bookmark updated"))
}

// ListBookmarks handles the caller's bookmarked projects
// @Summary List my bookmarks
// @Tags reactions
// @Produce json
// @Security BearerAuth
// @Param cursor query string false "Opaque cursor from a previous page"
// @Param limit query int false "Page size (default 10, max 100)"
// @Success 200 {object} dto.StructuredResponse{data=dto.ProjectPage} "Bookmarked projects"
// @Failure 400 {object} dto.ErrorResponse "Malformed cursor or limit"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/me/bookmarks [get]
func (c *ReactionController) ListBookmarks(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	page, err := c.feedService.ListBookmarks(ctx.Request.Context(), userID, ctx.Query("cursor"), ctx.Query("limit"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, dto.OK(page, "Bookmarks retrieved successfully"))
}
