package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/app/services"
	"github.com/yigit/collabhub/internal/middleware"
)

// CommentController handles project comments
type CommentController struct {
	projectService services.ProjectService
	commentService services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(projectService services.ProjectService, commentService services.CommentService) *CommentController {
	return &CommentController{
		projectService: projectService,
		commentService: commentService,
	}
}

// AddComment handles posting a comment on a project
// @Summary Comment on a project
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param username path string true "Owner username"
// @Param slug path string true "Project slug"
// @Param request body dto.CreateCommentRequest true "Comment"
// @Success 201 {object} dto.StructuredResponse{data=models.Comment} "Comment created"
// @Failure 400 {object} dto.ErrorResponse "Empty or oversized comment"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /projects/{username}/{slug}/comments [post]
func (c *CommentController) AddComment(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	project, err := c.projectService.ResolveProject(ctx.Request.Context(), ctx.Param("username"), ctx.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	comment, err := c.commentService.AddComment(ctx.Request.Context(), userID, project.ID, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, dto.Created(comment, "Comment added successfully"))
}

// ListComments handles a project's comments, oldest first
// @Summary List project comments
// @Tags comments
// @Produce json
// @Param username path string true "Owner username"
// @Param slug path string true "Project slug"
// @Success 200 {object} dto.StructuredResponse{data=[]models.Comment} "Comments"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /projects/{username}/{slug}/comments [get]
func (c *CommentController) ListComments(ctx *gin.Context) {
	project, err := c.projectService.ResolveProject(ctx.Request.Context(), ctx.Param("username"), ctx.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	comments, err := c.commentService.ListComments(ctx.Request.Context(), project.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, dto.OK(comments, "Comments retrieved successfully"))
}
