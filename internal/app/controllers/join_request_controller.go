package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/app/services"
	"github.com/yigit/collabhub/internal/middleware"
)

// JoinRequestController handles the join request workflow
type JoinRequestController struct {
	joinRequestService services.JoinRequestService
	logger             zerolog.Logger
}

// NewJoinRequestController creates a new JoinRequestController
func NewJoinRequestController(joinRequestService services.JoinRequestService, logger zerolog.Logger) *JoinRequestController {
	return &JoinRequestController{
		joinRequestService: joinRequestService,
		logger:             logger,
	}
}

// RequestToJoin handles a request to contribute to a project
// @Summary Request to join a project
// @Description Creates a pending join request. The body is optional.
// @Tags join-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param username path string true "Owner username"
// @Param slug path string true "Project slug"
// @Param request body dto.CreateJoinRequestRequest false "Message and requested role"
// @Success 201 {object} dto.StructuredResponse{data=models.JoinRequest} "Request created"
// @Failure 400 {object} dto.ErrorResponse "Project is not accepting contributors"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Failure 409 {object} dto.ErrorResponse "Already a contributor or a request is pending"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /projects/{username}/{slug}/join-requests [post]
func (c *JoinRequestController) RequestToJoin(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateJoinRequestRequest
	if ctx.Request.ContentLength != 0 && !middleware.BindJSON(ctx, &req) {
		return
	}

	request, err := c.joinRequestService.RequestToJoin(ctx.Request.Context(), userID, ctx.Param("username"), ctx.Param("slug"), &req)
	if err != nil {
		c.logger.Debug().Err(err).Str("userID", userID.String()).Msg("Join request rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, dto.Created(request, "Join request sent successfully"))
}

// ListIncoming handles requests made to the caller's projects
// @Summary List incoming join requests
// @Tags join-requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(pending, approved, rejected, cancelled)
// @Success 200 {object} dto.StructuredResponse{data=[]models.JoinRequestView} "Requests"
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /join-requests/incoming [get]
func (c *JoinRequestController) ListIncoming(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var filter dto.JoinRequestFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}

	var status *models.JoinRequestStatus
	if filter.Status != "" {
		status = &filter.Status
	}

	requests, err := c.joinRequestService.ListIncomingRequests(ctx.Request.Context(), userID, status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, dto.OK(requests, "Join requests retrieved successfully"))
}

// ListMine handles requests the caller has made
// @Summary List my join requests
// @Tags join-requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=[]models.JoinRequestView} "Requests"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /join-requests/mine [get]
func (c *JoinRequestController) ListMine(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	requests, err := c.joinRequestService.ListMyRequests(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, dto.OK(requests, "Join requests retrieved successfully"))
}

// Respond handles the owner's decision on a pending request
// @Summary Accept or reject a join request
// @Description Accepting creates the collaboration in the same transaction as the status change
// @Tags join-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Join request ID"
// @Param request body dto.RespondJoinRequestRequest true "Decision"
// @Success 200 {object} dto.StructuredResponse{data=dto.RespondJoinRequestResponse} "Decision recorded"
// @Failure 400 {object} dto.ErrorResponse "Request already resolved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the project owner"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /join-requests/{id}/respond [post]
func (c *JoinRequestController) Respond(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	requestID, ok := uuidParam(ctx, "id", "join request")
	if !ok {
		return
	}

	var req dto.RespondJoinRequestRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.joinRequestService.RespondToRequest(ctx.Request.Context(), userID, requestID, req.Action)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	message := "Join request rejected"
	if result.Status == models.JoinRequestApproved {
		message = "Join request accepted"
	}
	respond(ctx, dto.OK(result, message))
}

// Cancel handles withdrawal of a pending request by its requester
// @Summary Cancel my join request
// @Tags join-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Join request ID"
// @Success 200 {object} dto.StructuredResponse{data=models.JoinRequest} "Request cancelled"
// @Failure 400 {object} dto.ErrorResponse "Request already resolved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the requester"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /join-requests/{id}/cancel [post]
func (c *JoinRequestController) Cancel(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	requestID, ok := uuidParam(ctx, "id", "join request")
	if !ok {
		return
	}

	request, err := c.joinRequestService.CancelRequest(ctx.Request.Context(), userID, requestID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, dto.OK(request, "Join request cancelled"))
}
