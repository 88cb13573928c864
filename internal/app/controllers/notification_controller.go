package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/app/services"
	"github.com/yigit/collabhub/internal/middleware"
)

// NotificationController handles the caller's notifications
type NotificationController struct {
	notificationService services.NotificationService
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService services.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// List handles the caller's notifications, newest first
// @Summary List my notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "Only unread notifications"
// @Success 200 {object} dto.StructuredResponse{data=[]models.Notification} "Notifications"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /notifications [get]
func (c *NotificationController) List(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var filter dto.NotificationFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}

	notifications, err := c.notificationService.ListNotifications(ctx.Request.Context(), userID, filter.UnreadOnly)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, dto.OK(notifications, "Notifications retrieved successfully"))
}

// MarkRead handles marking one notification as read
// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} dto.StructuredResponse{data=models.Notification} "Notification"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the recipient"
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /notifications/{id}/read [post]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	notificationID, ok := uuidParam(ctx, "id", "notification")
	if !ok {
		return
	}

	notification, err := c.notificationService.MarkRead(ctx.Request.Context(), userID, notificationID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, dto.OK(notification, "Notification marked as read"))
}
