// Package controllers handles HTTP request handling
package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/middleware"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
)

// respond writes a service result inside the standard envelope
func respond(ctx *gin.Context, r dto.Result) {
	ctx.JSON(r.StatusCode, r.Envelope())
}

// currentUser returns the authenticated user's id, writing a 401 when the
// route was reached without one
func currentUser(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewUnauthorizedError("Authentication required"))
		return uuid.Nil, false
	}
	return userID, true
}

// uuidParam parses the named path parameter, writing a 400 when it is not a UUID
func uuidParam(ctx *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewInvalidStateError("Invalid "+label+" ID format"))
		return uuid.Nil, false
	}
	return id, true
}
