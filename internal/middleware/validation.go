package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/collabhub/internal/app/models/dto"
)

// BindJSON binds and validates the request body into obj. On failure it writes the
// 400 response and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}

// BindQuery binds and validates query parameters into obj. On failure it writes the
// 400 response and returns false.
func BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}
