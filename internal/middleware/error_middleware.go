package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/pkg/logger"
)

// apiErrorMapping binds a taxonomy error to its status, code and fallback message
type apiErrorMapping struct {
	target   error
	status   int
	code     dto.ErrorCode
	fallback string
}

var apiErrorMappings = []apiErrorMapping{
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
	{apperrors.ErrInvalidState, http.StatusBadRequest, dto.ErrorCodeInvalidState, "Operation not allowed in the current state"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "Resource already exists"},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
}

// HandleAPIError writes the error response for err. Taxonomy errors keep their
// human message; anything else is logged and reported as a generic 500.
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range apiErrorMappings {
		if !errors.Is(err, m.target) {
			continue
		}

		message := apperrors.Message(err)
		if message == "" {
			message = m.fallback
		}
		errorDetail := dto.NewErrorDetail(m.code, message)

		var customErr *apperrors.CustomError
		if errors.As(err, &customErr) && len(customErr.Details) > 0 {
			errorDetail = errorDetail.WithDetails(customErr.Details)
		}

		c.AbortWithStatusJSON(m.status, dto.NewErrorResponse(errorDetail))
		return
	}

	logger.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("Unhandled error")

	errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
		WithSeverity(dto.ErrorSeverityCritical)
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
}
