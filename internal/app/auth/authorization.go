package auth

import (
	"github.com/google/uuid"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/pkg/logger"
)

// AuthorizationService answers ownership questions about projects, join requests
// and notifications. It holds no state; callers load the resources first.
type AuthorizationService struct{}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService() *AuthorizationService {
	return &AuthorizationService{}
}

// IsProjectOwner checks if the user owns the project
func (s *AuthorizationService) IsProjectOwner(userID uuid.UUID, project *models.Project) bool {
	return project != nil && project.OwnerID == userID
}

// CheckProjectOwner returns a forbidden error unless the user owns the project
func (s *AuthorizationService) CheckProjectOwner(userID uuid.UUID, project *models.Project) error {
	if !s.IsProjectOwner(userID, project) {
		logger.Debug().Str("userID", userID.String()).Msg("Project ownership check failed")
		return apperrors.NewForbiddenError("Only the project owner can perform this action")
	}
	return nil
}

// CheckRequester returns a forbidden error unless the user created the join request
func (s *AuthorizationService) CheckRequester(userID uuid.UUID, jr *models.JoinRequest) error {
	if jr == nil || jr.RequesterID != userID {
		return apperrors.NewForbiddenError("Only the requester can perform this action")
	}
	return nil
}

// CheckRecipient returns a forbidden error unless the notification belongs to the user
func (s *AuthorizationService) CheckRecipient(userID uuid.UUID, n *models.Notification) error {
	if n == nil || n.RecipientID != userID {
		return apperrors.NewForbiddenError("Notification belongs to another user")
	}
	return nil
}
