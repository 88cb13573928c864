package dto

import (
	"github.com/google/uuid"
	"github.com/yigit/collabhub/internal/app/models"
)

// CreateJoinRequestRequest represents the body of a join request
type CreateJoinRequestRequest struct {
	Message       string `json:"message" binding:"max=1000" example:"I'd love to help with the API."`
	RoleRequested string `json:"roleRequested" binding:"max=100" example:"Backend Developer"`
}

// RespondJoinRequestRequest represents the owner's decision
type RespondJoinRequestRequest struct {
	Action models.ResponseAction `json:"action" binding:"required,oneof=accept reject" example:"accept"`
}

// JoinRequestFilter filters the incoming request listing
type JoinRequestFilter struct {
	Status models.JoinRequestStatus `form:"status" binding:"omitempty,oneof=pending approved rejected cancelled"`
}

// RespondJoinRequestResponse reports the outcome of a decision
type RespondJoinRequestResponse struct {
	RequestID     uuid.UUID                `json:"requestId"`
	Action        models.ResponseAction    `json:"action"`
	Status        models.JoinRequestStatus `json:"status"`
	Collaboration *models.Collaboration    `json:"collaboration,omitempty"`
}
