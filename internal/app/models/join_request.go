package models

import (
	"time"

	"github.com/google/uuid"
)

// JoinRequestStatus is the lifecycle state of a join request
type JoinRequestStatus string

const (
	JoinRequestPending   JoinRequestStatus = "pending"
	JoinRequestApproved  JoinRequestStatus = "approved"
	JoinRequestRejected  JoinRequestStatus = "rejected"
	JoinRequestCancelled JoinRequestStatus = "cancelled"
)

// IsTerminal reports whether no further transition is allowed from s
func (s JoinRequestStatus) IsTerminal() bool {
	return s != JoinRequestPending
}

// Valid reports whether s is a known status
func (s JoinRequestStatus) Valid() bool {
	switch s {
	case JoinRequestPending, JoinRequestApproved, JoinRequestRejected, JoinRequestCancelled:
		return true
	}
	return false
}

// ResponseAction is the owner's decision on a pending request
type ResponseAction string

const (
	ActionAccept ResponseAction = "accept"
	ActionReject ResponseAction = "reject"
)

// Status returns the request status an action leads to
func (a ResponseAction) Status() JoinRequestStatus {
	if a == ActionAccept {
		return JoinRequestApproved
	}
	return JoinRequestRejected
}

// JoinRequest defines the join request model based on the 'join_requests' table
type JoinRequest struct {
	ID            uuid.UUID         `json:"id" db:"id"`
	ProjectID     uuid.UUID         `json:"projectId" db:"project_id"`
	RequesterID   uuid.UUID         `json:"requesterId" db:"requester_id"`
	Message       string            `json:"message" db:"message"`
	RoleRequested string            `json:"roleRequested" db:"role_requested" example:"Backend Developer"`
	Status        JoinRequestStatus `json:"status" db:"status" example:"pending"`
	ReviewedBy    *uuid.UUID        `json:"reviewedBy,omitempty" db:"reviewed_by"`
	ReviewedAt    *time.Time        `json:"reviewedAt,omitempty" db:"reviewed_at"`
	CreatedAt     time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time         `json:"updatedAt" db:"updated_at"`
}

// ProjectRef identifies a project the way clients address it
type ProjectRef struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	OwnerID       uuid.UUID `json:"ownerId"`
	OwnerUsername string    `json:"ownerUsername"`
}

// JoinRequestView is a join request with its project and requester
type JoinRequestView struct {
	JoinRequest
	Project   ProjectRef  `json:"project"`
	Requester UserSummary `json:"requester"`
}
