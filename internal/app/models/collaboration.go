package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCollaboratorRole is used when no role was requested or given
const DefaultCollaboratorRole = "Contributor"

// Collaboration defines the durable membership record based on the 'collaborations' table
type Collaboration struct {
	ID                  uuid.UUID  `json:"id" db:"id"`
	ProjectID           uuid.UUID  `json:"projectId" db:"project_id"`
	OwnerID             uuid.UUID  `json:"ownerId" db:"owner_id"`
	CollaboratorID      uuid.UUID  `json:"collaboratorId" db:"collaborator_id"`
	Role                string     `json:"role" db:"role" example:"Contributor"`
	ContributionSummary string     `json:"contributionSummary" db:"contribution_summary"`
	RequestID           *uuid.UUID `json:"requestId,omitempty" db:"request_id"`
	StartedAt           time.Time  `json:"startedAt" db:"started_at"`
	CreatedAt           time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time  `json:"updatedAt" db:"updated_at"`
}

// CollaboratorSummary is a collaborator as shown on a project
type CollaboratorSummary struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	Username            string    `json:"username"`
	ProfilePhoto        string    `json:"profilePhoto"`
	Role                string    `json:"role"`
	ContributionSummary string    `json:"contributionSummary"`
}

// RoleOrDefault returns role, or DefaultCollaboratorRole when it is blank
func RoleOrDefault(role string) string {
	if role == "" {
		return DefaultCollaboratorRole
	}
	return role
}
