package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment defines a comment on a project
type Comment struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	ProjectID uuid.UUID   `json:"projectId" db:"project_id"`
	UserID    uuid.UUID   `json:"userId" db:"user_id"`
	Content   string      `json:"content" db:"content"`
	CreatedAt time.Time   `json:"createdAt" db:"created_at"`
	Author    UserSummary `json:"author"`
}
