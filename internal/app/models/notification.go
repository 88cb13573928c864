package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType categorizes notifications
type NotificationType string

const (
	NotificationRequestReceived NotificationType = "request_received"
	NotificationRequestApproved NotificationType = "request_approved"
	NotificationRequestRejected NotificationType = "request_rejected"
	NotificationMessage         NotificationType = "message"
)

// Notification defines a stored notification for one recipient
type Notification struct {
	ID          uuid.UUID              `json:"id" db:"id"`
	RecipientID uuid.UUID              `json:"recipientId" db:"recipient_id"`
	SenderID    *uuid.UUID             `json:"senderId,omitempty" db:"sender_id"`
	Type        NotificationType       `json:"type" db:"type" example:"request_received"`
	Title       string                 `json:"title" db:"title"`
	Message     string                 `json:"message" db:"message"`
	Link        string                 `json:"link" db:"link"`
	Read        bool                   `json:"read" db:"read"`
	Meta        map[string]interface{} `json:"meta,omitempty" db:"meta"`
	CreatedAt   time.Time              `json:"createdAt" db:"created_at"`
}
