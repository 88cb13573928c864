package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/auth"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/pkg/metrics"
)

// NotificationEvent is the websocket event type carrying a notification
const NotificationEvent = "notification"

// Pusher delivers an event to the live connections of a user
type Pusher interface {
	SendToUser(userID uuid.UUID, eventType string, data interface{}) (int, error)
}

// NotificationService defines the interface for notification operations
type NotificationService interface {
	Notifier
	ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) (*models.Notification, error)
}

type notificationServiceImpl struct {
	notifications NotificationStore
	pusher        Pusher
	authz         *auth.AuthorizationService
	logger        zerolog.Logger
}

// NewNotificationService creates a new NotificationService. pusher may be nil, in
// which case notifications are only stored.
func NewNotificationService(notifications NotificationStore, pusher Pusher, authz *auth.AuthorizationService, logger zerolog.Logger) NotificationService {
	return &notificationServiceImpl{
		notifications: notifications,
		pusher:        pusher,
		authz:         authz,
		logger:        logger,
	}
}

// Notify stores n and pushes it to the recipient's open sockets. Failures are logged.
func (s *notificationServiceImpl) Notify(ctx context.Context, n *models.Notification) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now()
	}

	if err := s.notifications.Create(ctx, n); err != nil {
		s.logger.Error().
			Err(err).
			Str("recipientID", n.RecipientID.String()).
			Str("type", string(n.Type)).
			Msg("Failed to store notification")
		return
	}

	if s.pusher == nil {
		return
	}
	delivered, err := s.pusher.SendToUser(n.RecipientID, NotificationEvent, n)
	switch {
	case err != nil:
		metrics.NotificationsDelivered.WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Str("notificationID", n.ID.String()).Msg("Failed to push notification")
	case delivered == 0:
		metrics.NotificationsDelivered.WithLabelValues("offline").Inc()
	default:
		metrics.NotificationsDelivered.WithLabelValues("pushed").Inc()
	}
}

// ListNotifications lists a user's notifications, newest first
func (s *notificationServiceImpl) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	items, err := s.notifications.ListByRecipient(ctx, userID, unreadOnly)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Notification{}
	}
	return items, nil
}

// MarkRead marks one of the user's notifications as read
func (s *notificationServiceImpl) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) (*models.Notification, error) {
	n, err := s.notifications.FindByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CheckRecipient(userID, n); err != nil {
		return nil, err
	}
	if n.Read {
		return n, nil
	}
	if err := s.notifications.MarkRead(ctx, n.ID); err != nil {
		return nil, err
	}
	n.Read = true
	return n, nil
}
