package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/db"
)

var notificationColumns = []string{
	"id", "recipient_id", "sender_id", "type", "title", "message", "link", "read", "meta", "created_at",
}

// NotificationLimit caps a notification listing
const NotificationLimit = 100

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db *db.PostgresDB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(database *db.PostgresDB) *NotificationRepository {
	return &NotificationRepository{db: database}
}

// Create stores a notification
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	meta := n.Meta
	if meta == nil {
		meta = map[string]interface{}{}
	}

	sql, args, err := psql.Insert("notifications").
		Columns(notificationColumns...).
		Values(n.ID, n.RecipientID, n.SenderID, n.Type, n.Title, n.Message, n.Link, n.Read, meta, n.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error inserting notification: %w", err)
	}
	return nil
}

func scanNotification(row interface{ Scan(...any) error }) (*models.Notification, error) {
	var n models.Notification
	if err := row.Scan(&n.ID, &n.RecipientID, &n.SenderID, &n.Type, &n.Title, &n.Message,
		&n.Link, &n.Read, &n.Meta, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

// ListByRecipient lists the latest notifications of a user, newest first
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	builder := psql.Select(notificationColumns...).
		From("notifications").
		Where(squirrel.Eq{"recipient_id": recipientID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(NotificationLimit)
	if unreadOnly {
		builder = builder.Where(squirrel.Eq{"read": false})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Querier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		notifications = append(notifications, *n)
	}
	return notifications, rows.Err()
}

// FindByID retrieves a notification by ID
func (r *NotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	sql, args, err := psql.Select(notificationColumns...).From("notifications").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	n, err := scanNotification(r.db.Querier(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err, "Notification not found")
	}
	return n, nil
}

// MarkRead flags a notification as read
func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	sql, args, err := psql.Update("notifications").Set("read", true).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error updating notification: %w", err)
	}
	return nil
}
