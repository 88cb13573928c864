package dto

// NotificationFilter filters the notification listing
type NotificationFilter struct {
	UnreadOnly bool `form:"unread"`
}
