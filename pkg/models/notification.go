package models

import "time"

// NotificationType categorizes a notification.
type NotificationType string

const (
	NotificationNewItem      NotificationType = "new_item"
	NotificationExpiringSoon NotificationType = "expiring_soon"
	NotificationClaimed      NotificationType = "claimed"
	NotificationExpired      NotificationType = "expired"
)

// Notification is an informational message for one user.
type Notification struct {
	ID            string           `json:"id"`
	UserID        string           `json:"user_id"`
	Type          NotificationType `json:"type"`
	Title         string           `json:"title"`
	Message       string           `json:"message"`
	Read          bool             `json:"read"`
	CreatedAt     time.Time        `json:"created_at"`
	RelatedItemID string           `json:"related_item_id,omitempty"`
}
