package domain

import "time"

// NotificationType tags persisted in-app notifications.
type NotificationType string

const (
	NotificationNewLogin NotificationType = "NEW_LOGIN"
)

// Notification is an in-app notification row. Delivery UI is out of scope;
// the auth flows only append rows here.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}
