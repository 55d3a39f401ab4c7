package models

import "time"

// Notification types used by the backend itself. Clients may send any label.
const (
	NotificationTypeInfo     = "info"
	NotificationTypeReminder = "reminder"
)

// Notification is an informational message shown to a single user.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
