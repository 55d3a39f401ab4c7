package websocket

import (
	"encoding/json"

	"github.com/isdelr/habit-tracker-be/internal/models"
)

// Message actions sent to clients.
const (
	ActionNotification = "notification"
	ActionError        = "error"
)

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewNotificationMessage encodes a notification push.
func NewNotificationMessage(n models.Notification) []byte {
	b, _ := json.Marshal(Message{Action: ActionNotification, Payload: n})
	return b
}

// NewErrorMessage encodes an error reply.
func NewErrorMessage(msg string) []byte {
	b, _ := json.Marshal(Message{Action: ActionError, Payload: map[string]string{"error": msg}})
	return b
}
