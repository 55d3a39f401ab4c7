package handlers

import (
	"net/http"

	"github.com/isdelr/habit-tracker-be/internal/services"
)

// NotificationHandler handles HTTP requests related to notifications.
type NotificationHandler struct {
	service services.NotificationServiceProvider
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service services.NotificationServiceProvider) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// NotificationPayload is the body of POST /api/notifications.
type NotificationPayload struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// GetRecent handles the request to get the caller's latest notifications.
func (h *NotificationHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.service.ListNotifications(r.Context(), accountID(r))
	if err != nil {
		writeServiceError(w, r, err, errorMessages{})
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

// Create stores a notification for the caller.
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload NotificationPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	n, err := h.service.CreateNotification(r.Context(), accountID(r), payload.Message, payload.Type)
	if err != nil {
		writeServiceError(w, r, err, errorMessages{
			invalidInput: "Message is required",
			notFound:     "User not found",
			storage:      "Error creating notification",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":      n.ID,
		"message": "Notification created successfully",
	})
}

// MarkRead flags one of the caller's notifications as read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Notification not found")
		return
	}

	if err := h.service.MarkRead(r.Context(), accountID(r), id); err != nil {
		writeServiceError(w, r, err, errorMessages{
			notFound: "Notification not found",
			storage:  "Error updating notification",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}
