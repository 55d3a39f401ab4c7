package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/isdelr/habit-tracker-be/internal/database"
	"github.com/isdelr/habit-tracker-be/internal/models"
)

// NotificationListLimit caps how many notifications ListNotifications returns.
const NotificationListLimit = 50

// NotificationServiceProvider defines the interface for notification services.
type NotificationServiceProvider interface {
	ListNotifications(ctx context.Context, userID int64) ([]models.Notification, error)
	CreateNotification(ctx context.Context, userID int64, message, notificationType string) (models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID int64) error
}

// Publisher receives every notification after it has been stored.
type Publisher interface {
	Publish(userID int64, notification models.Notification)
}

// NotificationService provides business logic for the notification log.
type NotificationService struct {
	db        *sql.DB
	publisher Publisher
}

// NewNotificationService creates a new NotificationService. publisher may be nil.
func NewNotificationService(db *sql.DB, publisher Publisher) *NotificationService {
	return &NotificationService{db: db, publisher: publisher}
}

// CreateNotification stores a new notification and pushes it to any live
// subscribers of userID.
func (s *NotificationService) CreateNotification(ctx context.Context, userID int64, message, notificationType string) (models.Notification, error) {
	if strings.TrimSpace(message) == "" {
		return models.Notification{}, fmt.Errorf("message is required: %w", ErrInvalidInput)
	}
	if notificationType == "" {
		notificationType = models.NotificationTypeInfo
	}

	n := models.Notification{
		UserID:    userID,
		Message:   message,
		Type:      notificationType,
		CreatedAt: time.Now().UTC(),
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO notifications (user_id, message, type, created_at) VALUES (?, ?, ?, ?)",
		n.UserID, n.Message, n.Type, n.CreatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return models.Notification{}, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return models.Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}
	if n.ID, err = res.LastInsertId(); err != nil {
		return models.Notification{}, err
	}

	if s.publisher != nil {
		s.publisher.Publish(userID, n)
	}
	return n, nil
}

// ListNotifications retrieves the user's most recent notifications, newest first.
func (s *NotificationService) ListNotifications(ctx context.Context, userID int64) ([]models.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, message, type, read, created_at
		FROM notifications WHERE user_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ?`, userID, NotificationListLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Type, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead flags a notification owned by userID as read. Marking an already
// read notification succeeds again.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE id = ? AND user_id = ?", notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	return requireAffected(res, "notification", notificationID)
}
