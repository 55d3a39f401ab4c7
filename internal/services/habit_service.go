package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/isdelr/habit-tracker-be/internal/models"
)

// HabitServiceProvider defines the interface for habit services.
type HabitServiceProvider interface {
	ListHabits(ctx context.Context, userID int64) ([]models.Habit, error)
	CreateHabit(ctx context.Context, userID int64, input models.HabitInput) (int64, error)
	UpdateHabit(ctx context.Context, userID, habitID int64, input models.HabitInput) error
	DeleteHabit(ctx context.Context, userID, habitID int64) error
}

// HabitService provides business logic for habit management.
// Every query is scoped to the acting user, so a habit owned by someone else
// looks exactly like a habit that does not exist.
type HabitService struct {
	db    *sql.DB
	users UserServiceProvider
}

// NewHabitService creates a new HabitService.
func NewHabitService(db *sql.DB, users UserServiceProvider) *HabitService {
	return &HabitService{db: db, users: users}
}

// ListHabits returns the user's habits, newest first.
func (s *HabitService) ListHabits(ctx context.Context, userID int64) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, description, frequency, color, created_at
		FROM habits WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		var h models.Habit
		if err := rows.Scan(&h.ID, &h.UserID, &h.Name, &h.Description, &h.Frequency, &h.Color, &h.CreatedAt); err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// CreateHabit stores a new habit for userID and returns its ID. Missing
// frequency and color fall back to the defaults.
func (s *HabitService) CreateHabit(ctx context.Context, userID int64, input models.HabitInput) (int64, error) {
	if strings.TrimSpace(input.Name) == "" {
		return 0, fmt.Errorf("habit name is required: %w", ErrInvalidInput)
	}
	input = withDefaults(input)

	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO habits (user_id, name, description, frequency, color, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		userID, input.Name, input.Description, input.Frequency, input.Color, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to create habit: %w", err)
	}
	return res.LastInsertId()
}

func withDefaults(input models.HabitInput) models.HabitInput {
	if input.Frequency == "" {
		input.Frequency = models.DefaultHabitFrequency
	}
	if input.Color == "" {
		input.Color = models.DefaultHabitColor
	}
	return input
}

// UpdateHabit overwrites the editable fields of a habit owned by userID.
func (s *HabitService) UpdateHabit(ctx context.Context, userID, habitID int64, input models.HabitInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("habit name is required: %w", ErrInvalidInput)
	}
	input = withDefaults(input)

	res, err := s.db.ExecContext(ctx, `
		UPDATE habits SET name = ?, description = ?, frequency = ?, color = ?
		WHERE id = ? AND user_id = ?`,
		input.Name, input.Description, input.Frequency, input.Color, habitID, userID)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	return requireAffected(res, "habit", habitID)
}

// DeleteHabit removes a habit owned by userID together with its completions.
func (s *HabitService) DeleteHabit(ctx context.Context, userID, habitID int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM habits WHERE id = ? AND user_id = ?", habitID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return requireAffected(res, "habit", habitID)
}

// requireAffected turns a zero changed-row count into ErrNotFound.
func requireAffected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}
	return nil
}
