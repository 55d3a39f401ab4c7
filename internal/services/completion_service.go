package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/isdelr/habit-tracker-be/internal/metrics"
	"github.com/isdelr/habit-tracker-be/internal/models"
)

// CompletionServiceProvider defines the interface for the completion ledger.
type CompletionServiceProvider interface {
	ListCompletions(ctx context.Context, userID int64, rng *models.DateRange) ([]models.Completion, error)
	RecordCompletion(ctx context.Context, userID, habitID int64, date string, completed bool) error
	PendingHabitCounts(ctx context.Context, date string) (map[int64]int, error)
}

// CompletionService keeps one completion row per habit per date.
type CompletionService struct {
	db *sql.DB
}

// NewCompletionService creates a new CompletionService.
func NewCompletionService(db *sql.DB) *CompletionService {
	return &CompletionService{db: db}
}

// ListCompletions returns every completion owned by userID. When rng is set
// and both bounds are present, only dates within [Start, End] are returned.
func (s *CompletionService) ListCompletions(ctx context.Context, userID int64, rng *models.DateRange) ([]models.Completion, error) {
	query := "SELECT id, habit_id, user_id, date, completed, created_at FROM completions WHERE user_id = ?"
	args := []any{userID}

	if rng != nil && rng.Start != "" && rng.End != "" {
		query += " AND date BETWEEN ? AND ?"
		args = append(args, rng.Start, rng.End)
	}
	query += " ORDER BY date, habit_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	completions := []models.Completion{}
	for rows.Next() {
		var c models.Completion
		if err := rows.Scan(&c.ID, &c.HabitID, &c.UserID, &c.Date, &c.Completed, &c.CreatedAt); err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

// RecordCompletion sets the completed flag of habitID on date.
//
// The ownership check and the write are a single statement: the row to insert
// is selected from habits filtered by owner, and a clash on (habit_id, date)
// turns the insert into an update. Concurrent calls for the same pair
// therefore never produce two rows, and a habit not owned by userID inserts
// nothing.
func (s *CompletionService) RecordCompletion(ctx context.Context, userID, habitID int64, date string, completed bool) error {
	date = strings.TrimSpace(date)
	if habitID == 0 || date == "" {
		return fmt.Errorf("habit ID and date are required: %w", ErrInvalidInput)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO completions (habit_id, user_id, date, completed, created_at)
		SELECT id, user_id, ?, ?, ? FROM habits WHERE id = ? AND user_id = ?
		ON CONFLICT (habit_id, date) DO UPDATE
		SET completed = excluded.completed, created_at = excluded.created_at`,
		date, completed, time.Now().UTC(), habitID, userID)
	if err != nil {
		return fmt.Errorf("failed to record completion: %w", err)
	}
	if err := requireAffected(res, "habit", habitID); err != nil {
		return err
	}

	metrics.CompletionsRecorded.WithLabelValues(fmt.Sprint(completed)).Inc()
	return nil
}

// PendingHabitCounts returns, per user, how many daily habits have no
// completed record for date. Users with nothing pending are omitted.
func (s *CompletionService) PendingHabitCounts(ctx context.Context, date string) (map[int64]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT h.user_id, COUNT(*)
		FROM habits h
		WHERE h.frequency = ?
		  AND NOT EXISTS (
			SELECT 1 FROM completions c
			WHERE c.habit_id = h.id AND c.date = ? AND c.completed = 1
		  )
		GROUP BY h.user_id`, models.DefaultHabitFrequency, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pending := make(map[int64]int)
	for rows.Next() {
		var userID int64
		var count int
		if err := rows.Scan(&userID, &count); err != nil {
			return nil, err
		}
		pending[userID] = count
	}
	return pending, rows.Err()
}
