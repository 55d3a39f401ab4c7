package models

import "time"

// Default values applied when a habit is created without them.
const (
	DefaultHabitFrequency = "daily"
	DefaultHabitColor     = "#000000"
)

// Habit is a recurring activity tracked by a single owning user.
type Habit struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Frequency   string    `json:"frequency"` // Free-text label, e.g. "daily", "weekly"
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
}

// HabitInput carries the user-editable fields of a habit.
type HabitInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Frequency   string `json:"frequency"`
	Color       string `json:"color"`
}
