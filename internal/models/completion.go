package models

import "time"

// Completion records whether a habit was performed on a given date.
// There is at most one Completion per (HabitID, Date).
type Completion struct {
	ID        int64     `json:"id"`
	HabitID   int64     `json:"habit_id"`
	UserID    int64     `json:"user_id"` // Copy of the habit's owner
	Date      string    `json:"date"`    // Caller-supplied, usually YYYY-MM-DD
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// DateRange is an inclusive [Start, End] filter on Completion.Date.
type DateRange struct {
	Start string
	End   string
}
