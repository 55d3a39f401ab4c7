package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/isdelr/habit-tracker-be/internal/models"
	"github.com/isdelr/habit-tracker-be/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCompletion_Upsert(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := NewCompletionService(db)
	userID := testutil.CreateTestUser(t, db, "a@x.com", "pw")
	habitID := testutil.CreateTestHabit(t, db, userID, "Run")

	require.NoError(t, svc.RecordCompletion(ctx, userID, habitID, "2024-01-01", true))
	require.NoError(t, svc.RecordCompletion(ctx, userID, habitID, "2024-01-01", false))

	completions, err := svc.ListCompletions(ctx, userID, nil)
	require.NoError(t, err)
	require.Len(t, completions, 1)
	assert.Equal(t, habitID, completions[0].HabitID)
	assert.Equal(t, userID, completions[0].UserID)
	assert.Equal(t, "2024-01-01", completions[0].Date)
	assert.False(t, completions[0].Completed, "latest write wins")

	require.NoError(t, svc.RecordCompletion(ctx, userID, habitID, "2024-01-01", true))
	completions, err = svc.ListCompletions(ctx, userID, nil)
	require.NoError(t, err)
	require.Len(t, completions, 1)
	assert.True(t, completions[0].Completed)
}

func TestRecordCompletion_Errors(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := NewCompletionService(db)
	alice := testutil.CreateTestUser(t, db, "a@x.com", "pw")
	bob := testutil.CreateTestUser(t, db, "b@x.com", "pw")
	habitID := testutil.CreateTestHabit(t, db, alice, "Run")

	assert.ErrorIs(t, svc.RecordCompletion(ctx, alice, 0, "2024-01-01", true), ErrInvalidInput)
	assert.ErrorIs(t, svc.RecordCompletion(ctx, alice, habitID, "", true), ErrInvalidInput)
	assert.ErrorIs(t, svc.RecordCompletion(ctx, bob, habitID, "2024-01-01", true), ErrNotFound)
	assert.ErrorIs(t, svc.RecordCompletion(ctx, alice, habitID+5, "2024-01-01", true), ErrNotFound)

	assert.Equal(t, 0, testutil.CountRows(t, db, "completions", ""))
}

func TestRecordCompletion_ConcurrentWritesKeepOneRow(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := NewCompletionService(db)
	userID := testutil.CreateTestUser(t, db, "a@x.com", "pw")
	habitID := testutil.CreateTestHabit(t, db, userID, "Run")

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- svc.RecordCompletion(ctx, userID, habitID, "2024-01-01", i%2 == 0)
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, testutil.CountRows(t, db, "completions", "habit_id = ? AND date = ?", habitID, "2024-01-01"))
}

func TestListCompletions_DateRange(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := NewCompletionService(db)
	alice := testutil.CreateTestUser(t, db, "a@x.com", "pw")
	bob := testutil.CreateTestUser(t, db, "b@x.com", "pw")
	habitID := testutil.CreateTestHabit(t, db, alice, "Run")
	bobHabit := testutil.CreateTestHabit(t, db, bob, "Swim")

	for day := 1; day <= 5; day++ {
		require.NoError(t, svc.RecordCompletion(ctx, alice, habitID, fmt.Sprintf("2024-01-%02d", day), true))
	}
	require.NoError(t, svc.RecordCompletion(ctx, bob, bobHabit, "2024-01-03", true))

	tests := []struct {
		name  string
		rng   *models.DateRange
		dates []string
	}{
		{"no range", nil, []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"}},
		{"inclusive bounds", &models.DateRange{Start: "2024-01-02", End: "2024-01-04"}, []string{"2024-01-02", "2024-01-03", "2024-01-04"}},
		{"single day", &models.DateRange{Start: "2024-01-05", End: "2024-01-05"}, []string{"2024-01-05"}},
		{"only start is ignored", &models.DateRange{Start: "2024-01-04"}, []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"}},
		{"empty window", &models.DateRange{Start: "2023-01-01", End: "2023-12-31"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completions, err := svc.ListCompletions(ctx, alice, tt.rng)
			require.NoError(t, err)

			dates := []string{}
			for _, c := range completions {
				assert.Equal(t, alice, c.UserID)
				dates = append(dates, c.Date)
			}
			assert.Equal(t, tt.dates, dates)
		})
	}
}

func TestPendingHabitCounts(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := NewCompletionService(db)
	alice := testutil.CreateTestUser(t, db, "a@x.com", "pw")
	bob := testutil.CreateTestUser(t, db, "b@x.com", "pw")
	carol := testutil.CreateTestUser(t, db, "c@x.com", "pw")

	run := testutil.CreateTestHabit(t, db, alice, "Run")
	testutil.CreateTestHabit(t, db, alice, "Read")
	swim := testutil.CreateTestHabit(t, db, bob, "Swim")
	_, err := db.Exec("INSERT INTO habits (user_id, name, frequency) VALUES (?, 'Clean', 'weekly')", carol)
	require.NoError(t, err)

	require.NoError(t, svc.RecordCompletion(ctx, alice, run, "2024-01-01", true))
	require.NoError(t, svc.RecordCompletion(ctx, bob, swim, "2024-01-01", true))

	pending, err := svc.PendingHabitCounts(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{alice: 1}, pending)

	// An explicit "not done" record still counts as pending.
	require.NoError(t, svc.RecordCompletion(ctx, bob, swim, "2024-01-02", false))
	pending, err = svc.PendingHabitCounts(ctx, "2024-01-02")
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{alice: 2, bob: 1}, pending)
}
