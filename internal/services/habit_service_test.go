package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/isdelr/habit-tracker-be/internal/models"
	"github.com/isdelr/habit-tracker-be/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHabitService(t *testing.T) (*HabitService, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewHabitService(db, NewUserService(db, bcrypt.MinCost)), db
}

func TestCreateHabit_Defaults(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestHabitService(t)
	userID := testutil.CreateTestUser(t, db, "a@x.com", "pw")

	id, err := svc.CreateHabit(ctx, userID, models.HabitInput{Name: "Run"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	habits, err := svc.ListHabits(ctx, userID)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, "Run", habits[0].Name)
	assert.Equal(t, "", habits[0].Description)
	assert.Equal(t, models.DefaultHabitFrequency, habits[0].Frequency)
	assert.Equal(t, models.DefaultHabitColor, habits[0].Color)
	assert.Equal(t, userID, habits[0].UserID)
}

func TestCreateHabit_Errors(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestHabitService(t)
	userID := testutil.CreateTestUser(t, db, "a@x.com", "pw")

	_, err := svc.CreateHabit(ctx, userID, models.HabitInput{Name: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateHabit(ctx, userID+1, models.HabitInput{Name: "Run"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListHabits_NewestFirstAndScoped(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestHabitService(t)
	alice := testutil.CreateTestUser(t, db, "a@x.com", "pw")
	bob := testutil.CreateTestUser(t, db, "b@x.com", "pw")

	for _, name := range []string{"Run", "Read", "Sleep"} {
		_, err := svc.CreateHabit(ctx, alice, models.HabitInput{Name: name})
		require.NoError(t, err)
	}
	_, err := svc.CreateHabit(ctx, bob, models.HabitInput{Name: "Swim"})
	require.NoError(t, err)

	habits, err := svc.ListHabits(ctx, alice)
	require.NoError(t, err)
	require.Len(t, habits, 3)
	assert.Equal(t, "Sleep", habits[0].Name)
	assert.Equal(t, "Run", habits[2].Name)

	empty, err := svc.ListHabits(ctx, alice+bob+1)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestUpdateHabit(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestHabitService(t)
	alice := testutil.CreateTestUser(t, db, "a@x.com", "pw")
	bob := testutil.CreateTestUser(t, db, "b@x.com", "pw")
	habitID := testutil.CreateTestHabit(t, db, alice, "Run")

	input := models.HabitInput{Name: "Jog", Description: "5k", Frequency: "weekly", Color: "#ff0000"}

	err := svc.UpdateHabit(ctx, bob, habitID, input)
	assert.ErrorIs(t, err, ErrNotFound, "foreign habit must look absent")

	err = svc.UpdateHabit(ctx, alice, habitID+10, input)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.UpdateHabit(ctx, alice, habitID, input))
	habits, err := svc.ListHabits(ctx, alice)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, "Jog", habits[0].Name)
	assert.Equal(t, "5k", habits[0].Description)
	assert.Equal(t, "weekly", habits[0].Frequency)
	assert.Equal(t, "#ff0000", habits[0].Color)

	err = svc.UpdateHabit(ctx, alice, habitID, models.HabitInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteHabit(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestHabitService(t)
	alice := testutil.CreateTestUser(t, db, "a@x.com", "pw")
	bob := testutil.CreateTestUser(t, db, "b@x.com", "pw")
	habitID := testutil.CreateTestHabit(t, db, alice, "Run")

	ledger := NewCompletionService(db)
	require.NoError(t, ledger.RecordCompletion(ctx, alice, habitID, "2024-01-01", true))

	assert.ErrorIs(t, svc.DeleteHabit(ctx, bob, habitID), ErrNotFound)
	assert.Equal(t, 1, testutil.CountRows(t, db, "habits", ""))

	require.NoError(t, svc.DeleteHabit(ctx, alice, habitID))
	assert.Equal(t, 0, testutil.CountRows(t, db, "habits", ""))
	assert.Equal(t, 0, testutil.CountRows(t, db, "completions", ""), "completions cascade with their habit")

	assert.ErrorIs(t, svc.DeleteHabit(ctx, alice, habitID), ErrNotFound)
}

func TestUpdateHabit_AppliesDefaults(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestHabitService(t)
	alice := testutil.CreateTestUser(t, db, "a@x.com", "pw")
	habitID, err := svc.CreateHabit(ctx, alice, models.HabitInput{Name: "Run", Frequency: "weekly", Color: "#123456"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateHabit(ctx, alice, habitID, models.HabitInput{Name: "Run"}))

	habits, err := svc.ListHabits(ctx, alice)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, models.DefaultHabitFrequency, habits[0].Frequency)
	assert.Equal(t, models.DefaultHabitColor, habits[0].Color)
}
