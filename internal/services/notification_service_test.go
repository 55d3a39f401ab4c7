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

type recordingPublisher struct {
	mu   sync.Mutex
	sent map[int64][]models.Notification
}

func (p *recordingPublisher) Publish(userID int64, n models.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sent == nil {
		p.sent = make(map[int64][]models.Notification)
	}
	p.sent[userID] = append(p.sent[userID], n)
}

func TestCreateNotification(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	pub := &recordingPublisher{}
	svc := NewNotificationService(db, pub)
	userID := testutil.CreateTestUser(t, db, "a@x.com", "pw")

	n, err := svc.CreateNotification(ctx, userID, "Welcome!", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n.ID)
	assert.Equal(t, models.NotificationTypeInfo, n.Type)
	assert.False(t, n.Read)

	require.Len(t, pub.sent[userID], 1)
	assert.Equal(t, "Welcome!", pub.sent[userID][0].Message)

	_, err = svc.CreateNotification(ctx, userID, "", "info")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Len(t, pub.sent[userID], 1, "rejected notifications are not published")

	_, err = svc.CreateNotification(ctx, userID+50, "ghost", "info")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListNotifications_NewestFirstCapped(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := NewNotificationService(db, nil)
	alice := testutil.CreateTestUser(t, db, "a@x.com", "pw")
	bob := testutil.CreateTestUser(t, db, "b@x.com", "pw")

	for i := 1; i <= NotificationListLimit+5; i++ {
		_, err := svc.CreateNotification(ctx, alice, fmt.Sprintf("message %d", i), "info")
		require.NoError(t, err)
	}
	_, err := svc.CreateNotification(ctx, bob, "for bob", "info")
	require.NoError(t, err)

	list, err := svc.ListNotifications(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, NotificationListLimit)
	assert.Equal(t, fmt.Sprintf("message %d", NotificationListLimit+5), list[0].Message)
	assert.Equal(t, "message 6", list[len(list)-1].Message)
	for _, n := range list {
		assert.Equal(t, alice, n.UserID)
	}
}

func TestMarkRead(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := NewNotificationService(db, nil)
	alice := testutil.CreateTestUser(t, db, "a@x.com", "pw")
	bob := testutil.CreateTestUser(t, db, "b@x.com", "pw")

	n, err := svc.CreateNotification(ctx, alice, "hello", "info")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.MarkRead(ctx, bob, n.ID), ErrNotFound, "foreign notification must look absent")
	assert.ErrorIs(t, svc.MarkRead(ctx, alice, n.ID+1), ErrNotFound)

	require.NoError(t, svc.MarkRead(ctx, alice, n.ID))
	require.NoError(t, svc.MarkRead(ctx, alice, n.ID), "marking twice is idempotent")

	list, err := svc.ListNotifications(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Read)
}
