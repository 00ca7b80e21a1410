package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogulcan/mezun/models"
)

// fakeNotificationRepo, in-memory NotificationRepository.
type fakeNotificationRepo struct {
	notifications []models.Notification
	lastListLimit int
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID string, limit int) ([]models.Notification, error) {
	r.lastListLimit = limit
	var list []models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			list = append(list, n)
		}
	}
	return list, nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	for i := range r.notifications {
		if r.notifications[i].UserID == userID {
			r.notifications[i].Read = true
		}
	}
	return nil
}

func TestNotificationService(t *testing.T) {
	ctx := context.Background()

	t.Run("list returns only the user's notifications", func(t *testing.T) {
		repo := &fakeNotificationRepo{notifications: []models.Notification{
			{ID: "n-1", UserID: "user-1", Type: models.NotificationTypeMessage},
			{ID: "n-2", UserID: "user-2", Type: models.NotificationTypeMessage},
		}}
		svc := NewNotificationService(repo)

		list, err := svc.List(ctx, "user-1", 10)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "n-1", list[0].ID)
		assert.Equal(t, 10, repo.lastListLimit)
	})

	t.Run("mark all read flips unread notifications", func(t *testing.T) {
		repo := &fakeNotificationRepo{notifications: []models.Notification{
			{ID: "n-1", UserID: "user-1"},
			{ID: "n-2", UserID: "user-1", Read: true},
			{ID: "n-3", UserID: "user-2"},
		}}
		svc := NewNotificationService(repo)

		require.NoError(t, svc.MarkAllRead(ctx, "user-1"))
		assert.True(t, repo.notifications[0].Read)
		assert.True(t, repo.notifications[1].Read)
		assert.False(t, repo.notifications[2].Read, "başka kullanıcının bildirimi etkilenmemeli")
	})
}
