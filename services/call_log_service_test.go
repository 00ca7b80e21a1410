package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogulcan/mezun/models"
)

// fakeMessageRepo, MessageRepository'nin in-memory test implementasyonu.
type fakeMessageRepo struct {
	mu        sync.Mutex
	messages  []*models.Message
	createErr error
}

func (f *fakeMessageRepo) Create(_ context.Context, msg *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeMessageRepo) GetBetweenUsers(_ context.Context, userA, userB string) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Message
	for _, m := range f.messages {
		if (m.SenderID == userA && m.RecipientID == userB) || (m.SenderID == userB && m.RecipientID == userA) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) GetLastBetweenUsers(ctx context.Context, userA, userB string) (*models.Message, error) {
	all, err := f.GetBetweenUsers(ctx, userA, userB)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return &all[len(all)-1], nil
}

func (f *fakeMessageRepo) all() []*models.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.Message(nil), f.messages...)
}

func TestCallLogService(t *testing.T) {
	t.Run("missed call bodies", func(t *testing.T) {
		repo := &fakeMessageRepo{}
		svc := NewCallLogService(repo)

		svc.LogMissedCall("callee", "caller", models.CallTypeAudio)
		svc.LogMissedCall("callee", "caller", models.CallTypeVideo)

		msgs := repo.all()
		require.Len(t, msgs, 2)
		assert.Equal(t, "Missed audio call", msgs[0].Content)
		assert.Equal(t, "Missed video call", msgs[1].Content)
		assert.Equal(t, "callee", msgs[0].SenderID)
		assert.Equal(t, "caller", msgs[0].RecipientID)
		assert.NotEmpty(t, msgs[0].ID)
	})

	t.Run("completed call bodies", func(t *testing.T) {
		cases := []struct {
			callType models.CallType
			seconds  int
			want     string
		}{
			{models.CallTypeVideo, 45, "Video call · 45s"},
			{models.CallTypeAudio, 0, "Audio call · 0s"},
			{models.CallTypeVideo, 60, "Video call · 1m 00s"},
			{models.CallTypeVideo, 125, "Video call · 2m 05s"},
			{models.CallTypeAudio, 3600, "Audio call · 60m 00s"},
		}

		for _, tc := range cases {
			repo := &fakeMessageRepo{}
			svc := NewCallLogService(repo)

			svc.LogCompletedCall("a", "b", tc.callType, tc.seconds)

			msgs := repo.all()
			require.Len(t, msgs, 1)
			assert.Equal(t, tc.want, msgs[0].Content)
		}
	})

	t.Run("persist error is swallowed", func(t *testing.T) {
		repo := &fakeMessageRepo{createErr: errors.New("disk full")}
		svc := NewCallLogService(repo)

		// Panic veya hata yayılımı olmamalı.
		svc.LogMissedCall("a", "b", models.CallTypeAudio)
		svc.LogCompletedCall("a", "b", models.CallTypeVideo, 30)
		assert.Empty(t, repo.all())
	})
}
