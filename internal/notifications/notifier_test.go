package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/websocket"
)

type fakeStore struct {
	mu    sync.Mutex
	saved []models.Notification
	err   error
}

func (s *fakeStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, *n)
	return nil
}

func TestNotifyPersists(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, nil)
	userID := uuid.New()

	svc.Notify(context.Background(), userID, Event{
		Type:      models.NotifySwapRequest,
		Title:     "Новый запрос на обмен",
		Message:   "Анна предлагает обмен",
		Data:      map[string]any{"swap_id": uuid.New()},
		EntityRef: "swap:123",
		ActionURL: "/swaps/123",
	})

	require.Len(t, store.saved, 1)
	n := store.saved[0]
	require.Equal(t, userID, n.UserID)
	require.Equal(t, models.NotifySwapRequest, n.Type)
	require.Equal(t, "Новый запрос на обмен", n.Title)
	require.NotEmpty(t, n.Data)
	require.NotEqual(t, uuid.Nil, n.ID)
	require.False(t, n.IsRead)
}

func TestNotifySwallowsStoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("хранилище недоступно")}
	svc := NewService(store, nil)

	// Сбой доставки не должен паниковать и не возвращает ошибку
	svc.Notify(context.Background(), uuid.New(), Event{
		Type:  models.NotifySwapAccepted,
		Title: "Обмен принят!",
	})
}

func TestWSEventTypeMapping(t *testing.T) {
	require.Equal(t, websocket.EventSwapRequest, wsEventType(models.NotifySwapRequest))
	require.Equal(t, websocket.EventSwapStatus, wsEventType(models.NotifySwapAccepted))
	require.Equal(t, websocket.EventSwapStatus, wsEventType(models.NotifySwapRejected))
	require.Equal(t, websocket.EventSwapStatus, wsEventType(models.NotifySwapScheduled))
	require.Equal(t, websocket.EventSwapStatus, wsEventType(models.NotifySwapCancelled))
	require.Equal(t, websocket.EventSwapStatus, wsEventType(models.NotifySwapCompleted))
	require.Equal(t, websocket.EventNotification, wsEventType(models.NotifyReferralBonus))
	require.Equal(t, websocket.EventNotification, wsEventType(models.NotifyLevelUp))
}

func TestNotifyNilData(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, nil)

	svc.Notify(context.Background(), uuid.New(), Event{
		Type:  models.NotifySwapCancelled,
		Title: "Обмен отменен",
	})

	require.Len(t, store.saved, 1)
	require.Empty(t, store.saved[0].Data)
}
