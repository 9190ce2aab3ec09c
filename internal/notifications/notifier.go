package notifications

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/websocket"
)

// Event представляет доменное событие для доставки пользователю
type Event struct {
	Type      string
	Title     string
	Message   string
	Data      any
	EntityRef string
	ActionURL string
}

// Notifier доставляет события пользователям. Доставка выполняется по
// принципу fire-and-forget: сбой уведомления не влияет на исход операции.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, e Event)
}

// Store сохраняет уведомления в персистентном хранилище
type Store interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
}

// Service записывает уведомление в хранилище и проталкивает событие в
// WebSocket-канал пользователя
type Service struct {
	store Store
	ws    *websocket.Manager // Может быть nil, если realtime-канал отключен
}

// NewService создает новый экземпляр Service
func NewService(store Store, ws *websocket.Manager) *Service {
	return &Service{store: store, ws: ws}
}

// Notify сохраняет уведомление и отправляет его онлайн-соединениям
// пользователя. Ошибки логируются и проглатываются.
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, e Event) {
	var data json.RawMessage
	if e.Data != nil {
		raw, err := json.Marshal(e.Data)
		if err != nil {
			log.Printf("Ошибка сериализации данных уведомления: %v", err)
		} else {
			data = raw
		}
	}

	n := &models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      e.Type,
		Title:     e.Title,
		Message:   e.Message,
		Data:      data,
		EntityRef: e.EntityRef,
		ActionURL: e.ActionURL,
		CreatedAt: time.Now(),
	}

	if err := s.store.CreateNotification(ctx, n); err != nil {
		log.Printf("Ошибка сохранения уведомления для пользователя %s: %v", userID, err)
	}

	if s.ws != nil {
		payload, err := json.Marshal(n)
		if err != nil {
			log.Printf("Ошибка сериализации уведомления: %v", err)
			return
		}
		s.ws.SendToUser(userID.String(), websocket.Event{
			Type:      wsEventType(e.Type),
			UserID:    userID.String(),
			Timestamp: time.Now(),
			Payload:   payload,
		})
	}
}

// wsEventType отображает тип уведомления в тип WebSocket-события: запрос
// обмена и смены его статуса идут отдельными типами, чтобы клиент мог
// обновить список обменов, не разбирая payload
func wsEventType(notifType string) websocket.EventType {
	switch notifType {
	case models.NotifySwapRequest:
		return websocket.EventSwapRequest
	case models.NotifySwapAccepted, models.NotifySwapRejected, models.NotifySwapScheduled,
		models.NotifySwapCancelled, models.NotifySwapCompleted:
		return websocket.EventSwapStatus
	}
	return websocket.EventNotification
}
