package notification

import (
	"context"
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
	"github.com/rajivgeraev/skillswap-api/internal/websocket"
)

const defaultListLimit = 50

// NotificationService представляет сервис уведомлений
type NotificationService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	store      *db.Store
	ws         *websocket.Manager
}

// NewNotificationService создает новый экземпляр NotificationService
func NewNotificationService(cfg *config.Config, store *db.Store, ws *websocket.Manager) *NotificationService {
	return &NotificationService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		store:      store,
		ws:         ws,
	}
}

// pushUnreadCount отправляет онлайн-соединениям пользователя обновленный
// счетчик непрочитанных. Сбой не влияет на результат запроса.
func (s *NotificationService) pushUnreadCount(ctx context.Context, userID uuid.UUID) {
	if s.ws == nil {
		return
	}
	count, err := s.store.CountUnreadNotifications(ctx, userID)
	if err != nil {
		log.Printf("Ошибка подсчета непрочитанных уведомлений: %v", err)
		return
	}
	s.ws.BroadcastUnreadCount(userID.String(), count)
}

// List возвращает уведомления пользователя
func (s *NotificationService) List(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	unreadOnly := c.Query("unread", "") == "true"
	limitStr := c.Query("limit", "")
	limit, _ := strconv.Atoi(limitStr)
	if limit <= 0 || limit > 200 {
		limit = defaultListLimit
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	list, err := s.store.ListNotifications(ctx, userID, unreadOnly, limit)
	if err != nil {
		log.Printf("Ошибка запроса уведомлений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения уведомлений"})
	}

	unread, err := s.store.CountUnreadNotifications(ctx, userID)
	if err != nil {
		log.Printf("Ошибка подсчета непрочитанных уведомлений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения уведомлений"})
	}

	return c.JSON(fiber.Map{
		"notifications": list,
		"unread_count":  unread,
	})
}

// MarkRead помечает одно уведомление прочитанным
func (s *NotificationService) MarkRead(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	notificationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID уведомления"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	if err := s.store.MarkNotificationRead(ctx, notificationID, userID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Уведомление не найдено"})
		}
		log.Printf("Ошибка обновления уведомления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления уведомления"})
	}

	s.pushUnreadCount(ctx, userID)

	return c.JSON(fiber.Map{"success": true})
}

// MarkAllRead помечает все уведомления пользователя прочитанными
func (s *NotificationService) MarkAllRead(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	if err := s.store.MarkAllNotificationsRead(ctx, userID); err != nil {
		log.Printf("Ошибка обновления уведомлений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления уведомлений"})
	}

	s.pushUnreadCount(ctx, userID)

	return c.JSON(fiber.Map{"success": true})
}

// UnreadCount возвращает количество непрочитанных уведомлений
func (s *NotificationService) UnreadCount(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	count, err := s.store.CountUnreadNotifications(ctx, userID)
	if err != nil {
		log.Printf("Ошибка подсчета непрочитанных уведомлений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения счетчика"})
	}

	return c.JSON(fiber.Map{"unread_count": count})
}
