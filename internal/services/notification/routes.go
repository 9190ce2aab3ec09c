package notification

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/middleware"
)

// SetupRoutes регистрирует маршруты в Fiber
func (s *NotificationService) SetupRoutes(app *fiber.App) {
	group := app.Group("/api/notifications")
	group.Use(middleware.AuthMiddleware(s.jwtService))

	group.Get("/", s.List)
	group.Get("/unread-count", s.UnreadCount)
	group.Put("/:id/read", s.MarkRead)
	group.Put("/read-all", s.MarkAllRead)
}
