package media

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/middleware"
)

// SetupRoutes регистрирует маршруты в Fiber
func (s *MediaService) SetupRoutes(app *fiber.App) {
	group := app.Group("/api/media")
	group.Use(middleware.AuthMiddleware(s.jwtService))

	group.Get("/upload-params", s.GenerateUploadParams)
}
