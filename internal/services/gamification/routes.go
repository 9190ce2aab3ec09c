package gamification

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/middleware"
)

// SetupRoutes регистрирует маршруты в Fiber
func (s *GamificationService) SetupRoutes(app *fiber.App) {
	group := app.Group("/api/gamification")
	group.Use(middleware.AuthMiddleware(s.jwtService))

	group.Get("/profile", s.Profile)
	group.Get("/leaderboard", s.Leaderboard)
}
