package referral

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/middleware"
)

// SetupRoutes регистрирует маршруты в Fiber
func (s *ReferralService) SetupRoutes(app *fiber.App) {
	group := app.Group("/api/referrals")
	group.Use(middleware.AuthMiddleware(s.jwtService))

	group.Get("/code", s.GetCode)
	group.Get("/stats", s.GetStats)
}
