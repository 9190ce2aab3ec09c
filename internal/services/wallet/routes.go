package wallet

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/middleware"
)

// SetupRoutes регистрирует маршруты в Fiber
func (s *WalletService) SetupRoutes(app *fiber.App) {
	group := app.Group("/api/wallet")
	group.Use(middleware.AuthMiddleware(s.jwtService))

	group.Get("/", s.GetWallet)
	group.Post("/spend", s.Spend)
	group.Get("/earnings", s.EarningOpportunities)
}
