package swap

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/middleware"
)

// SetupRoutes регистрирует маршруты в Fiber
func (s *SwapService) SetupRoutes(app *fiber.App) {
	group := app.Group("/api/swaps")
	group.Use(middleware.AuthMiddleware(s.jwtService))

	group.Post("/", s.CreateSwap)
	group.Get("/", s.GetMySwaps)
	group.Get("/:id", s.GetSwapByID)
	group.Put("/:id", s.UpdateSwap)
}
