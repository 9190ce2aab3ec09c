package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/rajivgeraev/skillswap-api/internal/cache"
	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/notifications"
	"github.com/rajivgeraev/skillswap-api/internal/rewards"
	"github.com/rajivgeraev/skillswap-api/internal/scheduler"
	"github.com/rajivgeraev/skillswap-api/internal/services/auth"
	"github.com/rajivgeraev/skillswap-api/internal/services/gamification"
	"github.com/rajivgeraev/skillswap-api/internal/services/media"
	"github.com/rajivgeraev/skillswap-api/internal/services/notification"
	"github.com/rajivgeraev/skillswap-api/internal/services/referral"
	"github.com/rajivgeraev/skillswap-api/internal/services/swap"
	"github.com/rajivgeraev/skillswap-api/internal/services/wallet"
	"github.com/rajivgeraev/skillswap-api/internal/swaps"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
	"github.com/rajivgeraev/skillswap-api/internal/websocket"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.LoadConfig()

	// Инициализируем базу данных
	if err := db.InitDB(cfg); err != nil {
		log.Fatalf("❌ Ошибка при инициализации базы данных: %v", err)
	}
	defer db.CloseDB()

	store := db.NewStore()

	// Ядро: леджер наград, рефералы, уведомления, машина состояний обменов
	wsManager := websocket.NewManager()
	ledger := rewards.NewLedger(store, store)
	referrals := rewards.NewReferralGranter(store, ledger)
	notifier := notifications.NewService(store, wsManager)
	machine := swaps.NewMachine(store, store, ledger, notifier)

	// Фоновая задача автозавершения истекших обменов
	reaper := scheduler.NewReaper(store, machine, cfg.ReaperInterval)
	reaper.Start()

	// Кэш чтения (таблица лидеров)
	readCache := cache.New(cfg.CacheTTL)
	readCache.Start()

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "SkillSwap API",
		ErrorHandler: errorHandler,
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	// Создаём сервисы и регистрируем маршруты
	auth.NewAuthService(cfg, store, ledger, referrals, notifier).SetupRoutes(app)
	swap.NewSwapService(cfg, store, machine).SetupRoutes(app)
	wallet.NewWalletService(cfg, store, ledger).SetupRoutes(app)
	gamification.NewGamificationService(cfg, store, readCache).SetupRoutes(app)
	referral.NewReferralService(cfg, store).SetupRoutes(app)
	notification.NewNotificationService(cfg, store, wsManager).SetupRoutes(app)
	media.NewMediaService(cfg).SetupRoutes(app)

	// Отдельный сервер для WebSocket-соединений (Fiber живет на fasthttp,
	// gorilla-апгрейдер обслуживается собственным листенером)
	wsServer := websocket.Serve(":"+cfg.WSPort, wsManager, utils.NewJWTService(cfg.JWTSecret))

	// Запускаем HTTP-сервер и ждем сигнала завершения
	go func() {
		log.Printf("✅ SkillSwap API запущен на порту %s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("❌ Ошибка запуска сервера: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("⚠️ Завершение работы...")

	reaper.Stop()
	readCache.Stop()
	wsManager.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = wsServer.Shutdown(shutdownCtx)
	_ = app.ShutdownWithContext(shutdownCtx)

	log.Println("✅ Сервер остановлен")
}

// errorHandler обрабатывает ошибки Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
