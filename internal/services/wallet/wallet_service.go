package wallet

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/rewards"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

const defaultHistoryLimit = 50

// WalletService представляет сервис для работы с кошельком скиллкоинов
type WalletService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	store      *db.Store
	ledger     *rewards.Ledger
}

// NewWalletService создает новый экземпляр WalletService
func NewWalletService(cfg *config.Config, store *db.Store, ledger *rewards.Ledger) *WalletService {
	return &WalletService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		store:      store,
		ledger:     ledger,
	}
}

// GetWallet возвращает баланс и историю транзакций с агрегатами
func (s *WalletService) GetWallet(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	limitStr := c.Query("limit", "")
	limit, _ := strconv.Atoi(limitStr)
	if limit <= 0 || limit > 200 {
		limit = defaultHistoryLimit
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
		}
		log.Printf("Ошибка запроса пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения кошелька"})
	}

	txs, err := s.store.ListUserTransactions(ctx, userID, limit)
	if err != nil {
		log.Printf("Ошибка запроса транзакций: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения истории транзакций"})
	}

	// Итоги считаются по всему журналу, а не по выданной странице истории
	earned, spent, err := s.store.TransactionTotals(ctx, userID)
	if err != nil {
		log.Printf("Ошибка подсчета итогов: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения кошелька"})
	}

	return c.JSON(fiber.Map{
		"balance":      user.Skillcoins,
		"total_earned": earned,
		"total_spent":  spent,
		"transactions": txs,
	})
}

// Spend списывает скиллкоины с баланса пользователя
func (s *WalletService) Spend(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	var req struct {
		Amount      int    `json:"amount"`
		Description string `json:"description"`
	}

	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if req.Description == "" {
		req.Description = "Списание скиллкоинов"
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	balance, err := s.ledger.SpendSkillcoins(ctx, userID, req.Amount, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, rewards.ErrInvalidAmount):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Сумма должна быть положительной"})
		case errors.Is(err, models.ErrInsufficientFunds):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Недостаточно скиллкоинов"})
		case errors.Is(err, models.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
		default:
			log.Printf("Ошибка списания скиллкоинов: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка списания скиллкоинов"})
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"balance": balance,
	})
}

// EarningOpportunities возвращает способы заработка скиллкоинов
func (s *WalletService) EarningOpportunities(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"opportunities": []fiber.Map{
			{"action": "complete_swap", "amount": 50, "description": "Завершите обмен навыками"},
			{"action": "refer_friend", "amount": rewards.ReferrerBonus, "description": "Пригласите друга по реферальному коду"},
			{"action": "login_streak", "amount": rewards.StreakBonus, "description": "Заходите 7 дней подряд"},
			{"action": "milestone_10", "amount": 100, "description": "Завершите 10 обменов"},
			{"action": "milestone_50", "amount": 500, "description": "Завершите 50 обменов"},
			{"action": "milestone_100", "amount": 1000, "description": "Завершите 100 обменов"},
		},
	})
}
