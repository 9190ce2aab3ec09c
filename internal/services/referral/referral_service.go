package referral

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/rewards"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// ReferralService представляет сервис реферальной программы
type ReferralService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	store      *db.Store
}

// NewReferralService создает новый экземпляр ReferralService
func NewReferralService(cfg *config.Config, store *db.Store) *ReferralService {
	return &ReferralService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		store:      store,
	}
}

// GetCode возвращает реферальный код текущего пользователя
func (s *ReferralService) GetCode(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
		}
		log.Printf("Ошибка запроса пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения реферального кода"})
	}

	return c.JSON(fiber.Map{
		"referral_code": user.ReferralCode,
		"bonus":         rewards.ReferrerBonus,
	})
}

// GetStats возвращает статистику приглашений пользователя
func (s *ReferralService) GetStats(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
		}
		log.Printf("Ошибка запроса пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения статистики"})
	}

	referred, err := s.store.ListReferredUsers(ctx, userID)
	if err != nil {
		log.Printf("Ошибка запроса приглашенных пользователей: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения статистики"})
	}

	return c.JSON(fiber.Map{
		"referral_code":  user.ReferralCode,
		"referral_count": user.ReferralCount,
		"total_earned":   user.ReferralCount * rewards.ReferrerBonus,
		"referred_users": referred,
	})
}
