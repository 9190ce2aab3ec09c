package gamification

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/cache"
	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/rewards"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

const defaultLeaderboardLimit = 10

// GamificationService представляет сервис уровней, опыта и таблицы лидеров
type GamificationService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	store      *db.Store
	cache      *cache.Cache
}

// NewGamificationService создает новый экземпляр GamificationService
func NewGamificationService(cfg *config.Config, store *db.Store, c *cache.Cache) *GamificationService {
	return &GamificationService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		store:      store,
		cache:      c,
	}
}

// Profile возвращает игровой профиль пользователя с прогрессом до
// следующего уровня
func (s *GamificationService) Profile(c fiber.Ctx) error {
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
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения профиля"})
	}

	nextLevelXP := rewards.XPForLevel(user.Level + 1)

	return c.JSON(fiber.Map{
		"level":           user.Level,
		"xp":              user.XP,
		"next_level_xp":   nextLevelXP,
		"xp_to_next":      nextLevelXP - user.XP,
		"skillcoins":      user.Skillcoins,
		"login_streak":    user.LoginStreak,
		"total_swaps":     user.TotalSwaps,
		"completed_swaps": user.CompletedSwaps,
	})
}

// Leaderboard возвращает таблицу лидеров; результат кэшируется
func (s *GamificationService) Leaderboard(c fiber.Ctx) error {
	sortBy := c.Query("sort", "level") // level, skillcoins, swaps
	switch sortBy {
	case "level", "skillcoins", "swaps":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Недопустимый параметр сортировки"})
	}

	limitStr := c.Query("limit", "")
	limit, _ := strconv.Atoi(limitStr)
	if limit <= 0 || limit > 100 {
		limit = defaultLeaderboardLimit
	}

	cacheKey := fmt.Sprintf("leaderboard:%s:%d", sortBy, limit)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return c.JSON(fiber.Map{"leaderboard": cached, "cached": true})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	entries, err := s.store.ListLeaderboard(ctx, sortBy, limit)
	if err != nil {
		log.Printf("Ошибка запроса таблицы лидеров: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения таблицы лидеров"})
	}

	s.cache.Set(cacheKey, entries)

	return c.JSON(fiber.Map{"leaderboard": entries})
}
