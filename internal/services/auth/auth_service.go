package auth

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/notifications"
	"github.com/rajivgeraev/skillswap-api/internal/rewards"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// AuthService обрабатывает регистрацию и вход
type AuthService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	store      *db.Store
	ledger     *rewards.Ledger
	referrals  *rewards.ReferralGranter
	notifier   notifications.Notifier
}

// NewAuthService создает новый экземпляр AuthService
func NewAuthService(cfg *config.Config, store *db.Store, ledger *rewards.Ledger, referrals *rewards.ReferralGranter, notifier notifications.Notifier) *AuthService {
	return &AuthService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		store:      store,
		ledger:     ledger,
		referrals:  referrals,
		notifier:   notifier,
	}
}

// GetJWTService возвращает JWT-сервис для использования в middleware
func (s *AuthService) GetJWTService() *utils.JWTService {
	return s.jwtService
}

// generateReferralCode создает уникальный 8-символьный реферальный код
func generateReferralCode() string {
	return strings.ToUpper(uuid.New().String()[:8])
}

// Register регистрирует нового пользователя. Если передан валидный
// реферальный код — начисляет бонусы по реферальной программе; неизвестный
// код не является ошибкой.
func (s *AuthService) Register(c fiber.Ctx) error {
	var req struct {
		Email        string `json:"email"`
		Password     string `json:"password"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		ReferralCode string `json:"referral_code"`
	}

	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Необходимо указать корректный email"})
	}
	if len(req.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Пароль должен содержать не менее 8 символов"})
	}
	if req.FirstName == "" || req.LastName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Необходимо указать имя и фамилию"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	exists, err := s.store.EmailExists(ctx, req.Email)
	if err != nil {
		log.Printf("Ошибка проверки email: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}
	if exists {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Пользователь с таким email уже существует"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Ошибка хеширования пароля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обработки пароля"})
	}

	// Ищем пригласившего до создания пользователя: от этого зависит
	// стартовый баланс
	referrer, err := s.referrals.Lookup(ctx, strings.ToUpper(strings.TrimSpace(req.ReferralCode)))
	if err != nil {
		log.Printf("Ошибка поиска реферального кода: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	user := &models.User{
		ID:            uuid.New(),
		Email:         req.Email,
		PasswordHash:  string(hash),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Skillcoins:    rewards.StartingBalance,
		Level:         1,
		ReferralCode:  generateReferralCode(),
		SkillsToTeach: []models.Skill{},
		SkillsToLearn: []models.Skill{},
		IsActive:      true,
	}
	if referrer != nil {
		user.Skillcoins = rewards.ReferredStartBalance
		user.ReferredBy = &referrer.ID
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		log.Printf("Ошибка создания пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка создания пользователя"})
	}

	if referrer != nil {
		if err := s.referrals.Award(ctx, referrer, user); err != nil {
			// Пользователь уже создан, бонусы не начислены: логируем,
			// но регистрацию не откатываем
			log.Printf("Ошибка начисления реферальных бонусов: %v", err)
		} else {
			s.notifier.Notify(ctx, referrer.ID, notifications.Event{
				Type:      models.NotifyReferralBonus,
				Title:     "Реферальный бонус!",
				Message:   user.FirstName + " присоединился по вашей ссылке, вам начислено 100 скиллкоинов",
				Data:      map[string]any{"referred_user_id": user.ID},
				ActionURL: "/wallet",
			})
		}
	}

	token, err := s.jwtService.GenerateToken(user.ID.String())
	if err != nil {
		log.Printf("Ошибка генерации токена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка генерации токена"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    user,
		"token":   token,
	})
}

// Login аутентифицирует пользователя и обновляет серию входов
func (s *AuthService) Login(c fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	user, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Неверный email или пароль"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Неверный email или пароль"})
	}

	s.updateLoginStreak(user)

	token, err := s.jwtService.GenerateToken(user.ID.String())
	if err != nil {
		log.Printf("Ошибка генерации токена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка генерации токена"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
		"token":   token,
	})
}

// updateLoginStreak пересчитывает серию последовательных входов и начисляет
// бонус за каждый седьмой день подряд. Арифметика серии живет в
// rewards.AdvanceStreak.
func (s *AuthService) updateLoginStreak(user *models.User) {
	ctx, cancel := db.GetContext()
	defer cancel()

	now := time.Now()
	up := rewards.AdvanceStreak(user.LastLoginAt, user.LoginStreak, now)
	if !up.Changed {
		// Повторный вход в тот же день
		return
	}

	if up.BonusDue {
		if _, err := s.ledger.GrantSkillcoins(ctx, user.ID, rewards.StreakBonus, models.TransactionBonus,
			fmt.Sprintf("Серия входов: %d дней подряд!", up.Streak), models.SourceBonus, nil); err != nil {
			log.Printf("Ошибка начисления бонуса за серию входов: %v", err)
		} else {
			user.Skillcoins += rewards.StreakBonus
		}
	}

	if err := s.store.UpdateLoginActivity(ctx, user.ID, up.Streak, now); err != nil {
		log.Printf("Ошибка обновления серии входов: %v", err)
		return
	}
	user.LoginStreak = up.Streak
	user.LastLoginAt = &now
}

// Me возвращает профиль текущего пользователя
func (s *AuthService) Me(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
	}

	return c.JSON(fiber.Map{"user": user})
}

