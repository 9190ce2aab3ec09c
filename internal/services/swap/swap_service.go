package swap

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/rewards"
	"github.com/rajivgeraev/skillswap-api/internal/swaps"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// SwapService представляет сервис для работы с обменами навыками
type SwapService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	store      *db.Store
	machine    *swaps.Machine
}

// NewSwapService создает новый экземпляр SwapService
func NewSwapService(cfg *config.Config, store *db.Store, machine *swaps.Machine) *SwapService {
	return &SwapService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		store:      store,
		machine:    machine,
	}
}

// CreateSwap создает новый запрос на обмен навыками
func (s *SwapService) CreateSwap(c fiber.Ctx) error {
	actorID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	var req struct {
		RecipientID    string `json:"recipient_id"`
		SkillOffered   string `json:"skill_offered"`
		SkillRequested string `json:"skill_requested"`
		Description    string `json:"description"`
		Duration       string `json:"duration"`
	}

	if err := c.Bind().Body(&req); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID получателя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	swap, err := s.machine.Create(ctx, actorID, swaps.CreateInput{
		RecipientID:    recipientID,
		SkillOffered:   req.SkillOffered,
		SkillRequested: req.SkillRequested,
		Description:    req.Description,
		Duration:       req.Duration,
	})
	if err != nil {
		return s.renderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"swap":    swap,
	})
}

// GetMySwaps возвращает обмены текущего пользователя
func (s *SwapService) GetMySwaps(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	status := models.SwapStatus(c.Query("status", ""))
	if status != "" && !status.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Недопустимый статус обмена"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	list, err := s.store.ListUserSwaps(ctx, userID, status)
	if err != nil {
		log.Printf("Ошибка запроса обменов: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения обменов"})
	}

	// Загружаем краткую информацию об участниках
	for i := range list {
		list[i].Requester, _ = s.store.GetPublicUser(ctx, list[i].RequesterID)
		list[i].Recipient, _ = s.store.GetPublicUser(ctx, list[i].RecipientID)
	}

	return c.JSON(fiber.Map{
		"swaps": list,
		"count": len(list),
	})
}

// GetSwapByID возвращает один обмен; доступен только участникам
func (s *SwapService) GetSwapByID(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	swapID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID обмена"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	swap, err := s.store.GetSwap(ctx, swapID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Обмен не найден"})
		}
		log.Printf("Ошибка запроса обмена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения обмена"})
	}

	if !swap.IsParticipant(userID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Вы не являетесь участником этого обмена"})
	}

	swap.Requester, _ = s.store.GetPublicUser(ctx, swap.RequesterID)
	swap.Recipient, _ = s.store.GetPublicUser(ctx, swap.RecipientID)

	return c.JSON(fiber.Map{"swap": swap})
}

// UpdateSwap обновляет статус и/или расписание обмена
func (s *SwapService) UpdateSwap(c fiber.Ctx) error {
	actorID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	swapID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID обмена"})
	}

	var req struct {
		Status        string     `json:"status"`
		ScheduledDate *time.Time `json:"scheduled_date"`
		Duration      string     `json:"duration"`
		Description   string     `json:"description"`
	}

	if err := c.Bind().Body(&req); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	swap, err := s.machine.Transition(ctx, swapID, actorID, swaps.TransitionInput{
		Status:        models.SwapStatus(req.Status),
		ScheduledDate: req.ScheduledDate,
		Duration:      req.Duration,
		Description:   req.Description,
	})
	if err != nil {
		return s.renderError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"swap":    swap,
	})
}

// renderError отображает доменные ошибки в HTTP-ответы со стабильными кодами
func (s *SwapService) renderError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, swaps.ErrSelfSwap):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Нельзя предложить обмен самому себе"})
	case errors.Is(err, swaps.ErrMissingSkills):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Необходимо указать предлагаемый и запрашиваемый навыки"})
	case errors.Is(err, swaps.ErrNotParticipant):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Вы не являетесь участником этого обмена"})
	case errors.Is(err, swaps.ErrInvalidSchedule):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Дата сессии должна быть в будущем"})
	case errors.Is(err, swaps.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Недопустимый статус обмена"})
	case errors.Is(err, swaps.ErrInvalidTransition):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Недопустимый переход статуса"})
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Обмен или пользователь не найден"})
	case errors.Is(err, rewards.ErrInvalidAmount):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Некорректная сумма"})
	default:
		log.Printf("Ошибка операции с обменом: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Внутренняя ошибка сервера"})
	}
}
