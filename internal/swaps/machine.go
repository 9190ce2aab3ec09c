package swaps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/notifications"
	"github.com/rajivgeraev/skillswap-api/internal/rewards"
)

// Награды за завершение обмена
const (
	DefaultReward = 50 // Базовая награда в скиллкоинах
	CompletionXP  = 20 // XP каждому участнику
)

// Clock возвращает текущее время. Внедряется для тестируемости
// проверок расписания и автозавершения.
type Clock func() time.Time

// Store описывает операции хранилища над обменами
type Store interface {
	GetSwap(ctx context.Context, id uuid.UUID) (*models.Swap, error)
	CreateSwap(ctx context.Context, s *models.Swap) error
	UpdateSwap(ctx context.Context, s *models.Swap) error

	// ClaimCompletion атомарно переводит обмен в completed и выставляет
	// skillcoins_awarded, только если флаг еще не выставлен. Возвращает
	// true, если захват удался. Это единственная защита от двойного
	// начисления при гонке между обработчиком запроса и фоновой задачей.
	ClaimCompletion(ctx context.Context, id uuid.UUID, completedAt time.Time) (bool, error)

	// FindExpired возвращает обмены в статусе scheduled/active с истекшим
	// auto_expire_at и неначисленной наградой
	FindExpired(ctx context.Context, now time.Time, limit int) ([]models.Swap, error)
}

// Допустимые переходы статусов. Переход в тот же статус всегда разрешен
// и не имеет эффекта (кроме completed, где действует флаг награды).
var allowedTransitions = map[models.SwapStatus]map[models.SwapStatus]bool{
	models.SwapPending: {
		models.SwapAccepted:  true,
		models.SwapRejected:  true,
		models.SwapCancelled: true,
		// Принятие с одновременным планированием
		models.SwapScheduled: true,
	},
	models.SwapAccepted: {
		models.SwapScheduled: true,
		models.SwapCancelled: true,
	},
	models.SwapScheduled: {
		models.SwapActive:    true,
		models.SwapCancelled: true,
	},
	models.SwapActive: {
		models.SwapCompleted: true,
		models.SwapCancelled: true,
	},
}

// Machine управляет жизненным циклом обмена: переходами статусов,
// планированием и начислением наград при завершении
type Machine struct {
	swaps    Store
	users    rewards.UserStore
	ledger   *rewards.Ledger
	notifier notifications.Notifier
	now      Clock
}

// NewMachine создает новый экземпляр Machine
func NewMachine(swaps Store, users rewards.UserStore, ledger *rewards.Ledger, notifier notifications.Notifier) *Machine {
	return &Machine{
		swaps:    swaps,
		users:    users,
		ledger:   ledger,
		notifier: notifier,
		now:      time.Now,
	}
}

// WithClock заменяет источник времени (для тестов)
func (m *Machine) WithClock(now Clock) *Machine {
	m.now = now
	return m
}

// CreateInput содержит параметры нового запроса на обмен
type CreateInput struct {
	RecipientID    uuid.UUID
	SkillOffered   string
	SkillRequested string
	Description    string
	Duration       string
}

// Create создает новый запрос на обмен в статусе pending и уведомляет
// получателя
func (m *Machine) Create(ctx context.Context, requesterID uuid.UUID, in CreateInput) (*models.Swap, error) {
	if requesterID == in.RecipientID {
		return nil, ErrSelfSwap
	}
	if in.SkillOffered == "" || in.SkillRequested == "" {
		return nil, ErrMissingSkills
	}

	requester, err := m.users.GetUser(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if _, err := m.users.GetUser(ctx, in.RecipientID); err != nil {
		return nil, err
	}

	duration := in.Duration
	if duration == "" {
		duration = "1 hour"
	}

	now := m.now()
	swap := &models.Swap{
		ID:               uuid.New(),
		RequesterID:      requesterID,
		RecipientID:      in.RecipientID,
		SkillOffered:     in.SkillOffered,
		SkillRequested:   in.SkillRequested,
		Description:      in.Description,
		Status:           models.SwapPending,
		Duration:         duration,
		SkillcoinsEarned: DefaultReward,
		BonusMultiplier:  1.0,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := m.swaps.CreateSwap(ctx, swap); err != nil {
		return nil, fmt.Errorf("ошибка создания обмена: %w", err)
	}

	m.notifier.Notify(ctx, in.RecipientID, notifications.Event{
		Type:      models.NotifySwapRequest,
		Title:     "Новый запрос на обмен",
		Message:   fmt.Sprintf("%s предлагает обменять %s на %s", requester.FirstName, in.SkillOffered, in.SkillRequested),
		Data:      map[string]any{"swap_id": swap.ID},
		EntityRef: "swap:" + swap.ID.String(),
		ActionURL: "/swaps/" + swap.ID.String(),
	})

	return swap, nil
}

// TransitionInput содержит параметры обновления обмена. Пустой статус
// означает, что явный переход не запрошен.
type TransitionInput struct {
	Status        models.SwapStatus
	ScheduledDate *time.Time
	Duration      string
	Description   string
}

// Transition выполняет переход статуса и/или обновление расписания от имени
// участника обмена. Начисление наград при завершении защищено атомарным
// захватом флага skillcoins_awarded.
func (m *Machine) Transition(ctx context.Context, swapID, actorID uuid.UUID, in TransitionInput) (*models.Swap, error) {
	swap, err := m.swaps.GetSwap(ctx, swapID)
	if err != nil {
		return nil, err
	}

	if !swap.IsParticipant(actorID) {
		return nil, ErrNotParticipant
	}

	target := in.Status
	if target != "" && !target.IsValid() {
		return nil, ErrInvalidStatus
	}

	if in.Duration != "" {
		swap.Duration = in.Duration
	}
	if in.Description != "" {
		swap.Description = in.Description
	}

	// Планирование: дата строго в будущем, время окончания по длительности
	if in.ScheduledDate != nil {
		if !in.ScheduledDate.After(m.now()) {
			return nil, ErrInvalidSchedule
		}

		start := *in.ScheduledDate
		end := start.Add(ParseDuration(swap.Duration))
		swap.ScheduledDate = &start
		swap.StartTime = &start
		swap.EndTime = &end
		swap.AutoExpireAt = &end

		// Планирование без явного статуса (или вместе с принятием)
		// переводит обмен в scheduled
		if target == "" || target == models.SwapAccepted {
			target = models.SwapScheduled
		}
	}

	if target == "" {
		// Обновление полей без смены статуса
		swap.UpdatedAt = m.now()
		if err := m.swaps.UpdateSwap(ctx, swap); err != nil {
			return nil, fmt.Errorf("ошибка обновления обмена: %w", err)
		}
		return swap, nil
	}

	if target != swap.Status && !allowedTransitions[swap.Status][target] {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, swap.Status, target)
	}

	if target == models.SwapCompleted {
		if err := m.completeTransition(ctx, swap); err != nil {
			return nil, err
		}
		return swap, nil
	}

	oldStatus := swap.Status
	swap.Status = target
	swap.UpdatedAt = m.now()
	if err := m.swaps.UpdateSwap(ctx, swap); err != nil {
		return nil, fmt.Errorf("ошибка обновления обмена: %w", err)
	}

	if oldStatus != target || in.ScheduledDate != nil {
		m.notifyStatusChange(ctx, swap, actorID, target)
	}

	return swap, nil
}

// completeTransition завершает обмен интерактивно. Захват флага и статус
// меняются одним условным обновлением; проигравший гонку участник не
// начисляет ничего.
func (m *Machine) completeTransition(ctx context.Context, swap *models.Swap) error {
	if err := m.Complete(ctx, swap); err != nil {
		return err
	}

	if swap.Status != models.SwapCompleted {
		// Захват не удался, награда уже начислялась ранее (например, после
		// административного сброса статуса): фиксируем только статус
		now := m.now()
		swap.Status = models.SwapCompleted
		swap.UpdatedAt = now
		if swap.CompletedAt == nil {
			swap.CompletedAt = &now
		}
		if err := m.swaps.UpdateSwap(ctx, swap); err != nil {
			return fmt.Errorf("ошибка обновления обмена: %w", err)
		}
	}
	return nil
}

// Complete переводит обмен в completed и начисляет награды обоим
// участникам ровно один раз. Используется и интерактивным переходом, и
// фоновой задачей автозавершения ("системный" актор, без проверки
// участия). Безопасен при конкурентном вызове для одного обмена.
func (m *Machine) Complete(ctx context.Context, swap *models.Swap) error {
	now := m.now()
	claimed, err := m.swaps.ClaimCompletion(ctx, swap.ID, now)
	if err != nil {
		return fmt.Errorf("ошибка захвата завершения: %w", err)
	}
	if !claimed {
		// Награда уже начислена — идемпотентный no-op
		return nil
	}

	swap.Status = models.SwapCompleted
	swap.SkillcoinsAwarded = true
	swap.CompletedAt = &now
	swap.UpdatedAt = now

	reward := swap.TotalReward()

	var errs []error
	if err := m.rewardParticipant(ctx, swap, swap.RequesterID, swap.SkillRequested, reward); err != nil {
		errs = append(errs, fmt.Errorf("участник %s: %w", swap.RequesterID, err))
	}
	if err := m.rewardParticipant(ctx, swap, swap.RecipientID, swap.SkillOffered, reward); err != nil {
		errs = append(errs, fmt.Errorf("участник %s: %w", swap.RecipientID, err))
	}
	return errors.Join(errs...)
}

// rewardParticipant начисляет одному участнику награду за завершенный
// обмен: скиллкоины, XP, счетчики и возможный бонус за веху
func (m *Machine) rewardParticipant(ctx context.Context, swap *models.Swap, userID uuid.UUID, skill string, reward int) error {
	desc := fmt.Sprintf("Завершен обмен: %s", skill)
	if _, err := m.ledger.GrantSkillcoins(ctx, userID, reward, models.TransactionEarn, desc, models.SourceSwap, &swap.ID); err != nil {
		return err
	}

	if _, err := m.ledger.GrantXP(ctx, userID, CompletionXP); err != nil {
		return err
	}

	completed, err := m.users.IncrementSwapCounters(ctx, userID)
	if err != nil {
		return err
	}

	if bonus := rewards.MilestoneBonus(completed); bonus > 0 {
		if _, err := m.ledger.GrantSkillcoins(ctx, userID, bonus, models.TransactionBonus,
			fmt.Sprintf("Веха: %d завершенных обменов!", completed),
			models.SourceMilestone, &swap.ID); err != nil {
			return err
		}
	}

	m.notifier.Notify(ctx, userID, notifications.Event{
		Type:      models.NotifySwapCompleted,
		Title:     "Обмен завершен! 🎉",
		Message:   fmt.Sprintf("Вы заработали %d скиллкоинов за обмен", reward),
		Data:      map[string]any{"swap_id": swap.ID, "skillcoins": reward},
		EntityRef: "swap:" + swap.ID.String(),
		ActionURL: "/wallet",
	})
	return nil
}

// notifyStatusChange уведомляет второго участника о смене статуса.
// Сбой уведомления не влияет на результат перехода.
func (m *Machine) notifyStatusChange(ctx context.Context, swap *models.Swap, actorID uuid.UUID, status models.SwapStatus) {
	actorName := "Партнер"
	if actor, err := m.users.GetUser(ctx, actorID); err == nil {
		actorName = actor.FirstName
	}

	var notifType, title, message string
	switch status {
	case models.SwapAccepted:
		notifType = models.NotifySwapAccepted
		title = "Обмен принят!"
		message = fmt.Sprintf("%s принял ваш запрос на обмен", actorName)
	case models.SwapRejected:
		notifType = models.NotifySwapRejected
		title = "Обмен отклонен"
		message = fmt.Sprintf("%s отклонил ваш запрос на обмен", actorName)
	case models.SwapScheduled:
		notifType = models.NotifySwapScheduled
		title = "Сессия запланирована!"
		message = fmt.Sprintf("%s запланировал сессию обмена", actorName)
	case models.SwapCancelled:
		notifType = models.NotifySwapCancelled
		title = "Обмен отменен"
		message = fmt.Sprintf("%s отменил обмен", actorName)
	default:
		return
	}

	data := map[string]any{"swap_id": swap.ID, "status": swap.Status}
	if swap.ScheduledDate != nil {
		data["scheduled_date"] = swap.ScheduledDate
	}

	m.notifier.Notify(ctx, swap.OtherParticipant(actorID), notifications.Event{
		Type:      notifType,
		Title:     title,
		Message:   message,
		Data:      data,
		EntityRef: "swap:" + swap.ID.String(),
		ActionURL: "/swaps/" + swap.ID.String(),
	})
}
