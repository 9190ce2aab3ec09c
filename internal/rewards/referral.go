package rewards

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// Суммы реферальной программы
const (
	ReferrerBonus        = 100 // Бонус пригласившему за каждого нового пользователя
	StartingBalance      = 50  // Стартовый баланс обычного пользователя
	ReferredStartBalance = 100 // Стартовый баланс приглашенного: 50 базовых + 50 приветственных
	WelcomeBonus         = ReferredStartBalance - StartingBalance
)

// ReferralStore описывает операции реферальной системы
type ReferralStore interface {
	// FindUserByReferralCode ищет пригласившего по коду.
	// Возвращает models.ErrNotFound, если код никому не принадлежит.
	FindUserByReferralCode(ctx context.Context, code string) (*models.User, error)

	// IncrementReferralCount атомарно увеличивает счетчик приглашений
	IncrementReferralCount(ctx context.Context, referrerID uuid.UUID) error
}

// ReferralGranter начисляет реферальные бонусы при регистрации
type ReferralGranter struct {
	refs   ReferralStore
	ledger *Ledger
}

// NewReferralGranter создает новый экземпляр ReferralGranter
func NewReferralGranter(refs ReferralStore, ledger *Ledger) *ReferralGranter {
	return &ReferralGranter{refs: refs, ledger: ledger}
}

// Lookup ищет пригласившего по реферальному коду. Неизвестный или пустой
// код — не ошибка: регистрация продолжается без реферальной связи.
func (g *ReferralGranter) Lookup(ctx context.Context, code string) (*models.User, error) {
	if code == "" {
		return nil, nil
	}
	referrer, err := g.refs.FindUserByReferralCode(ctx, code)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка поиска по реферальному коду: %w", err)
	}
	return referrer, nil
}

// Award начисляет бонусы после создания приглашенного пользователя:
// пригласившему — ReferrerBonus скиллкоинов и +1 к счетчику приглашений,
// новому пользователю — запись о приветственном бонусе (его стартовый
// баланс уже создан равным ReferredStartBalance).
func (g *ReferralGranter) Award(ctx context.Context, referrer, newUser *models.User) error {
	if err := g.refs.IncrementReferralCount(ctx, referrer.ID); err != nil {
		return fmt.Errorf("ошибка обновления счетчика приглашений: %w", err)
	}

	_, err := g.ledger.GrantSkillcoins(ctx, referrer.ID, ReferrerBonus, models.TransactionReferral,
		fmt.Sprintf("Реферальный бонус: %s присоединился", newUser.FirstName),
		models.SourceReferral, &newUser.ID)
	if err != nil {
		return err
	}

	// Приветственный бонус уже входит в стартовый баланс, фиксируем только
	// запись в журнале
	return g.ledger.Record(ctx, &models.Transaction{
		UserID:      newUser.ID,
		Type:        models.TransactionBonus,
		Amount:      WelcomeBonus,
		Description: "Приветственный бонус по реферальной ссылке",
		SourceType:  models.SourceReferral,
		SourceID:    &referrer.ID,
		Balance:     newUser.Skillcoins,
	})
}
