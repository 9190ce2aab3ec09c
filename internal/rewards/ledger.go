package rewards

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// ErrInvalidAmount возвращается при попытке начислить или списать
// неположительную сумму
var ErrInvalidAmount = errors.New("сумма должна быть положительной")

// UserStore описывает операции над счетом пользователя. Все мутации
// атомарны по отношению к конкурентным писателям: инкременты и условные
// списания выполняются одним запросом к хранилищу.
type UserStore interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)

	// AddSkillcoins атомарно увеличивает баланс и возвращает новое значение
	AddSkillcoins(ctx context.Context, id uuid.UUID, amount int) (int, error)

	// SpendSkillcoins атомарно списывает amount, если баланс достаточен.
	// Возвращает models.ErrInsufficientFunds, если списание ушло бы в минус.
	SpendSkillcoins(ctx context.Context, id uuid.UUID, amount int) (int, error)

	// AddXP атомарно увеличивает XP и возвращает новое значение
	AddXP(ctx context.Context, id uuid.UUID, amount int) (int, error)

	// SetLevel поднимает уровень до указанного (монотонно, никогда не снижает)
	SetLevel(ctx context.Context, id uuid.UUID, level int) error

	// IncrementSwapCounters увеличивает оба счетчика обменов на единицу и
	// возвращает новое значение completed_swaps
	IncrementSwapCounters(ctx context.Context, id uuid.UUID) (int, error)
}

// TransactionStore записывает журнал операций со скиллкоинами
type TransactionStore interface {
	CreateTransaction(ctx context.Context, t *models.Transaction) error
}

// LevelChange описывает результат начисления XP
type LevelChange struct {
	LeveledUp bool `json:"leveled_up"`
	NewLevel  int  `json:"new_level"`
}

// Ledger начисляет и списывает скиллкоины и XP, фиксируя каждую операцию
// с балансом в журнале транзакций
type Ledger struct {
	users UserStore
	txs   TransactionStore
}

// NewLedger создает новый экземпляр Ledger
func NewLedger(users UserStore, txs TransactionStore) *Ledger {
	return &Ledger{users: users, txs: txs}
}

// GrantXP начисляет XP и пересчитывает уровень. XP никогда не уменьшается.
func (l *Ledger) GrantXP(ctx context.Context, userID uuid.UUID, amount int) (LevelChange, error) {
	if amount < 0 {
		return LevelChange{}, ErrInvalidAmount
	}
	if amount == 0 {
		return LevelChange{}, nil
	}

	newXP, err := l.users.AddXP(ctx, userID, amount)
	if err != nil {
		return LevelChange{}, fmt.Errorf("ошибка начисления XP: %w", err)
	}

	oldLevel := ComputeLevel(newXP - amount)
	newLevel := ComputeLevel(newXP)
	if newLevel > oldLevel {
		if err := l.users.SetLevel(ctx, userID, newLevel); err != nil {
			return LevelChange{}, fmt.Errorf("ошибка обновления уровня: %w", err)
		}
		return LevelChange{LeveledUp: true, NewLevel: newLevel}, nil
	}
	return LevelChange{LeveledUp: false, NewLevel: newLevel}, nil
}

// GrantSkillcoins увеличивает баланс и записывает транзакцию со снимком
// баланса сразу после начисления
func (l *Ledger) GrantSkillcoins(ctx context.Context, userID uuid.UUID, amount int, txType models.TransactionType, description, sourceType string, sourceID *uuid.UUID) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	newBalance, err := l.users.AddSkillcoins(ctx, userID, amount)
	if err != nil {
		return 0, fmt.Errorf("ошибка начисления скиллкоинов: %w", err)
	}

	if err := l.Record(ctx, &models.Transaction{
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Description: description,
		SourceType:  sourceType,
		SourceID:    sourceID,
		Balance:     newBalance,
	}); err != nil {
		return newBalance, err
	}
	return newBalance, nil
}

// SpendSkillcoins списывает скиллкоины. При недостатке средств баланс
// не меняется и возвращается models.ErrInsufficientFunds.
func (l *Ledger) SpendSkillcoins(ctx context.Context, userID uuid.UUID, amount int, description string) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	newBalance, err := l.users.SpendSkillcoins(ctx, userID, amount)
	if err != nil {
		return 0, err
	}

	if err := l.Record(ctx, &models.Transaction{
		UserID:      userID,
		Type:        models.TransactionSpend,
		Amount:      amount,
		Description: description,
		Balance:     newBalance,
	}); err != nil {
		return newBalance, err
	}
	return newBalance, nil
}

// Record добавляет запись в журнал транзакций
func (l *Ledger) Record(ctx context.Context, t *models.Transaction) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	if err := l.txs.CreateTransaction(ctx, t); err != nil {
		return fmt.Errorf("ошибка записи транзакции: %w", err)
	}
	return nil
}
