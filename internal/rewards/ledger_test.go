package rewards

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// fakeUserStore — потокобезопасное хранилище пользователей в памяти
type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[uuid.UUID]*models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) get(id uuid.UUID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.get(id)
	if err != nil {
		return nil, err
	}
	copied := *u
	return &copied, nil
}

func (s *fakeUserStore) AddSkillcoins(ctx context.Context, id uuid.UUID, amount int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.get(id)
	if err != nil {
		return 0, err
	}
	u.Skillcoins += amount
	return u.Skillcoins, nil
}

func (s *fakeUserStore) SpendSkillcoins(ctx context.Context, id uuid.UUID, amount int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.get(id)
	if err != nil {
		return 0, err
	}
	if u.Skillcoins < amount {
		return 0, models.ErrInsufficientFunds
	}
	u.Skillcoins -= amount
	return u.Skillcoins, nil
}

func (s *fakeUserStore) AddXP(ctx context.Context, id uuid.UUID, amount int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.get(id)
	if err != nil {
		return 0, err
	}
	u.XP += amount
	return u.XP, nil
}

func (s *fakeUserStore) SetLevel(ctx context.Context, id uuid.UUID, level int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.get(id)
	if err != nil {
		return err
	}
	if level > u.Level {
		u.Level = level
	}
	return nil
}

func (s *fakeUserStore) IncrementSwapCounters(ctx context.Context, id uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.get(id)
	if err != nil {
		return 0, err
	}
	u.TotalSwaps++
	u.CompletedSwaps++
	return u.CompletedSwaps, nil
}

func (s *fakeUserStore) FindUserByReferralCode(ctx context.Context, code string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ReferralCode == code {
			copied := *u
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *fakeUserStore) IncrementReferralCount(ctx context.Context, referrerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.get(referrerID)
	if err != nil {
		return err
	}
	u.ReferralCount++
	return nil
}

// fakeTxStore — журнал транзакций в памяти
type fakeTxStore struct {
	mu  sync.Mutex
	txs []models.Transaction
}

func (s *fakeTxStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append(s.txs, *t)
	return nil
}

func (s *fakeTxStore) all() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Transaction, len(s.txs))
	copy(out, s.txs)
	return out
}

func (s *fakeTxStore) byUser(id uuid.UUID) []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Transaction
	for _, t := range s.txs {
		if t.UserID == id {
			out = append(out, t)
		}
	}
	return out
}

func TestGrantSkillcoins(t *testing.T) {
	user := &models.User{ID: uuid.New(), Skillcoins: 50}
	users := newFakeUserStore(user)
	txs := &fakeTxStore{}
	ledger := NewLedger(users, txs)

	balance, err := ledger.GrantSkillcoins(context.Background(), user.ID, 100,
		models.TransactionEarn, "тест", models.SourceSwap, nil)
	require.NoError(t, err)
	require.Equal(t, 150, balance)

	recorded := txs.all()
	require.Len(t, recorded, 1)
	require.Equal(t, models.TransactionEarn, recorded[0].Type)
	require.Equal(t, 100, recorded[0].Amount)
	require.Equal(t, 150, recorded[0].Balance)
	require.NotEqual(t, uuid.Nil, recorded[0].ID)
	require.False(t, recorded[0].CreatedAt.IsZero())
}

func TestGrantSkillcoinsRejectsNonPositive(t *testing.T) {
	user := &models.User{ID: uuid.New()}
	ledger := NewLedger(newFakeUserStore(user), &fakeTxStore{})

	_, err := ledger.GrantSkillcoins(context.Background(), user.ID, 0,
		models.TransactionEarn, "тест", models.SourceSwap, nil)
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ledger.GrantSkillcoins(context.Background(), user.ID, -5,
		models.TransactionEarn, "тест", models.SourceSwap, nil)
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestSpendSkillcoins(t *testing.T) {
	user := &models.User{ID: uuid.New(), Skillcoins: 100}
	users := newFakeUserStore(user)
	txs := &fakeTxStore{}
	ledger := NewLedger(users, txs)

	balance, err := ledger.SpendSkillcoins(context.Background(), user.ID, 30, "покупка")
	require.NoError(t, err)
	require.Equal(t, 70, balance)

	recorded := txs.all()
	require.Len(t, recorded, 1)
	require.Equal(t, models.TransactionSpend, recorded[0].Type)
	require.Equal(t, 70, recorded[0].Balance)
}

func TestSpendSkillcoinsInsufficientFunds(t *testing.T) {
	user := &models.User{ID: uuid.New(), Skillcoins: 20}
	users := newFakeUserStore(user)
	txs := &fakeTxStore{}
	ledger := NewLedger(users, txs)

	_, err := ledger.SpendSkillcoins(context.Background(), user.ID, 21, "покупка")
	require.ErrorIs(t, err, models.ErrInsufficientFunds)

	// Баланс не изменился, журнал пуст
	got, err := users.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, 20, got.Skillcoins)
	require.Empty(t, txs.all())
}

func TestGrantXPLevelUp(t *testing.T) {
	user := &models.User{ID: uuid.New(), XP: 40, Level: 1}
	users := newFakeUserStore(user)
	ledger := NewLedger(users, &fakeTxStore{})

	// 40 + 20 = 60 XP: переход с уровня 1 на уровень 2
	change, err := ledger.GrantXP(context.Background(), user.ID, 20)
	require.NoError(t, err)
	require.True(t, change.LeveledUp)
	require.Equal(t, 2, change.NewLevel)

	got, err := users.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, 60, got.XP)
	require.Equal(t, 2, got.Level)
}

func TestGrantXPNoLevelUp(t *testing.T) {
	user := &models.User{ID: uuid.New(), XP: 0, Level: 1}
	users := newFakeUserStore(user)
	ledger := NewLedger(users, &fakeTxStore{})

	change, err := ledger.GrantXP(context.Background(), user.ID, 20)
	require.NoError(t, err)
	require.False(t, change.LeveledUp)
	require.Equal(t, 1, change.NewLevel)
}

func TestGrantXPZeroIsNoop(t *testing.T) {
	user := &models.User{ID: uuid.New(), XP: 100, Level: 2}
	users := newFakeUserStore(user)
	ledger := NewLedger(users, &fakeTxStore{})

	change, err := ledger.GrantXP(context.Background(), user.ID, 0)
	require.NoError(t, err)
	require.False(t, change.LeveledUp)

	got, err := users.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, 100, got.XP)
}
