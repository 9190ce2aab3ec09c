package rewards

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

func TestLookupEmptyCode(t *testing.T) {
	granter := NewReferralGranter(newFakeUserStore(), nil)

	referrer, err := granter.Lookup(context.Background(), "")
	require.NoError(t, err)
	require.Nil(t, referrer)
}

func TestLookupUnknownCode(t *testing.T) {
	granter := NewReferralGranter(newFakeUserStore(), nil)

	// Неизвестный код не блокирует регистрацию
	referrer, err := granter.Lookup(context.Background(), "NOPE1234")
	require.NoError(t, err)
	require.Nil(t, referrer)
}

func TestLookupFindsReferrer(t *testing.T) {
	owner := &models.User{ID: uuid.New(), ReferralCode: "ABCD1234"}
	granter := NewReferralGranter(newFakeUserStore(owner), nil)

	referrer, err := granter.Lookup(context.Background(), "ABCD1234")
	require.NoError(t, err)
	require.NotNil(t, referrer)
	require.Equal(t, owner.ID, referrer.ID)
}

func TestAward(t *testing.T) {
	referrer := &models.User{ID: uuid.New(), FirstName: "Анна", Skillcoins: 200, ReferralCode: "ABCD1234"}
	newUser := &models.User{ID: uuid.New(), FirstName: "Борис", Skillcoins: ReferredStartBalance}
	users := newFakeUserStore(referrer, newUser)
	txs := &fakeTxStore{}
	granter := NewReferralGranter(users, NewLedger(users, txs))

	err := granter.Award(context.Background(), referrer, newUser)
	require.NoError(t, err)

	// Пригласивший: +100 скиллкоинов и +1 к счетчику
	got, err := users.GetUser(context.Background(), referrer.ID)
	require.NoError(t, err)
	require.Equal(t, 200+ReferrerBonus, got.Skillcoins)
	require.Equal(t, 1, got.ReferralCount)

	// Журнал: реферальная транзакция пригласившему
	referrerTxs := txs.byUser(referrer.ID)
	require.Len(t, referrerTxs, 1)
	require.Equal(t, models.TransactionReferral, referrerTxs[0].Type)
	require.Equal(t, ReferrerBonus, referrerTxs[0].Amount)
	require.Equal(t, 200+ReferrerBonus, referrerTxs[0].Balance)

	// Журнал: приветственный бонус новому пользователю. Баланс не
	// увеличивается повторно — бонус уже входит в стартовый.
	newUserTxs := txs.byUser(newUser.ID)
	require.Len(t, newUserTxs, 1)
	require.Equal(t, models.TransactionBonus, newUserTxs[0].Type)
	require.Equal(t, WelcomeBonus, newUserTxs[0].Amount)
	require.Equal(t, ReferredStartBalance, newUserTxs[0].Balance)

	gotNew, err := users.GetUser(context.Background(), newUser.ID)
	require.NoError(t, err)
	require.Equal(t, ReferredStartBalance, gotNew.Skillcoins)
}

func TestReferralConstants(t *testing.T) {
	require.Equal(t, 100, ReferrerBonus)
	require.Equal(t, 50, StartingBalance)
	require.Equal(t, 100, ReferredStartBalance)
	require.Equal(t, 50, WelcomeBonus)
}
