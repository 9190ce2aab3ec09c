package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSwapStatusIsTerminal(t *testing.T) {
	require.True(t, SwapCompleted.IsTerminal())
	require.True(t, SwapRejected.IsTerminal())
	require.True(t, SwapCancelled.IsTerminal())
	require.False(t, SwapPending.IsTerminal())
	require.False(t, SwapAccepted.IsTerminal())
	require.False(t, SwapScheduled.IsTerminal())
	require.False(t, SwapActive.IsTerminal())
}

func TestSwapStatusIsValid(t *testing.T) {
	require.True(t, SwapPending.IsValid())
	require.True(t, SwapCompleted.IsValid())
	require.False(t, SwapStatus("").IsValid())
	require.False(t, SwapStatus("frozen").IsValid())
}

func TestOtherParticipant(t *testing.T) {
	requester, recipient := uuid.New(), uuid.New()
	swap := &Swap{RequesterID: requester, RecipientID: recipient}

	require.Equal(t, recipient, swap.OtherParticipant(requester))
	require.Equal(t, requester, swap.OtherParticipant(recipient))

	require.True(t, swap.IsParticipant(requester))
	require.True(t, swap.IsParticipant(recipient))
	require.False(t, swap.IsParticipant(uuid.New()))
}

func TestTotalReward(t *testing.T) {
	tests := []struct {
		earned     int
		multiplier float64
		want       int
	}{
		{50, 1.0, 50},
		{50, 1.5, 75},
		{50, 2.0, 100},
		{0, 1.0, 50},   // База по умолчанию
		{50, 0.5, 50},  // Множитель меньше единицы не штрафует
		{50, 0, 50},    // Незаполненный множитель
		{100, 1.25, 125},
	}

	for _, tt := range tests {
		swap := &Swap{SkillcoinsEarned: tt.earned, BonusMultiplier: tt.multiplier}
		require.Equal(t, tt.want, swap.TotalReward(), "earned=%d mult=%v", tt.earned, tt.multiplier)
	}
}
