package rewards

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeLevel(t *testing.T) {
	tests := []struct {
		xp    int
		level int
	}{
		{-10, 1},
		{0, 1},
		{49, 1},
		{50, 2},
		{199, 2},
		{200, 3},
		{449, 3},
		{450, 4},
		{5000, 11},
	}

	for _, tt := range tests {
		require.Equal(t, tt.level, ComputeLevel(tt.xp), "xp=%d", tt.xp)
	}
}

func TestComputeLevelMonotonic(t *testing.T) {
	prev := 0
	for xp := 0; xp <= 10000; xp += 10 {
		level := ComputeLevel(xp)
		require.GreaterOrEqual(t, level, prev, "xp=%d", xp)
		prev = level
	}
}

func TestXPForLevel(t *testing.T) {
	require.Equal(t, 0, XPForLevel(0))
	require.Equal(t, 0, XPForLevel(1))
	require.Equal(t, 50, XPForLevel(2))
	require.Equal(t, 200, XPForLevel(3))
	require.Equal(t, 450, XPForLevel(4))

	// Порог уровня согласован с ComputeLevel
	for level := 2; level <= 20; level++ {
		threshold := XPForLevel(level)
		require.Equal(t, level, ComputeLevel(threshold))
		require.Equal(t, level-1, ComputeLevel(threshold-1))
	}
}

func TestMilestoneBonus(t *testing.T) {
	require.Equal(t, 0, MilestoneBonus(0))
	require.Equal(t, 0, MilestoneBonus(9))
	require.Equal(t, 100, MilestoneBonus(10))
	require.Equal(t, 0, MilestoneBonus(11))
	require.Equal(t, 500, MilestoneBonus(50))
	require.Equal(t, 1000, MilestoneBonus(100))
	require.Equal(t, 0, MilestoneBonus(101))
}
