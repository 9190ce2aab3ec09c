package rewards

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func at(day int, hour int) time.Time {
	return time.Date(2025, 6, day, hour, 0, 0, 0, time.UTC)
}

func TestAdvanceStreakFirstLogin(t *testing.T) {
	up := AdvanceStreak(nil, 0, at(15, 12))
	require.Equal(t, 1, up.Streak)
	require.True(t, up.Changed)
	require.False(t, up.BonusDue)
}

func TestAdvanceStreakSameDayRepeat(t *testing.T) {
	morning := at(15, 8)
	up := AdvanceStreak(&morning, 3, at(15, 23))
	require.Equal(t, 3, up.Streak)
	require.False(t, up.Changed)
	require.False(t, up.BonusDue)
}

func TestAdvanceStreakNextDay(t *testing.T) {
	// Вчера поздно вечером, сегодня рано утром: календарные сутки сменились
	yesterday := at(14, 23)
	up := AdvanceStreak(&yesterday, 3, at(15, 1))
	require.Equal(t, 4, up.Streak)
	require.True(t, up.Changed)
	require.False(t, up.BonusDue)
}

func TestAdvanceStreakSeventhDayBonus(t *testing.T) {
	yesterday := at(14, 12)
	up := AdvanceStreak(&yesterday, 6, at(15, 12))
	require.Equal(t, 7, up.Streak)
	require.True(t, up.BonusDue)

	// Бонус строго на седьмом дне: восьмой день без бонуса
	up = AdvanceStreak(&yesterday, 7, at(15, 12))
	require.Equal(t, 8, up.Streak)
	require.False(t, up.BonusDue)

	// И снова на четырнадцатом
	up = AdvanceStreak(&yesterday, 13, at(15, 12))
	require.Equal(t, 14, up.Streak)
	require.True(t, up.BonusDue)
}

func TestAdvanceStreakGapResets(t *testing.T) {
	threeDaysAgo := at(12, 12)
	up := AdvanceStreak(&threeDaysAgo, 6, at(15, 12))
	require.Equal(t, 1, up.Streak)
	require.True(t, up.Changed)
	require.False(t, up.BonusDue)
}

func TestAdvanceStreakBonusOncePerDay(t *testing.T) {
	// Повторный вход в день бонуса не выдает его второй раз: серия уже
	// записана, пересчет ничего не меняет
	today := at(15, 9)
	up := AdvanceStreak(&today, 7, at(15, 18))
	require.Equal(t, 7, up.Streak)
	require.False(t, up.Changed)
	require.False(t, up.BonusDue)
}
