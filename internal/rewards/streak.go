package rewards

import "time"

// Серия последовательных входов
const (
	StreakBonus      = 50 // Бонус за каждый седьмой день серии
	StreakBonusEvery = 7
)

// StreakUpdate описывает результат пересчета серии входов
type StreakUpdate struct {
	Streak   int
	Changed  bool // Нужно ли записать новую активность
	BonusDue bool // Положен ли бонус за серию
}

// AdvanceStreak пересчитывает серию последовательных входов на момент now.
// Дни сравниваются по полуночи в зоне now: вход на следующий день
// продлевает серию, разрыв сбрасывает ее, повторный вход в тот же день
// ничего не меняет. Бонус положен на каждом седьмом дне подряд.
func AdvanceStreak(lastLogin *time.Time, streak int, now time.Time) StreakUpdate {
	if lastLogin == nil {
		return StreakUpdate{Streak: 1, Changed: true}
	}

	today := midnight(now)
	lastDay := midnight(lastLogin.In(now.Location()))
	days := int(today.Sub(lastDay).Hours() / 24)

	switch {
	case days == 1:
		next := streak + 1
		return StreakUpdate{Streak: next, Changed: true, BonusDue: next%StreakBonusEvery == 0}
	case days > 1:
		return StreakUpdate{Streak: 1, Changed: true}
	}
	return StreakUpdate{Streak: streak}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
