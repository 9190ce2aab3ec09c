package rewards

import "math"

// ComputeLevel вычисляет уровень пользователя по количеству XP.
// Формула: level = max(1, floor(sqrt(xp/50)) + 1). Монотонна по xp.
func ComputeLevel(xp int) int {
	if xp < 0 {
		return 1
	}
	level := int(math.Sqrt(float64(xp)/50)) + 1
	if level < 1 {
		level = 1
	}
	return level
}

// XPForLevel возвращает минимальное количество XP для достижения уровня
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return 50 * (level - 1) * (level - 1)
}

// MilestoneBonus возвращает разовый бонус за достижение вехи по завершённым
// обменам. Ноль, если счетчик не попал точно на порог.
func MilestoneBonus(completedSwaps int) int {
	switch completedSwaps {
	case 10:
		return 100
	case 50:
		return 500
	case 100:
		return 1000
	}
	return 0
}
