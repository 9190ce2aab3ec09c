package swaps

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultDuration используется, когда строка длительности не распознана
const DefaultDuration = time.Hour

var durationPattern = regexp.MustCompile(`(?i)(\d+)\s*(hour|minute|hr|min)`)

// ParseDuration разбирает человекочитаемую длительность сессии вида
// "2 hours", "45 minutes", "1 hr", "30 min". Нераспознанная строка
// трактуется как один час.
func ParseDuration(s string) time.Duration {
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return DefaultDuration
	}

	value, err := strconv.Atoi(m[1])
	if err != nil || value <= 0 {
		return DefaultDuration
	}

	unit := strings.ToLower(m[2])
	switch {
	case strings.HasPrefix(unit, "hour"), unit == "hr":
		return time.Duration(value) * time.Hour
	case strings.HasPrefix(unit, "min"):
		return time.Duration(value) * time.Minute
	}
	return DefaultDuration
}
