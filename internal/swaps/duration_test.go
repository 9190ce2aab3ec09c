package swaps

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"1 hour", time.Hour},
		{"2 hours", 2 * time.Hour},
		{"1 hr", time.Hour},
		{"3hr", 3 * time.Hour},
		{"30 minutes", 30 * time.Minute},
		{"45 min", 45 * time.Minute},
		{"90MIN", 90 * time.Minute},
		{"2 Hours", 2 * time.Hour},
		{"", DefaultDuration},
		{"когда-нибудь", DefaultDuration},
		{"hour", DefaultDuration},
		{"0 hours", DefaultDuration},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, ParseDuration(tt.in), "input=%q", tt.in)
	}
}
