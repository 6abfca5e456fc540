package helpers

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

const day = 24 * time.Hour

// Recency labels.
const (
	RecencyToday     = "today"
	RecencyYesterday = "yesterday"
)

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// ElapsedDays returns the absolute distance between t and now in whole days, rounded up.
func ElapsedDays(t, now time.Time) int {
	diff := now.Sub(t)
	if diff < 0 {
		diff = -diff
	}
	days := int(diff / day)
	if diff%day != 0 {
		days++
	}
	return days
}

// FormatRecency converts a timestamp into a coarse label relative to now.
func FormatRecency(t, now time.Time) string {
	days := ElapsedDays(t, now)
	switch {
	case days == 0:
		return RecencyToday
	case days == 1:
		return RecencyYesterday
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return fmt.Sprintf("%d weeks ago", days/7)
	case days < 365:
		return fmt.Sprintf("%d months ago", days/30)
	default:
		return fmt.Sprintf("%d years ago", days/365)
	}
}

// WithCallTimeout bounds a single store call. A non-positive timeout leaves ctx untouched.
func WithCallTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
