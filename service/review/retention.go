package review

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/viant/warden/internal/clock"
)

// listScanLimit bounds how many sessions one cleanup pass considers.
const listScanLimit = 10000

// Clean deletes sessions created before now-olderThan. Sessions that still
// owe a review outcome are skipped regardless of age. Returns the number of
// deleted sessions.
func (s *Service) Clean(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := clock.Now().Add(-olderThan)
	summaries, err := s.store.List(ctx, listScanLimit)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, summary := range summaries {
		if !summary.CreatedAt.Before(cutoff) {
			continue
		}
		state, err := s.store.Get(ctx, summary.SessionID)
		if err != nil {
			return removed, err
		}
		if state != nil && state.Active() {
			continue
		}
		if err := s.store.Delete(ctx, summary.SessionID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// ParseRetention parses a retention window like "7d", "24h" or "30m". A bare
// number counts days; an empty string defaults to seven days.
func ParseRetention(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 7 * 24 * time.Hour, nil
	}

	unit := 24 * time.Hour
	digits := value
	switch {
	case strings.HasSuffix(value, "d"):
		digits = strings.TrimSuffix(value, "d")
	case strings.HasSuffix(value, "h"):
		unit = time.Hour
		digits = strings.TrimSuffix(value, "h")
	case strings.HasSuffix(value, "m"):
		unit = time.Minute
		digits = strings.TrimSuffix(value, "m")
	}

	count, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration: %s", value)
	}
	return time.Duration(count) * unit, nil
}
