package review

import (
	"context"
	"time"

	"github.com/viant/warden/internal/clock"
	"github.com/viant/warden/model/session"
)

// TemplateStats aggregates review attempt outcomes for one block template,
// the raw material for comparing template variants.
type TemplateStats struct {
	SuccessCount int
	TotalBlocks  int
	NotSpawned   int
	NoDecision   int
	BadSessionID int
	Pending      int
}

// Record tallies one attempt outcome.
func (t *TemplateStats) Record(outcome session.AttemptOutcome) {
	switch outcome.Type {
	case session.OutcomeSuccess:
		t.SuccessCount++
		t.TotalBlocks += outcome.BlocksNeeded
	case session.OutcomeNotSpawned:
		t.NotSpawned++
	case session.OutcomeNoDecision:
		t.NoDecision++
	case session.OutcomeBadSessionID:
		t.BadSessionID++
	default:
		t.Pending++
	}
}

// FailureCount returns the resolved failures.
func (t *TemplateStats) FailureCount() int {
	return t.NotSpawned + t.NoDecision + t.BadSessionID
}

// SuccessRate returns the percentage of resolved attempts that succeeded.
func (t *TemplateStats) SuccessRate() float64 {
	total := t.SuccessCount + t.FailureCount()
	if total == 0 {
		return 0
	}
	return float64(t.SuccessCount) / float64(total) * 100
}

// AvgBlocks returns the mean block count across successful attempts.
func (t *TemplateStats) AvgBlocks() float64 {
	if t.SuccessCount == 0 {
		return 0
	}
	return float64(t.TotalBlocks) / float64(t.SuccessCount)
}

// StatsReport is the aggregate over a lookback window.
type StatsReport struct {
	Templates            map[string]*TemplateStats
	TotalSessions        int
	SessionsWithAttempts int
}

// Stats aggregates attempt outcomes per template over the last lookback
// window. Sessions that fail to load are skipped rather than aborting the
// report.
func (s *Service) Stats(ctx context.Context, lookback time.Duration) (*StatsReport, error) {
	cutoff := clock.Now().Add(-lookback)
	summaries, err := s.store.List(ctx, listScanLimit)
	if err != nil {
		return nil, err
	}

	report := &StatsReport{Templates: map[string]*TemplateStats{}}
	for _, summary := range summaries {
		if summary.CreatedAt.Before(cutoff) {
			continue
		}
		report.TotalSessions++

		state, err := s.store.Get(ctx, summary.SessionID)
		if err != nil || state == nil {
			continue
		}
		if len(state.Review.Attempts) > 0 {
			report.SessionsWithAttempts++
		}
		for _, attempt := range state.Review.Attempts {
			stats := report.Templates[attempt.TemplateID]
			if stats == nil {
				stats = &TemplateStats{}
				report.Templates[attempt.TemplateID] = stats
			}
			stats.Record(attempt.Outcome)
		}
	}
	return report, nil
}
