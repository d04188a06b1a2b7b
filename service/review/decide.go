// Package review hosts the reviewer-facing operations: posting decisions and
// retiring finished sessions. Hook handlers only read decisions; this package
// is the single writer.
package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/viant/warden/internal/clock"
	"github.com/viant/warden/model/session"
	"github.com/viant/warden/service/dao/session"
	"github.com/viant/warden/tracing"
)

var (
	// ErrSessionNotFound indicates a decision was posted for an unknown id.
	ErrSessionNotFound = errors.New("review: session not found")

	// ErrInvalidDecision indicates a decision type outside complete/issues.
	ErrInvalidDecision = errors.New("review: invalid decision")
)

// Service posts review outcomes and cleans up finished sessions.
type Service struct {
	store dao.Service
}

// New creates a review service over the supplied store.
func New(store dao.Service) *Service {
	return &Service{store: store}
}

// Decide posts a review outcome for a session. decisionType is complete or
// issues (case-insensitive); summary is mandatory prose, message travels to
// the reviewed agent on issues, opinions records second-opinion findings on
// complete. Posting a pending decision is rejected: pending is the absence
// of an outcome, not an outcome.
func (s *Service) Decide(ctx context.Context, sessionID, decisionType, summary, message, opinions string) error {
	ctx, span := tracing.StartSpan(ctx, "review.decide", "SERVER")
	defer span.OnDone()

	parsed := session.ParseDecisionType(decisionType)
	var decision session.Decision
	switch parsed {
	case session.DecisionComplete:
		decision = session.Complete(summary, opinions)
	case session.DecisionIssues:
		decision = session.Issues(summary, message)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDecision, decisionType)
	}

	state, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if state == nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	now := clock.Now()
	state.PostDecision(decision, now)

	payload := map[string]any{
		"decision": strings.ToUpper(parsed),
		"summary":  summary,
	}
	if opinions != "" {
		payload["second_opinions"] = opinions
	}
	state.AppendTrace(session.NewTraceEvent(session.EventDecisionPosted, now, payload), 0)

	state.ResolveAttempt(session.AttemptOutcome{
		Type:         session.OutcomeSuccess,
		DecisionType: parsed,
		BlocksNeeded: state.Review.BlockCount,
	})

	return s.store.Put(ctx, state)
}
