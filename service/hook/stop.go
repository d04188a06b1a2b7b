package hook

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/viant/warden/internal/clock"
	"github.com/viant/warden/model/session"
	"github.com/viant/warden/service/template"
	"github.com/viant/warden/tracing"
)

const defaultIssuesMessage = "Issues were found. Please address them and try again."

// Stop gates the finish attempt: a session that owes a review blocks until a
// decision exists, bounded by the circuit breaker.
func (s *Service) Stop(ctx context.Context, input *Input) *Output {
	ctx, span := tracing.StartSpan(ctx, "hook.stop", "SERVER")
	defer span.OnDone()

	state, err := s.store.Get(ctx, input.SessionID)
	if err != nil {
		s.logger.Warn("storage error", zap.Error(err))
		return Approve()
	}
	if state == nil {
		// No state means review was never enabled.
		return Approve()
	}

	now := clock.Now()
	state.AppendTrace(session.NewTraceEvent(session.EventStopHook, now, nil), s.config.Trace.MaxEvents)

	if !state.Review.Enabled {
		state.UpdatedAt = now
		s.save(ctx, state)
		return Approve()
	}

	// Breaker check precedes the block so a tripped session can never block
	// again, not even once.
	if session.ShouldTrip(state, s.config.Breaker) {
		session.TripBreaker(state)
		state.UpdatedAt = now
		s.save(ctx, state)
		return Approve()
	}

	var output *Output
	switch state.Review.Decision.Type {
	case session.DecisionComplete:
		output = Approve()

	case session.DecisionIssues:
		message := state.Review.Decision.MessageToAgent
		if message == "" {
			message = defaultIssuesMessage
		}
		output = s.block(ctx, state, now, s.issuesBlockMessage(message))

	default:
		output = s.block(ctx, state, now, "")
	}
	if output == nil {
		// Breaker tripped inside block.
		return Approve()
	}

	state.UpdatedAt = now
	s.save(ctx, state)
	return output
}

// block counts the rejection, re-checks the breaker and builds the block
// message. A nil return means the breaker tripped and the attempt must be
// allowed instead.
func (s *Service) block(ctx context.Context, state *session.State, now time.Time, override string) *Output {
	state.RecordBlock(now)
	if session.ShouldTrip(state, s.config.Breaker) {
		session.TripBreaker(state)
		state.UpdatedAt = now
		s.save(ctx, state)
		return nil
	}

	templateID := s.templates.Select(s.config.Templates)
	state.RecordAttempt(templateID, now)

	if override != "" {
		return Block(override)
	}
	body := s.templates.Load(ctx, templateID)
	return Block(template.Render(body, state.SessionID))
}

func (s *Service) issuesBlockMessage(message string) string {
	return "Review found issues that need to be addressed:\n\n" + message +
		"\n\nAfter fixing, spawn " + s.config.ReviewerAgent + " again to re-review."
}
