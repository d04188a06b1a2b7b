package hook

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/viant/warden/internal/clock"
	"github.com/viant/warden/model/session"
	"github.com/viant/warden/tracing"
)

// UserPrompt records a prompt arrival and, when the prompt triggers review,
// opens a review cycle. The hook itself never blocks.
func (s *Service) UserPrompt(ctx context.Context, input *Input) *Output {
	ctx, span := tracing.StartSpan(ctx, "hook.userPrompt", "SERVER")
	defer span.OnDone()

	state, err := s.store.Get(ctx, input.SessionID)
	if err != nil {
		s.logger.Warn("storage error", zap.Error(err))
		return Approve()
	}
	now := clock.Now()
	if state == nil {
		state = session.New(input.SessionID, now)
	}

	trigger := s.triggersReview(input.Prompt)
	state.RecordPrompt(input.Prompt, trigger, now)
	if trigger {
		state.AppendTrace(session.NewTraceEvent(session.EventPromptReceived, now, map[string]any{
			"prompt": input.Prompt,
		}), s.config.Trace.MaxEvents)
	}

	s.save(ctx, state)
	return Approve()
}

// triggersReview decides whether a prompt opens a review cycle under the
// configured mode.
func (s *Service) triggersReview(prompt string) bool {
	switch s.config.Mode {
	case ModeNever:
		return false
	case ModeAlways:
		return true
	default:
		return strings.HasPrefix(strings.TrimSpace(prompt), s.config.TriggerPrefix)
	}
}
