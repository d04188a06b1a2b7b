package hook

import (
	"context"

	"go.uber.org/zap"

	"github.com/viant/warden/internal/clock"
	"github.com/viant/warden/model/session"
	"github.com/viant/warden/tracing"
)

// SessionStart initializes (or resumes) session state. It always approves;
// the only observable effect is the persisted record and the optional
// injected context.
func (s *Service) SessionStart(ctx context.Context, input *Input) *Output {
	ctx, span := tracing.StartSpan(ctx, "hook.sessionStart", "SERVER")
	defer span.OnDone()

	state, err := s.store.Get(ctx, input.SessionID)
	if err != nil {
		s.logger.Warn("storage error", zap.Error(err))
		return Approve()
	}
	if state == nil {
		now := clock.Now()
		state = session.New(input.SessionID, now)
		state.AppendTrace(session.NewTraceEvent(session.EventSessionStart, now, map[string]any{
			"source": input.Source,
			"cwd":    input.Cwd,
		}), s.config.Trace.MaxEvents)
	}

	s.save(ctx, state)

	output := Approve()
	if s.provider != nil {
		output.Context = s.provider(ctx)
	}
	return output
}
