package hook

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/viant/warden/internal/clock"
	"github.com/viant/warden/model/session"
	"github.com/viant/warden/service/gate"
	"github.com/viant/warden/tracing"
)

// PreToolUse enforces tool gates: a tool whose key matches a configured
// pattern is denied until a review approval covers it.
func (s *Service) PreToolUse(ctx context.Context, input *Input) *ToolOutput {
	ctx, span := tracing.StartSpan(ctx, "hook.preToolUse", "SERVER")
	defer span.OnDone()

	if !s.config.Gates.Enabled() {
		return Allow()
	}

	toolKey := gate.ToolKey(input.ToolName, input.ToolInput)
	pattern := gate.Match(toolKey, s.config.Gates.Tools)
	if pattern == "" {
		return Allow()
	}

	state, err := s.store.Get(ctx, input.SessionID)
	if err != nil {
		s.logger.Warn("storage error", zap.Error(err))
		return Allow()
	}
	now := clock.Now()
	if state == nil {
		state = session.New(input.SessionID, now)
	}

	// A tripped breaker overrides gating for the rest of the session.
	if state.Review.CircuitBreakerTripped {
		s.traceGateAllowed(state, toolKey, "circuit_breaker", now)
		s.save(ctx, state)
		return Allow()
	}

	if gate.Approved(&state.Review, s.config.Gates, now) {
		s.traceGateAllowed(state, toolKey, "approved", now)
		s.save(ctx, state)
		return Allow()
	}

	var toolInput any
	if input.ToolInput != nil {
		toolInput = input.ToolInput
	}
	state.RecordGateTrigger(&session.GateTrigger{
		ToolName:       toolKey,
		ToolInput:      session.NewTruncatedInput(toolInput),
		TriggeredAt:    now,
		PatternMatched: pattern,
	}, now)
	state.AppendTrace(session.NewTraceEvent(session.EventGateBlocked, now, map[string]any{
		"tool":    toolKey,
		"pattern": pattern,
	}), s.config.Trace.MaxEvents)

	if err := s.store.Put(ctx, state); err != nil {
		// Without a persisted trigger the reviewer would have nothing to
		// review, so the denial cannot be enforced.
		s.logger.Warn("failed to save session state", zap.Error(err))
		return Allow()
	}

	return Deny(fmt.Sprintf(
		"Review required before this action.\n\n"+
			"Spawn **%s** to review this session:\n\n"+
			"```\nSESSION_ID=%s\n\n## Summary\n[What you did and why]\n\n"+
			"## Files Changed\n[List of modified files]\n```\n\n"+
			"Triggered by: `%s`",
		s.config.ReviewerAgent, input.SessionID, toolKey))
}

func (s *Service) traceGateAllowed(state *session.State, tool, reason string, now time.Time) {
	state.AppendTrace(session.NewTraceEvent(session.EventGateAllowed, now, map[string]any{
		"tool":   tool,
		"reason": reason,
	}), s.config.Trace.MaxEvents)
	state.UpdatedAt = now
}
