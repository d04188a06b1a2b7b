package hook

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/viant/warden/internal/clock"
	"github.com/viant/warden/model/session"
	"github.com/viant/warden/tracing"
)

// sessionIDPattern extracts the session id a reviewer was invoked for, from
// either SESSION_ID=<id> or SESSION_ID: <id>.
var sessionIDPattern = regexp.MustCompile(`SESSION_ID[=:]\s*([a-zA-Z0-9_-]+)`)

// decisionSkew tolerates clock skew between the decision write and the
// subagent-stop hook firing.
const decisionSkew = 5 * time.Second

// SubagentStop validates that a finished reviewer subagent actually posted a
// decision, and that it was posted inside the reviewer's execution window.
// Non-reviewer subagents pass through untouched.
func (s *Service) SubagentStop(ctx context.Context, input *Input) *Output {
	ctx, span := tracing.StartSpan(ctx, "hook.subagentStop", "SERVER")
	defer span.OnDone()

	if input.SubagentType != s.config.ReviewerAgent {
		return Approve()
	}

	sessionID := extractSessionID(input.SubagentPrompt)
	if sessionID == "" {
		return Block(fmt.Sprintf(
			"%s completed but SESSION_ID not found in prompt. The prompt must include SESSION_ID=<id>.",
			s.config.ReviewerAgent))
	}

	now := clock.Now()
	started := now.Add(-time.Hour)
	if input.SubagentStartedAt != nil {
		started = *input.SubagentStartedAt
	}
	ended := now

	state, err := s.store.Get(ctx, sessionID)
	if err != nil {
		s.logger.Warn("storage error", zap.Error(err))
		return Approve()
	}
	if state == nil {
		s.logger.Warn("session not found", zap.String("session_id", sessionID))
		return Approve()
	}

	if state.Review.Decision.Type == session.DecisionPending {
		return Block(fmt.Sprintf(
			"%s completed but did not record a decision.\n\n"+
				"Run: warden decide %s COMPLETE \"summary\"\n"+
				" or: warden decide %s ISSUES \"summary\" --message \"what to fix\"",
			s.config.ReviewerAgent, sessionID, sessionID))
	}

	// The decision must postdate the reviewer's start and predate its end.
	// Anything else means someone other than the reviewer posted it.
	decisionTime := state.UpdatedAt
	if decisionTime.Before(started) {
		return Block(fmt.Sprintf(
			"Decision timestamp (%s) is before the reviewer started (%s). "+
				"Decision must be posted by %s during its execution.",
			decisionTime.UTC().Format(time.RFC3339),
			started.UTC().Format(time.RFC3339),
			s.config.ReviewerAgent))
	}
	if decisionTime.After(ended.Add(decisionSkew)) {
		return Block(fmt.Sprintf(
			"Decision timestamp (%s) is after the reviewer ended (%s). "+
				"Decision must be posted by %s during its execution.",
			decisionTime.UTC().Format(time.RFC3339),
			ended.UTC().Format(time.RFC3339),
			s.config.ReviewerAgent))
	}
	return Approve()
}

func extractSessionID(prompt string) string {
	match := sessionIDPattern.FindStringSubmatch(prompt)
	if len(match) < 2 {
		return ""
	}
	return match[1]
}
