package hook

import (
	"context"

	"go.uber.org/zap"
)

// Hook names accepted by Dispatch. The pre-tool-use hook is not listed: its
// answer uses a different wire schema and is served by PreToolUse directly.
const (
	HookSessionStart = "session-start"
	HookUserPrompt   = "user-prompt"
	HookStop         = "stop"
	HookSubagentStop = "subagent-stop"
	HookPreToolUse   = "pre-tool-use"
)

// Dispatch routes a lifecycle event to its handler by hook name. Unknown
// names approve; admission control must never wedge on a version mismatch
// between the engine and the invoking runtime.
func (s *Service) Dispatch(ctx context.Context, name string, input *Input) *Output {
	switch name {
	case HookSessionStart:
		return s.SessionStart(ctx, input)
	case HookUserPrompt:
		return s.UserPrompt(ctx, input)
	case HookStop:
		return s.Stop(ctx, input)
	case HookSubagentStop:
		return s.SubagentStop(ctx, input)
	default:
		s.logger.Warn("unknown hook", zap.String("hook", name))
		return Approve()
	}
}
