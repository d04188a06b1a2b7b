package hook

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/viant/warden/internal/clock"
	"github.com/viant/warden/model/session"
	"github.com/viant/warden/service/dao/session/memory"
	"github.com/viant/warden/service/gate"
)

func fixedClock(t *testing.T, at time.Time) {
	t.Helper()
	previous := clock.NowFunc
	clock.NowFunc = func() time.Time { return at }
	t.Cleanup(func() { clock.NowFunc = previous })
}

func newTestService(options ...Option) (*Service, *memory.Service) {
	store := memory.New()
	return New(store, options...), store
}

func TestSessionStart(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	fixedClock(t, now)

	t.Run("creates state and approves", func(t *testing.T) {
		service, store := newTestService()
		output := service.SessionStart(ctx, &Input{SessionID: "sess-1", Source: "startup", Cwd: "/tmp"})

		assert.False(t, output.Blocked())
		state, err := store.Get(ctx, "sess-1")
		assert.NoError(t, err)
		assert.NotNil(t, state)
		assert.Len(t, state.Trace, 1)
		assert.Equal(t, session.EventSessionStart, state.Trace[0].Type)
		assert.Equal(t, "startup", state.Trace[0].Payload["source"])
	})

	t.Run("resume does not duplicate the start event", func(t *testing.T) {
		service, store := newTestService()
		service.SessionStart(ctx, &Input{SessionID: "sess-1", Source: "startup"})
		service.SessionStart(ctx, &Input{SessionID: "sess-1", Source: "resume"})

		state, _ := store.Get(ctx, "sess-1")
		assert.Len(t, state.Trace, 1)
	})

	t.Run("injects provider context", func(t *testing.T) {
		service, _ := newTestService(WithContextProvider(func(context.Context) string {
			return "second opinion sources: codex"
		}))
		output := service.SessionStart(ctx, &Input{SessionID: "sess-2"})
		assert.Equal(t, "second opinion sources: codex", output.Context)
	})
}

func TestUserPrompt(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	fixedClock(t, now)

	t.Run("trigger prefix enables review", func(t *testing.T) {
		service, store := newTestService()
		output := service.UserPrompt(ctx, &Input{SessionID: "sess-1", Prompt: "#warden review my work"})

		assert.False(t, output.Blocked())
		state, _ := store.Get(ctx, "sess-1")
		assert.True(t, state.Review.Enabled)
		assert.Equal(t, []string{"#warden review my work"}, state.Review.UserPrompts)
		assert.Len(t, state.Trace, 1)
		assert.Equal(t, session.EventPromptReceived, state.Trace[0].Type)
	})

	t.Run("leading whitespace before prefix still triggers", func(t *testing.T) {
		service, store := newTestService()
		service.UserPrompt(ctx, &Input{SessionID: "sess-1", Prompt: "   #warden check"})

		state, _ := store.Get(ctx, "sess-1")
		assert.True(t, state.Review.Enabled)
	})

	t.Run("plain prompt only tracks arrival", func(t *testing.T) {
		service, store := newTestService()
		service.UserPrompt(ctx, &Input{SessionID: "sess-1", Prompt: "what time is it"})

		state, _ := store.Get(ctx, "sess-1")
		assert.False(t, state.Review.Enabled)
		assert.Equal(t, &now, state.Review.LastPromptAt)
		assert.Empty(t, state.Trace)
	})

	t.Run("trigger resets a completed decision", func(t *testing.T) {
		service, store := newTestService()
		state := session.New("sess-1", now)
		state.PostDecision(session.Complete("done", ""), now)
		assert.NoError(t, store.Put(ctx, state))

		service.UserPrompt(ctx, &Input{SessionID: "sess-1", Prompt: "#warden next"})

		updated, _ := store.Get(ctx, "sess-1")
		assert.Equal(t, session.DecisionPending, updated.Review.Decision.Type)
	})

	t.Run("always mode triggers on every prompt", func(t *testing.T) {
		config := DefaultConfig()
		config.Mode = ModeAlways
		service, store := newTestService(WithConfig(config))
		service.UserPrompt(ctx, &Input{SessionID: "sess-1", Prompt: "plain prompt"})

		state, _ := store.Get(ctx, "sess-1")
		assert.True(t, state.Review.Enabled)
	})

	t.Run("never mode ignores the prefix", func(t *testing.T) {
		config := DefaultConfig()
		config.Mode = ModeNever
		service, store := newTestService(WithConfig(config))
		service.UserPrompt(ctx, &Input{SessionID: "sess-1", Prompt: "#warden review"})

		state, _ := store.Get(ctx, "sess-1")
		assert.False(t, state.Review.Enabled)
	})
}

func TestStop(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	fixedClock(t, now)

	enableReview := func(t *testing.T, service *Service) {
		t.Helper()
		service.UserPrompt(ctx, &Input{SessionID: "sess-1", Prompt: "#warden review"})
	}

	t.Run("no state approves", func(t *testing.T) {
		service, _ := newTestService()
		output := service.Stop(ctx, &Input{SessionID: "sess-1"})
		assert.False(t, output.Blocked())
	})

	t.Run("review disabled approves and traces", func(t *testing.T) {
		service, store := newTestService()
		service.SessionStart(ctx, &Input{SessionID: "sess-1"})

		output := service.Stop(ctx, &Input{SessionID: "sess-1"})
		assert.False(t, output.Blocked())

		state, _ := store.Get(ctx, "sess-1")
		assert.Equal(t, session.EventStopHook, state.Trace[len(state.Trace)-1].Type)
	})

	t.Run("pending review blocks with instructions", func(t *testing.T) {
		service, store := newTestService()
		enableReview(t, service)

		output := service.Stop(ctx, &Input{SessionID: "sess-1"})
		assert.True(t, output.Blocked())
		assert.Contains(t, output.Reason, "SESSION_ID=sess-1")

		state, _ := store.Get(ctx, "sess-1")
		assert.Equal(t, 1, state.Review.BlockCount)
		assert.Len(t, state.Review.Attempts, 1)
		assert.Equal(t, session.OutcomePending, state.Review.Attempts[0].Outcome.Type)
	})

	t.Run("complete decision approves", func(t *testing.T) {
		service, store := newTestService()
		enableReview(t, service)

		state, _ := store.Get(ctx, "sess-1")
		state.PostDecision(session.Complete("verified", ""), now)
		assert.NoError(t, store.Put(ctx, state))

		output := service.Stop(ctx, &Input{SessionID: "sess-1"})
		assert.False(t, output.Blocked())
	})

	t.Run("issues decision blocks with remediation", func(t *testing.T) {
		service, store := newTestService()
		enableReview(t, service)

		state, _ := store.Get(ctx, "sess-1")
		state.PostDecision(session.Issues("bugs", "fix the race in the watcher"), now)
		assert.NoError(t, store.Put(ctx, state))

		output := service.Stop(ctx, &Input{SessionID: "sess-1"})
		assert.True(t, output.Blocked())
		assert.Contains(t, output.Reason, "fix the race in the watcher")
	})

	t.Run("issues decision without message uses the default", func(t *testing.T) {
		service, store := newTestService()
		enableReview(t, service)

		state, _ := store.Get(ctx, "sess-1")
		state.PostDecision(session.Issues("bugs", ""), now)
		assert.NoError(t, store.Put(ctx, state))

		output := service.Stop(ctx, &Input{SessionID: "sess-1"})
		assert.True(t, output.Blocked())
		assert.Contains(t, output.Reason, defaultIssuesMessage)
	})

	t.Run("circuit breaker trips at the limit", func(t *testing.T) {
		service, store := newTestService()
		enableReview(t, service)

		for i := 0; i < 2; i++ {
			output := service.Stop(ctx, &Input{SessionID: "sess-1"})
			assert.True(t, output.Blocked(), "block %d", i+1)
		}

		// The third attempt reaches the limit, trips the breaker and lets
		// the agent finish.
		output := service.Stop(ctx, &Input{SessionID: "sess-1"})
		assert.False(t, output.Blocked())

		state, _ := store.Get(ctx, "sess-1")
		assert.Equal(t, 3, state.Review.BlockCount)
		assert.True(t, state.Review.CircuitBreakerTripped)
		assert.False(t, state.Review.Enabled)
	})

	t.Run("tripped breaker keeps approving", func(t *testing.T) {
		service, store := newTestService()
		state := session.New("sess-1", now)
		state.Review.Enabled = true
		state.Review.CircuitBreakerTripped = true
		assert.NoError(t, store.Put(ctx, state))

		output := service.Stop(ctx, &Input{SessionID: "sess-1"})
		assert.False(t, output.Blocked())
	})
}

func TestSubagentStop(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	fixedClock(t, now)

	reviewerInput := func(prompt string, startedAt *time.Time) *Input {
		return &Input{
			SessionID:         "outer",
			SubagentType:      DefaultReviewerAgent,
			SubagentPrompt:    prompt,
			SubagentStartedAt: startedAt,
		}
	}

	t.Run("other subagents pass through", func(t *testing.T) {
		service, _ := newTestService()
		output := service.SubagentStop(ctx, &Input{SessionID: "outer", SubagentType: "explorer"})
		assert.False(t, output.Blocked())
	})

	t.Run("missing session id blocks", func(t *testing.T) {
		service, _ := newTestService()
		output := service.SubagentStop(ctx, reviewerInput("review this work please", nil))
		assert.True(t, output.Blocked())
		assert.Contains(t, output.Reason, "SESSION_ID")
	})

	t.Run("missing session fails open", func(t *testing.T) {
		service, _ := newTestService()
		output := service.SubagentStop(ctx, reviewerInput("SESSION_ID=ghost", nil))
		assert.False(t, output.Blocked())
	})

	t.Run("pending decision blocks", func(t *testing.T) {
		service, store := newTestService()
		state := session.New("sess-1", now)
		state.Review.Enabled = true
		assert.NoError(t, store.Put(ctx, state))

		output := service.SubagentStop(ctx, reviewerInput("SESSION_ID=sess-1", nil))
		assert.True(t, output.Blocked())
		assert.Contains(t, output.Reason, "did not record a decision")
	})

	t.Run("decision inside the window approves", func(t *testing.T) {
		service, store := newTestService()
		state := session.New("sess-1", now.Add(-time.Hour))
		state.PostDecision(session.Complete("verified", ""), now.Add(-time.Minute))
		assert.NoError(t, store.Put(ctx, state))

		started := now.Add(-10 * time.Minute)
		output := service.SubagentStop(ctx, reviewerInput("SESSION_ID=sess-1", &started))
		assert.False(t, output.Blocked())
	})

	t.Run("decision before the reviewer started blocks", func(t *testing.T) {
		service, store := newTestService()
		state := session.New("sess-1", now.Add(-time.Hour))
		state.PostDecision(session.Complete("verified", ""), now.Add(-30*time.Minute))
		assert.NoError(t, store.Put(ctx, state))

		started := now.Add(-10 * time.Minute)
		output := service.SubagentStop(ctx, reviewerInput("SESSION_ID=sess-1", &started))
		assert.True(t, output.Blocked())
		assert.Contains(t, output.Reason, "before the reviewer started")
	})

	t.Run("decision after the window blocks", func(t *testing.T) {
		service, store := newTestService()
		state := session.New("sess-1", now.Add(-time.Hour))
		state.PostDecision(session.Complete("verified", ""), now.Add(time.Minute))
		assert.NoError(t, store.Put(ctx, state))

		started := now.Add(-10 * time.Minute)
		output := service.SubagentStop(ctx, reviewerInput("SESSION_ID=sess-1", &started))
		assert.True(t, output.Blocked())
		assert.Contains(t, output.Reason, "after the reviewer ended")
	})

	t.Run("clock skew within tolerance approves", func(t *testing.T) {
		service, store := newTestService()
		state := session.New("sess-1", now.Add(-time.Hour))
		state.PostDecision(session.Complete("verified", ""), now.Add(3*time.Second))
		assert.NoError(t, store.Put(ctx, state))

		started := now.Add(-10 * time.Minute)
		output := service.SubagentStop(ctx, reviewerInput("SESSION_ID=sess-1", &started))
		assert.False(t, output.Blocked())
	})

	t.Run("missing start falls back to a one hour window", func(t *testing.T) {
		service, store := newTestService()
		state := session.New("sess-1", now.Add(-2*time.Hour))
		state.PostDecision(session.Complete("verified", ""), now.Add(-90*time.Minute))
		assert.NoError(t, store.Put(ctx, state))

		output := service.SubagentStop(ctx, reviewerInput("SESSION_ID=sess-1", nil))
		assert.True(t, output.Blocked())
	})
}

func TestExtractSessionID(t *testing.T) {
	testCases := []struct {
		description string
		prompt      string
		expect      string
	}{
		{description: "equals form", prompt: "SESSION_ID=abc-123", expect: "abc-123"},
		{description: "colon form", prompt: "SESSION_ID: abc_123", expect: "abc_123"},
		{description: "embedded in prose", prompt: "Please review.\nSESSION_ID=xyz\nThanks", expect: "xyz"},
		{description: "absent", prompt: "no id here", expect: ""},
		{description: "empty prompt", prompt: "", expect: ""},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, extractSessionID(testCase.prompt), testCase.description)
	}
}

func TestPreToolUse(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	fixedClock(t, now)

	gatedConfig := func(patterns ...string) Config {
		config := DefaultConfig()
		config.Gates = gate.Config{Tools: patterns, ApprovalScope: gate.ScopePrompt}
		return config
	}

	allowed := func(output *ToolOutput) bool {
		return output.HookSpecificOutput.PermissionDecision == PermissionAllow
	}

	t.Run("gates disabled allows", func(t *testing.T) {
		service, _ := newTestService()
		output := service.PreToolUse(ctx, &Input{SessionID: "sess-1", ToolName: "mcp__tissue__close_issue"})
		assert.True(t, allowed(output))
	})

	t.Run("unmatched tool allows", func(t *testing.T) {
		service, store := newTestService(WithConfig(gatedConfig("mcp__tissue__close*")))
		output := service.PreToolUse(ctx, &Input{SessionID: "sess-1", ToolName: "mcp__tissue__archive_issue"})
		assert.True(t, allowed(output))

		// No session state is created for tools that pass.
		state, _ := store.Get(ctx, "sess-1")
		assert.Nil(t, state)
	})

	t.Run("matched tool denies and records the trigger", func(t *testing.T) {
		service, store := newTestService(WithConfig(gatedConfig("mcp__tissue__close*")))
		output := service.PreToolUse(ctx, &Input{
			SessionID: "sess-1",
			ToolName:  "mcp__tissue__close_issue",
			ToolInput: map[string]any{"issue_id": 123},
		})

		assert.Equal(t, PermissionDeny, output.HookSpecificOutput.PermissionDecision)
		assert.Contains(t, output.HookSpecificOutput.Reason, "SESSION_ID=sess-1")
		assert.Contains(t, output.HookSpecificOutput.Reason, "mcp__tissue__close_issue")

		state, _ := store.Get(ctx, "sess-1")
		assert.True(t, state.Review.Enabled)
		assert.Equal(t, &now, state.Review.ReviewStartedAt)
		assert.NotNil(t, state.Review.GateTrigger)
		assert.Equal(t, "mcp__tissue__close_issue", state.Review.GateTrigger.ToolName)
		assert.Equal(t, "mcp__tissue__close*", state.Review.GateTrigger.PatternMatched)
		assert.Equal(t, session.EventGateBlocked, state.Trace[len(state.Trace)-1].Type)
	})

	t.Run("shell command is normalized before matching", func(t *testing.T) {
		service, _ := newTestService(WithConfig(gatedConfig("Bash:gh issue close*")))
		output := service.PreToolUse(ctx, &Input{
			SessionID: "sess-1",
			ToolName:  "Bash",
			ToolInput: map[string]any{"command": `GH_TOKEN=x echo "y" | gh issue close 123`},
		})
		assert.Equal(t, PermissionDeny, output.HookSpecificOutput.PermissionDecision)
	})

	t.Run("approval within scope allows", func(t *testing.T) {
		service, store := newTestService(WithConfig(gatedConfig("mcp__tissue__close*")))
		state := session.New("sess-1", now.Add(-time.Hour))
		state.PostDecision(session.Complete("verified", ""), now.Add(-time.Minute))
		assert.NoError(t, store.Put(ctx, state))

		output := service.PreToolUse(ctx, &Input{SessionID: "sess-1", ToolName: "mcp__tissue__close_issue"})
		assert.True(t, allowed(output))

		updated, _ := store.Get(ctx, "sess-1")
		last := updated.Trace[len(updated.Trace)-1]
		assert.Equal(t, session.EventGateAllowed, last.Type)
		assert.Equal(t, "approved", last.Payload["reason"])
	})

	t.Run("new prompt invalidates a prompt scoped approval", func(t *testing.T) {
		service, store := newTestService(WithConfig(gatedConfig("mcp__tissue__close*")))
		state := session.New("sess-1", now.Add(-time.Hour))
		state.PostDecision(session.Complete("verified", ""), now.Add(-10*time.Minute))
		state.RecordPrompt("new work", false, now.Add(-time.Minute))
		assert.NoError(t, store.Put(ctx, state))

		output := service.PreToolUse(ctx, &Input{SessionID: "sess-1", ToolName: "mcp__tissue__close_issue"})
		assert.Equal(t, PermissionDeny, output.HookSpecificOutput.PermissionDecision)
	})

	t.Run("tripped breaker allows", func(t *testing.T) {
		service, store := newTestService(WithConfig(gatedConfig("mcp__tissue__close*")))
		state := session.New("sess-1", now)
		state.Review.CircuitBreakerTripped = true
		assert.NoError(t, store.Put(ctx, state))

		output := service.PreToolUse(ctx, &Input{SessionID: "sess-1", ToolName: "mcp__tissue__close_issue"})
		assert.True(t, allowed(output))

		updated, _ := store.Get(ctx, "sess-1")
		last := updated.Trace[len(updated.Trace)-1]
		assert.Equal(t, session.EventGateAllowed, last.Type)
		assert.Equal(t, "circuit_breaker", last.Payload["reason"])
	})
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	fixedClock(t, now)

	t.Run("routes known hooks", func(t *testing.T) {
		service, store := newTestService()
		output := service.Dispatch(ctx, HookUserPrompt, &Input{SessionID: "sess-1", Prompt: "#warden go"})
		assert.False(t, output.Blocked())

		state, _ := store.Get(ctx, "sess-1")
		assert.True(t, state.Review.Enabled)
	})

	t.Run("unknown hook fails open", func(t *testing.T) {
		service, _ := newTestService()
		output := service.Dispatch(ctx, "nonexistent-hook", &Input{SessionID: "sess-1"})
		assert.False(t, output.Blocked())
	})
}

func TestOutputSerialization(t *testing.T) {
	t.Run("approve is an empty object", func(t *testing.T) {
		data, err := json.Marshal(Approve())
		assert.NoError(t, err)
		assert.Equal(t, "{}", string(data))
	})

	t.Run("block carries decision and reason", func(t *testing.T) {
		data, err := json.Marshal(Block("needs review"))
		assert.NoError(t, err)
		assert.Contains(t, string(data), `"decision":"block"`)
		assert.Contains(t, string(data), "needs review")
	})

	t.Run("tool outputs use the hook specific envelope", func(t *testing.T) {
		data, err := json.Marshal(Allow())
		assert.NoError(t, err)
		assert.Contains(t, string(data), `"permissionDecision":"allow"`)
		assert.Contains(t, string(data), `"hookEventName":"PreToolUse"`)

		data, err = json.Marshal(Deny("gated"))
		assert.NoError(t, err)
		assert.Contains(t, string(data), `"permissionDecision":"deny"`)
	})
}

func TestInputParsing(t *testing.T) {
	raw := `{
		"session_id": "sess-1",
		"cwd": "/work",
		"tool_name": "Bash",
		"tool_input": {"command": "gh pr merge"},
		"subagent_type": "warden:reviewer",
		"subagent_started_at": "2026-08-01T10:00:00Z",
		"unknown_field": true
	}`
	input := &Input{}
	assert.NoError(t, json.Unmarshal([]byte(raw), input))
	assert.Equal(t, "sess-1", input.SessionID)
	assert.Equal(t, "Bash", input.ToolName)
	assert.Equal(t, "gh pr merge", input.ToolInput["command"])
	assert.NotNil(t, input.SubagentStartedAt)
	assert.True(t, strings.HasPrefix(input.SubagentType, "warden:"))
}
