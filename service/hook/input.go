package hook

import "time"

// Input is the event envelope received from the invoking environment, one
// per handler invocation. Only the fields relevant to the addressed hook are
// populated; unknown fields in the wire document are ignored.
type Input struct {
	// SessionID identifies the session the event belongs to.
	SessionID string `json:"session_id"`

	// Cwd is the working directory of the reviewed agent.
	Cwd string `json:"cwd"`

	// Prompt carries the user prompt for prompt events.
	Prompt string `json:"prompt,omitempty"`

	// ToolName and ToolInput describe the tool about to run (tool events).
	ToolName  string         `json:"tool_name,omitempty"`
	ToolInput map[string]any `json:"tool_input,omitempty"`

	// ToolResponse is the tool result (post-tool events).
	ToolResponse map[string]any `json:"tool_response,omitempty"`

	// Source tags session start: startup, resume, clear or compact.
	Source string `json:"source,omitempty"`

	// SubagentType identifies the finishing subagent (subagent-stop events).
	SubagentType string `json:"subagent_type,omitempty"`

	// SubagentPrompt is the prompt the subagent was invoked with.
	SubagentPrompt string `json:"subagent_prompt,omitempty"`

	// SubagentStartedAt is the declared start of the subagent's execution
	// window, used to validate decision timestamps.
	SubagentStartedAt *time.Time `json:"subagent_started_at,omitempty"`
}
