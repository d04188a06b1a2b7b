package hook

// DecisionBlock marks a blocking output. Approval is the absence of a
// decision: an approving output serializes as an empty object.
const DecisionBlock = "block"

// Permission decisions for tool events.
const (
	PermissionAllow = "allow"
	PermissionDeny  = "deny"
	PermissionAsk   = "ask"
)

// Output is the response for prompt, stop and subagent-stop events.
type Output struct {
	// Decision is block, or empty for approve.
	Decision string `json:"decision,omitempty"`

	// Reason explains a block to the reviewed agent.
	Reason string `json:"reason,omitempty"`

	// Context is optional text injected into the conversation.
	Context string `json:"context,omitempty"`
}

// Approve returns an approving output.
func Approve() *Output {
	return &Output{}
}

// Blocked reports whether the output blocks the event.
func (o *Output) Blocked() bool {
	return o != nil && o.Decision == DecisionBlock
}

// Block returns a blocking output with a reason.
func Block(reason string) *Output {
	return &Output{Decision: DecisionBlock, Reason: reason}
}

// ToolOutput is the response for tool events. The schema differs from the
// other hooks: the decision travels inside a hook-specific envelope.
type ToolOutput struct {
	HookSpecificOutput ToolDecision `json:"hookSpecificOutput"`
}

// ToolDecision carries the permission decision for a tool event.
type ToolDecision struct {
	// HookEventName is always "PreToolUse".
	HookEventName string `json:"hookEventName"`

	// PermissionDecision is allow, deny or ask.
	PermissionDecision string `json:"permissionDecision"`

	// Reason explains a deny or ask.
	Reason string `json:"reason,omitempty"`

	// UpdatedInput optionally replaces the tool arguments. The engine never
	// populates it; the channel is reserved for embedders.
	UpdatedInput map[string]any `json:"updatedInput,omitempty"`
}

// Allow returns an allowing tool output.
func Allow() *ToolOutput {
	return &ToolOutput{ToolDecision{HookEventName: "PreToolUse", PermissionDecision: PermissionAllow}}
}

// Deny returns a denying tool output with a reason.
func Deny(reason string) *ToolOutput {
	return &ToolOutput{ToolDecision{HookEventName: "PreToolUse", PermissionDecision: PermissionDeny, Reason: reason}}
}

// Ask returns a tool output that defers to the user.
func Ask(reason string) *ToolOutput {
	return &ToolOutput{ToolDecision{HookEventName: "PreToolUse", PermissionDecision: PermissionAsk, Reason: reason}}
}
