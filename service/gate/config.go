// Package gate decides whether a tool invocation requires an independent
// review before it may proceed. Matching is declarative: an ordered list of
// glob patterns, evaluated first-match-wins, with shell commands canonicalized
// before matching so environment prefixes, pipelines and nested shells cannot
// dodge a pattern.
package gate

import "strings"

// Approval scopes govern how long a posted complete decision keeps
// authorizing gated tools.
const (
	// ScopeSession honours any non-expired approval until the session ends.
	ScopeSession = "session"

	// ScopePrompt invalidates the approval when the user sends a new prompt.
	ScopePrompt = "prompt"

	// ScopeTool requires a fresh review for every gated tool call.
	ScopeTool = "tool"
)

// Config is the resolved gate configuration consumed by the matcher and the
// approval evaluator. The engine only reads these values; file format and
// precedence resolution live with the embedding configuration layer.
type Config struct {
	// Tools is the ordered pattern list. Order matters: the first match wins
	// and a broad pattern placed before a narrower one shadows it. The list
	// is applied literally: no reordering, no specificity resolution. An
	// empty list disables gating entirely.
	Tools []string `json:"tools" yaml:"tools"`

	// ApprovalScope is one of session, prompt or tool.
	ApprovalScope string `json:"approval_scope" yaml:"approval_scope"`

	// ApprovalTTLSeconds optionally expires approvals regardless of scope.
	// Zero means no expiry.
	ApprovalTTLSeconds int `json:"approval_ttl_seconds" yaml:"approval_ttl_seconds"`
}

// DefaultConfig gates nothing and scopes approvals to the prompt.
func DefaultConfig() Config {
	return Config{ApprovalScope: ScopePrompt}
}

// Enabled reports whether any gating is configured.
func (c *Config) Enabled() bool {
	return len(c.Tools) > 0
}

// Scope returns the normalized approval scope, defaulting to prompt.
func (c *Config) Scope() string {
	switch strings.ToLower(c.ApprovalScope) {
	case ScopeSession:
		return ScopeSession
	case ScopeTool:
		return ScopeTool
	default:
		return ScopePrompt
	}
}
