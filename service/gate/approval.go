package gate

import (
	"time"

	"github.com/viant/warden/model/session"
)

// Approved reports whether an existing decision still authorizes a matched
// tool at instant now, honouring the configured TTL and approval scope.
//
// The caller checks the circuit breaker first (a tripped breaker always
// wins over gating) and owns the side effects of a denial: persisting the
// trigger context and enabling review.
func Approved(review *session.ReviewState, config Config, now time.Time) bool {
	if review.Decision.Type != session.DecisionComplete {
		return false
	}
	approvedAt := review.GateApprovedAt
	if approvedAt == nil {
		return false
	}

	// TTL applies to every scope.
	if config.ApprovalTTLSeconds > 0 {
		expiry := approvedAt.Add(time.Duration(config.ApprovalTTLSeconds) * time.Second)
		if now.After(expiry) {
			return false
		}
	}

	switch config.Scope() {
	case ScopeSession:
		return true
	case ScopeTool:
		return false
	default:
		prompt := effectivePromptAt(review)
		if prompt == nil {
			return true
		}
		return approvedAt.After(*prompt)
	}
}

// effectivePromptAt returns the prompt timestamp an approval must postdate
// under prompt scope. A prompt that arrived after the review cycle started
// (for example a "please hurry") must not retroactively invalidate the
// approval that follows, so the cycle start is used instead.
func effectivePromptAt(review *session.ReviewState) *time.Time {
	prompt, start := review.LastPromptAt, review.ReviewStartedAt
	if prompt != nil && start != nil && prompt.After(*start) {
		return start
	}
	return prompt
}
