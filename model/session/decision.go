package session

import "strings"

// Decision types. The set is closed: every consumer switches over these three
// values and treats anything else as malformed input.
const (
	DecisionPending  = "pending"
	DecisionComplete = "complete"
	DecisionIssues   = "issues"
)

// Decision is the review outcome for a session. Type discriminates the
// variant; the payload fields are populated per variant only, so a decision
// round-trips through JSON without loss.
type Decision struct {
	Type string `json:"type"`

	// Summary of findings (complete and issues).
	Summary string `json:"summary,omitempty"`

	// SecondOpinions records external opinions obtained (complete only).
	SecondOpinions string `json:"second_opinions,omitempty"`

	// MessageToAgent tells the reviewed agent what to fix (issues only).
	MessageToAgent string `json:"message_to_agent,omitempty"`
}

// Pending returns the zero review outcome.
func Pending() Decision {
	return Decision{Type: DecisionPending}
}

// Complete returns an approving decision.
func Complete(summary, secondOpinions string) Decision {
	return Decision{Type: DecisionComplete, Summary: summary, SecondOpinions: secondOpinions}
}

// Issues returns a rejecting decision with an optional remediation message.
func Issues(summary, messageToAgent string) Decision {
	return Decision{Type: DecisionIssues, Summary: summary, MessageToAgent: messageToAgent}
}

// ParseDecisionType maps a user-supplied token to a decision type. The empty
// string return signals an unrecognized token.
func ParseDecisionType(token string) string {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case DecisionComplete:
		return DecisionComplete
	case DecisionIssues:
		return DecisionIssues
	default:
		return ""
	}
}
