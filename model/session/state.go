package session

import (
	"time"
)

// State is the durable record of one review session. It is always read and
// written as a whole unit; the store never exposes a partial view.
type State struct {
	// SessionID is supplied by the invoking environment and stays stable for
	// the lifetime of the session.
	SessionID string `json:"session_id"`

	// Review holds the admission-control state machine.
	Review ReviewState `json:"review"`

	// Trace is a bounded event log for debugging (see AppendTrace).
	Trace []TraceEvent `json:"trace"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewState captures where a session is within the review lifecycle.
type ReviewState struct {
	// Enabled reports whether an independent review is currently owed.
	Enabled bool `json:"enabled"`

	// Decision is the current review outcome.
	Decision Decision `json:"decision"`

	// DecisionHistory preserves superseded decisions for audit.
	DecisionHistory []DecisionRecord `json:"decision_history"`

	// UserPrompts are the raw prompts that triggered review.
	UserPrompts []string `json:"user_prompts"`

	// GateTrigger is the context of the last gate-blocked tool, if any.
	GateTrigger *GateTrigger `json:"gate_trigger,omitempty"`

	// GateApprovedAt is set only when a complete decision is posted.
	GateApprovedAt *time.Time `json:"gate_approved_at,omitempty"`

	// LastPromptAt tracks every prompt, review-triggering or not.
	LastPromptAt *time.Time `json:"last_prompt_at,omitempty"`

	// ReviewStartedAt marks the start of the current review cycle, used to
	// isolate approvals from prompts that arrive mid-review.
	ReviewStartedAt *time.Time `json:"review_started_at,omitempty"`

	// BlockCount counts finish attempts rejected while review was owed.
	BlockCount int `json:"block_count"`

	// CircuitBreakerTripped forces allow once BlockCount reaches the limit.
	CircuitBreakerTripped bool `json:"circuit_breaker_tripped"`

	// Attempts records each block message issued, with its eventual outcome.
	Attempts []ReviewAttempt `json:"attempts,omitempty"`
}

// DecisionRecord is a past decision with the time it was superseded.
type DecisionRecord struct {
	Decision  Decision  `json:"decision"`
	Timestamp time.Time `json:"timestamp"`
}

// GateTrigger describes the tool invocation that a gate blocked.
type GateTrigger struct {
	ToolName       string         `json:"tool_name"`
	ToolInput      TruncatedInput `json:"tool_input"`
	TriggeredAt    time.Time      `json:"triggered_at"`
	PatternMatched string         `json:"pattern_matched"`
}

// ReviewAttempt tracks one block message and what came of it.
type ReviewAttempt struct {
	TemplateID string         `json:"template_id"`
	Timestamp  time.Time      `json:"timestamp"`
	Outcome    AttemptOutcome `json:"outcome"`
}

// AttemptOutcome resolves a ReviewAttempt.
type AttemptOutcome struct {
	// Type is one of the Outcome* constants.
	Type string `json:"type"`

	// DecisionType is set for successful outcomes (complete or issues).
	DecisionType string `json:"decision_type,omitempty"`

	// BlocksNeeded is how many blocks preceded a successful outcome.
	BlocksNeeded int `json:"blocks_needed,omitempty"`
}

// Attempt outcome types.
const (
	OutcomePending      = "pending"
	OutcomeSuccess      = "success"
	OutcomeNotSpawned   = "not_spawned"
	OutcomeNoDecision   = "no_decision"
	OutcomeBadSessionID = "bad_session_id"
)

// New returns a fresh session state for the supplied identifier.
func New(sessionID string, now time.Time) *State {
	return &State{
		SessionID: sessionID,
		Review:    ReviewState{Decision: Pending()},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RecordPrompt marks a prompt arrival; when trigger is true the prompt opens
// (or reopens) a review cycle: review is enabled, the prompt is retained and
// any previous decision is reset.
func (s *State) RecordPrompt(prompt string, trigger bool, now time.Time) {
	s.Review.LastPromptAt = &now
	if trigger {
		s.Review.Enabled = true
		s.Review.UserPrompts = append(s.Review.UserPrompts, prompt)
		s.Review.Decision = Pending()
	}
	s.UpdatedAt = now
}

// RecordGateTrigger stores the blocked tool context and opens a review cycle.
func (s *State) RecordGateTrigger(trigger *GateTrigger, now time.Time) {
	s.Review.Enabled = true
	s.Review.ReviewStartedAt = &now
	s.Review.GateTrigger = trigger
	s.UpdatedAt = now
}

// RecordBlock increments the block counter for a rejected finish attempt.
func (s *State) RecordBlock(now time.Time) {
	s.Review.BlockCount++
	s.UpdatedAt = now
}

// RecordAttempt appends a pending review attempt for the given template.
func (s *State) RecordAttempt(templateID string, now time.Time) {
	s.Review.Attempts = append(s.Review.Attempts, ReviewAttempt{
		TemplateID: templateID,
		Timestamp:  now,
		Outcome:    AttemptOutcome{Type: OutcomePending},
	})
}

// ResolveAttempt resolves the most recent pending attempt, if any.
func (s *State) ResolveAttempt(outcome AttemptOutcome) {
	for i := len(s.Review.Attempts) - 1; i >= 0; i-- {
		if s.Review.Attempts[i].Outcome.Type == OutcomePending {
			s.Review.Attempts[i].Outcome = outcome
			return
		}
	}
}

// PostDecision replaces the current decision, preserving the previous one in
// the history. Only a complete decision sets the approval timestamp.
func (s *State) PostDecision(decision Decision, now time.Time) {
	s.Review.DecisionHistory = append(s.Review.DecisionHistory, DecisionRecord{
		Decision:  s.Review.Decision,
		Timestamp: now,
	})
	if decision.Type == DecisionComplete {
		s.Review.GateApprovedAt = &now
	}
	s.Review.Decision = decision
	s.UpdatedAt = now
}

// Active reports whether the session still owes a review outcome. Retention
// must never delete an active session.
func (s *State) Active() bool {
	return s.Review.Enabled && s.Review.Decision.Type == DecisionPending
}
