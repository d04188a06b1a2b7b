package session

import (
	"time"

	"github.com/viant/warden/internal/idgen"
)

// Trace event kinds. The set is closed; payloads are free-form.
const (
	EventSessionStart   = "session_start"
	EventPromptReceived = "prompt_received"
	EventGateBlocked    = "gate_blocked"
	EventGateAllowed    = "gate_allowed"
	EventToolCompleted  = "tool_completed"
	EventStopHook       = "stop_hook"
	EventDecisionPosted = "decision_posted"
	EventTraceCompacted = "trace_compacted"
	EventSessionEnd     = "session_end"
)

// TraceEvent is one entry in the per-session debug log.
type TraceEvent struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Type      string         `json:"event_type"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// NewTraceEvent builds an event with a generated identifier.
func NewTraceEvent(kind string, timestamp time.Time, payload map[string]any) TraceEvent {
	return TraceEvent{
		ID:        idgen.New(),
		Timestamp: timestamp,
		Type:      kind,
		Payload:   payload,
	}
}

// TraceConfig bounds the per-session trace.
type TraceConfig struct {
	// MaxEvents caps the trace length; exceeding it triggers compaction.
	MaxEvents int `json:"max_events" yaml:"max_events"`
}

// DefaultTraceConfig matches the documented default of 500 events.
func DefaultTraceConfig() TraceConfig {
	return TraceConfig{MaxEvents: 500}
}

// AppendTrace appends an event, compacting when the configured bound is
// exceeded: the earliest min(10, max/2) events survive for context, the most
// recent events fill the remaining budget minus one slot, and a single
// synthetic trace_compacted event records how many entries were dropped.
// Repeated appends re-trigger compaction without drifting past the bound.
func (s *State) AppendTrace(event TraceEvent, maxEvents int) {
	s.Trace = append(s.Trace, event)
	if maxEvents <= 0 || len(s.Trace) <= maxEvents {
		return
	}

	keepStart := 10
	if half := maxEvents / 2; keepStart > half {
		keepStart = half
	}
	keepEnd := maxEvents - keepStart - 1
	dropped := len(s.Trace) - maxEvents

	compacted := make([]TraceEvent, 0, maxEvents)
	compacted = append(compacted, s.Trace[:keepStart]...)
	compacted = append(compacted, NewTraceEvent(EventTraceCompacted, event.Timestamp, map[string]any{
		"dropped_events": dropped,
		"kept_start":     keepStart,
		"kept_end":       keepEnd,
	}))
	compacted = append(compacted, s.Trace[len(s.Trace)-keepEnd:]...)
	s.Trace = compacted
}
