// Package warden is a session-scoped admission-control engine for coding
// agents. It decides, on agent lifecycle events, whether the agent may
// proceed: a session that owes an independent review blocks at its exit
// points until a reviewer posts a decision, bounded by a circuit breaker so
// a stuck review can never wedge the agent forever.
//
// The engine is invoked through hooks (see service/hook) and persists one
// JSON record per session (see service/dao/session). Decisions are posted
// through the review service (see service/review), typically via the warden
// CLI from a reviewer subagent.
package warden
