package session

// BreakerConfig bounds how many times a session may block before forward
// progress is forced.
type BreakerConfig struct {
	// MaxBlocks is the block count at which the breaker trips.
	MaxBlocks int `json:"max_blocks" yaml:"max_blocks"`

	// CooldownSeconds is retained for configuration compatibility; the
	// breaker currently stays tripped for the rest of the session.
	CooldownSeconds int `json:"cooldown_seconds" yaml:"cooldown_seconds"`
}

// DefaultBreakerConfig trips after three blocks.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{MaxBlocks: 3, CooldownSeconds: 300}
}

// ShouldTrip reports whether the breaker has tripped or should trip now.
func ShouldTrip(state *State, config BreakerConfig) bool {
	if state.Review.CircuitBreakerTripped {
		return true
	}
	return state.Review.BlockCount >= config.MaxBlocks
}

// TripBreaker forces decision acceptance: review is disabled and every
// subsequent gate or finish attempt is allowed through.
func TripBreaker(state *State) {
	state.Review.CircuitBreakerTripped = true
	state.Review.Enabled = false
}
