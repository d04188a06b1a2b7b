package session

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// MaxInputSize is the serialized byte budget before tool input is truncated.
const MaxInputSize = 10 * 1024

// TruncatedInput is a size-capped copy of an arbitrary structured value.
// When the serialized original exceeds MaxInputSize the stored value is
// recursively reduced and the original's digest and length are retained so
// the full payload can still be verified out of band.
// Invariant: Truncated is true iff OriginalHash and OriginalSize are set.
type TruncatedInput struct {
	Value        any    `json:"value"`
	Truncated    bool   `json:"truncated"`
	OriginalHash string `json:"original_hash,omitempty"`
	OriginalSize int    `json:"original_size,omitempty"`
}

// NewTruncatedInput captures value, truncating when its JSON form exceeds
// the byte budget.
func NewTruncatedInput(value any) TruncatedInput {
	serialized, err := json.Marshal(value)
	if err != nil {
		serialized = nil
	}
	if len(serialized) <= MaxInputSize {
		return TruncatedInput{Value: value}
	}

	digest := sha256.Sum256(serialized)
	return TruncatedInput{
		Value:        truncateValue(value, MaxInputSize),
		Truncated:    true,
		OriginalHash: hex.EncodeToString(digest[:]),
		OriginalSize: len(serialized),
	}
}

// truncateValue reduces a decoded JSON value to fit within a byte budget:
// long strings are shortened with a marker, arrays are capped at 10 items,
// and objects split the budget across their keys.
func truncateValue(value any, budget int) any {
	switch actual := value.(type) {
	case string:
		if len(actual) <= budget {
			return actual
		}
		at := budget
		if at > 200 {
			at = 200
		}
		return fmt.Sprintf("%s... [truncated, %d bytes total]", actual[:at], len(actual))
	case map[string]any:
		perKey := budget
		if len(actual) > 0 {
			perKey = budget / len(actual)
		}
		result := make(map[string]any, len(actual))
		for key, item := range actual {
			result[key] = truncateValue(item, perKey)
		}
		return result
	case []any:
		if len(actual) <= 10 {
			return actual
		}
		result := make([]any, 0, 11)
		for _, item := range actual[:10] {
			result = append(result, truncateValue(item, budget/10))
		}
		return append(result, fmt.Sprintf("... [%d more items]", len(actual)-10))
	default:
		return value
	}
}
