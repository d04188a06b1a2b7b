package gate

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// execToolName identifies the generic shell-execution tool whose command
// text is normalized and matched instead of the bare tool name.
const execToolName = "Bash"

// ToolKey formats the key a tool invocation is matched under. Shell
// executions become `Bash:<normalized command>`; every other tool is keyed
// by its name.
func ToolKey(toolName string, toolInput map[string]any) string {
	if toolName == "" {
		return "unknown"
	}
	if toolName == execToolName {
		if command, ok := toolInput["command"].(string); ok {
			return execToolName + ":" + NormalizeCommand(command)
		}
	}
	return toolName
}

// Match returns the first pattern in list order that matches the tool key,
// or "" when none does. Order is the caller's contract: a broad pattern
// placed before a narrower one shadows it, and the matcher will not correct
// that.
func Match(toolKey string, patterns []string) string {
	for _, pattern := range patterns {
		if matchPattern(pattern, toolKey) {
			return pattern
		}
	}
	return ""
}

// matchPattern matches a tool key against a single glob pattern, falling
// back to a literal prefix match when the pattern does not parse.
func matchPattern(pattern, toolKey string) bool {
	matched, err := doublestar.Match(pattern, toolKey)
	if err != nil {
		return strings.HasPrefix(toolKey, strings.TrimRight(pattern, "*"))
	}
	return matched
}
