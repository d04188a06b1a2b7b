package gate

import "strings"

// maxNormalizedLen caps the canonical command used for matching.
const maxNormalizedLen = 80

// shellWrappers are prefixes that run an inline command in a nested shell.
var shellWrappers = []string{"bash -c ", "sh -c ", "/bin/bash -c ", "/bin/sh -c "}

// NormalizeCommand canonicalizes a shell command for pattern matching. The
// result is never executed; it only has to expose the effective command so
// that `GH_TOKEN=x gh pr merge`, `echo y | gh pr merge` and
// `bash -c "gh pr merge"` all match a `gh pr merge*` pattern.
func NormalizeCommand(command string) string {
	cmd := strings.TrimSpace(command)

	// Pipelines: only the rightmost segment (the sink) receives the data.
	if pipe := lastUnquotedPipe(cmd); pipe >= 0 {
		cmd = strings.TrimSpace(cmd[pipe+1:])
	}

	if rest, ok := strings.CutPrefix(cmd, "env "); ok {
		cmd = skipAssignments(rest)
	}

	cmd = unwrapNestedShell(cmd)
	cmd = skipAssignments(cmd)

	if len(cmd) > maxNormalizedLen {
		cmd = cmd[:maxNormalizedLen]
	}
	return cmd
}

// lastUnquotedPipe locates the last `|` outside quotes, ignoring `||`.
// Quoting state is tracked character by character; backslash-escaped quotes
// inside double quotes do not toggle state.
func lastUnquotedPipe(cmd string) int {
	inSingle, inDouble := false, false
	last := -1
	var prev byte
	for i := 0; i < len(cmd); i++ {
		c := cmd[i]
		switch {
		case c == '\'' && !inDouble && prev != '\\':
			inSingle = !inSingle
		case c == '"' && !inSingle && prev != '\\':
			inDouble = !inDouble
		case c == '|' && !inSingle && !inDouble:
			if prev != '|' && (i+1 >= len(cmd) || cmd[i+1] != '|') {
				last = i
			}
		}
		prev = c
	}
	return last
}

// unwrapNestedShell extracts the inline command from a nested shell
// invocation, stripping one layer of surrounding quotes.
func unwrapNestedShell(cmd string) string {
	for _, wrapper := range shellWrappers {
		rest, ok := strings.CutPrefix(cmd, wrapper)
		if !ok {
			continue
		}
		rest = strings.TrimSpace(rest)
		if len(rest) >= 2 && (rest[0] == '"' || rest[0] == '\'') {
			return rest[1 : len(rest)-1]
		}
		return rest
	}
	return cmd
}

// skipAssignments drops leading NAME=value assignments. NAME must be
// alphanumeric/underscore; anything else starts the real command.
func skipAssignments(cmd string) string {
	rest := strings.TrimSpace(cmd)
	for {
		nameEnd := 0
		for nameEnd < len(rest) && isNameChar(rest[nameEnd]) {
			nameEnd++
		}
		if nameEnd == 0 || nameEnd >= len(rest) || rest[nameEnd] != '=' {
			return rest
		}
		rest = strings.TrimSpace(skipValue(rest[nameEnd+1:]))
	}
}

// skipValue consumes one assignment value, quoted or bare, and returns the
// remainder. Escaped quotes inside double-quoted values are honoured; when a
// closing quote is missing the input is returned verbatim so malformed
// commands cannot loop or panic.
func skipValue(s string) string {
	s = strings.TrimLeft(s, " \t")
	if s == "" {
		return s
	}
	switch s[0] {
	case '"':
		var prev byte
		for i := 1; i < len(s); i++ {
			if s[i] == '"' && prev != '\\' {
				return s[i+1:]
			}
			prev = s[i]
		}
		return s
	case '\'':
		if end := strings.IndexByte(s[1:], '\''); end >= 0 {
			return s[end+2:]
		}
		return s
	default:
		if space := strings.IndexAny(s, " \t"); space >= 0 {
			return s[space:]
		}
		return ""
	}
}

func isNameChar(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
