package gate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCommand(t *testing.T) {
	testCases := []struct {
		description string
		command     string
		expect      string
	}{
		{
			description: "plain command",
			command:     "gh issue close 123",
			expect:      "gh issue close 123",
		},
		{
			description: "surrounding whitespace",
			command:     "  gh issue close 123  ",
			expect:      "gh issue close 123",
		},
		{
			description: "leading assignment",
			command:     "GH_TOKEN=abc gh issue close 123",
			expect:      "gh issue close 123",
		},
		{
			description: "multiple assignments",
			command:     "A=1 B=2 gh pr merge",
			expect:      "gh pr merge",
		},
		{
			description: "quoted assignment value",
			command:     `TOKEN="secret value" gh pr merge`,
			expect:      "gh pr merge",
		},
		{
			description: "single quoted assignment value",
			command:     "TOKEN='secret value' gh pr merge",
			expect:      "gh pr merge",
		},
		{
			description: "pipeline matches the sink",
			command:     `echo "y" | gh issue close 123`,
			expect:      "gh issue close 123",
		},
		{
			description: "pipe inside quotes is not a pipeline",
			command:     `grep "a|b" file.txt`,
			expect:      `grep "a|b" file.txt`,
		},
		{
			description: "logical or is not a pipeline",
			command:     "false || gh pr merge",
			expect:      "false || gh pr merge",
		},
		{
			description: "env prefix",
			command:     "env VAR=x gh pr merge",
			expect:      "gh pr merge",
		},
		{
			description: "nested bash",
			command:     `bash -c "gh pr merge"`,
			expect:      "gh pr merge",
		},
		{
			description: "nested sh with single quotes",
			command:     "sh -c 'gh pr merge'",
			expect:      "gh pr merge",
		},
		{
			description: "nested absolute path shell",
			command:     `/bin/bash -c "gh pr merge"`,
			expect:      "gh pr merge",
		},
		{
			description: "nested shell without quotes",
			command:     "bash -c gh",
			expect:      "gh",
		},
		{
			description: "assignment inside nested shell",
			command:     `bash -c "GH_TOKEN=x gh pr merge"`,
			expect:      "gh pr merge",
		},
		{
			description: "pipeline into nested shell with assignments",
			command:     `cat data | env A=1 bash -c "B=2 gh pr merge"`,
			expect:      "gh pr merge",
		},
		{
			description: "command that is only assignments",
			command:     "A=1 B=2",
			expect:      "",
		},
		{
			description: "empty command",
			command:     "",
			expect:      "",
		},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, NormalizeCommand(testCase.command), testCase.description)
	}
}

func TestNormalizeCommandTruncates(t *testing.T) {
	long := "gh issue close " + strings.Repeat("1", 200)
	normalized := NormalizeCommand(long)
	assert.Len(t, normalized, 80)
	assert.True(t, strings.HasPrefix(normalized, "gh issue close "))
}

func TestNormalizeCommandMalformedQuotes(t *testing.T) {
	// An unterminated quoted value must not loop; the remainder is kept.
	normalized := NormalizeCommand(`TOKEN="unterminated gh pr merge`)
	assert.NotEmpty(t, normalized)
}

func TestLastUnquotedPipe(t *testing.T) {
	testCases := []struct {
		description string
		command     string
		expect      int
	}{
		{description: "no pipe", command: "gh pr merge", expect: -1},
		{description: "single pipe", command: "a | b", expect: 2},
		{description: "last of several", command: "a | b | c", expect: 6},
		{description: "double pipe ignored", command: "a || b", expect: -1},
		{description: "quoted pipe ignored", command: `echo "|"`, expect: -1},
		{description: "single quoted pipe ignored", command: "echo '|'", expect: -1},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, lastUnquotedPipe(testCase.command), testCase.description)
	}
}
