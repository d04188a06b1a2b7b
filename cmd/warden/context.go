package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/viant/warden/model/session"
)

func newContextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "context <session-id>",
		Short: "Show the prompts and gate context a reviewer needs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(cmd.Context())
			if err != nil {
				return err
			}
			state, err := engine.Store().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if state == nil {
				return fmt.Errorf("session not found: %s", args[0])
			}
			printContext(cmd.OutOrStdout(), state)
			return nil
		},
	}
}

func printContext(w io.Writer, state *session.State) {
	fmt.Fprintf(w, "Session: %s\n", state.SessionID)
	fmt.Fprintf(w, "Created: %s\n", state.CreatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "Updated: %s\n\n", state.UpdatedAt.UTC().Format(time.RFC3339))

	fmt.Fprintf(w, "Review enabled: %v\n", state.Review.Enabled)
	fmt.Fprintf(w, "Decision: %s\n", describeDecision(state.Review.Decision))
	fmt.Fprintf(w, "Block count: %d\n\n", state.Review.BlockCount)

	if trigger := state.Review.GateTrigger; trigger != nil {
		fmt.Fprintln(w, "Gate trigger:")
		fmt.Fprintf(w, "  Tool: %s\n", trigger.ToolName)
		fmt.Fprintf(w, "  Pattern: %s\n", trigger.PatternMatched)
		fmt.Fprintf(w, "  Time: %s\n", trigger.TriggeredAt.UTC().Format(time.RFC3339))
		fmt.Fprintln(w, "  Input:")
		inputJSON, err := json.MarshalIndent(trigger.ToolInput.Value, "", "  ")
		if err != nil {
			inputJSON = []byte("null")
		}
		for _, line := range strings.Split(string(inputJSON), "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
		if trigger.ToolInput.Truncated {
			fmt.Fprintf(w, "    (truncated, original size: %d bytes)\n", trigger.ToolInput.OriginalSize)
		}
		fmt.Fprintln(w)
	}

	if len(state.Review.UserPrompts) == 0 {
		fmt.Fprintln(w, "User prompts: (none)")
		return
	}
	fmt.Fprintln(w, "User prompts:")
	for i, prompt := range state.Review.UserPrompts {
		fmt.Fprintf(w, "[%d] %s\n", i+1, truncatePrompt(prompt, 200))
	}
}

func describeDecision(decision session.Decision) string {
	switch decision.Type {
	case session.DecisionComplete:
		return "Complete - " + decision.Summary
	case session.DecisionIssues:
		return "Issues - " + decision.Summary
	default:
		return "Pending"
	}
}

// truncatePrompt reduces a prompt to its first line, capped at maxLen.
func truncatePrompt(prompt string, maxLen int) string {
	firstLine := prompt
	if at := strings.IndexByte(prompt, '\n'); at >= 0 {
		firstLine = prompt[:at]
	}
	if len(firstLine) > maxLen {
		return firstLine[:maxLen] + "..."
	}
	if strings.Contains(prompt, "\n") {
		return firstLine + " [...]"
	}
	return firstLine
}
