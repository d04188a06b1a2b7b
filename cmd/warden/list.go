package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const promptPreviewLen = 50

func newListCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(cmd.Context())
			if err != nil {
				return err
			}
			summaries, err := engine.Store().List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintln(out, "No sessions found.")
				fmt.Fprintf(out, "\nSessions are stored in: %s\n", engine.Config().Storage.Path)
				return nil
			}

			rule := strings.Repeat("-", 90)
			fmt.Fprintf(out, "%-38s %-20s First Prompt\n", "Session ID", "Created")
			fmt.Fprintln(out, rule)
			for _, summary := range summaries {
				fmt.Fprintf(out, "%-38s %-20s %s\n",
					summary.SessionID,
					summary.CreatedAt.Local().Format("2006-01-02 15:04"),
					promptPreview(summary.FirstPrompt))
			}
			fmt.Fprintln(out, rule)
			fmt.Fprintf(out, "Showing %d session(s)\n", len(summaries))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "maximum number of sessions to show")
	return cmd
}

func promptPreview(prompt string) string {
	if prompt == "" {
		return "(no prompt)"
	}
	firstLine := prompt
	if at := strings.IndexByte(prompt, '\n'); at >= 0 {
		firstLine = prompt[:at]
	}
	if len(firstLine) > promptPreviewLen {
		return firstLine[:promptPreviewLen] + "..."
	}
	return firstLine
}
