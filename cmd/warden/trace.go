package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newTraceCommand() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "trace <session-id>",
		Short: "Show trace events for a session",
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

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Session: %s\n", state.SessionID)
			fmt.Fprintf(out, "Created: %s\n", state.CreatedAt.UTC().Format(time.RFC3339))
			fmt.Fprintf(out, "Events: %d\n\n", len(state.Trace))

			if len(state.Trace) == 0 {
				fmt.Fprintln(out, "(no trace events)")
				return nil
			}
			for i, event := range state.Trace {
				fmt.Fprintf(out, "[%3d] %s %s\n", i+1,
					event.Timestamp.Local().Format("15:04:05"), event.Type)
				if !verbose {
					continue
				}
				payload, err := json.MarshalIndent(event.Payload, "", "  ")
				if err != nil {
					continue
				}
				for _, line := range strings.Split(string(payload), "\n") {
					fmt.Fprintf(out, "      %s\n", line)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show event payloads")
	return cmd
}
