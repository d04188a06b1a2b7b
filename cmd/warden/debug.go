package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newDebugCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "debug <session-id>",
		Short: "Dump the full session state as JSON",
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
			data, err := json.MarshalIndent(state, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
			return nil
		},
	}
}
