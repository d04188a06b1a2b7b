package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newDecideCommand() *cobra.Command {
	var message, opinions string
	cmd := &cobra.Command{
		Use:   "decide <session-id> <COMPLETE|ISSUES> <summary>",
		Short: "Post a review decision; used by the reviewer agent",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(cmd.Context())
			if err != nil {
				return err
			}
			sessionID, decision, summary := args[0], args[1], args[2]
			if err := engine.Reviews().Decide(cmd.Context(), sessionID, decision, summary, message, opinions); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Decision recorded: %s for session %s\n",
				strings.ToUpper(decision), sessionID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "message to the agent (for ISSUES)")
	cmd.Flags().StringVarP(&opinions, "opinions", "o", "", "record of second opinions obtained (for COMPLETE)")
	return cmd
}
