package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viant/warden/service/review"
)

func newCleanCommand() *cobra.Command {
	var before string
	var all bool
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove old sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			olderThan, err := review.ParseRetention(before)
			if err != nil {
				return err
			}
			if all {
				olderThan = 0
			}

			engine, err := newEngine(cmd.Context())
			if err != nil {
				return err
			}
			removed, err := engine.Reviews().Clean(cmd.Context(), olderThan)
			if err != nil {
				return err
			}
			if removed == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions to clean.")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Cleaned %d session(s).\n", removed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&before, "before", "7d", "age threshold, e.g. 7d, 24h or 30m")
	cmd.Flags().BoolVar(&all, "all", false, "remove all inactive sessions")
	return cmd
}
