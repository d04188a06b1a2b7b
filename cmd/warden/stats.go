package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/viant/warden/service/review"
)

func newStatsCommand() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show block template performance statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(cmd.Context())
			if err != nil {
				return err
			}
			report, err := engine.Reviews().Stats(cmd.Context(), time.Duration(days)*24*time.Hour)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(report.Templates) == 0 {
				fmt.Fprintf(out, "No template statistics available for the last %d days.\n", days)
				printStatsFooter(out, report)
				return nil
			}

			printStatsTable(out, report, days)
			printFailureBreakdown(out, report)
			printStatsFooter(out, report)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "number of days to look back")
	return cmd
}

func printStatsTable(w io.Writer, report *review.StatsReport, days int) {
	rule := strings.Repeat("-", 70)
	fmt.Fprintf(w, "Template Performance (last %d days):\n", days)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-12s %10s %10s %12s %14s\n",
		"Template", "Success", "Failure", "Avg Blocks", "Success Rate")
	fmt.Fprintln(w, rule)

	ids := make([]string, 0, len(report.Templates))
	for id := range report.Templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		stats := report.Templates[id]
		fmt.Fprintf(w, "%-12s %10d %10d %12.1f %13.1f%%\n",
			id, stats.SuccessCount, stats.FailureCount(), stats.AvgBlocks(), stats.SuccessRate())
	}
	fmt.Fprintln(w, rule)
}

func printFailureBreakdown(w io.Writer, report *review.StatsReport) {
	var notSpawned, noDecision, badSessionID, pending int
	for _, stats := range report.Templates {
		notSpawned += stats.NotSpawned
		noDecision += stats.NoDecision
		badSessionID += stats.BadSessionID
		pending += stats.Pending
	}
	failures := notSpawned + noDecision + badSessionID
	if failures == 0 && pending == 0 {
		return
	}

	fmt.Fprintln(w, "\nFailure breakdown:")
	if notSpawned > 0 {
		fmt.Fprintf(w, "  Reviewer not spawned: %d\n", notSpawned)
	}
	if noDecision > 0 {
		fmt.Fprintf(w, "  No decision posted: %d\n", noDecision)
	}
	if badSessionID > 0 {
		fmt.Fprintf(w, "  Bad session id: %d\n", badSessionID)
	}
	if pending > 0 {
		fmt.Fprintf(w, "  Still pending: %d\n", pending)
	}
}

func printStatsFooter(w io.Writer, report *review.StatsReport) {
	fmt.Fprintf(w, "\nSessions analyzed: %d\n", report.TotalSessions)
	fmt.Fprintf(w, "Sessions with review attempts: %d\n", report.SessionsWithAttempts)
}
