package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/viant/warden"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "warden",
		Short:         "Session-scoped admission control for coding agents",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newHookCommand(),
		newDecideCommand(),
		newContextCommand(),
		newListCommand(),
		newDebugCommand(),
		newTraceCommand(),
		newCleanCommand(),
		newStatsCommand(),
	)
	return root
}

// newEngine builds the engine facade from the on-disk configuration.
func newEngine(ctx context.Context) (*warden.Service, error) {
	config, err := warden.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}
	return warden.New(warden.WithConfig(config))
}
