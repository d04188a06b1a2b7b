package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/viant/warden/service/hook"
)

func newHookCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hook <name>",
		Short: "Run a lifecycle hook (JSON stdin/stdout); invoked by the agent runtime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHook(cmd, args[0])
		},
	}
}

// runHook reads the event from stdin and writes the admission answer to
// stdout. Parse and storage-init failures fail open: the reviewed agent must
// not be wedged by a broken engine install.
func runHook(cmd *cobra.Command, name string) error {
	ctx := cmd.Context()
	stdout := cmd.OutOrStdout()

	data, err := io.ReadAll(cmd.InOrStdin())
	input := &hook.Input{}
	if err == nil {
		err = json.Unmarshal(data, input)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warden: warning: failed to parse input: %v\n", err)
		return writeFailOpen(stdout, name)
	}

	engine, err := newEngine(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warden: warning: storage init failed: %v\n", err)
		return writeFailOpen(stdout, name)
	}

	if name == hook.HookPreToolUse {
		return writeJSON(stdout, engine.Hooks().PreToolUse(ctx, input))
	}
	return writeJSON(stdout, engine.Hooks().Dispatch(ctx, name, input))
}

func writeFailOpen(w io.Writer, name string) error {
	if name == hook.HookPreToolUse {
		return writeJSON(w, hook.Allow())
	}
	return writeJSON(w, hook.Approve())
}

func writeJSON(w io.Writer, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
