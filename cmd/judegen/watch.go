package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <schema.yaml>...",
	Short: "Recompile schemas when they or their imports change",
	Long: `Compile each schema document, then recompile whenever one of the
loaded documents or the config file changes.

Bursts of changes are debounced (watch.debounce) and sessions are spaced at
least watch.min_interval apart. A failing session is logged and keeps the
previous output.

Examples:
  judegen watch shop.yaml
  judegen watch --log-level debug shop.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addOutputFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Shutdown()

	ctx, cancel := signalContext()
	defer cancel()

	a.Config.WatchSignals()
	if err := a.Watch(ctx, args); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
