package main

import (
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve <schema.yaml>...",
	Short: "Serve compiled descriptors over HTTP",
	Long: `Compile each schema document, write its descriptors and serve the
last successful bundle over HTTP. Schemas are recompiled on change as in
watch mode.

Endpoints:
  GET /health              Status of the served bundle
  GET /bundle              The whole descriptor bundle
  GET /objects             Object summaries
  GET /objects/{name}      One object descriptor
  GET /enums/{name}        One enum descriptor
  GET /bitmasks/{name}     One bitmask descriptor
  GET /databases/{name}    One database descriptor
  GET /metrics             Prometheus metrics (with --metrics)

Examples:
  judegen serve shop.yaml
  judegen serve --addr :9090 --metrics shop.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addOutputFlags(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address (default from serve.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	a.Config.WatchSignals()
	return a.Serve(ctx, args)
}
