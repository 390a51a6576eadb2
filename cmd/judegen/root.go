package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/artpar/judegen/bootstrap"
	"github.com/artpar/judegen/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Global flags
	cfgFile string
)

// flagEnv maps flags onto the JUDEGEN_* variables they set. Environment
// variables override the config file and survive reloads, so flags given on
// the command line keep winning after the file changes.
var flagEnv = map[string]string{
	"out":          "JUDEGEN_OUTPUT_DIR",
	"format":       "JUDEGEN_OUTPUT_FORMAT",
	"legacy":       "JUDEGEN_NAMING_LEGACY",
	"pointer-size": "JUDEGEN_LAYOUT_POINTER_SIZE",
	"log-level":    "JUDEGEN_LOG_LEVEL",
	"log-format":   "JUDEGEN_LOG_FORMAT",
	"metrics":      "JUDEGEN_METRICS_ENABLED",
	"addr":         "JUDEGEN_SERVE_ADDR",
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "judegen",
	Short: "Compile YAML object schemas into storage descriptors",
	Long: `judegen compiles YAML schema documents into field and layout descriptors.

Each schema declares objects, enums, bitmasks, classes and databases, and may
import other schema documents. judegen resolves types, allocates field tags,
orders objects by dependency and computes struct layouts, then writes the
result to <out>/<schema>/<schema>.<ext>.

Quick start:
  judegen generate shop.yaml       # Compile and write descriptors
  judegen validate shop.yaml       # Check without writing
  judegen watch shop.yaml          # Recompile on change
  judegen serve shop.yaml          # Browse descriptors over HTTP`,
	SilenceUsage:      true,
	PersistentPreRunE: applyFlagEnv,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultFile, "config file path")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: json or console")
}

// addOutputFlags registers the flags of commands that compile schemas.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("out", "o", "", "output directory")
	cmd.Flags().StringP("format", "f", "", "output format: json, yaml, table")
	cmd.Flags().Bool("legacy", false, "legacy accessor naming")
	cmd.Flags().Int("pointer-size", 0, "pointer size in bytes: 4 or 8")
	cmd.Flags().Bool("metrics", false, "enable metrics")
}

func applyFlagEnv(cmd *cobra.Command, args []string) error {
	var err error
	cmd.Flags().Visit(func(f *pflag.Flag) {
		env, ok := flagEnv[f.Name]
		if !ok || err != nil {
			return
		}
		err = os.Setenv(env, f.Value.String())
	})
	return err
}

func newApp() (*bootstrap.App, error) {
	return bootstrap.New(bootstrap.Options{ConfigPath: cfgFile})
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
