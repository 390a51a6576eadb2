package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <schema.yaml>...",
	Short: "Check schemas without writing descriptors",
	Long: `Load and resolve each schema document and report errors.

Checks:
  - YAML syntax and keyword keys are valid
  - Imports resolve and do not form a cycle
  - Types, classes and permissions resolve
  - Field tags do not conflict
  - Objects do not depend on each other cyclically

Examples:
  judegen validate shop.yaml
  judegen validate schemas/*.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

const (
	checkMark = "\033[32m✓\033[0m"
	crossMark = "\033[31m✗\033[0m"
)

func init() {
	rootCmd.AddCommand(validateCmd)
	addOutputFlags(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Shutdown()

	ctx, cancel := signalContext()
	defer cancel()

	out := cmd.OutOrStdout()
	failed := 0
	for _, root := range args {
		res, err := a.Check(ctx, root)
		if err != nil {
			failed++
			fmt.Fprintf(out, "  %s %s\n", crossMark, root)
			fmt.Fprintf(out, "      Error: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "  %s %s: %d objects, %d enums, %d bitmasks, %d databases (%d documents)\n",
			checkMark, root,
			len(res.Bundle.Objects), len(res.Bundle.Enums), len(res.Bundle.Bitmasks),
			len(res.Bundle.Databases), res.Documents)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d schemas invalid", failed, len(args))
	}
	return nil
}
