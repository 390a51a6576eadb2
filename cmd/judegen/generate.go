package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var generateStdout bool

var generateCmd = &cobra.Command{
	Use:   "generate <schema.yaml>...",
	Short: "Compile schemas and write descriptors",
	Long: `Compile each schema document and write its descriptors.

Output goes to <out>/<schema>/<schema>.<ext>. A file whose content is
unchanged is not rewritten. A schema that fails to compile writes nothing.

Examples:
  judegen generate shop.yaml
  judegen generate -f yaml -o build shop.yaml inventory.yaml
  judegen generate --stdout shop.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	addOutputFlags(generateCmd)
	generateCmd.Flags().BoolVar(&generateStdout, "stdout", false, "print descriptors instead of writing files")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Shutdown()

	ctx, cancel := signalContext()
	defer cancel()

	out := cmd.OutOrStdout()
	for _, root := range args {
		if generateStdout {
			res, err := a.Check(ctx, root)
			if err != nil {
				return err
			}
			if _, err := out.Write(res.Output); err != nil {
				return err
			}
			continue
		}

		res, err := a.Compile(ctx, root)
		if err != nil {
			return err
		}
		status := "unchanged"
		if res.Written {
			status = "written"
		}
		fmt.Fprintf(out, "  %s %s (%s)\n", checkMark, res.Path, status)
	}
	return nil
}
