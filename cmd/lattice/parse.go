package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/lattice/pkg/reference"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <reference>",
	Short: "Parse a port reference",
	Long: `Decodes a reference string such as "e(f.g#c.d" into its blueprint,
instance, delegate, direction and port, or explains which rule it breaks.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		info, err := reference.ParseStrict(args[0])
		if err != nil {
			var syntaxErr *reference.SyntaxError
			if errors.As(err, &syntaxErr) {
				return fmt.Errorf("invalid reference %q: %s", syntaxErr.Input, syntaxErr.Reason)
			}
			return err
		}
		return writeValue(cmd.OutOrStdout(), info, asJSON)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().Bool("json", false, "Print JSON instead of YAML")
}
