package main

import (
	"fmt"

	"github.com/aretw0/lattice/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every blueprint for consistency",
	Long: `Compiles every blueprint and reports broken documents, dangling wires and
cycles as errors, and unresolved generics or mismatched wire types as warnings.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		strict, _ := cmd.Flags().GetBool("strict")

		ws, closer, err := openWorkspace(cmd)
		if err != nil {
			return err
		}
		defer closer.Close()

		report, err := ws.Validate()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, issue := range report.Issues {
			fmt.Fprintf(out, "%-7s %s: %s\n", issue.Severity, issue.Blueprint, issue.Reason)
		}

		if err := report.Err(strict); err != nil {
			return fmt.Errorf("validation failed: %d error(s), %d warning(s)",
				report.Count(validator.SeverityError), report.Count(validator.SeverityWarning))
		}
		fmt.Fprintf(out, "%d blueprint(s) valid\n", report.Checked)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Treat warnings as errors")
}
