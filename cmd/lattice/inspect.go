package main

import (
	"fmt"

	"github.com/aretw0/lattice/internal/dto"
	"github.com/aretw0/lattice/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <id>",
	Short: "Describe a compiled blueprint",
	Long: `Compiles a blueprint and lists its delegates, ports (declared and resolved
types), operators and wires. On a terminal the output is rendered Markdown;
otherwise it is YAML.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		ws, closer, err := openWorkspace(cmd)
		if err != nil {
			return err
		}
		defer closer.Close()

		bp, err := ws.Blueprint(args[0])
		if err != nil {
			return err
		}
		view := dto.FromBlueprint(bp)

		out := cmd.OutOrStdout()
		if format == "auto" {
			format = "yaml"
			if isTerminal(out) {
				format = "pretty"
			}
		}

		switch format {
		case "pretty":
			rendered, err := tui.NewRenderer()(tui.BlueprintMarkdown(view))
			if err != nil {
				return err
			}
			fmt.Fprint(out, rendered)
		case "markdown":
			fmt.Fprint(out, tui.BlueprintMarkdown(view))
		case "yaml":
			return writeValue(out, view, false)
		case "json":
			return writeValue(out, view, true)
		default:
			return fmt.Errorf("unknown format %q (auto, pretty, markdown, yaml, json)", format)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringP("format", "f", "auto", "Output format: auto, pretty, markdown, yaml or json")
}
