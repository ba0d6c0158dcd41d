package main

import (
	"fmt"

	"github.com/aretw0/lattice/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <id>",
	Short: "Export a blueprint as a Mermaid diagram",
	Long:  `Compiles a blueprint and outputs a Mermaid diagram (graph LR) of its boundary, operators and wires.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		selected, _ := cmd.Flags().GetStringSlice("select")

		ws, closer, err := openWorkspace(cmd)
		if err != nil {
			return err
		}
		defer closer.Close()

		bp, err := ws.Blueprint(args[0])
		if err != nil {
			return err
		}

		var overlay *graph.Overlay
		if len(selected) > 0 {
			overlay = &graph.Overlay{Selected: selected}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(bp, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringSlice("select", nil, "Operators to highlight")
}
