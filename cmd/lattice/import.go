package main

import (
	"fmt"

	"github.com/aretw0/lattice/internal/compiler"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy blueprint documents into a store",
	Long: `Reads every blueprint from --dir (or --store) and saves its definition into
the store named by --to, for example "sqlite:blueprints.db" or "redis:localhost:6379".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		to, _ := cmd.Flags().GetString("to")

		ws, closer, err := openWorkspace(cmd)
		if err != nil {
			return err
		}
		defer closer.Close()

		target, targetCloser, err := openStore(to)
		if err != nil {
			return err
		}
		defer targetCloser.Close()

		loader := ws.Loader()
		ids, err := loader.ListBlueprints()
		if err != nil {
			return err
		}

		if lister, ok := loader.(interface{ Unlisted() ([]string, error) }); ok {
			skipped, err := lister.Unlisted()
			if err != nil {
				return err
			}
			for _, path := range skipped {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s was not loaded; store dotted IDs as dir/name.md with an id field\n", path)
			}
		}

		parser := compiler.NewParser()
		for _, id := range ids {
			data, err := loader.GetBlueprint(id)
			if err != nil {
				return err
			}
			def, err := parser.Parse(data)
			if err != nil {
				return fmt.Errorf("parse %s: %w", id, err)
			}
			if err := target.Save(cmd.Context(), def); err != nil {
				return fmt.Errorf("save %s: %w", id, err)
			}
			ws.Logger().Info("blueprint imported", "id", id, "to", to)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d blueprint(s) into %s\n", len(ids), to)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().String("to", "", "Destination store (sqlite:PATH or redis:ADDR)")
	_ = importCmd.MarkFlagRequired("to")
}
