package main

import (
	"fmt"

	"github.com/aretw0/lattice/pkg/reference"
	"github.com/spf13/cobra"
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode a port reference",
	Long: `Builds a reference string from its parts. Omit --instance to address the
enclosing blueprint's boundary.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		instance, _ := flags.GetString("instance")
		port, _ := flags.GetString("port")
		in, _ := flags.GetBool("in")

		info := reference.Instance(instance, in, port)
		if flags.Changed("blueprint") {
			bp, _ := flags.GetString("blueprint")
			info = info.WithBlueprint(bp)
		}
		if flags.Changed("delegate") {
			d, _ := flags.GetString("delegate")
			info = info.WithDelegate(d)
		}

		ref, err := reference.Encode(info)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ref)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().String("instance", "", "Operator or delegate name")
	encodeCmd.Flags().String("port", "", "Port path (empty for the root port)")
	encodeCmd.Flags().Bool("in", false, "Address an input port")
	encodeCmd.Flags().String("blueprint", "", "Blueprint qualifier")
	encodeCmd.Flags().String("delegate", "", "Delegate qualifier")
}
