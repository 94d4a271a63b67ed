package main

import (
	"github.com/spf13/cobra"

	"github.com/wippyai/typeinfo/witgen"
)

func newWitCmd(a *app) *cobra.Command {
	var pkg, iface, out string
	cmd := &cobra.Command{
		Use:   "wit <table>",
		Short: "Export a table as WIT",
		Long: `Wit renders the table as a WIT interface. Named types become records,
variants and enums; tables with recursive types cannot be exported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := readTable(args[0], a.format())
			if err != nil {
				return err
			}
			p, err := witgen.GenerateWithOptions(reg, witgen.Options{
				Logger:    a.log.Named("witgen"),
				Package:   pkg,
				Interface: iface,
			})
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), out, []byte(p.WIT()))
		},
	}
	def := witgen.DefaultOptions()
	cmd.Flags().StringVar(&pkg, "package", def.Package, "WIT package name")
	cmd.Flags().StringVar(&iface, "interface", def.Interface, "WIT interface name")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}
