package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/typeinfo/section"
)

func newEmbedCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "embed <module.wasm> <table>",
		Short: "Store a table in a wasm custom section",
		Long: `Embed encodes the table as SCALE binary and stores it in a custom
section of a core module or component, replacing an earlier section of the
same name. The section name comes from --section.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := readInput(args[0])
			if err != nil {
				return err
			}
			reg, err := readTable(args[1], a.format())
			if err != nil {
				return err
			}
			embedded, err := section.EmbedRegistry(module, a.sectionName(), reg)
			if err != nil {
				return err
			}
			if out == "" {
				out = args[0]
			}
			a.log.Info("table embedded",
				zap.String("module", out),
				zap.String("section", a.sectionName()),
				zap.Int("types", reg.Len()))
			return writeOutput(cmd.OutOrStdout(), out, embedded)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output module (default: overwrite input, \"-\" for stdout)")
	return cmd
}

func newExtractCmd(a *app) *cobra.Command {
	var out string
	var list bool
	cmd := &cobra.Command{
		Use:   "extract <module.wasm>",
		Short: "Read a table from a wasm custom section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := readInput(args[0])
			if err != nil {
				return err
			}
			if list {
				sections, err := section.Sections(module)
				if err != nil {
					return err
				}
				for _, s := range sections {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d bytes\n", s.Name, len(s.Data))
				}
				return nil
			}

			ctx := cmd.Context()
			ex := section.NewExtractor(ctx)
			defer ex.Close(ctx)
			reg, err := ex.ExtractRegistry(ctx, module, a.sectionName())
			if err != nil {
				return err
			}
			format, err := formatOf(out, a.format())
			if err != nil {
				return err
			}
			return writeTable(cmd.OutOrStdout(), out, reg, format)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&list, "list", false, "list custom sections instead")
	return cmd
}
