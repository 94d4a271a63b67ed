package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newConvertCmd(a *app) *cobra.Command {
	var to, out string
	cmd := &cobra.Command{
		Use:   "convert <table> [-o out] [--to format]",
		Short: "Convert a table between JSON, YAML and SCALE",
		Long: `Convert reads a table and writes it in another format.

The output format is --to, else the extension of -o, else --format.
Use "-" to read from stdin.

Example:
  typeinfo convert types.json -o types.scale
  typeinfo convert types.scale --to yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := readTable(args[0], a.format())
			if err != nil {
				return err
			}
			format := to
			if format == "" {
				if format, err = formatOf(out, a.format()); err != nil {
					return err
				}
			} else if format, err = checkFormat(format); err != nil {
				return err
			}
			a.log.Debug("converting table",
				zap.String("in", args[0]),
				zap.String("format", format),
				zap.Int("types", reg.Len()))
			return writeTable(cmd.OutOrStdout(), out, reg, format)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "output format: json, yaml or scale")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newRetainCmd(a *app) *cobra.Command {
	var ids, out string
	cmd := &cobra.Command{
		Use:   "retain <table> --id 0,3",
		Short: "Keep only the given types and their dependencies",
		Long: `Retain drops every type not reachable from the listed ids and
renumbers the rest densely, depth first. The old to new id mapping is
printed to stderr.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keep, err := parseIDs(ids)
			if err != nil {
				return err
			}
			reg, err := readTable(args[0], a.format())
			if err != nil {
				return err
			}
			for id := range keep {
				if _, ok := reg.Resolve(id); !ok {
					return fmt.Errorf("type %d not in table (%d types)", id, reg.Len())
				}
			}

			retained := reg.Retain(func(id uint32) bool { return keep[id] }, func(oldID, newID uint32) {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d -> %d\n", oldID, newID)
			})
			format, err := formatOf(out, a.format())
			if err != nil {
				return err
			}
			return writeTable(cmd.OutOrStdout(), out, retained, format)
		},
	}
	cmd.Flags().StringVar(&ids, "id", "", "comma separated type ids to keep")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func parseIDs(s string) (map[uint32]bool, error) {
	keep := make(map[uint32]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", part, err)
		}
		keep[uint32(id)] = true
	}
	if len(keep) == 0 {
		return nil, fmt.Errorf("no ids given")
	}
	return keep, nil
}
