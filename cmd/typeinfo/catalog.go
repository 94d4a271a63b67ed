package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wippyai/typeinfo/catalog"
	"github.com/wippyai/typeinfo/portable"
)

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Store and fetch tables in the catalog database",
		Long: `Catalog keeps named tables in a SQLite database (--catalog).
Saving an unchanged table under the same name reuses its id.`,
	}
	cmd.AddCommand(
		newCatalogSaveCmd(a),
		newCatalogListCmd(a),
		newCatalogGetCmd(a),
		newCatalogRmCmd(a),
	)
	return cmd
}

func (a *app) withCatalog(cmd *cobra.Command, fn func(*catalog.Store) error) error {
	store, err := catalog.Open(cmd.Context(), a.catalogPath())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newCatalogSaveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "save <name> <table>",
		Short: "Save a table under a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := readTable(args[1], a.format())
			if err != nil {
				return err
			}
			return a.withCatalog(cmd, func(s *catalog.Store) error {
				id, err := s.Save(cmd.Context(), args[0], reg)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}
}

func newCatalogListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCatalog(cmd, func(s *catalog.Store) error {
				entries, err := s.List(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tTYPES\tBYTES\tSAVED")
				for _, e := range entries {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
						e.ID, e.Name, e.Types, e.Size, e.CreatedAt.Format("2006-01-02 15:04:05"))
				}
				return tw.Flush()
			})
		},
	}
}

func newCatalogGetCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "get <id|name>",
		Short: "Print a saved table",
		Long:  `Get loads a table by id, or the latest table saved under a name.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCatalog(cmd, func(s *catalog.Store) error {
				var (
					reg *portable.Registry
					err error
				)
				if id, perr := uuid.Parse(args[0]); perr == nil {
					reg, err = s.Load(cmd.Context(), id)
				} else {
					reg, err = s.LoadByName(cmd.Context(), args[0])
				}
				if err != nil {
					return err
				}
				format, err := formatOf(out, a.format())
				if err != nil {
					return err
				}
				return writeTable(cmd.OutOrStdout(), out, reg, format)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newCatalogRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a saved table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}
			return a.withCatalog(cmd, func(s *catalog.Store) error {
				return s.Delete(cmd.Context(), id)
			})
		},
	}
}
