package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/typeinfo/portable"
)

func newShowCmd(a *app) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "show <table>",
		Short: "Print the types of a table",
		Long: `Show prints one line per type: id, kind and name. With -v the full
declaration of every type is printed instead. Output is colored when
stdout is a terminal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := readTable(args[0], a.format())
			if err != nil {
				return err
			}
			showTable(cmd.OutOrStdout(), reg, verbose, isTerminal(cmd.OutOrStdout()))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print full declarations")
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func showTable(w io.Writer, reg *portable.Registry, verbose, color bool) {
	render := func(style interface{ Render(...string) string }, s string) string {
		if !color {
			return s
		}
		return style.Render(s)
	}

	fmt.Fprintln(w, render(titleStyle, fmt.Sprintf("%d types", reg.Len())))
	for _, e := range reg.Types() {
		if verbose {
			fmt.Fprintln(w)
			fmt.Fprint(w, render(idStyle, "#"+strconv.FormatUint(uint64(e.ID), 10))+"\n")
			fmt.Fprint(w, definition(reg, e.ID))
			continue
		}
		id := strconv.FormatUint(uint64(e.ID), 10)
		kind := e.Type.Def.Kind().String()
		if !color {
			fmt.Fprintf(w, "%6s  %-12s%s\n", id, kind, refName(reg, e.ID))
			continue
		}
		fmt.Fprintln(w, strings.Join([]string{
			idStyle.Render(id), "  ", kindStyle.Render(kind), nameStyle.Render(refName(reg, e.ID)),
		}, ""))
	}
}
