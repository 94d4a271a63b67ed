package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	a := newApp()
	root := &cobra.Command{
		Use:   "typeinfo",
		Short: "Inspect and convert portable type tables",
		Long: `typeinfo works with portable type tables: flat, deduplicated catalogues
of type descriptions referenced by integer id.

Tables are read and written as JSON, YAML or SCALE binary. The format is
taken from the file extension (.json, .yaml/.yml, .scale/.bin) and falls back
to --format.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (yaml, json or toml)")
	flags.String("format", formatJSON, "default table format: json, yaml or scale")
	flags.String("catalog", defaultCatalogPath(), "catalog database path")
	flags.String("section", "", "custom section name (default \"typeinfo\")")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(
		newConvertCmd(a),
		newShowCmd(a),
		newRetainCmd(a),
		newWitCmd(a),
		newEmbedCmd(a),
		newExtractCmd(a),
		newBrowseCmd(a),
		newCatalogCmd(a),
		newDemoCmd(a),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "typeinfo "+version)
		},
	}
}
