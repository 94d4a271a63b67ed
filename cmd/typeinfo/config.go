package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/typeinfo/catalog"
	"github.com/wippyai/typeinfo/registry"
	"github.com/wippyai/typeinfo/section"
)

const (
	envPrefix = "TYPEINFO"

	cfgKeyFormat   = "format"
	cfgKeyCatalog  = "catalog"
	cfgKeySection  = "section"
	cfgKeyLogLevel = "log_level"
)

// app holds the state shared by all commands of one invocation.
type app struct {
	v          *viper.Viper
	log        *zap.Logger
	configFile string
}

func newApp() *app {
	return &app{v: viper.New(), log: zap.NewNop()}
}

// setup loads configuration and installs the logger. Precedence is flag >
// TYPEINFO_* environment > config file > default.
func (a *app) setup(cmd *cobra.Command) error {
	v := a.v
	v.SetDefault(cfgKeyFormat, formatJSON)
	v.SetDefault(cfgKeyCatalog, defaultCatalogPath())
	v.SetDefault(cfgKeySection, section.DefaultName)
	v.SetDefault(cfgKeyLogLevel, "warn")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	flags := cmd.Root().PersistentFlags()
	for key, flag := range map[string]string{
		cfgKeyFormat:   "format",
		cfgKeyCatalog:  "catalog",
		cfgKeySection:  "section",
		cfgKeyLogLevel: "log-level",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	if a.configFile != "" {
		v.SetConfigFile(a.configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}

	log, err := newLogger(v.GetString(cfgKeyLogLevel))
	if err != nil {
		return err
	}
	a.log = log
	registry.SetLogger(log.Named("registry"))
	section.SetLogger(log.Named("section"))
	catalog.SetLogger(log.Named("catalog"))
	return nil
}

func (a *app) format() string { return a.v.GetString(cfgKeyFormat) }
func (a *app) catalogPath() string { return a.v.GetString(cfgKeyCatalog) }
func (a *app) sectionName() string { return a.v.GetString(cfgKeySection) }

func defaultCatalogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".typeinfo", "catalog.db")
	}
	return filepath.Join(home, ".typeinfo", "catalog.db")
}

// newLogger builds a console logger on stderr at the given level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	cfg := zap.NewDevelopmentConfig()
	if lvl.Level() > zapcore.DebugLevel {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = lvl
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
