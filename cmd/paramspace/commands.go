package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// app carries what PersistentPreRunE resolved to the subcommands.
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	storePath  string

	cfg    Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "paramspace",
		Short: "Label, describe and evaluate parameter spaces",
		Long: `paramspace works on search spaces written in YAML.

It assigns every random variable a stable label, renders the space for a
sampling engine, evaluates it at a label -> value point, and keeps evaluated
points in a local trial store.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to a YAML config file")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.logFormat, "log-format", "", "log format: text or json")
	pf.StringVar(&a.storePath, "store", "", "trial store directory")

	rootCmd.AddCommand(
		a.labelCmd(),
		a.describeCmd(),
		a.assignCmd(),
		a.trialCmd(),
	)

	return rootCmd
}

// setup loads the config, applies flag overrides and installs the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	if flags.Changed("store") {
		cfg.Store.Path = a.storePath
		cfg.Store.InMemory = false
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	a.cfg, a.logger = cfg, logger
	a.cfg.Store.Logger = logger
	logger.Debug("configuration loaded", slog.String("config", a.configPath), slog.String("store", cfg.Store.Path))

	return nil
}
