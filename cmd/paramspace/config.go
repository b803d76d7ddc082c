package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/paramspace/trial"
)

// Config is the CLI configuration file.
type Config struct {
	Log LogConfig `yaml:"log"`

	// Store configures the trial store used by the trial subcommands.
	Store trial.Config `yaml:"store"`

	// Root is the default root path for labeling.
	Root string `yaml:"root"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"  validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// configValidate checks Config after file and flag overrides.
var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
}

func defaultConfig() Config {
	return Config{
		Log:   LogConfig{Level: "info", Format: "text"},
		Store: trial.DefaultConfig(".paramspace/trials"),
	}
}

// loadConfig reads path over the defaults. An empty path keeps the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

func (c Config) validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// newLogger builds the handler Config asks for, writing to w.
func newLogger(c LogConfig, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", c.Level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
