// Package config holds the runtime settings of the propgraph driver.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sanonone/propgraph/pkg/recommend"
)

type Config struct {
	// HTTP server ("" disables it)
	HTTPAddr     string        `yaml:"http_addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	AuthToken    string        `yaml:"auth_token"`

	// Logging
	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // text or json

	// Data
	DatasetPath string `yaml:"dataset_path"` // empty: bundled movies dataset

	MetricsEnabled bool `yaml:"metrics_enabled"`

	Recommend recommend.Rules `yaml:"recommend"`
}

// DefaultConfig returns a configuration that serves the bundled dataset on
// :9093 with metrics enabled.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:       ":9093",
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		LogLevel:       "info",
		LogFormat:      "text",
		MetricsEnabled: true,
		Recommend:      recommend.DefaultRules(),
	}
}

// LoadConfig reads the YAML configuration file using strict parsing.
// Fields absent from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("YAML syntax error in config: %w", err)
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q (want text or json)", c.LogFormat)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog.Level.
func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// NewLogger builds the slog logger described by the config, writing to w.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	lvl, _ := c.SlogLevel()
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
