package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/natefinch/atomic"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// TokenizerConfig holds the settings used to split input files into sequences.
type TokenizerConfig struct {
	TokenRegex     string `json:"token_regex" yaml:"token_regex"`
	BoundaryRegex  string `json:"boundary_regex" yaml:"boundary_regex"`
	Lowercase      bool   `json:"lowercase" yaml:"lowercase"`
	Characters     bool   `json:"characters" yaml:"characters"`
	LineBoundaries bool   `json:"line_boundaries" yaml:"line_boundaries"`
}

// Config is the lpngram configuration file. Every value is a default that
// the matching command-line flag overrides when it is given explicitly.
type Config struct {
	LogLevel     string           `json:"log_level" yaml:"log_level"`
	DatabasePath string           `json:"database_path" yaml:"database_path"`
	Method       string           `json:"method" yaml:"method"`
	Order        int              `json:"order" yaml:"order"`
	Gamma        float64          `json:"gamma" yaml:"gamma"`
	Confidence   float64          `json:"confidence" yaml:"confidence"`
	Pad          string           `json:"pad" yaml:"pad"`
	Padding      string           `json:"padding" yaml:"padding"`
	Format       string           `json:"format" yaml:"format"`
	Tokenizer    *TokenizerConfig `json:"tokenizer" yaml:"tokenizer"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:     "warn",
		DatabasePath: "./lpngram.db?_journal_mode=WAL&_busy_timeout=5000",
		Method:       "laplace",
		Order:        2,
		Gamma:        1.0,
		Confidence:   1.96,
		Pad:          "$$$",
		Padding:      "both",
		Format:       "text",
		Tokenizer: &TokenizerConfig{
			TokenRegex:    `[\w']+|[.,!?;]`,
			BoundaryRegex: `^[.!?]$`,
		},
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func marshalConfig(path string, config *Config) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(config)
	}
	return json.MarshalIndent(config, "", "  ")
}

// LoadConfig reads the configuration from the file at the given path, as YAML
// when the extension is .yaml or .yml and as JSON otherwise. If the file
// doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			var data []byte
			data, err = marshalConfig(path, config)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// Defaults still work without a file on disk.
				_, _ = fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if isYAML(path) {
		err = yaml.Unmarshal(file, config)
	} else {
		err = json.Unmarshal(file, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.Tokenizer == nil {
		config.Tokenizer = DefaultConfig().Tokenizer
	}

	return config, nil
}

// applyConfig copies config values into the flag destinations of cmd for
// every flag that was not set explicitly on the command line.
func applyConfig(cmd *cli.Command, cfg *Config) {
	if !cmd.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if !cmd.IsSet("db") {
		dbPath = cfg.DatabasePath
	}
	if !cmd.IsSet("method") {
		method = cfg.Method
	}
	if !cmd.IsSet("order") && cfg.Order > 0 {
		order = cfg.Order
	}
	if !cmd.IsSet("gamma") {
		gamma = cfg.Gamma
	}
	if !cmd.IsSet("confidence") {
		confidence = cfg.Confidence
	}
	if !cmd.IsSet("pad") {
		pad = cfg.Pad
	}
	if !cmd.IsSet("padding") {
		padding = cfg.Padding
	}
	if !cmd.IsSet("format") {
		format = cfg.Format
	}
	if !cmd.IsSet("chars") {
		chars = cfg.Tokenizer.Characters
	}
}
