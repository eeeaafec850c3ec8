package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigCreatesDefaults(t *testing.T) {
	for _, name := range []string{"lpngram.json", "lpngram.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig() failed: %v", err)
			}
			if cfg.Method != "laplace" || cfg.Order != 2 || cfg.Tokenizer == nil {
				t.Errorf("unexpected defaults: %+v", cfg)
			}
			if _, err := os.Stat(path); err != nil {
				t.Fatalf("expected default config file to be written: %v", err)
			}

			// The written file must load back to the same values.
			again, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig() on written defaults failed: %v", err)
			}
			if again.DatabasePath != cfg.DatabasePath || again.Tokenizer.TokenRegex != cfg.Tokenizer.TokenRegex {
				t.Errorf("round trip mismatch: %+v vs %+v", again, cfg)
			}
		})
	}
}

func TestLoadConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yml")
	data := "method: wittenbell\norder: 3\ntokenizer:\n  characters: true\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.Method != "wittenbell" || cfg.Order != 3 {
		t.Errorf("expected file values, got %+v", cfg)
	}
	if !cfg.Tokenizer.Characters {
		t.Error("expected characters to be enabled")
	}
	// Values missing from the file keep their defaults.
	if cfg.Format != "text" || cfg.Pad != "$$$" {
		t.Errorf("expected defaults for missing keys, got format %q pad %q", cfg.Format, cfg.Pad)
	}
}

func TestLoadConfigJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lpngram.json")
	data := `{"method": "sgt", "confidence": 2.58, "padding": "left"}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.Method != "sgt" || cfg.Confidence != 2.58 || cfg.Padding != "left" {
		t.Errorf("expected file values, got %+v", cfg)
	}
	if cfg.Tokenizer == nil || cfg.Tokenizer.BoundaryRegex == "" {
		t.Error("expected the default tokenizer section")
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lpngram.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected an error for a malformed config file")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
