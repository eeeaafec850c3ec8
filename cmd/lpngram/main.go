package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	app := &cli.Command{
		Name:    "lpngram",
		Usage:   "Collect n-grams and smooth their frequency distributions",
		Version: fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate),
		Flags:   globalFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			ngramsCmd(),
			smoothCmd(),
			scoreCmd(),
			runsCmd(),
			methodsCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration file, applies it to every flag that was not
// set explicitly and returns it along with the logger for the command.
func setup(cmd *cli.Command) (*Config, *slog.Logger, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, nil, cli.Exit(fmt.Sprintf("error: failed to load configuration: %v", err), 1)
	}
	applyConfig(cmd, cfg)
	return cfg, newLogger(os.Stderr, logLevel), nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newLogger writes to w, which is stderr for the CLI: stdout carries results.
func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLogLevel(level)}))
}
