package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/natefinch/atomic"
	"github.com/urfave/cli/v3"

	"github.com/tresoldi/lpngram/pkg/report"
)

// openStore opens the results archive at dbPath and prepares its schema. The
// returned function closes both the store and the database.
func openStore(logger *slog.Logger) (*report.Store, func(), error) {
	db, err := initDB(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err = report.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to setup archive schema: %w", err)
	}
	store, err := report.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to prepare archive: %w", err)
	}
	store.SetLogger(logger)

	return store, func() {
		store.Close()
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}, nil
}

// withStore runs fn against the results archive after the usual setup.
func withStore(cmd *cli.Command, fn func(*report.Store) error) error {
	_, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(logger)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	defer closeStore()

	if err = fn(store); err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	return nil
}

func runIDArg(cmd *cli.Command) (string, error) {
	id := cmd.Args().First()
	if id == "" {
		return "", cli.Exit("error: a run id is required", 1)
	}
	return id, nil
}

func runsCmd() *cli.Command {
	var olderThan time.Duration

	return &cli.Command{
		Name:  "runs",
		Usage: "Inspect and manage the results archive",
		Flags: dbFlags(),
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List archived runs",
				Flags:   outputFlags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withStore(cmd, func(store *report.Store) error {
						runs, err := store.ListRuns(ctx)
						if err != nil {
							return err
						}
						return writeRuns(os.Stdout, format, runs)
					})
				},
			},
			{
				Name:      "show",
				Usage:     "Print an archived run",
				ArgsUsage: "RUN_ID",
				Flags:     outputFlags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := runIDArg(cmd)
					if err != nil {
						return err
					}
					return withStore(cmd, func(store *report.Store) error {
						run, err := store.GetRun(ctx, id)
						if err != nil {
							return err
						}
						if top > 0 && len(run.Probs) > top {
							run.Probs = run.Probs[:top]
						}
						return writeRun(os.Stdout, format, run)
					})
				},
			},
			{
				Name:      "export",
				Usage:     "Export an archived run as JSON",
				ArgsUsage: "RUN_ID",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "output",
						Aliases:     []string{"o"},
						Usage:       "write to this file instead of stdout",
						Destination: &outputPath,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := runIDArg(cmd)
					if err != nil {
						return err
					}
					return withStore(cmd, func(store *report.Store) error {
						if outputPath == "" {
							return store.ExportRun(ctx, id, os.Stdout)
						}
						var buf bytes.Buffer
						if err := store.ExportRun(ctx, id, &buf); err != nil {
							return err
						}
						return atomic.WriteFile(outputPath, &buf)
					})
				},
			},
			{
				Name:      "import",
				Usage:     "Archive a run exported with 'runs export'",
				ArgsUsage: "FILE",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					path := cmd.Args().First()
					if path == "" {
						return cli.Exit("error: an export file is required", 1)
					}
					return withStore(cmd, func(store *report.Store) error {
						f, err := os.Open(path)
						if err != nil {
							return err
						}
						defer func(f *os.File) {
							_ = f.Close()
						}(f)
						id, err := store.ImportRun(ctx, f)
						if err != nil {
							return err
						}
						fmt.Println(id)
						return nil
					})
				},
			},
			{
				Name:      "rm",
				Aliases:   []string{"remove"},
				Usage:     "Remove archived runs",
				ArgsUsage: "RUN_ID...",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() == 0 {
						return cli.Exit("error: at least one run id is required", 1)
					}
					return withStore(cmd, func(store *report.Store) error {
						for _, id := range cmd.Args().Slice() {
							if err := store.RemoveRun(ctx, id); err != nil {
								return err
							}
						}
						return nil
					})
				},
			},
			{
				Name:  "prune",
				Usage: "Remove runs older than a given age",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:        "older-than",
						Usage:       "minimum age of the removed runs",
						Value:       30 * 24 * time.Hour,
						Destination: &olderThan,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withStore(cmd, func(store *report.Store) error {
						n, err := store.PruneRuns(ctx, time.Now().Add(-olderThan))
						if err != nil {
							return err
						}
						fmt.Printf("%d run(s) removed\n", n)
						return nil
					})
				},
			},
			{
				Name:  "stats",
				Usage: "Summarize the archive",
				Flags: outputFlags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withStore(cmd, func(store *report.Store) error {
						stats, err := store.Stats(ctx)
						if err != nil {
							return err
						}
						return writeStats(os.Stdout, format, stats)
					})
				},
			},
		},
	}
}
