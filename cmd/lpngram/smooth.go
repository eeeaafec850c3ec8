package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/tresoldi/lpngram/pkg/ngram"
	"github.com/tresoldi/lpngram/pkg/report"
	"github.com/tresoldi/lpngram/pkg/smoothing"
)

func smoothCmd() *cli.Command {
	flags := append(inputFlags(), windowFlags()...)
	flags = append(flags, smoothingFlags()...)
	flags = append(flags, outputFlags()...)
	flags = append(flags, dbFlags()...)
	flags = append(flags,
		&cli.BoolFlag{
			Name:        "archive",
			Usage:       "save the distribution to the results archive",
			Destination: &archive,
		},
		&cli.StringFlag{
			Name:        "label",
			Usage:       "free-form label stored with an archived run",
			Destination: &label,
		},
	)

	return &cli.Command{
		Name:  "smooth",
		Usage: "Smooth the n-gram distribution of a corpus",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			m, err := smoothing.ParseMethod(method)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			seqs, err := readCorpus(inputPath, cfg.Tokenizer)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			opts, err := windowOptions()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			var grams []ngram.Ngram
			for _, seq := range seqs {
				g, err := ngram.NGrams(seq, order, opts...)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				grams = append(grams, g...)
			}
			counts := ngram.Count(grams)

			b := bins
			if b == 0 {
				b = max(defaultBins(len(ngram.Alphabet(seqs)), order), len(counts))
			}

			dist, err := smoothing.Smooth(m, counts, b, smoothingOptions(logger)...)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			var g float64
			if m == smoothing.MethodLidstone {
				g = gamma
			}
			run := report.NewRun(label, order, g, counts, dist)

			if archive {
				id, err := archiveRun(ctx, logger, run)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				run.ID = id
			}

			if top > 0 && len(run.Probs) > top {
				run.Probs = run.Probs[:top]
			}
			return writeRun(os.Stdout, format, run)
		},
	}
}

// smoothingOptions converts the smoothing flags into estimator options.
func smoothingOptions(logger *slog.Logger) []smoothing.Option {
	opts := []smoothing.Option{
		smoothing.WithGamma(gamma),
		smoothing.WithConfidence(confidence),
		smoothing.WithLogger(logger),
	}
	if seed != 0 {
		opts = append(opts, smoothing.WithRand(rand.New(rand.NewPCG(seed, seed))))
	}
	return opts
}

// defaultBins is the number of possible n-grams of order over an alphabet
// extended with the pad symbol, capped at math.MaxInt32.
func defaultBins(alphabet, order int) int {
	b := 1
	for i := 0; i < order; i++ {
		if b > math.MaxInt32/(alphabet+1) {
			return math.MaxInt32
		}
		b *= alphabet + 1
	}
	return b
}

func archiveRun(ctx context.Context, logger *slog.Logger, run report.Run) (string, error) {
	store, closeStore, err := openStore(logger)
	if err != nil {
		return "", err
	}
	defer closeStore()
	return store.SaveRun(ctx, run)
}
