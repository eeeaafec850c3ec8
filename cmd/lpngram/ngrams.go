package main

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/tresoldi/lpngram/pkg/ngram"
)

func ngramsCmd() *cli.Command {
	var minFreq int

	flags := append(inputFlags(), windowFlags()...)
	flags = append(flags, outputFlags()...)
	flags = append(flags,
		&cli.IntFlag{
			Name:        "min-order",
			Usage:       "smallest order to collect (default: --order)",
			Destination: &minOrder,
		},
		&cli.IntFlag{
			Name:        "skip",
			Usage:       "collect skip-grams with up to this many skipped symbols between members",
			Destination: &skipGap,
		},
		&cli.BoolFlag{
			Name:        "positional",
			Usage:       "tag each n-gram with its offset in the padded sequence",
			Destination: &positional,
		},
		&cli.IntFlag{
			Name:        "min-freq",
			Usage:       "drop n-grams seen this many times or fewer",
			Destination: &minFreq,
		},
	)

	return &cli.Command{
		Name:  "ngrams",
		Usage: "Count the n-grams of a corpus",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			seqs, err := readCorpus(inputPath, cfg.Tokenizer)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			opts, err := windowOptions()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if !cmd.IsSet("min-order") {
				minOrder = order
			}
			if positional && skipGap > 0 {
				return cli.Exit("error: --positional and --skip cannot be combined", 1)
			}

			var rows []countRow
			var total int
			if positional {
				rows, total, err = countPositional(seqs, opts, minFreq)
			} else {
				rows, total, err = countPlain(seqs, opts, minFreq)
			}
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			logger.Info("N-grams counted",
				"sequences", len(seqs),
				"min_order", minOrder,
				"max_order", order,
				"skip", skipGap,
				"total", total,
				"distinct", len(rows),
			)

			sortRows(rows)
			if top > 0 && len(rows) > top {
				rows = rows[:top]
			}
			return writeCounts(os.Stdout, format, rows, total)
		},
	}
}

func countPlain(seqs [][]string, opts []ngram.Option, minFreq int) ([]countRow, int, error) {
	var grams []ngram.Ngram
	for _, seq := range seqs {
		var g []ngram.Ngram
		var err error
		if skipGap > 0 {
			if minOrder > order {
				return nil, 0, fmt.Errorf("%w: %d > %d", ngram.ErrInvalidRange, minOrder, order)
			}
			for k := minOrder; k <= order && err == nil; k++ {
				var kg []ngram.Ngram
				kg, err = ngram.SkipNGrams(seq, k, skipGap, opts...)
				g = append(g, kg...)
			}
		} else {
			g, err = ngram.AllNGrams(seq, minOrder, order, opts...)
		}
		if err != nil {
			return nil, 0, err
		}
		grams = append(grams, g...)
	}

	counts := ngram.Prune(ngram.Count(grams), minFreq)
	rows := make([]countRow, 0, len(counts))
	for k, c := range counts {
		rows = append(rows, countRow{Ngram: k.String(), Count: c})
	}
	return rows, len(grams), nil
}

func countPositional(seqs [][]string, opts []ngram.Option, minFreq int) ([]countRow, int, error) {
	var grams []ngram.PosNgram
	for _, seq := range seqs {
		g, err := ngram.AllPosNGrams(seq, minOrder, order, opts...)
		if err != nil {
			return nil, 0, err
		}
		grams = append(grams, g...)
	}

	counts := ngram.Prune(ngram.CountPos(grams), minFreq)
	rows := make([]countRow, 0, len(counts))
	for k, c := range counts {
		pos := k.Pos
		rows = append(rows, countRow{Ngram: k.Gram.String(), Pos: &pos, Count: c})
	}
	return rows, len(grams), nil
}

// sortRows orders rows by descending count, then by n-gram and position.
func sortRows(rows []countRow) {
	slices.SortFunc(rows, func(a, b countRow) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Ngram, b.Ngram); c != 0 {
			return c
		}
		var pa, pb int
		if a.Pos != nil {
			pa = *a.Pos
		}
		if b.Pos != nil {
			pb = *b.Pos
		}
		return cmp.Compare(pa, pb)
	})
}
