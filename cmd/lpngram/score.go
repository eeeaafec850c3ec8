package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/tresoldi/lpngram/pkg/ngram"
	"github.com/tresoldi/lpngram/pkg/smoothing"
)

type scoreRow struct {
	Sequence string  `json:"sequence" yaml:"sequence"`
	LogProb  float64 `json:"log_prob" yaml:"log_prob"`
}

type scoreReport struct {
	Method     string     `json:"method" yaml:"method"`
	Order      int        `json:"order" yaml:"order"`
	Bins       int        `json:"bins" yaml:"bins"`
	Contexts   int        `json:"contexts" yaml:"contexts"`
	Sequences  []scoreRow `json:"sequences" yaml:"sequences"`
	Perplexity *float64   `json:"perplexity,omitempty" yaml:"perplexity,omitempty"`
}

func scoreCmd() *cli.Command {
	flags := append(inputFlags(), windowFlags()...)
	flags = append(flags, smoothingFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "train",
			Aliases:     []string{"t"},
			Usage:       "training corpus",
			Required:    true,
			Destination: &trainPath,
		},
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "output format (text, json, yaml, tsv)",
			Destination: &format,
		},
	)

	return &cli.Command{
		Name:  "score",
		Usage: "Train an n-gram model and score sequences with it",
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
			opts, err := windowOptions()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			train, err := readCorpus(trainPath, cfg.Tokenizer)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			seqs, err := readCorpus(inputPath, cfg.Tokenizer)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			model, err := ngram.NewModel(train, order,
				ngram.WithMethod(m),
				ngram.WithBins(bins),
				ngram.WithWindow(opts...),
				ngram.WithSmoothingOptions(smoothingOptions(logger)...),
				ngram.WithModelLogger(logger),
			)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			rep := scoreReport{
				Method:   string(model.Method()),
				Order:    model.Order(),
				Bins:     model.Bins(),
				Contexts: model.Contexts(),
			}
			for _, seq := range seqs {
				rep.Sequences = append(rep.Sequences, scoreRow{
					Sequence: strings.Join(seq, " "),
					LogProb:  model.Score(seq),
				})
			}
			if ppl := model.Perplexity(seqs); !math.IsNaN(ppl) {
				rep.Perplexity = &ppl
			}
			return writeScores(os.Stdout, format, rep)
		},
	}
}

func writeScores(w io.Writer, format string, rep scoreReport) error {
	// -Inf is not representable in JSON or YAML numbers
	if format == "json" || format == "yaml" {
		for i, r := range rep.Sequences {
			if math.IsInf(r.LogProb, -1) {
				rep.Sequences[i].LogProb = -math.MaxFloat64
			}
		}
		if rep.Perplexity != nil && math.IsInf(*rep.Perplexity, 1) {
			rep.Perplexity = nil
		}
	}
	if handled, err := encode(w, format, rep); handled {
		return err
	}

	if format == "tsv" {
		for _, r := range rep.Sequences {
			_, _ = fmt.Fprintf(w, "%g\t%s\n", r.LogProb, r.Sequence)
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range rep.Sequences {
		_, _ = fmt.Fprintf(tw, "%.4f\t%s\n", r.LogProb, r.Sequence)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if rep.Perplexity != nil {
		_, _ = fmt.Fprintf(w, "\nperplexity %.4f (%s, order %d, %d contexts)\n",
			*rep.Perplexity, rep.Method, rep.Order, rep.Contexts)
	}
	return nil
}
