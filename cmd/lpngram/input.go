package main

import (
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/tresoldi/lpngram/pkg/ngram"
)

// newTokenizer builds the corpus tokenizer from the configuration, with the
// --chars flag taking precedence over the configured mode.
func newTokenizer(cfg *TokenizerConfig) (ngram.Tokenizer, error) {
	var opts []ngram.TokenizerOption
	for _, expr := range []string{cfg.TokenRegex, cfg.BoundaryRegex} {
		if _, err := regexp.Compile(expr); err != nil {
			return nil, fmt.Errorf("invalid tokenizer regex %q: %w", expr, err)
		}
	}
	if cfg.TokenRegex != "" {
		opts = append(opts, ngram.WithTokenRegex(cfg.TokenRegex))
	}
	if cfg.BoundaryRegex != "" {
		opts = append(opts, ngram.WithBoundaryRegex(cfg.BoundaryRegex))
	}
	opts = append(opts,
		ngram.WithLowercase(cfg.Lowercase),
		ngram.WithLineBoundaries(cfg.LineBoundaries),
		ngram.WithCharacters(chars),
	)
	return ngram.NewDefaultTokenizer(opts...), nil
}

// readCorpus reads the sequences of the file at path, or of stdin when path is "-".
func readCorpus(path string, cfg *TokenizerConfig) ([][]string, error) {
	tok, err := newTokenizer(cfg)
	if err != nil {
		return nil, err
	}

	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open corpus: %w", err)
		}
		defer func(f *os.File) {
			_ = f.Close()
		}(f)
		r = f
	}

	seqs, err := ngram.ReadSequences(tok, r)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus %s: %w", path, err)
	}
	return seqs, nil
}

// windowOptions converts the --pad and --padding values into windowing options.
func windowOptions() ([]ngram.Option, error) {
	p, ok := ngram.ParsePadding(padding)
	if !ok {
		return nil, fmt.Errorf("unknown padding %q (want both, left, right or none)", padding)
	}
	opts := []ngram.Option{ngram.WithPadding(p)}
	if pad != "" {
		opts = append(opts, ngram.WithPad(pad))
	}
	return opts, nil
}
