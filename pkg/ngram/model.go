package ngram

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/tresoldi/lpngram/pkg/smoothing"
)

// Model is an n-gram model: for every context of order-1 symbols seen in
// training, it holds a smoothed distribution over the next symbol. A Model is
// built once from its training sequences and never updated afterwards.
type Model struct {
	order    int
	bins     int
	method   smoothing.Method
	window   []Option
	pad      string
	alphabet []string
	dists    map[Key]smoothing.Distribution[string]
	logger   *slog.Logger
}

type modelConfig struct {
	method    smoothing.Method
	smoothing []smoothing.Option
	bins      int
	window    []Option
	logger    *slog.Logger
}

// ModelOption configures NewModel.
type ModelOption func(*modelConfig)

// WithMethod sets the smoothing method for each context distribution.
// Default: laplace
func WithMethod(m smoothing.Method) ModelOption {
	return func(c *modelConfig) { c.method = m }
}

// WithSmoothingOptions passes method-specific parameters (gamma, random
// source, ...) to the smoothing estimator.
func WithSmoothingOptions(opts ...smoothing.Option) ModelOption {
	return func(c *modelConfig) { c.smoothing = append(c.smoothing, opts...) }
}

// WithBins overrides the alphabet size used for smoothing. By default it is
// the number of distinct training symbols plus one for the pad symbol.
func WithBins(bins int) ModelOption {
	return func(c *modelConfig) { c.bins = bins }
}

// WithWindow sets the padding options used for both training and scoring.
func WithWindow(opts ...Option) ModelOption {
	return func(c *modelConfig) { c.window = append(c.window, opts...) }
}

// WithModelLogger sets the logger for the Model. By default all logs are discarded.
func WithModelLogger(logger *slog.Logger) ModelOption {
	return func(c *modelConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewModel collects the n-grams of order over every training sequence,
// groups them by context and smooths each context's next-symbol counts.
// Any smoothing failure (for example a Good-Turing fit on a sparse context)
// is returned as is.
func NewModel(seqs [][]string, order int, opts ...ModelOption) (*Model, error) {
	if order < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOrder, order)
	}
	cfg := &modelConfig{
		method: smoothing.MethodLaplace,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	alphabet := Alphabet(seqs)
	bins := cfg.bins
	if bins == 0 {
		bins = len(alphabet) + 1
	}

	counts := make(map[Key]map[string]int)
	var total int
	for _, seq := range seqs {
		grams, err := NGrams(seq, order, cfg.window...)
		if err != nil {
			return nil, err
		}
		for _, g := range grams {
			ctx := g.Context().Key()
			next, ok := counts[ctx]
			if !ok {
				next = make(map[string]int)
				counts[ctx] = next
			}
			next[g.Last()]++
			total++
		}
	}

	dists := make(map[Key]smoothing.Distribution[string], len(counts))
	for ctx, next := range counts {
		dist, err := smoothing.Smooth(cfg.method, next, bins, cfg.smoothing...)
		if err != nil {
			return nil, fmt.Errorf("context %q: %w", ctx.String(), err)
		}
		dists[ctx] = dist
	}

	cfg.logger.Info("Model trained",
		slog.String("method", string(cfg.method)),
		slog.Int("order", order),
		slog.Int("bins", bins),
		slog.Int("sequences", len(seqs)),
		slog.Int("contexts", len(dists)),
		slog.Int("ngrams", total),
	)

	return &Model{
		order:    order,
		bins:     bins,
		method:   cfg.method,
		window:   cfg.window,
		pad:      newWindowOptions(cfg.window).pad,
		alphabet: alphabet,
		dists:    dists,
		logger:   cfg.logger,
	}, nil
}

// Order returns the n-gram order of the model.
func (m *Model) Order() int { return m.order }

// Bins returns the alphabet size used for smoothing.
func (m *Model) Bins() int { return m.bins }

// Method returns the smoothing method of the model.
func (m *Model) Method() smoothing.Method { return m.method }

// Alphabet returns the sorted distinct training symbols.
func (m *Model) Alphabet() []string { return m.alphabet }

// Contexts returns the number of distinct contexts seen in training.
func (m *Model) Contexts() int { return len(m.dists) }

// Prob returns the smoothed probability of symbol following context. Only the
// last order-1 symbols of context are used; a shorter context is padded on
// the left. Contexts never seen in training get 1/bins.
func (m *Model) Prob(context []string, symbol string) float64 {
	n := m.order - 1
	ctx := make(Ngram, n)
	for i := range ctx {
		j := len(context) - n + i
		if j < 0 {
			ctx[i] = m.pad
		} else {
			ctx[i] = context[j]
		}
	}
	dist, ok := m.dists[ctx.Key()]
	if !ok {
		return 1.0 / float64(m.bins)
	}
	return dist.Prob(symbol)
}

// Score returns the natural-log probability of seq, windowed with the same
// padding used in training. It is -Inf when any step has zero probability.
func (m *Model) Score(seq []string) float64 {
	score, _ := m.score(seq)
	return score
}

func (m *Model) score(seq []string) (float64, int) {
	// the order was validated by NewModel, so windowing cannot fail
	grams, _ := NGrams(seq, m.order, m.window...)
	var logProb float64
	for _, g := range grams {
		logProb += math.Log(m.Prob(g.Context(), g.Last()))
	}
	return logProb, len(grams)
}

// Perplexity returns exp(-L/n) over a set of sequences, where L is the total
// log probability and n the number of predicted symbols. It returns NaN when
// the sequences yield no n-grams.
func (m *Model) Perplexity(seqs [][]string) float64 {
	var logProb float64
	var steps int
	for _, seq := range seqs {
		lp, n := m.score(seq)
		logProb += lp
		steps += n
	}
	if steps == 0 {
		return math.NaN()
	}
	perplexity := math.Exp(-logProb / float64(steps))
	m.logger.Debug("Perplexity computed",
		slog.Int("sequences", len(seqs)),
		slog.Int("steps", steps),
		slog.Float64("perplexity", perplexity),
	)
	return perplexity
}
