package smoothing

import (
	"io"
	"log/slog"
	"math/rand/v2"
)

// options holds the method-specific parameters shared by all estimators.
type options struct {
	gamma      float64
	confidence float64
	rng        *rand.Rand
	logger     *slog.Logger
}

// Option configures an estimator.
type Option func(*options)

// WithGamma sets the additive constant used by the Lidstone estimator.
// Default: 1.0. It has no effect on Laplace and ELE, which fix it.
func WithGamma(gamma float64) Option {
	return func(o *options) { o.gamma = gamma }
}

// WithConfidence sets the z-score used by Simple Good-Turing to decide when to
// switch from the Turing estimate to the smoothed regression estimate.
// Default: 1.96.
func WithConfidence(z float64) Option {
	return func(o *options) { o.confidence = z }
}

// WithRand sets the random source for the Random estimator. Without it the
// estimator seeds a new source from the clock and is not reproducible.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithLogger sets the logger used to report fit diagnostics. By default all
// logs are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		gamma:      1.0,
		confidence: 1.96,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
