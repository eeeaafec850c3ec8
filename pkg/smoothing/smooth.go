package smoothing

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// Method identifies a smoothing estimator.
type Method string

const (
	// MethodMLE is the unsmoothed relative frequency.
	MethodMLE Method = "mle"
	// MethodUniform gives every bin the same probability.
	MethodUniform Method = "uniform"
	// MethodRandom assigns normalized random weights, ignoring counts.
	MethodRandom Method = "random"
	// MethodLaplace adds one to every count.
	MethodLaplace Method = "laplace"
	// MethodELE adds one half to every count (expected likelihood estimation).
	MethodELE Method = "ele"
	// MethodLidstone adds gamma to every count.
	MethodLidstone Method = "lidstone"
	// MethodCertaintyDegree mixes relative frequencies with the uniform distribution.
	MethodCertaintyDegree Method = "certaintydegree"
	// MethodWittenBell reserves T/(N+T) of the mass for unseen events.
	MethodWittenBell Method = "wittenbell"
	// MethodSimpleGoodTuring is the Simple Good-Turing estimator of Gale and Sampson.
	MethodSimpleGoodTuring Method = "sgt"
)

// estimate is the result of an estimator over a count slice: one probability
// per count, plus the probability of each unseen slot.
type estimate struct {
	probs  []float64
	unseen float64
	slots  int
}

// estimator computes an estimate from counts aligned with a sorted key slice.
type estimator func(counts []int, bins int, o *options) (estimate, error)

var estimators = map[Method]estimator{
	MethodMLE:              mle,
	MethodUniform:          uniform,
	MethodRandom:           random,
	MethodLaplace:          laplace,
	MethodELE:              ele,
	MethodLidstone:         lidstone,
	MethodCertaintyDegree:  certaintyDegree,
	MethodWittenBell:       wittenBell,
	MethodSimpleGoodTuring: simpleGoodTuring,
}

var aliases = map[string]Method{
	"maximum-likelihood": MethodMLE,
	"add-one":            MethodLaplace,
	"certainty":          MethodCertaintyDegree,
	"certainty-degree":   MethodCertaintyDegree,
	"witten-bell":        MethodWittenBell,
	"good-turing":        MethodSimpleGoodTuring,
	"goodturing":         MethodSimpleGoodTuring,
	"simple-good-turing": MethodSimpleGoodTuring,
}

// Methods returns the names of all registered estimators in sorted order.
func Methods() []Method {
	methods := make([]Method, 0, len(estimators))
	for m := range estimators {
		methods = append(methods, m)
	}
	slices.Sort(methods)
	return methods
}

// ParseMethod resolves a method name or one of its aliases, ignoring case.
func ParseMethod(name string) (Method, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if _, ok := estimators[Method(key)]; ok {
		return Method(key), nil
	}
	if m, ok := aliases[key]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

// Smooth dispatches to the estimator registered under method. The returned
// distribution covers every key of freqs; all other alphabet slots share
// the unseen probability. No distribution is returned on error.
func Smooth[K comparable](method Method, freqs map[K]int, bins int, opts ...Option) (Distribution[K], error) {
	est, ok := estimators[method]
	if !ok {
		return Distribution[K]{}, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
	o := newOptions(opts)

	keys, counts := sortedKeys(freqs)
	res, err := est(counts, bins, o)
	if err != nil {
		return Distribution[K]{}, fmt.Errorf("%s: %w", method, err)
	}

	probs := make(map[K]float64, len(keys))
	for i, k := range keys {
		probs[k] = res.probs[i]
	}
	dist := Distribution[K]{
		Method:      method,
		Bins:        bins,
		Probs:       probs,
		Unseen:      res.unseen,
		UnseenSlots: res.slots,
	}

	o.logger.Debug("Distribution smoothed",
		slog.String("method", string(method)),
		slog.Int("events", len(keys)),
		slog.Int("bins", bins),
		slog.Float64("unseen_mass", dist.UnseenMass()),
	)
	return dist, nil
}

// MLE returns the maximum likelihood (relative frequency) distribution.
// Unseen events get zero probability and bins is ignored.
func MLE[K comparable](freqs map[K]int, bins int, opts ...Option) (Distribution[K], error) {
	return Smooth(MethodMLE, freqs, bins, opts...)
}

// Uniform assigns 1/bins to each symbol of the alphabet, ignoring counts.
// The keys of freqs are the explicit symbols; it may be empty.
func Uniform[K comparable](freqs map[K]int, bins int, opts ...Option) (Distribution[K], error) {
	return Smooth(MethodUniform, freqs, bins, opts...)
}

// Random assigns normalized random weights to the alphabet, ignoring counts.
// Pass WithRand for a reproducible result.
func Random[K comparable](freqs map[K]int, bins int, opts ...Option) (Distribution[K], error) {
	return Smooth(MethodRandom, freqs, bins, opts...)
}

// Laplace returns the add-one distribution.
func Laplace[K comparable](freqs map[K]int, bins int, opts ...Option) (Distribution[K], error) {
	return Smooth(MethodLaplace, freqs, bins, opts...)
}

// ELE returns the Expected Likelihood Estimation (add-half) distribution.
func ELE[K comparable](freqs map[K]int, bins int, opts ...Option) (Distribution[K], error) {
	return Smooth(MethodELE, freqs, bins, opts...)
}

// Lidstone returns the additive distribution (count+gamma)/(N+bins*gamma).
func Lidstone[K comparable](freqs map[K]int, bins int, gamma float64, opts ...Option) (Distribution[K], error) {
	opts = append(slices.Clip(opts), WithGamma(gamma))
	return Smooth(MethodLidstone, freqs, bins, opts...)
}

// CertaintyDegree interpolates between the relative frequencies and the
// uniform distribution according to how repetitive the sample is.
func CertaintyDegree[K comparable](freqs map[K]int, bins int, opts ...Option) (Distribution[K], error) {
	return Smooth(MethodCertaintyDegree, freqs, bins, opts...)
}

// WittenBell reserves T/(N+T) of the mass for unseen events, where T is the
// number of distinct observed events.
func WittenBell[K comparable](freqs map[K]int, bins int, opts ...Option) (Distribution[K], error) {
	return Smooth(MethodWittenBell, freqs, bins, opts...)
}

// SimpleGoodTuring returns the Gale-Sampson Simple Good-Turing distribution.
func SimpleGoodTuring[K comparable](freqs map[K]int, bins int, opts ...Option) (Distribution[K], error) {
	return Smooth(MethodSimpleGoodTuring, freqs, bins, opts...)
}
