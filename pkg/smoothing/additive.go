package smoothing

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
)

// checkCounts validates the input shared by all count-based estimators and
// returns the sample size.
func checkCounts(counts []int, bins int) (int, error) {
	if len(counts) == 0 {
		return 0, ErrEmptyDistribution
	}
	var total int
	for _, c := range counts {
		if c < 0 {
			return 0, fmt.Errorf("%w: %d", ErrNegativeCount, c)
		}
		total += c
	}
	if total == 0 {
		return 0, ErrEmptyDistribution
	}
	if bins < len(counts) {
		return 0, fmt.Errorf("%w: %d bins for %d observed events", ErrInvalidBins, bins, len(counts))
	}
	return total, nil
}

// checkAlphabet validates the input of the estimators that ignore counts.
func checkAlphabet(counts []int, bins int) error {
	if bins < 1 || bins < len(counts) {
		return fmt.Errorf("%w: %d bins for %d symbols", ErrInvalidBins, bins, len(counts))
	}
	return nil
}

// observed returns the number of events with a positive count.
func observed(counts []int) int {
	var n int
	for _, c := range counts {
		if c > 0 {
			n++
		}
	}
	return n
}

func mle(counts []int, _ int, _ *options) (estimate, error) {
	total, err := checkCounts(counts, len(counts))
	if err != nil {
		return estimate{}, err
	}
	probs := make([]float64, len(counts))
	for i, c := range counts {
		probs[i] = float64(c) / float64(total)
	}
	return estimate{probs: probs}, nil
}

func uniform(counts []int, bins int, _ *options) (estimate, error) {
	if err := checkAlphabet(counts, bins); err != nil {
		return estimate{}, err
	}
	p := 1.0 / float64(bins)
	probs := make([]float64, len(counts))
	for i := range probs {
		probs[i] = p
	}
	return estimate{probs: probs, unseen: p, slots: bins - len(counts)}, nil
}

func random(counts []int, bins int, o *options) (estimate, error) {
	if err := checkAlphabet(counts, bins); err != nil {
		return estimate{}, err
	}
	rng := o.rng
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}

	// Only the observed draws are kept; the unseen ones are folded into rest.
	draws := make([]float64, len(counts))
	for i := range draws {
		draws[i] = rng.Float64()
	}
	var rest float64
	for i := len(counts); i < bins; i++ {
		rest += rng.Float64()
	}
	sum := floats.Sum(draws) + rest
	if sum == 0 {
		for i := range draws {
			draws[i] = 1
		}
		rest = float64(bins - len(counts))
		sum = float64(bins)
	}

	probs := make([]float64, len(counts))
	floats.ScaleTo(probs, 1/sum, draws)
	slots := bins - len(counts)
	var unseen float64
	if slots > 0 {
		unseen = rest / sum / float64(slots)
	}
	return estimate{probs: probs, unseen: unseen, slots: slots}, nil
}

func lidstone(counts []int, bins int, o *options) (estimate, error) {
	if o.gamma < 0 || math.IsNaN(o.gamma) || math.IsInf(o.gamma, 0) {
		return estimate{}, fmt.Errorf("%w: %v", ErrInvalidGamma, o.gamma)
	}
	total, err := checkCounts(counts, bins)
	if err != nil {
		return estimate{}, err
	}

	denominator := float64(total) + float64(bins)*o.gamma
	probs := make([]float64, len(counts))
	for i, c := range counts {
		probs[i] = (float64(c) + o.gamma) / denominator
	}
	return estimate{
		probs:  probs,
		unseen: o.gamma / denominator,
		slots:  bins - len(counts),
	}, nil
}

func laplace(counts []int, bins int, o *options) (estimate, error) {
	fixed := *o
	fixed.gamma = 1.0
	return lidstone(counts, bins, &fixed)
}

func ele(counts []int, bins int, o *options) (estimate, error) {
	fixed := *o
	fixed.gamma = 0.5
	return lidstone(counts, bins, &fixed)
}

// certaintyDegree weights the relative frequencies by c = 1 - T/N and spreads
// the remaining 1-c evenly over all bins. A sample made only of singletons
// (T == N) yields the uniform distribution.
func certaintyDegree(counts []int, bins int, _ *options) (estimate, error) {
	total, err := checkCounts(counts, bins)
	if err != nil {
		return estimate{}, err
	}

	certainty := 1.0 - float64(observed(counts))/float64(total)
	share := (1.0 - certainty) / float64(bins)
	probs := make([]float64, len(counts))
	for i, c := range counts {
		probs[i] = certainty*float64(c)/float64(total) + share
	}
	return estimate{probs: probs, unseen: share, slots: bins - len(counts)}, nil
}
