package smoothing

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// simpleGoodTuring implements the Simple Good-Turing estimator of Gale and
// Sampson (1995).
//
// The frequencies of frequencies N_r are averaged over the gaps between
// non-empty cells (Z_r), and log Z_r is regressed on log r. Adjusted counts
// r* use the Turing estimate (r+1)N_{r+1}/N_r while it differs significantly
// from the regression estimate, and the regression estimate from then on.
// The probability of the unseen events is N_1/N.
func simpleGoodTuring(counts []int, bins int, o *options) (estimate, error) {
	total, err := checkCounts(counts, bins)
	if err != nil {
		return estimate{}, err
	}

	freqOfFreqs := make(map[int]int)
	for _, c := range counts {
		if c > 0 {
			freqOfFreqs[c]++
		}
	}
	if len(freqOfFreqs) < 2 {
		return estimate{}, fmt.Errorf("%w: %d distinct count value(s)", ErrInsufficientData, len(freqOfFreqs))
	}
	types := observed(counts)
	if bins == types {
		return estimate{}, fmt.Errorf("%w: %w: no unseen slots (%d bins, %d observed events)",
			ErrInsufficientData, ErrInvalidBins, bins, types)
	}

	rs := make([]int, 0, len(freqOfFreqs))
	for r := range freqOfFreqs {
		rs = append(rs, r)
	}
	slices.Sort(rs)

	slope, intercept := fitFrequencies(rs, freqOfFreqs)
	if slope > -1 {
		o.logger.Warn("Good-Turing regression slope above -1, estimates may be unreliable",
			slog.Float64("slope", slope),
		)
	}
	smoothed := func(r int) float64 {
		return math.Exp(intercept + slope*math.Log(float64(r)))
	}

	adjusted := make(map[int]float64, len(rs))
	useTuring := true
	for _, r := range rs {
		y := float64(r+1) * smoothed(r+1) / smoothed(r)
		next, ok := freqOfFreqs[r+1]
		if !ok {
			useTuring = false
		}
		if !useTuring {
			adjusted[r] = y
			continue
		}
		nr := float64(freqOfFreqs[r])
		n1 := float64(next)
		x := float64(r+1) * n1 / nr
		bound := o.confidence * math.Sqrt(float64((r+1)*(r+1))*n1/(nr*nr)*(1+n1/nr))
		if math.Abs(x-y) > bound {
			adjusted[r] = x
		} else {
			adjusted[r] = y
			useTuring = false
		}
	}

	weighted := make([]float64, len(rs))
	for j, r := range rs {
		weighted[j] = float64(freqOfFreqs[r]) * adjusted[r]
	}
	norm := floats.Sum(weighted)
	p0 := float64(freqOfFreqs[1]) / float64(total)
	unseen := p0 / float64(bins-types)

	o.logger.Debug("Good-Turing fit",
		slog.Float64("slope", slope),
		slog.Float64("intercept", intercept),
		slog.Float64("p0", p0),
		slog.Int("buckets", len(rs)),
	)

	probs := make([]float64, len(counts))
	for i, c := range counts {
		if c == 0 {
			probs[i] = unseen
			continue
		}
		probs[i] = (1 - p0) * adjusted[c] / norm
	}
	return estimate{probs: probs, unseen: unseen, slots: bins - len(counts)}, nil
}

// fitFrequencies fits log Z_r = intercept + slope*log r by ordinary least squares,
// where Z_r = N_r / (0.5*(k-i)) and i, k are the neighbouring non-empty r
// values (i = 0 for the first cell, k = 2r-i for the last). rs must be sorted
// and hold at least two values.
func fitFrequencies(rs []int, freqOfFreqs map[int]int) (slope, intercept float64) {
	xs := make([]float64, len(rs))
	ys := make([]float64, len(rs))
	for j, r := range rs {
		var i int
		if j > 0 {
			i = rs[j-1]
		}
		k := 2*r - i
		if j < len(rs)-1 {
			k = rs[j+1]
		}
		z := 2 * float64(freqOfFreqs[r]) / float64(k-i)
		xs[j] = math.Log(float64(r))
		ys[j] = math.Log(z)
	}

	intercept, slope = stat.LinearRegression(xs, ys, nil, false)
	return slope, intercept
}
