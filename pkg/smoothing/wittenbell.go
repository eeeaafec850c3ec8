package smoothing

import "fmt"

// wittenBell scales each relative frequency by N/(N+T) and divides the
// reserved T/(N+T) among the bins-T events without a positive count.
func wittenBell(counts []int, bins int, _ *options) (estimate, error) {
	total, err := checkCounts(counts, bins)
	if err != nil {
		return estimate{}, err
	}
	types := observed(counts)
	if bins == types {
		return estimate{}, fmt.Errorf("%w: no unseen slots (%d bins, %d observed events)", ErrInvalidBins, bins, types)
	}

	denominator := float64(total + types)
	probs := make([]float64, len(counts))
	unseen := float64(types) / denominator / float64(bins-types)
	for i, c := range counts {
		if c == 0 {
			probs[i] = unseen
			continue
		}
		probs[i] = float64(c) / denominator
	}
	return estimate{probs: probs, unseen: unseen, slots: bins - len(counts)}, nil
}
