package smoothing

import (
	"fmt"
	"slices"
	"strings"
)

// Distribution is a smoothed probability distribution over an alphabet of
// Bins events. Observed events carry their own probability in Probs; every
// event not in Probs has probability Unseen.
type Distribution[K comparable] struct {
	Method      Method
	Bins        int
	Probs       map[K]float64
	Unseen      float64 // probability of each unseen event
	UnseenSlots int     // number of alphabet slots not present in Probs
}

// Entry is a single event and its probability, as returned by Sorted.
type Entry[K comparable] struct {
	Event K
	Prob  float64
}

// Prob returns the probability of an event, falling back to the unseen
// probability for events that were not observed.
func (d Distribution[K]) Prob(event K) float64 {
	if p, ok := d.Probs[event]; ok {
		return p
	}
	return d.Unseen
}

// UnseenMass returns the total probability reserved for unseen events.
func (d Distribution[K]) UnseenMass() float64 {
	return d.Unseen * float64(d.UnseenSlots)
}

// Total returns the sum of the observed probabilities and the unseen mass.
// It is 1 within floating point tolerance for every estimator except MLE
// on a partially zero-count distribution.
func (d Distribution[K]) Total() float64 {
	var sum float64
	for _, p := range d.Probs {
		sum += p
	}
	return sum + d.UnseenMass()
}

// Sorted returns the observed events ordered by descending probability.
// Ties are broken by the textual form of the event so output is stable.
func (d Distribution[K]) Sorted() []Entry[K] {
	entries := make([]Entry[K], 0, len(d.Probs))
	for k, p := range d.Probs {
		entries = append(entries, Entry[K]{Event: k, Prob: p})
	}
	slices.SortFunc(entries, func(a, b Entry[K]) int {
		switch {
		case a.Prob > b.Prob:
			return -1
		case a.Prob < b.Prob:
			return 1
		}
		return strings.Compare(fmt.Sprint(a.Event), fmt.Sprint(b.Event))
	})
	return entries
}

// sortedKeys returns the keys of a frequency distribution in a deterministic
// order, along with their counts in the same order.
func sortedKeys[K comparable](freqs map[K]int) ([]K, []int) {
	type keyed struct {
		key  K
		text string
	}
	items := make([]keyed, 0, len(freqs))
	for k := range freqs {
		items = append(items, keyed{key: k, text: fmt.Sprint(k)})
	}
	slices.SortFunc(items, func(a, b keyed) int { return strings.Compare(a.text, b.text) })

	keys := make([]K, len(items))
	counts := make([]int, len(items))
	for i, it := range items {
		keys[i] = it.key
		counts[i] = freqs[it.key]
	}
	return keys, counts
}
