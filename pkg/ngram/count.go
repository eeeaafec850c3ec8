package ngram

import "slices"

// Count returns the frequency distribution of a list of n-grams.
func Count(grams []Ngram) map[Key]int {
	counts := make(map[Key]int, len(grams))
	for _, g := range grams {
		counts[g.Key()]++
	}
	return counts
}

// CountPos returns the frequency distribution of a list of positional n-grams.
func CountPos(grams []PosNgram) map[PosKey]int {
	counts := make(map[PosKey]int, len(grams))
	for _, g := range grams {
		counts[g.Key()]++
	}
	return counts
}

// CountSymbols returns the frequency distribution of the symbols of a sequence.
func CountSymbols(seq []string) map[string]int {
	counts := make(map[string]int)
	for _, s := range seq {
		counts[s]++
	}
	return counts
}

// Prune returns a copy of counts without the entries whose count is less than
// or equal to minFreq. Removing rare, noisy events is useful before
// smoothing very large distributions.
func Prune[K comparable](counts map[K]int, minFreq int) map[K]int {
	pruned := make(map[K]int, len(counts))
	for k, c := range counts {
		if c > minFreq {
			pruned[k] = c
		}
	}
	return pruned
}

// Alphabet returns the sorted distinct symbols of a set of sequences.
func Alphabet(seqs [][]string) []string {
	seen := make(map[string]struct{})
	for _, seq := range seqs {
		for _, s := range seq {
			seen[s] = struct{}{}
		}
	}
	alphabet := make([]string, 0, len(seen))
	for s := range seen {
		alphabet = append(alphabet, s)
	}
	slices.Sort(alphabet)
	return alphabet
}
