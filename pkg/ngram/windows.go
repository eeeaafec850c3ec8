package ngram

import (
	"fmt"
	"slices"
)

// pad returns a new slice with the configured number of pad symbols on each
// side of seq. The input is never modified.
func pad(seq []string, order int, o windowOptions) []string {
	var left, right int
	switch o.padding {
	case PadBoth:
		left, right = order-1, order-1
	case PadLeft:
		left = order - 1
	case PadRight:
		right = order - 1
	}

	padded := make([]string, len(seq)+left+right)
	for i := 0; i < left; i++ {
		padded[i] = o.pad
	}
	copy(padded[left:], seq)
	for i := left + len(seq); i < len(padded); i++ {
		padded[i] = o.pad
	}
	return padded
}

// NGrams pads seq with order-1 pad symbols on the configured sides and
// slides a window of length order over it, returning the n-grams from left
// to right. Every n-gram has its own backing array, so modifying one never
// affects another. When the padded sequence is shorter than order the result
// is empty.
func NGrams(seq []string, order int, opts ...Option) ([]Ngram, error) {
	if order < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOrder, order)
	}
	padded := pad(seq, order, newWindowOptions(opts))

	n := len(padded) - order + 1
	if n <= 0 {
		return []Ngram{}, nil
	}
	grams := make([]Ngram, n)
	for i := range grams {
		grams[i] = slices.Clone(Ngram(padded[i : i+order]))
	}
	return grams, nil
}

// Bigrams returns the n-grams of order 2.
func Bigrams(seq []string, opts ...Option) ([]Ngram, error) {
	return NGrams(seq, 2, opts...)
}

// Trigrams returns the n-grams of order 3.
func Trigrams(seq []string, opts ...Option) ([]Ngram, error) {
	return NGrams(seq, 3, opts...)
}

// Fourgrams returns the n-grams of order 4.
func Fourgrams(seq []string, opts ...Option) ([]Ngram, error) {
	return NGrams(seq, 4, opts...)
}

func checkRange(minOrder, maxOrder int) error {
	if minOrder > maxOrder {
		return fmt.Errorf("%w: min order %d > max order %d", ErrInvalidRange, minOrder, maxOrder)
	}
	if minOrder < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidOrder, minOrder)
	}
	return nil
}

// AllNGrams concatenates the n-grams of every order in [minOrder, maxOrder],
// in ascending order of order.
func AllNGrams(seq []string, minOrder, maxOrder int, opts ...Option) ([]Ngram, error) {
	if err := checkRange(minOrder, maxOrder); err != nil {
		return nil, err
	}
	var grams []Ngram
	for order := minOrder; order <= maxOrder; order++ {
		g, err := NGrams(seq, order, opts...)
		if err != nil {
			return nil, err
		}
		grams = append(grams, g...)
	}
	return grams, nil
}

// AllNGramsByOrder returns the same n-grams as AllNGrams, grouped by order.
func AllNGramsByOrder(seq []string, minOrder, maxOrder int, opts ...Option) (map[int][]Ngram, error) {
	if err := checkRange(minOrder, maxOrder); err != nil {
		return nil, err
	}
	byOrder := make(map[int][]Ngram, maxOrder-minOrder+1)
	for order := minOrder; order <= maxOrder; order++ {
		g, err := NGrams(seq, order, opts...)
		if err != nil {
			return nil, err
		}
		byOrder[order] = g
	}
	return byOrder, nil
}

// PosNGrams windows seq exactly like NGrams, tagging each n-gram with its
// start offset in the padded sequence.
func PosNGrams(seq []string, order int, opts ...Option) ([]PosNgram, error) {
	grams, err := NGrams(seq, order, opts...)
	if err != nil {
		return nil, err
	}
	pos := make([]PosNgram, len(grams))
	for i, g := range grams {
		pos[i] = PosNgram{Pos: i, Gram: g}
	}
	return pos, nil
}

// AllPosNGrams concatenates the positional n-grams of every order in
// [minOrder, maxOrder].
func AllPosNGrams(seq []string, minOrder, maxOrder int, opts ...Option) ([]PosNgram, error) {
	if err := checkRange(minOrder, maxOrder); err != nil {
		return nil, err
	}
	var grams []PosNgram
	for order := minOrder; order <= maxOrder; order++ {
		g, err := PosNGrams(seq, order, opts...)
		if err != nil {
			return nil, err
		}
		grams = append(grams, g...)
	}
	return grams, nil
}

// SkipNGrams returns every n-gram of the padded sequence whose consecutive
// members are at most maxGap symbols apart. Results are ordered by start
// position, then by gap pattern (the gap before the second member varies
// slowest). With maxGap 0 the result equals NGrams.
func SkipNGrams(seq []string, order, maxGap int, opts ...Option) ([]Ngram, error) {
	if order < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOrder, order)
	}
	if maxGap < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGap, maxGap)
	}
	padded := pad(seq, order, newWindowOptions(opts))

	grams := []Ngram{}
	idx := make([]int, order)
	var walk func(k int)
	walk = func(k int) {
		if k == order {
			g := make(Ngram, order)
			for j, p := range idx {
				g[j] = padded[p]
			}
			grams = append(grams, g)
			return
		}
		for gap := 0; gap <= maxGap; gap++ {
			next := idx[k-1] + gap + 1
			if next >= len(padded) {
				return
			}
			idx[k] = next
			walk(k + 1)
		}
	}
	for start := range padded {
		idx[0] = start
		walk(1)
	}
	return grams, nil
}
