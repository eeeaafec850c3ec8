package ngram

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrInvalidOrder is returned when an n-gram order is lower than 1.
	ErrInvalidOrder = errors.New("invalid n-gram order")
	// ErrInvalidRange is returned when the minimum order exceeds the maximum order.
	ErrInvalidRange = errors.New("invalid n-gram order range")
	// ErrInvalidGap is returned for a negative skip-gram gap.
	ErrInvalidGap = errors.New("invalid skip-gram gap")
)

// Ngram is an ordered tuple of symbols. Use Key to obtain a comparable value
// for counting and map lookups.
type Ngram []string

// Key is the comparable identity of an Ngram. Each symbol is encoded as its
// byte length, a colon and the symbol itself, so two keys are equal exactly
// when the n-grams have the same symbols in the same order.
type Key string

// Key returns the structural identity of the n-gram.
func (g Ngram) Key() Key {
	var b strings.Builder
	for _, sym := range g {
		b.WriteString(strconv.Itoa(len(sym)))
		b.WriteByte(':')
		b.WriteString(sym)
	}
	return Key(b.String())
}

// String returns the n-gram as a space-separated string.
func (g Ngram) String() string {
	return strings.Join(g, " ")
}

// Context returns all symbols except the last one.
func (g Ngram) Context() Ngram {
	if len(g) <= 1 {
		return Ngram{}
	}
	return g[:len(g)-1]
}

// Last returns the final symbol of the n-gram, or "" for an empty n-gram.
func (g Ngram) Last() string {
	if len(g) == 0 {
		return ""
	}
	return g[len(g)-1]
}

// Ngram returns the symbols encoded in the key. Keys not produced by
// Ngram.Key decode as far as they are well formed.
func (k Key) Ngram() Ngram {
	g := Ngram{}
	rest := string(k)
	for rest != "" {
		colon := strings.IndexByte(rest, ':')
		if colon < 0 {
			break
		}
		n, err := strconv.Atoi(rest[:colon])
		if err != nil || n < 0 || colon+1+n > len(rest) {
			break
		}
		g = append(g, rest[colon+1:colon+1+n])
		rest = rest[colon+1+n:]
	}
	return g
}

// String returns the n-gram of the key as a space-separated string.
func (k Key) String() string {
	return k.Ngram().String()
}

// PosNgram is an n-gram tagged with its start offset in the padded sequence.
type PosNgram struct {
	Pos  int
	Gram Ngram
}

// PosKey is the comparable identity of a PosNgram.
type PosKey struct {
	Pos  int
	Gram Key
}

// Key returns the structural identity of the positional n-gram.
func (p PosNgram) Key() PosKey {
	return PosKey{Pos: p.Pos, Gram: p.Gram.Key()}
}
