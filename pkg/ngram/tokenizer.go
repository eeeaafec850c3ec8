package ngram

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// maxSequenceLength cuts runaway sequences (e.g. a corpus without any
// boundary) into pieces that fit comfortably in memory.
const maxSequenceLength = 4096

// Token is a single unit read from a corpus. EOS marks a sequence boundary,
// such as sentence-final punctuation or the end of a line.
type Token struct {
	Text string
	EOS  bool
}

// Tokenizer splits a corpus into tokens.
type Tokenizer interface {
	// NewStream returns a stateful StreamTokenizer for processing an io.Reader.
	NewStream(io.Reader) StreamTokenizer
}

// StreamTokenizer returns the tokens of a stream one at a time.
type StreamTokenizer interface {
	// Next returns the next token from the stream. It returns io.EOF as the
	// error when the stream is fully consumed.
	Next() (*Token, error)
}

// DefaultTokenizer splits text with regular expressions into words and
// punctuation, or into single characters. Its behavior can be customized
// with functional options.
type DefaultTokenizer struct {
	tokenRegex     *regexp.Regexp
	boundaryRegex  *regexp.Regexp
	lowercase      bool
	characters     bool
	lineBoundaries bool
}

// TokenizerOption configures a DefaultTokenizer.
type TokenizerOption func(*DefaultTokenizer)

// WithTokenRegex sets the regex used to find tokens in each line.
// Default: `[\w']+|[.,!?;]`
func WithTokenRegex(expr string) TokenizerOption {
	return func(t *DefaultTokenizer) {
		t.tokenRegex = regexp.MustCompile(expr)
	}
}

// WithBoundaryRegex sets the regex deciding whether a token ends a sequence.
// Default: `^[.!?]$`
func WithBoundaryRegex(expr string) TokenizerOption {
	return func(t *DefaultTokenizer) {
		t.boundaryRegex = regexp.MustCompile(expr)
	}
}

// WithLowercase folds all tokens to lower case.
func WithLowercase(lower bool) TokenizerOption {
	return func(t *DefaultTokenizer) { t.lowercase = lower }
}

// WithCharacters makes every rune of a line a token and every line a
// sequence. Whitespace runes are skipped.
func WithCharacters(chars bool) TokenizerOption {
	return func(t *DefaultTokenizer) {
		t.characters = chars
		if chars {
			t.lineBoundaries = true
		}
	}
}

// WithLineBoundaries ends a sequence at the end of every line.
func WithLineBoundaries(lines bool) TokenizerOption {
	return func(t *DefaultTokenizer) { t.lineBoundaries = lines }
}

// NewDefaultTokenizer creates a new tokenizer with default settings, which can be
// overridden by providing one or more TokenizerOption functions.
func NewDefaultTokenizer(opts ...TokenizerOption) *DefaultTokenizer {
	t := &DefaultTokenizer{
		// Sequences of word characters OR single instances of common punctuation.
		tokenRegex: regexp.MustCompile(`[\w']+|[.,!?;]`),
		// Sentence-ending punctuation.
		boundaryRegex: regexp.MustCompile(`^[.!?]$`),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewStream returns the stream processor.
func (t *DefaultTokenizer) NewStream(r io.Reader) StreamTokenizer {
	return &DefaultStreamTokenizer{
		scanner: bufio.NewScanner(r),
		t:       t,
	}
}

// DefaultStreamTokenizer is the StreamTokenizer returned by DefaultTokenizer.
type DefaultStreamTokenizer struct {
	scanner *bufio.Scanner
	t       *DefaultTokenizer
	buffer  []Token
}

// Next returns the next token from the stream. When the stream is exhausted
// it returns a nil Token and io.EOF.
func (s *DefaultStreamTokenizer) Next() (*Token, error) {
	for len(s.buffer) == 0 {
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		s.fill(s.scanner.Text())
	}

	token := s.buffer[0]
	s.buffer = s.buffer[1:]
	return &token, nil
}

// fill tokenizes a single line into the buffer.
func (s *DefaultStreamTokenizer) fill(line string) {
	if s.t.lowercase {
		line = strings.ToLower(line)
	}
	if s.t.characters {
		for _, r := range line {
			if r == ' ' || r == '\t' || r == '\r' {
				continue
			}
			s.buffer = append(s.buffer, Token{Text: string(r)})
		}
	} else {
		for _, word := range s.t.tokenRegex.FindAllString(line, -1) {
			s.buffer = append(s.buffer, Token{Text: word, EOS: s.t.boundaryRegex.MatchString(word)})
		}
	}
	if s.t.lineBoundaries {
		s.buffer = append(s.buffer, Token{EOS: true})
	}
}

// ReadSequences tokenizes r and splits the tokens into sequences at boundary
// tokens. Boundary tokens are not part of any sequence, and empty sequences
// are dropped.
func ReadSequences(t Tokenizer, r io.Reader) ([][]string, error) {
	stream := t.NewStream(r)

	var seqs [][]string
	var current []string
	for {
		token, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("tokenizer error: %w", err)
		}

		if !token.EOS && len(current) < maxSequenceLength {
			current = append(current, token.Text)
			continue
		}
		if len(current) > 0 {
			seqs = append(seqs, current)
			current = nil
		}
		if !token.EOS {
			current = append(current, token.Text)
		}
	}
	if len(current) > 0 {
		seqs = append(seqs, current)
	}
	return seqs, nil
}
