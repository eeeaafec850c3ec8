package ngram

// Padding selects the sides of a sequence that are padded before windowing.
type Padding int

const (
	// PadBoth pads both ends of the sequence.
	PadBoth Padding = iota
	// PadLeft pads only the start of the sequence.
	PadLeft
	// PadRight pads only the end of the sequence.
	PadRight
	// PadNone windows the sequence as is.
	PadNone
)

// DefaultPad is the symbol used for padding unless WithPad is given.
const DefaultPad = "$$$"

// windowOptions holds the padding configuration for windowing functions.
type windowOptions struct {
	pad     string
	padding Padding
}

// Option configures padding for the windowing functions.
type Option func(*windowOptions)

// WithPad sets the symbol inserted at sequence boundaries.
// Default: "$$$"
func WithPad(symbol string) Option {
	return func(o *windowOptions) { o.pad = symbol }
}

// WithPadding selects which sides of the sequence get padded.
// Default: PadBoth
func WithPadding(p Padding) Option {
	return func(o *windowOptions) { o.padding = p }
}

func newWindowOptions(opts []Option) windowOptions {
	o := windowOptions{pad: DefaultPad, padding: PadBoth}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ParsePadding converts a padding name (both, left, right, none) into a Padding.
func ParsePadding(name string) (Padding, bool) {
	switch name {
	case "both", "":
		return PadBoth, true
	case "left":
		return PadLeft, true
	case "right":
		return PadRight, true
	case "none":
		return PadNone, true
	}
	return PadBoth, false
}
