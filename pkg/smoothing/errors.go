package smoothing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBins is returned when the number of bins cannot hold the
	// observed events, or when an estimator needs unseen slots and there are none.
	ErrInvalidBins = errors.New("invalid number of bins")
	// ErrEmptyDistribution is returned by count-based estimators for an empty
	// frequency distribution or one whose counts sum to zero.
	ErrEmptyDistribution = fmt.Errorf("%w: empty frequency distribution", ErrInvalidBins)
	// ErrNegativeCount is returned when a frequency distribution holds a negative count.
	ErrNegativeCount = errors.New("negative count in frequency distribution")
	// ErrInvalidGamma is returned for a negative (or NaN) Lidstone gamma.
	ErrInvalidGamma = errors.New("invalid lidstone gamma")
	// ErrInsufficientData is returned when the Good-Turing regression cannot be fitted.
	ErrInsufficientData = errors.New("insufficient data for good-turing estimation")
	// ErrUnknownMethod is returned by Smooth and ParseMethod for unregistered method names.
	ErrUnknownMethod = errors.New("unknown smoothing method")
)
