package selection

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidWindow is returned for a window that can never accept a pair.
var ErrInvalidWindow = errors.New("selection: invalid delta R window")

// DefaultBoostedWindow is the separation window of boosted pair selection.
var DefaultBoostedWindow = Window{Min: 0.1, Max: 5.0}

// Window is an open interval of angular separation.
type Window struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Contains reports whether Min < dr < Max.
func (w Window) Contains(dr float64) bool {
	return dr > w.Min && dr < w.Max
}

// Validate checks that both bounds are non-negative numbers and Max > Min.
func (w Window) Validate() error {
	if math.IsNaN(w.Min) || math.IsNaN(w.Max) || w.Min < 0 || w.Max < 0 {
		return fmt.Errorf("%w: bounds must be non-negative numbers, got %s", ErrInvalidWindow, w)
	}
	if w.Max <= w.Min {
		return fmt.Errorf("%w: max must exceed min, got %s", ErrInvalidWindow, w)
	}
	return nil
}

func (w Window) String() string {
	return fmt.Sprintf("(%g, %g)", w.Min, w.Max)
}
