package indicator

import (
	"github.com/stratlab/stratrun/pkg/errors"
)

// SMA implements the simple moving average. Until the window fills, the
// expanding mean of the available closes is used so every bar has a value.
type SMA struct {
	window int
}

// NewSMA creates an SMA indicator with the default window of 20.
func NewSMA() Indicator {
	return &SMA{window: 20}
}

// Name returns the name of the indicator.
func (s *SMA) Name() Type {
	return TypeSMA
}

// Config configures the SMA indicator. Expected parameters: window (int).
func (s *SMA) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeInvalidParameter, "Config expects 1 parameter: window (int)")
	}

	window, ok := params[0].(int)
	if !ok {
		return errors.New(errors.ErrCodeInvalidParameter, "invalid type for window parameter, expected int")
	}

	if window <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "window must be a positive integer, got %d", window)
	}

	s.window = window

	return nil
}

// Series computes the SMA over the given closes.
func (s *SMA) Series(closes []float64) ([]float64, error) {
	if len(closes) == 0 {
		return nil, errors.New(errors.ErrCodeInsufficientData, "no closes to compute SMA over")
	}

	result := make([]float64, len(closes))
	sum := 0.0

	for i, close := range closes {
		sum += close

		if i >= s.window {
			sum -= closes[i-s.window]
			result[i] = sum / float64(s.window)
		} else {
			result[i] = sum / float64(i+1)
		}
	}

	return result, nil
}
