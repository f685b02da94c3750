package indicator

import (
	"github.com/stratlab/stratrun/pkg/errors"
)

// EMA implements the exponential moving average with recursive weighting,
// matching pandas `ewm(span=n, adjust=False).mean()`: the first close seeds
// the average and each following value is blended with alpha = 2/(span+1).
type EMA struct {
	span int
}

// NewEMA creates an EMA indicator with the default span of 20.
func NewEMA() Indicator {
	return &EMA{span: 20}
}

// Name returns the name of the indicator.
func (e *EMA) Name() Type {
	return TypeEMA
}

// Config configures the EMA indicator. Expected parameters: span (int).
func (e *EMA) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeInvalidParameter, "Config expects 1 parameter: span (int)")
	}

	span, ok := params[0].(int)
	if !ok {
		return errors.New(errors.ErrCodeInvalidParameter, "invalid type for span parameter, expected int")
	}

	if span <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "span must be a positive integer, got %d", span)
	}

	e.span = span

	return nil
}

// Series computes the EMA over the given closes.
func (e *EMA) Series(closes []float64) ([]float64, error) {
	if len(closes) == 0 {
		return nil, errors.New(errors.ErrCodeInsufficientData, "no closes to compute EMA over")
	}

	alpha := 2.0 / float64(e.span+1)
	result := make([]float64, len(closes))
	result[0] = closes[0]

	for i := 1; i < len(closes); i++ {
		result[i] = closes[i]*alpha + result[i-1]*(1-alpha)
	}

	return result, nil
}
