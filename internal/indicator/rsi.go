package indicator

import (
	"github.com/stratlab/stratrun/pkg/errors"
)

// RSI implements Wilder's relative strength index. Bars before the first
// full period carry the neutral value 50 so the output stays gap-free.
type RSI struct {
	period int
}

// NewRSI creates an RSI indicator with the default period of 14.
func NewRSI() Indicator {
	return &RSI{period: 14}
}

// Name returns the name of the indicator.
func (r *RSI) Name() Type {
	return TypeRSI
}

// Config configures the RSI indicator. Expected parameters: period (int).
func (r *RSI) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeInvalidParameter, "Config expects 1 parameter: period (int)")
	}

	period, ok := params[0].(int)
	if !ok {
		return errors.New(errors.ErrCodeInvalidParameter, "invalid type for period parameter, expected int")
	}

	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	r.period = period

	return nil
}

// Series computes the RSI over the given closes.
func (r *RSI) Series(closes []float64) ([]float64, error) {
	if len(closes) == 0 {
		return nil, errors.New(errors.ErrCodeInsufficientData, "no closes to compute RSI over")
	}

	result := make([]float64, len(closes))
	for i := range result {
		result[i] = 50
	}

	if len(closes) <= r.period {
		return result, nil
	}

	// Seed the averages with the first period's simple means.
	avgGain := 0.0
	avgLoss := 0.0

	for i := 1; i <= r.period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}

	avgGain /= float64(r.period)
	avgLoss /= float64(r.period)
	result[r.period] = rsiValue(avgGain, avgLoss)

	// Wilder smoothing for the rest of the series.
	for i := r.period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain := 0.0
		loss := 0.0

		if change > 0 {
			gain = change
		} else {
			loss = -change
		}

		avgGain = (avgGain*float64(r.period-1) + gain) / float64(r.period)
		avgLoss = (avgLoss*float64(r.period-1) + loss) / float64(r.period)
		result[i] = rsiValue(avgGain, avgLoss)
	}

	return result, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}

		return 100
	}

	rs := avgGain / avgLoss

	return 100 - 100/(1+rs)
}
