package types

import "time"

// EquityPoint is one point of the cumulative portfolio value under a given
// signal sequence. The curve starts at the configured initial capital and
// carries one point per input bar.
type EquityPoint struct {
	Time   time.Time `yaml:"time" json:"time"`
	Equity float64   `yaml:"equity" json:"equity"`
}

// EquityCurve is the ordered equity series produced by a backtest run.
type EquityCurve []EquityPoint

// Final returns the last equity value, or 0 for an empty curve.
func (c EquityCurve) Final() float64 {
	if len(c) == 0 {
		return 0
	}

	return c[len(c)-1].Equity
}

// MaxDrawdown returns the largest peak-to-trough decline as a negative
// fraction (e.g. -0.25 for a 25% drawdown). Returns 0 for a curve that
// never declines.
func (c EquityCurve) MaxDrawdown() float64 {
	maxDrawdown := 0.0
	peak := 0.0

	for _, point := range c {
		if point.Equity > peak {
			peak = point.Equity
		}

		if peak > 0 {
			drawdown := (point.Equity - peak) / peak
			if drawdown < maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	return maxDrawdown
}

// Returns computes the per-bar fractional returns of the curve. The result
// has len(c)-1 entries; an empty or single-point curve yields nil.
func (c EquityCurve) Returns() []float64 {
	if len(c) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(c)-1)
	for i := 1; i < len(c); i++ {
		if c[i-1].Equity == 0 {
			returns = append(returns, 0)
			continue
		}

		returns = append(returns, c[i].Equity/c[i-1].Equity-1)
	}

	return returns
}
