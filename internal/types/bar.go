package types

import (
	"math"
	"time"

	"github.com/stratlab/stratrun/pkg/errors"
)

// Bar is a single OHLCV bar for one symbol.
type Bar struct {
	Time   time.Time `csv:"time" json:"time"`
	Open   float64   `csv:"open" json:"open"`
	High   float64   `csv:"high" json:"high"`
	Low    float64   `csv:"low" json:"low"`
	Close  float64   `csv:"close" json:"close"`
	Volume float64   `csv:"volume" json:"volume"`
}

// PriceSeries is the ordered price history of one symbol.
type PriceSeries struct {
	Symbol string
	Bars   []Bar
}

// Len returns the number of bars in the series.
func (s PriceSeries) Len() int {
	return len(s.Bars)
}

// Closes returns the close prices of the series in order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, bar := range s.Bars {
		closes[i] = bar.Close
	}

	return closes
}

// Validate checks the series invariants: at least one bar, strictly
// increasing timestamps with no duplicates, and finite positive closes.
func (s PriceSeries) Validate() error {
	if s.Symbol == "" {
		return errors.New(errors.ErrCodeInvalidSeries, "price series has no symbol")
	}

	if len(s.Bars) == 0 {
		return errors.Newf(errors.ErrCodeInvalidSeries, "price series for %s is empty", s.Symbol)
	}

	for i, bar := range s.Bars {
		if math.IsNaN(bar.Close) || math.IsInf(bar.Close, 0) || bar.Close <= 0 {
			return errors.Newf(errors.ErrCodeInvalidSeries,
				"price series for %s has invalid close %v at index %d", s.Symbol, bar.Close, i)
		}

		if i > 0 && !bar.Time.After(s.Bars[i-1].Time) {
			return errors.Newf(errors.ErrCodeInvalidSeries,
				"price series for %s is not strictly increasing at index %d (%s -> %s)",
				s.Symbol, i, s.Bars[i-1].Time.Format(time.RFC3339), bar.Time.Format(time.RFC3339))
		}
	}

	return nil
}
