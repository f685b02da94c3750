package types

import (
	"github.com/stratlab/stratrun/pkg/errors"
)

// Direction is the per-bar trading decision emitted by a strategy.
type Direction int

const (
	// DirectionSell closes an open position (-1).
	DirectionSell Direction = -1
	// DirectionHold takes no action (0).
	DirectionHold Direction = 0
	// DirectionBuy opens a position (1).
	DirectionBuy Direction = 1
)

// ParseDirection validates that v is in the {-1, 0, 1} domain.
func ParseDirection(v int) (Direction, error) {
	switch v {
	case -1:
		return DirectionSell, nil
	case 0:
		return DirectionHold, nil
	case 1:
		return DirectionBuy, nil
	default:
		return DirectionHold, errors.Newf(errors.ErrCodeInvalidSignal, "signal value %d is outside {-1, 0, 1}", v)
	}
}

// Valid reports whether the direction is one of the three allowed values.
func (d Direction) Valid() bool {
	return d == DirectionSell || d == DirectionHold || d == DirectionBuy
}

// SignaledBar is a price bar annotated with a trading signal and any
// indicator values the strategy computed for that bar.
type SignaledBar struct {
	Bar
	Signal Direction
	// Indicators holds optional per-bar indicator values keyed by name,
	// e.g. "ema_fast" -> 101.3. May be nil.
	Indicators map[string]float64
}

// SignaledSeries is a PriceSeries annotated by a strategy: one signal per
// bar, no gaps, produced without side effects.
type SignaledSeries struct {
	Symbol   string
	Strategy string
	Bars     []SignaledBar
}

// Len returns the number of signaled bars.
func (s SignaledSeries) Len() int {
	return len(s.Bars)
}

// Validate enforces the strategy output contract. It checks the underlying
// price series invariants plus the signal domain. A strategy that emits a
// signal outside {-1, 0, 1} or drops bars is a contract violation surfaced
// here, at the call site.
func (s SignaledSeries) Validate() error {
	if s.Strategy == "" {
		return errors.New(errors.ErrCodeStrategyContract, "signaled series has no strategy name")
	}

	prices := PriceSeries{Symbol: s.Symbol, Bars: make([]Bar, len(s.Bars))}
	for i, bar := range s.Bars {
		prices.Bars[i] = bar.Bar
	}

	if err := prices.Validate(); err != nil {
		return err
	}

	for i, bar := range s.Bars {
		if !bar.Signal.Valid() {
			return errors.Newf(errors.ErrCodeStrategyContract,
				"strategy %s emitted signal %d outside {-1, 0, 1} at index %d", s.Strategy, bar.Signal, i)
		}
	}

	return nil
}
