package strategy

import (
	"github.com/stratlab/stratrun/internal/types"
)

// Strategy annotates a price series with trading signals. Implementations
// must be pure: no I/O, no external data fetch, output rows matching input
// rows one to one. The output contract is enforced by the caller via
// types.SignaledSeries.Validate.
type Strategy interface {
	// Name returns the registry name of the strategy.
	Name() string
	// Version returns the semantic version of the strategy implementation.
	Version() string
	// Initialize configures the strategy from a YAML parameter snippet.
	// An empty config keeps the defaults.
	Initialize(config string) error
	// Annotate returns the series with one signal per bar.
	Annotate(series types.PriceSeries) (types.SignaledSeries, error)
}

// crossoverSignals converts a boolean state series (fast above slow) into
// crossover events: +1 when the state flips on, -1 when it flips off, 0
// otherwise. The first bar has no prior state and is always 0.
func crossoverSignals(above []bool) []types.Direction {
	signals := make([]types.Direction, len(above))

	for i := 1; i < len(above); i++ {
		switch {
		case above[i] && !above[i-1]:
			signals[i] = types.DirectionBuy
		case !above[i] && above[i-1]:
			signals[i] = types.DirectionSell
		}
	}

	return signals
}
