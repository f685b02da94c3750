package strategy

import (
	"gopkg.in/yaml.v3"

	"github.com/stratlab/stratrun/internal/indicator"
	"github.com/stratlab/stratrun/internal/types"
	"github.com/stratlab/stratrun/pkg/errors"
)

// EMACrossover emits a buy signal when the fast EMA crosses above the slow
// EMA and a sell signal when it crosses back below. Bars without a cross
// are hold.
type EMACrossover struct {
	fastSpan int
	slowSpan int
}

type emaCrossoverConfig struct {
	FastSpan int `yaml:"fast_span"`
	SlowSpan int `yaml:"slow_span"`
}

// NewEMACrossover creates the strategy with the default 10/20 spans.
func NewEMACrossover() *EMACrossover {
	return &EMACrossover{
		fastSpan: 10,
		slowSpan: 20,
	}
}

// Name implements Strategy.
func (s *EMACrossover) Name() string {
	return "ema_crossover"
}

// Version implements Strategy.
func (s *EMACrossover) Version() string {
	return "1.0.0"
}

// Initialize implements Strategy.
func (s *EMACrossover) Initialize(config string) error {
	if config == "" {
		return nil
	}

	var cfg emaCrossoverConfig
	if err := yaml.Unmarshal([]byte(config), &cfg); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to parse ema_crossover config", err)
	}

	if cfg.FastSpan > 0 {
		s.fastSpan = cfg.FastSpan
	}

	if cfg.SlowSpan > 0 {
		s.slowSpan = cfg.SlowSpan
	}

	if s.fastSpan >= s.slowSpan {
		return errors.Newf(errors.ErrCodeStrategyConfigError,
			"fast span %d must be smaller than slow span %d", s.fastSpan, s.slowSpan)
	}

	return nil
}

// Annotate implements Strategy.
func (s *EMACrossover) Annotate(series types.PriceSeries) (types.SignaledSeries, error) {
	if err := series.Validate(); err != nil {
		return types.SignaledSeries{}, err
	}

	closes := series.Closes()

	fast := indicator.NewEMA()
	if err := fast.Config(s.fastSpan); err != nil {
		return types.SignaledSeries{}, err
	}

	slow := indicator.NewEMA()
	if err := slow.Config(s.slowSpan); err != nil {
		return types.SignaledSeries{}, err
	}

	fastValues, err := fast.Series(closes)
	if err != nil {
		return types.SignaledSeries{}, err
	}

	slowValues, err := slow.Series(closes)
	if err != nil {
		return types.SignaledSeries{}, err
	}

	above := make([]bool, len(closes))
	for i := range closes {
		above[i] = fastValues[i] > slowValues[i]
	}

	signals := crossoverSignals(above)

	bars := make([]types.SignaledBar, len(series.Bars))
	for i, bar := range series.Bars {
		bars[i] = types.SignaledBar{
			Bar:    bar,
			Signal: signals[i],
			Indicators: map[string]float64{
				"ema_fast": fastValues[i],
				"ema_slow": slowValues[i],
			},
		}
	}

	return types.SignaledSeries{
		Symbol:   series.Symbol,
		Strategy: s.Name(),
		Bars:     bars,
	}, nil
}
