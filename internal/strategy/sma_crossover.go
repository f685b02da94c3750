package strategy

import (
	"gopkg.in/yaml.v3"

	"github.com/stratlab/stratrun/internal/indicator"
	"github.com/stratlab/stratrun/internal/types"
	"github.com/stratlab/stratrun/pkg/errors"
)

// SMACrossover is the simple moving average twin of EMACrossover.
type SMACrossover struct {
	fastWindow int
	slowWindow int
}

type smaCrossoverConfig struct {
	FastWindow int `yaml:"fast_window"`
	SlowWindow int `yaml:"slow_window"`
}

// NewSMACrossover creates the strategy with the default 50/200 windows.
func NewSMACrossover() *SMACrossover {
	return &SMACrossover{
		fastWindow: 50,
		slowWindow: 200,
	}
}

// Name implements Strategy.
func (s *SMACrossover) Name() string {
	return "sma_crossover"
}

// Version implements Strategy.
func (s *SMACrossover) Version() string {
	return "1.0.0"
}

// Initialize implements Strategy.
func (s *SMACrossover) Initialize(config string) error {
	if config == "" {
		return nil
	}

	var cfg smaCrossoverConfig
	if err := yaml.Unmarshal([]byte(config), &cfg); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to parse sma_crossover config", err)
	}

	if cfg.FastWindow > 0 {
		s.fastWindow = cfg.FastWindow
	}

	if cfg.SlowWindow > 0 {
		s.slowWindow = cfg.SlowWindow
	}

	if s.fastWindow >= s.slowWindow {
		return errors.Newf(errors.ErrCodeStrategyConfigError,
			"fast window %d must be smaller than slow window %d", s.fastWindow, s.slowWindow)
	}

	return nil
}

// Annotate implements Strategy.
func (s *SMACrossover) Annotate(series types.PriceSeries) (types.SignaledSeries, error) {
	if err := series.Validate(); err != nil {
		return types.SignaledSeries{}, err
	}

	closes := series.Closes()

	fast := indicator.NewSMA()
	if err := fast.Config(s.fastWindow); err != nil {
		return types.SignaledSeries{}, err
	}

	slow := indicator.NewSMA()
	if err := slow.Config(s.slowWindow); err != nil {
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
				"sma_fast": fastValues[i],
				"sma_slow": slowValues[i],
			},
		}
	}

	return types.SignaledSeries{
		Symbol:   series.Symbol,
		Strategy: s.Name(),
		Bars:     bars,
	}, nil
}
