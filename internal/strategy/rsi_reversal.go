package strategy

import (
	"gopkg.in/yaml.v3"

	"github.com/stratlab/stratrun/internal/indicator"
	"github.com/stratlab/stratrun/internal/types"
	"github.com/stratlab/stratrun/pkg/errors"
)

// RSIReversal buys when RSI drops through the oversold threshold and sells
// when it rises through the overbought threshold.
type RSIReversal struct {
	period     int
	oversold   float64
	overbought float64
}

type rsiReversalConfig struct {
	Period     int     `yaml:"period"`
	Oversold   float64 `yaml:"oversold"`
	Overbought float64 `yaml:"overbought"`
}

// NewRSIReversal creates the strategy with period 14 and 30/70 thresholds.
func NewRSIReversal() *RSIReversal {
	return &RSIReversal{
		period:     14,
		oversold:   30,
		overbought: 70,
	}
}

// Name implements Strategy.
func (s *RSIReversal) Name() string {
	return "rsi_reversal"
}

// Version implements Strategy.
func (s *RSIReversal) Version() string {
	return "1.0.0"
}

// Initialize implements Strategy.
func (s *RSIReversal) Initialize(config string) error {
	if config == "" {
		return nil
	}

	var cfg rsiReversalConfig
	if err := yaml.Unmarshal([]byte(config), &cfg); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to parse rsi_reversal config", err)
	}

	if cfg.Period > 0 {
		s.period = cfg.Period
	}

	if cfg.Oversold > 0 {
		s.oversold = cfg.Oversold
	}

	if cfg.Overbought > 0 {
		s.overbought = cfg.Overbought
	}

	if s.oversold >= s.overbought {
		return errors.Newf(errors.ErrCodeStrategyConfigError,
			"oversold threshold %.1f must be below overbought threshold %.1f", s.oversold, s.overbought)
	}

	return nil
}

// Annotate implements Strategy.
func (s *RSIReversal) Annotate(series types.PriceSeries) (types.SignaledSeries, error) {
	if err := series.Validate(); err != nil {
		return types.SignaledSeries{}, err
	}

	rsi := indicator.NewRSI()
	if err := rsi.Config(s.period); err != nil {
		return types.SignaledSeries{}, err
	}

	values, err := rsi.Series(series.Closes())
	if err != nil {
		return types.SignaledSeries{}, err
	}

	bars := make([]types.SignaledBar, len(series.Bars))
	for i, bar := range series.Bars {
		signal := types.DirectionHold

		if i > 0 {
			switch {
			case values[i-1] >= s.oversold && values[i] < s.oversold:
				signal = types.DirectionBuy
			case values[i-1] <= s.overbought && values[i] > s.overbought:
				signal = types.DirectionSell
			}
		}

		bars[i] = types.SignaledBar{
			Bar:    bar,
			Signal: signal,
			Indicators: map[string]float64{
				"rsi": values[i],
			},
		}
	}

	return types.SignaledSeries{
		Symbol:   series.Symbol,
		Strategy: s.Name(),
		Bars:     bars,
	}, nil
}
