package types

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/stratlab/stratrun/pkg/errors"
)

type SignalTestSuite struct {
	suite.Suite
}

func TestSignalSuite(t *testing.T) {
	suite.Run(t, new(SignalTestSuite))
}

func signaledFromCloses(symbol, strategy string, closes []float64, signals []Direction) SignaledSeries {
	prices := seriesFromCloses(symbol, closes...)
	bars := make([]SignaledBar, len(prices.Bars))

	for i, bar := range prices.Bars {
		bars[i] = SignaledBar{Bar: bar, Signal: signals[i]}
	}

	return SignaledSeries{Symbol: symbol, Strategy: strategy, Bars: bars}
}

func (suite *SignalTestSuite) TestParseDirection() {
	tests := []struct {
		value int
		want  Direction
		ok    bool
	}{
		{-1, DirectionSell, true},
		{0, DirectionHold, true},
		{1, DirectionBuy, true},
		{2, DirectionHold, false},
		{-2, DirectionHold, false},
	}

	for _, tc := range tests {
		direction, err := ParseDirection(tc.value)
		if tc.ok {
			suite.NoError(err)
			suite.Equal(tc.want, direction)
		} else {
			suite.Error(err)
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidSignal))
		}
	}
}

func (suite *SignalTestSuite) TestValidateOK() {
	series := signaledFromCloses("AAPL", "ema_crossover",
		[]float64{100, 102, 101, 105},
		[]Direction{DirectionHold, DirectionBuy, DirectionHold, DirectionSell})
	suite.NoError(series.Validate())
}

func (suite *SignalTestSuite) TestValidateSignalOutOfDomain() {
	series := signaledFromCloses("AAPL", "ema_crossover",
		[]float64{100, 102},
		[]Direction{DirectionHold, Direction(3)})

	err := series.Validate()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeStrategyContract))
}

func (suite *SignalTestSuite) TestValidateMissingStrategyName() {
	series := signaledFromCloses("AAPL", "",
		[]float64{100},
		[]Direction{DirectionHold})
	suite.Error(series.Validate())
}

func (suite *SignalTestSuite) TestValidatePropagatesPriceInvariants() {
	series := signaledFromCloses("AAPL", "ema_crossover",
		[]float64{100, 101},
		[]Direction{DirectionHold, DirectionHold})
	series.Bars[1].Time = series.Bars[0].Time

	err := series.Validate()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidSeries))
}
