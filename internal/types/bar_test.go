package types

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/stratlab/stratrun/pkg/errors"
)

type BarTestSuite struct {
	suite.Suite
}

func TestBarSuite(t *testing.T) {
	suite.Run(t, new(BarTestSuite))
}

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func seriesFromCloses(symbol string, closes ...float64) PriceSeries {
	bars := make([]Bar, len(closes))
	for i, c := range closes {
		bars[i] = Bar{Time: day(i), Open: c, High: c, Low: c, Close: c, Volume: 1000}
	}

	return PriceSeries{Symbol: symbol, Bars: bars}
}

func (suite *BarTestSuite) TestValidateOK() {
	series := seriesFromCloses("AAPL", 100, 102, 101, 105)
	suite.NoError(series.Validate())
	suite.Equal(4, series.Len())
	suite.Equal([]float64{100, 102, 101, 105}, series.Closes())
}

func (suite *BarTestSuite) TestValidateEmptySeries() {
	series := PriceSeries{Symbol: "AAPL"}
	err := series.Validate()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidSeries))
}

func (suite *BarTestSuite) TestValidateMissingSymbol() {
	series := seriesFromCloses("", 100)
	suite.Error(series.Validate())
}

func (suite *BarTestSuite) TestValidateDuplicateDates() {
	series := seriesFromCloses("AAPL", 100, 101)
	series.Bars[1].Time = series.Bars[0].Time

	err := series.Validate()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidSeries))
}

func (suite *BarTestSuite) TestValidateOutOfOrderDates() {
	series := seriesFromCloses("AAPL", 100, 101, 102)
	series.Bars[2].Time = day(0)

	suite.Error(series.Validate())
}

func (suite *BarTestSuite) TestValidateBadCloses() {
	tests := []struct {
		name  string
		close float64
	}{
		{"nan", math.NaN()},
		{"zero", 0},
		{"negative", -5},
		{"inf", math.Inf(1)},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			series := seriesFromCloses("AAPL", 100, tc.close)
			suite.Error(series.Validate())
		})
	}
}
