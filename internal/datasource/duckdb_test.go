package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/stratlab/stratrun/pkg/errors"
)

type DuckDBTestSuite struct {
	suite.Suite
	source  DataSource
	csvPath string
}

func TestDuckDBSuite(t *testing.T) {
	suite.Run(t, new(DuckDBTestSuite))
}

func (suite *DuckDBTestSuite) SetupTest() {
	source, err := NewDuckDBDataSource(nil)
	suite.Require().NoError(err)
	suite.source = source

	dir := suite.T().TempDir()
	suite.csvPath = filepath.Join(dir, "market_data.csv")

	content := "time,symbol,open,high,low,close,volume\n"
	for i, close := range []float64{100, 102, 101, 105} {
		day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
		content += fmt.Sprintf("%s,AAPL,%.2f,%.2f,%.2f,%.2f,1000\n",
			day.Format("2006-01-02 15:04:05"), close, close, close, close)
	}

	content += "2024-01-01 00:00:00,MSFT,200.00,200.00,200.00,200.00,500\n"

	suite.Require().NoError(os.WriteFile(suite.csvPath, []byte(content), 0644))
	suite.Require().NoError(suite.source.Initialize(suite.csvPath))
}

func (suite *DuckDBTestSuite) TearDownTest() {
	suite.NoError(suite.source.Close())
}

func (suite *DuckDBTestSuite) TestReadSeries() {
	series, err := suite.source.ReadSeries("AAPL", optional.None[time.Time](), optional.None[time.Time]())
	suite.NoError(err)
	suite.Equal("AAPL", series.Symbol)
	suite.Equal(4, series.Len())
	suite.Equal([]float64{100, 102, 101, 105}, series.Closes())
	suite.NoError(series.Validate())
}

func (suite *DuckDBTestSuite) TestReadSeriesWithRange() {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	series, err := suite.source.ReadSeries("AAPL", optional.Some(start), optional.Some(end))
	suite.NoError(err)
	suite.Equal([]float64{102, 101}, series.Closes())
}

func (suite *DuckDBTestSuite) TestReadSeriesUnknownSymbol() {
	_, err := suite.source.ReadSeries("TSLA", optional.None[time.Time](), optional.None[time.Time]())
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataNotFound))
}

func (suite *DuckDBTestSuite) TestSymbols() {
	symbols, err := suite.source.Symbols()
	suite.NoError(err)
	suite.Equal([]string{"AAPL", "MSFT"}, symbols)
}

func (suite *DuckDBTestSuite) TestCount() {
	count, err := suite.source.Count(optional.None[time.Time](), optional.None[time.Time]())
	suite.NoError(err)
	suite.Equal(5, count)

	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	count, err = suite.source.Count(optional.Some(start), optional.None[time.Time]())
	suite.NoError(err)
	suite.Equal(3, count)
}

func (suite *DuckDBTestSuite) TestExecuteSQL() {
	results, err := suite.source.ExecuteSQL(`SELECT symbol, COUNT(*) AS bars FROM market_data GROUP BY symbol ORDER BY symbol`)
	suite.NoError(err)
	suite.Len(results, 2)
	suite.Equal("AAPL", results[0].Values["symbol"])
}

func (suite *DuckDBTestSuite) TestInitializeUnsupportedExtension() {
	source, err := NewDuckDBDataSource(nil)
	suite.Require().NoError(err)
	defer source.Close()

	suite.Error(source.Initialize("/tmp/data.xlsx"))
}
