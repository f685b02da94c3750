package backtest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/stratlab/stratrun/internal/logger"
	"github.com/stratlab/stratrun/internal/runner"
	"github.com/stratlab/stratrun/internal/store"
	"github.com/stratlab/stratrun/internal/strategy"
	"github.com/stratlab/stratrun/internal/testdata"
)

// E2ETestSuite drives the whole pipeline the way the CLI does: a YAML run
// config, per-ticker CSV data files, every registered strategy, and a JSON
// export of the accumulated store.
type E2ETestSuite struct {
	suite.Suite
	dir     string
	dataDir string
	store   *store.Store
	config  runner.Config
}

func TestE2ESuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}

func (suite *E2ETestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.dataDir = filepath.Join(suite.dir, "data")
	suite.Require().NoError(os.MkdirAll(suite.dataDir, 0755))

	generator := testdata.NewGenerator(42)
	for _, ticker := range []string{"AAPL", "MSFT"} {
		config := testdata.DefaultConfig()
		config.Symbol = ticker
		config.Trend = 0.2

		series := generator.Generate(config)
		path := filepath.Join(suite.dataDir, ticker+".csv")
		suite.Require().NoError(testdata.WriteCSV(path, series))
	}

	configPath := filepath.Join(suite.dir, "stratrun.yaml")
	content := `
tickers:
  - AAPL
  - MSFT
data_dir: ` + suite.dataDir + `
results_path: ` + filepath.Join(suite.dir, "results.duckdb") + `
engine:
  initial_capital: 100000
  fee: 0.001
strategies:
  ema_crossover:
    fast_span: 5
    slow_span: 20
`
	suite.Require().NoError(os.WriteFile(configPath, []byte(content), 0644))

	config, err := runner.LoadConfig(configPath)
	suite.Require().NoError(err)
	suite.config = config

	resultsStore, err := store.Open(config.ResultsPath, logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.store = resultsStore
}

func (suite *E2ETestSuite) TearDownTest() {
	suite.store.Close()
}

func (suite *E2ETestSuite) runStrategies(names ...string) {
	registry, err := strategy.NewDefaultRegistry()
	suite.Require().NoError(err)

	strategyRunner, err := runner.New(suite.config, registry, suite.store, nil, logger.NewNopLogger())
	suite.Require().NoError(err)

	for _, name := range names {
		suite.Require().NoError(strategyRunner.Run(context.Background(), name))
	}
}

func (suite *E2ETestSuite) TestAllStrategiesOverAllTickers() {
	registry, err := strategy.NewDefaultRegistry()
	suite.Require().NoError(err)

	suite.runStrategies(registry.Names()...)

	for _, ticker := range []string{"AAPL", "MSFT"} {
		summaries, err := suite.store.Summaries(ticker)
		suite.Require().NoError(err)
		suite.Require().Len(summaries, len(registry.Names()))

		for _, summary := range summaries {
			suite.Equal(ticker, summary.Symbol)
			suite.NotEmpty(summary.RunID)
			suite.NotEmpty(summary.StrategyVersion)
			suite.Equal(100000.0, summary.InitialCapital)
			suite.LessOrEqual(summary.MaxDrawdown, 0.0)

			rows, err := suite.store.EquityRows(ticker, summary.RunID)
			suite.Require().NoError(err)
			suite.Len(rows, 252)
			suite.Equal(100000.0, rows[0].Equity)
		}
	}
}

func (suite *E2ETestSuite) TestRerunAccumulates() {
	suite.runStrategies("ema_crossover")
	suite.runStrategies("ema_crossover")

	summaries, err := suite.store.Summaries("AAPL")
	suite.Require().NoError(err)
	suite.Len(summaries, 2)
	suite.NotEqual(summaries[0].RunID, summaries[1].RunID)

	// Identical inputs produce identical results under fresh run IDs.
	suite.Equal(summaries[0].TotalReturn, summaries[1].TotalReturn)
	suite.Equal(summaries[0].SharpeRatio, summaries[1].SharpeRatio)
}

func (suite *E2ETestSuite) TestExportAfterRun() {
	suite.runStrategies("sma_crossover", "rsi_reversal")

	exportDir := filepath.Join(suite.dir, "results")
	paths, err := suite.store.ExportJSON(exportDir)
	suite.Require().NoError(err)
	suite.Require().Len(paths, 2)

	for _, path := range paths {
		data, err := os.ReadFile(path)
		suite.Require().NoError(err)

		var export store.TickerExport
		suite.Require().NoError(json.Unmarshal(data, &export))
		suite.Len(export.Summary, 2)
		suite.Len(export.Equity, 2*252)
	}
}
