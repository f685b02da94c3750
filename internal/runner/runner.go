package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/moznion/go-optional"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/stratlab/stratrun/internal/datasource"
	"github.com/stratlab/stratrun/internal/engine"
	"github.com/stratlab/stratrun/internal/fetch"
	"github.com/stratlab/stratrun/internal/logger"
	"github.com/stratlab/stratrun/internal/store"
	"github.com/stratlab/stratrun/internal/strategy"
	"github.com/stratlab/stratrun/pkg/errors"
)

// Runner orchestrates one strategy over the configured ticker list:
// load (or fetch) price data, annotate with signals, backtest, append to
// the results store. Tickers are processed sequentially; the first error
// aborts the run.
type Runner struct {
	config   Config
	registry strategy.Registry
	engine   *engine.Engine
	store    *store.Store
	fetcher  fetch.Fetcher
	log      *logger.Logger
}

// New creates a runner. The fetcher may be nil, in which case missing data
// files are an error instead of a download.
func New(config Config, registry strategy.Registry, resultsStore *store.Store, fetcher fetch.Fetcher, log *logger.Logger) (*Runner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	backtestEngine, err := engine.New(config.Engine, log)
	if err != nil {
		return nil, err
	}

	return &Runner{
		config:   config,
		registry: registry,
		engine:   backtestEngine,
		store:    resultsStore,
		fetcher:  fetcher,
		log:      log,
	}, nil
}

// Run backtests the named strategy over every configured ticker.
func (r *Runner) Run(ctx context.Context, strategyName string) error {
	strat, err := r.registry.Get(strategyName)
	if err != nil {
		return err
	}

	strategyConfig, err := r.config.StrategyConfigYAML(strategyName)
	if err != nil {
		return err
	}

	if err := strat.Initialize(strategyConfig); err != nil {
		return err
	}

	r.log.Info("Starting backtest run",
		zap.String("strategy", strategyName),
		zap.Strings("tickers", r.config.Tickers),
	)

	bar := progressbar.Default(int64(len(r.config.Tickers)), fmt.Sprintf("backtesting %s", strategyName))

	for _, ticker := range r.config.Tickers {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := r.runTicker(ctx, strat, ticker); err != nil {
			return err
		}

		bar.Add(1)
	}

	return nil
}

func (r *Runner) runTicker(ctx context.Context, strat strategy.Strategy, ticker string) error {
	dataPath, err := r.resolveDataPath(ctx, ticker)
	if err != nil {
		return err
	}

	source, err := datasource.NewDuckDBDataSource(r.log)
	if err != nil {
		return err
	}
	defer source.Close()

	if err := source.Initialize(dataPath); err != nil {
		return err
	}

	series, err := source.ReadSeries(ticker, r.startOption(), r.endOption())
	if err != nil {
		return err
	}

	annotated, err := strat.Annotate(series)
	if err != nil {
		return err
	}

	// Contract check on the strategy output before any money math runs.
	if err := annotated.Validate(); err != nil {
		return err
	}

	summary, curve, err := r.engine.Run(annotated)
	if err != nil {
		return err
	}

	summary.StrategyVersion = strat.Version()

	if err := r.store.Append(summary, curve); err != nil {
		return err
	}

	r.log.Info("Ticker backtest complete",
		zap.String("ticker", ticker),
		zap.String("run_id", summary.RunID),
		zap.Float64("total_return", summary.TotalReturn),
		zap.Float64("max_drawdown", summary.MaxDrawdown),
	)

	return nil
}

// resolveDataPath finds the ticker's data file, preferring parquet over
// CSV, falling back to a download when a fetcher is configured.
func (r *Runner) resolveDataPath(ctx context.Context, ticker string) (string, error) {
	candidates := []string{
		filepath.Join(r.config.DataDir, ticker+".parquet"),
		filepath.Join(r.config.DataDir, ticker+".csv"),
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	if r.fetcher == nil {
		return "", errors.Newf(errors.ErrCodeDataNotFound,
			"no data file for %s in %s and no fetcher configured", ticker, r.config.DataDir)
	}

	start, end := r.fetchRange()

	return r.fetcher.Fetch(ctx, ticker, start, end)
}

func (r *Runner) fetchRange() (time.Time, time.Time) {
	end := time.Now().UTC()
	if r.config.End != nil {
		end = *r.config.End
	}

	start := end.AddDate(-2, 0, 0)
	if r.config.Start != nil {
		start = *r.config.Start
	}

	return start, end
}

func (r *Runner) startOption() optional.Option[time.Time] {
	if r.config.Start == nil {
		return optional.None[time.Time]()
	}

	return optional.Some(*r.config.Start)
}

func (r *Runner) endOption() optional.Option[time.Time] {
	if r.config.End == nil {
		return optional.None[time.Time]()
	}

	return optional.Some(*r.config.End)
}
