package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/stratlab/stratrun/internal/fetch"
	"github.com/stratlab/stratrun/internal/logger"
	"github.com/stratlab/stratrun/internal/runner"
	"github.com/stratlab/stratrun/internal/store"
	"github.com/stratlab/stratrun/internal/strategy"
	"github.com/stratlab/stratrun/internal/version"
)

// runAction backtests one registered strategy over every ticker in the
// run configuration and appends the results to the store.
func runAction(ctx context.Context, cmd *cli.Command) error {
	config, err := runner.LoadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	appLogger, err := newLogger(cmd.Bool("verbose"))
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	registry, err := strategy.NewDefaultRegistry()
	if err != nil {
		return err
	}

	resultsStore, err := store.Open(config.ResultsPath, appLogger)
	if err != nil {
		return err
	}
	defer resultsStore.Close()

	// Downloads only happen when a Polygon key is present; otherwise the
	// run requires the data files to exist locally.
	var fetcher fetch.Fetcher
	if apiKey := os.Getenv("POLYGON_API_KEY"); apiKey != "" {
		polygonFetcher, err := fetch.NewPolygonFetcher(apiKey, config.DataDir, appLogger)
		if err != nil {
			return err
		}
		fetcher = polygonFetcher
	}

	strategyRunner, err := runner.New(config, registry, resultsStore, fetcher, appLogger)
	if err != nil {
		return err
	}

	return strategyRunner.Run(ctx, cmd.String("strategy"))
}

// downloadAction fetches daily bars for one ticker from Polygon and writes
// them as a parquet file under the data directory.
func downloadAction(ctx context.Context, cmd *cli.Command) error {
	appLogger, err := newLogger(cmd.Bool("verbose"))
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	fetcher, err := fetch.NewPolygonFetcher(os.Getenv("POLYGON_API_KEY"), cmd.String("data"), appLogger)
	if err != nil {
		return err
	}

	path, err := fetcher.Fetch(ctx, cmd.String("ticker"), cmd.Timestamp("start"), cmd.Timestamp("end"))
	if err != nil {
		return err
	}

	fmt.Printf("Downloaded %s to %s\n", cmd.String("ticker"), path)

	return nil
}

// strategiesAction lists the registered strategies with their versions.
func strategiesAction(ctx context.Context, cmd *cli.Command) error {
	registry, err := strategy.NewDefaultRegistry()
	if err != nil {
		return err
	}

	for _, name := range registry.Names() {
		registered, err := registry.Get(name)
		if err != nil {
			return err
		}

		fmt.Printf("%s\t%s\n", registered.Name(), registered.Version())
	}

	return nil
}

// schemaAction prints the JSON schema of the run configuration.
func schemaAction(ctx context.Context, cmd *cli.Command) error {
	schema, err := runner.DefaultConfig().GenerateSchemaJSON()
	if err != nil {
		return err
	}

	fmt.Println(schema)

	return nil
}

// exportAction dumps every ticker's stored runs to per-ticker JSON files.
func exportAction(ctx context.Context, cmd *cli.Command) error {
	appLogger, err := newLogger(cmd.Bool("verbose"))
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	resultsStore, err := store.Open(cmd.String("results"), appLogger)
	if err != nil {
		return err
	}
	defer resultsStore.Close()

	paths, err := resultsStore.ExportJSON(cmd.String("out"))
	if err != nil {
		return err
	}

	for _, path := range paths {
		fmt.Printf("Exported %s\n", path)
	}

	return nil
}

func newLogger(verbose bool) (*logger.Logger, error) {
	if verbose {
		return logger.NewDebugLogger()
	}

	return logger.NewLogger()
}

func main() {
	verboseFlag := &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Enable debug logging",
	}

	cmd := &cli.Command{
		Name:    "stratrun",
		Usage:   "Run trading strategy backtests over historical market data",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Backtest a strategy over the configured tickers",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "strategy",
						Aliases:  []string{"s"},
						Usage:    "Registered strategy name",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to the run configuration file",
						Value:   "stratrun.yaml",
					},
					verboseFlag,
				},
				Action: runAction,
			},
			{
				Name:  "download",
				Usage: "Download daily bars for a ticker from Polygon",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "ticker",
						Aliases:  []string{"t"},
						Usage:    "Stock ticker symbol",
						Required: true,
					},
					&cli.TimestampFlag{
						Name:    "start",
						Aliases: []string{"s"},
						Usage:   "Start date in `YYYY-MM-DD` format",
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02"},
						},
						Required: true,
					},
					&cli.TimestampFlag{
						Name:    "end",
						Aliases: []string{"e"},
						Usage:   "End date in `YYYY-MM-DD` format. Defaults to today.",
						Value:   time.Now(),
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02"},
						},
					},
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "Path to the data output directory",
						Value:   "data",
					},
					verboseFlag,
				},
				Action: downloadAction,
			},
			{
				Name:   "strategies",
				Usage:  "List the registered strategies",
				Action: strategiesAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the run configuration",
				Action: schemaAction,
			},
			{
				Name:  "export",
				Usage: "Export stored results to per-ticker JSON files",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "results",
						Aliases: []string{"r"},
						Usage:   "Path of the results store",
						Value:   "strategies_results.duckdb",
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output directory for the JSON files",
						Value:   "results",
					},
					verboseFlag,
				},
				Action: exportAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
