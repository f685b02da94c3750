package fetch

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/marcboeker/go-duckdb"
	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/stratlab/stratrun/internal/logger"
	"github.com/stratlab/stratrun/pkg/errors"
)

// Fetcher downloads OHLCV history for a ticker into a local data file the
// datasource can read. The external provider is an opaque collaborator.
type Fetcher interface {
	// Fetch downloads [start, end] daily bars for ticker and returns the
	// path of the written parquet file.
	Fetch(ctx context.Context, ticker string, start, end time.Time) (string, error)
}

// PolygonFetcher fetches daily aggregates from the Polygon.io REST API and
// writes them to parquet via a temporary DuckDB table.
type PolygonFetcher struct {
	client  *polygon.Client
	dataDir string
	log     *logger.Logger
}

// NewPolygonFetcher creates a fetcher writing into dataDir. The API key is
// required.
func NewPolygonFetcher(apiKey, dataDir string, log *logger.Logger) (*PolygonFetcher, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeMissingCredential, "polygon API key is not set")
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &PolygonFetcher{
		client:  polygon.New(apiKey),
		dataDir: dataDir,
		log:     log,
	}, nil
}

// OutputPath returns the parquet path Fetch writes for the given ticker.
func (f *PolygonFetcher) OutputPath(ticker string) string {
	return filepath.Join(f.dataDir, fmt.Sprintf("%s.parquet", ticker))
}

// Fetch implements Fetcher.
func (f *PolygonFetcher) Fetch(ctx context.Context, ticker string, start, end time.Time) (string, error) {
	if err := os.MkdirAll(f.dataDir, 0755); err != nil {
		return "", errors.Wrapf(errors.ErrCodeFetchWriteFailed, err, "failed to create data dir %s", f.dataDir)
	}

	outputPath := f.OutputPath(ticker)
	tempDBPath := filepath.Join(f.dataDir, fmt.Sprintf(".%s_download.duckdb", ticker))

	db, err := sql.Open("duckdb", tempDBPath)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFetchWriteFailed, "failed to open staging database", err)
	}

	defer func() {
		db.Close()
		os.Remove(tempDBPath)
	}()

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS market_data (
			time TIMESTAMP,
			symbol TEXT,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume DOUBLE
		)
	`)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFetchWriteFailed, "failed to create staging table", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFetchWriteFailed, "failed to begin transaction", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO market_data (time, symbol, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()

		return "", errors.Wrap(errors.ErrCodeFetchWriteFailed, "failed to prepare insert", err)
	}
	defer stmt.Close()

	f.log.Info("Downloading daily bars",
		zap.String("ticker", ticker),
		zap.String("start", start.Format("2006-01-02")),
		zap.String("end", end.Format("2006-01-02")),
	)

	bar := progressbar.Default(-1, fmt.Sprintf("downloading %s", ticker))

	params := models.ListAggsParams{
		Ticker:     ticker,
		From:       models.Millis(start),
		To:         models.Millis(end),
		Multiplier: 1,
		Timespan:   models.Day,
	}

	iter := f.client.ListAggs(ctx, &params)

	rowCount := 0

	for iter.Next() {
		agg := iter.Item()

		_, err := stmt.Exec(
			time.Time(agg.Timestamp),
			ticker,
			agg.Open,
			agg.High,
			agg.Low,
			agg.Close,
			agg.Volume,
		)
		if err != nil {
			tx.Rollback()

			return "", errors.Wrap(errors.ErrCodeFetchWriteFailed, "failed to insert bar", err)
		}

		rowCount++
		bar.Add(1)
	}

	if iter.Err() != nil {
		tx.Rollback()

		return "", errors.Wrapf(errors.ErrCodeFetchFailed, iter.Err(), "failed to download %s", ticker)
	}

	if rowCount == 0 {
		tx.Rollback()

		return "", errors.Newf(errors.ErrCodeDataNotFound, "no bars returned for %s", ticker)
	}

	if err := tx.Commit(); err != nil {
		return "", errors.Wrap(errors.ErrCodeFetchWriteFailed, "failed to commit download", err)
	}

	query := fmt.Sprintf(`COPY (SELECT * FROM market_data ORDER BY time) TO '%s' (FORMAT PARQUET)`, outputPath)
	if _, err := db.Exec(query); err != nil {
		return "", errors.Wrap(errors.ErrCodeFetchWriteFailed, "failed to export to parquet", err)
	}

	f.log.Info("Download complete",
		zap.String("ticker", ticker),
		zap.Int("bars", rowCount),
		zap.String("path", outputPath),
	)

	return outputPath, nil
}
