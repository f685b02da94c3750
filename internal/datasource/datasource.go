package datasource

import (
	"time"

	"github.com/moznion/go-optional"

	"github.com/stratlab/stratrun/internal/types"
)

// SQLResult represents a row of data from a raw SQL query.
type SQLResult struct {
	Values map[string]interface{}
}

// DataSource provides ordered price history for the runner and tests.
type DataSource interface {
	// Initialize loads market data from the given path. Parquet and CSV
	// files are supported.
	Initialize(path string) error
	// ReadSeries reads the validated price series for one symbol, optionally
	// restricted to [start, end].
	ReadSeries(symbol string, start optional.Option[time.Time], end optional.Option[time.Time]) (types.PriceSeries, error)
	// Symbols returns the distinct symbols present in the data, sorted.
	Symbols() ([]string, error)
	// Count returns the number of bars, optionally restricted to [start, end].
	Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// ExecuteSQL executes a raw SQL query and returns the results.
	ExecuteSQL(query string, params ...interface{}) ([]SQLResult, error)
	// Close closes the data source and releases any resources.
	Close() error
}
