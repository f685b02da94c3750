package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/stratlab/stratrun/internal/types"
	"github.com/stratlab/stratrun/pkg/errors"
)

// TickerExport is the JSON document written per ticker by ExportJSON.
type TickerExport struct {
	Symbol  string          `json:"symbol"`
	Summary []types.Summary `json:"summary"`
	Equity  []EquityRow     `json:"equity"`
}

// ExportJSON writes one `<ticker>.json` file per ticker into dir,
// containing every appended summary and equity row, and returns the
// written paths. This is the alternate results representation next to the
// DuckDB store itself.
func (s *Store) ExportJSON(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeStoreExportFailed, err, "failed to create export dir %s", dir)
	}

	symbols, err := s.Symbols()
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(symbols))

	for _, symbol := range symbols {
		summaries, err := s.Summaries(symbol)
		if err != nil {
			return nil, err
		}

		equity, err := s.EquityRows(symbol, "")
		if err != nil {
			return nil, err
		}

		export := TickerExport{
			Symbol:  symbol,
			Summary: summaries,
			Equity:  equity,
		}

		data, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeStoreExportFailed, err, "failed to marshal export for %s", symbol)
		}

		path := filepath.Join(dir, sanitizeSymbol(symbol)+".json")
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeStoreExportFailed, err, "failed to write %s", path)
		}

		s.log.Debug("Exported ticker results",
			zap.String("symbol", symbol),
			zap.String("path", path),
		)

		paths = append(paths, path)
	}

	return paths, nil
}
