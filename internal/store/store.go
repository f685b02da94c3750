package store

import (
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/stratlab/stratrun/internal/logger"
	"github.com/stratlab/stratrun/internal/types"
	"github.com/stratlab/stratrun/pkg/errors"
)

// Store is the append-only results store. Each ticker owns a
// `<ticker>_summary` and a `<ticker>_equity` table inside a single DuckDB
// database file. Appends never overwrite prior rows: re-running the same
// (ticker, strategy) pair adds a new row set under a fresh run ID, and no
// duplicate detection is performed. The store assumes a single writer.
type Store struct {
	db  *sql.DB
	log *logger.Logger
	sq  squirrel.StatementBuilderType
}

// EquityRow is one persisted equity point, tagged with the run that
// produced it.
type EquityRow struct {
	RunID    string    `json:"run_id"`
	Strategy string    `json:"strategy"`
	Time     time.Time `json:"time"`
	Equity   float64   `json:"equity"`
}

var identPattern = regexp.MustCompile(`[^A-Za-z0-9_]`)

// Open opens (or creates) the results store at path.
func Open(path string, log *logger.Logger) (*Store, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeStoreAppendFailed, err, "failed to open results store at %s", path)
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Store{
		db:  db,
		log: log,
		sq:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// sanitizeSymbol turns a ticker into a safe table-name prefix, e.g.
// "BRK.B" -> "BRK_B".
func sanitizeSymbol(symbol string) string {
	clean := identPattern.ReplaceAllString(symbol, "_")
	if clean == "" || (clean[0] >= '0' && clean[0] <= '9') {
		clean = "T_" + clean
	}

	return clean
}

func (s *Store) summaryTable(symbol string) string {
	return sanitizeSymbol(symbol) + "_summary"
}

func (s *Store) equityTable(symbol string) string {
	return sanitizeSymbol(symbol) + "_equity"
}

func (s *Store) ensureTables(symbol string) error {
	summaryDDL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			run_id TEXT,
			created_at TIMESTAMP,
			strategy_name TEXT,
			strategy_version TEXT,
			symbol TEXT,
			initial_capital DOUBLE,
			final_value DOUBLE,
			total_return DOUBLE,
			max_drawdown DOUBLE,
			sharpe_ratio DOUBLE,
			buy_and_hold_return DOUBLE,
			total_fees DOUBLE,
			trade_count INTEGER,
			winning_trades INTEGER,
			losing_trades INTEGER,
			win_rate DOUBLE,
			avg_win DOUBLE,
			avg_loss DOUBLE,
			profit_factor DOUBLE
		)`, s.summaryTable(symbol))

	if _, err := s.db.Exec(summaryDDL); err != nil {
		return errors.Wrapf(errors.ErrCodeStoreAppendFailed, err, "failed to create summary table for %s", symbol)
	}

	equityDDL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			run_id TEXT,
			strategy_name TEXT,
			time TIMESTAMP,
			equity DOUBLE
		)`, s.equityTable(symbol))

	if _, err := s.db.Exec(equityDDL); err != nil {
		return errors.Wrapf(errors.ErrCodeStoreAppendFailed, err, "failed to create equity table for %s", symbol)
	}

	return nil
}

// Append persists one run's summary and equity curve. The write is
// transactional: either both sections gain the run's rows or neither does.
func (s *Store) Append(summary types.Summary, curve types.EquityCurve) error {
	if summary.RunID == "" {
		return errors.New(errors.ErrCodeStoreAppendFailed, "summary has no run ID")
	}

	if err := s.ensureTables(summary.Symbol); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreAppendFailed, "failed to begin transaction", err)
	}

	summaryQuery, summaryArgs, err := s.sq.
		Insert(s.summaryTable(summary.Symbol)).
		Columns("run_id", "created_at", "strategy_name", "strategy_version", "symbol",
			"initial_capital", "final_value", "total_return", "max_drawdown", "sharpe_ratio",
			"buy_and_hold_return", "total_fees", "trade_count", "winning_trades",
			"losing_trades", "win_rate", "avg_win", "avg_loss", "profit_factor").
		Values(summary.RunID, summary.CreatedAt, summary.Strategy, summary.StrategyVersion, summary.Symbol,
			summary.InitialCapital, summary.FinalValue, summary.TotalReturn, summary.MaxDrawdown, summary.SharpeRatio,
			summary.BuyAndHoldReturn, summary.TotalFees, summary.Trades.TradeCount, summary.Trades.WinningTrades,
			summary.Trades.LosingTrades, summary.Trades.WinRate, summary.Trades.AvgWin, summary.Trades.AvgLoss,
			summary.Trades.ProfitFactor).
		ToSql()
	if err != nil {
		tx.Rollback()

		return errors.Wrap(errors.ErrCodeStoreAppendFailed, "failed to build summary insert", err)
	}

	if _, err := tx.Exec(summaryQuery, summaryArgs...); err != nil {
		tx.Rollback()

		return errors.Wrapf(errors.ErrCodeStoreAppendFailed, err, "failed to append summary for %s", summary.Symbol)
	}

	stmt, err := tx.Prepare(fmt.Sprintf(
		`INSERT INTO %s (run_id, strategy_name, time, equity) VALUES (?, ?, ?, ?)`,
		s.equityTable(summary.Symbol)))
	if err != nil {
		tx.Rollback()

		return errors.Wrap(errors.ErrCodeStoreAppendFailed, "failed to prepare equity insert", err)
	}
	defer stmt.Close()

	for _, point := range curve {
		if _, err := stmt.Exec(summary.RunID, summary.Strategy, point.Time, point.Equity); err != nil {
			tx.Rollback()

			return errors.Wrapf(errors.ErrCodeStoreAppendFailed, err, "failed to append equity for %s", summary.Symbol)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeStoreAppendFailed, "failed to commit append", err)
	}

	s.log.Debug("Appended run to results store",
		zap.String("run_id", summary.RunID),
		zap.String("strategy", summary.Strategy),
		zap.String("symbol", summary.Symbol),
		zap.Int("equity_rows", len(curve)),
	)

	return nil
}

// Summaries returns all appended summary rows for the symbol, oldest first.
func (s *Store) Summaries(symbol string) ([]types.Summary, error) {
	query, args, err := s.sq.
		Select("run_id", "created_at", "strategy_name", "strategy_version", "symbol",
			"initial_capital", "final_value", "total_return", "max_drawdown", "sharpe_ratio",
			"buy_and_hold_return", "total_fees", "trade_count", "winning_trades",
			"losing_trades", "win_rate", "avg_win", "avg_loss", "profit_factor").
		From(s.summaryTable(symbol)).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreReadFailed, "failed to build summary query", err)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeStoreReadFailed, err, "failed to read summaries for %s", symbol)
	}
	defer rows.Close()

	var summaries []types.Summary

	for rows.Next() {
		var summary types.Summary
		if err := rows.Scan(&summary.RunID, &summary.CreatedAt, &summary.Strategy, &summary.StrategyVersion,
			&summary.Symbol, &summary.InitialCapital, &summary.FinalValue, &summary.TotalReturn,
			&summary.MaxDrawdown, &summary.SharpeRatio, &summary.BuyAndHoldReturn, &summary.TotalFees,
			&summary.Trades.TradeCount, &summary.Trades.WinningTrades, &summary.Trades.LosingTrades,
			&summary.Trades.WinRate, &summary.Trades.AvgWin, &summary.Trades.AvgLoss,
			&summary.Trades.ProfitFactor); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreReadFailed, "failed to scan summary row", err)
		}

		summaries = append(summaries, summary)
	}

	return summaries, rows.Err()
}

// EquityRows returns all equity rows for the symbol, ordered by run and
// time. Pass an empty runID to read every run.
func (s *Store) EquityRows(symbol string, runID string) ([]EquityRow, error) {
	query := s.sq.
		Select("run_id", "strategy_name", "time", "equity").
		From(s.equityTable(symbol)).
		OrderBy("run_id ASC", "time ASC")

	if runID != "" {
		query = query.Where(squirrel.Eq{"run_id": runID})
	}

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreReadFailed, "failed to build equity query", err)
	}

	rows, err := s.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeStoreReadFailed, err, "failed to read equity rows for %s", symbol)
	}
	defer rows.Close()

	var result []EquityRow

	for rows.Next() {
		var row EquityRow
		if err := rows.Scan(&row.RunID, &row.Strategy, &row.Time, &row.Equity); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreReadFailed, "failed to scan equity row", err)
		}

		result = append(result, row)
	}

	return result, rows.Err()
}

// Symbols returns every ticker with at least one appended run, sorted.
func (s *Store) Symbols() ([]string, error) {
	rows, err := s.db.Query(
		`SELECT table_name FROM information_schema.tables WHERE table_name LIKE '%_summary'`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreReadFailed, "failed to list store tables", err)
	}
	defer rows.Close()

	var symbols []string

	for rows.Next() {
		var table string
		if err := rows.Scan(&table); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreReadFailed, "failed to scan table name", err)
		}

		// Read the real symbol from the rows; the table prefix is sanitized.
		var symbol string
		symbolQuery := fmt.Sprintf(`SELECT DISTINCT symbol FROM %s LIMIT 1`, table)
		if err := s.db.QueryRow(symbolQuery).Scan(&symbol); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}

			return nil, errors.Wrapf(errors.ErrCodeStoreReadFailed, err, "failed to resolve symbol for %s", table)
		}

		symbols = append(symbols, symbol)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Strings(symbols)

	return symbols, nil
}

// HasRuns reports whether the symbol has any appended summary rows.
func (s *Store) HasRuns(symbol string) (bool, error) {
	var exists bool

	err := s.db.QueryRow(
		`SELECT COUNT(*) > 0 FROM information_schema.tables WHERE table_name = ?`,
		s.summaryTable(symbol)).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeStoreReadFailed, "failed to check store tables", err)
	}

	if !exists {
		return false, nil
	}

	var count int
	if err := s.db.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.summaryTable(symbol))).Scan(&count); err != nil {
		return false, errors.Wrapf(errors.ErrCodeStoreReadFailed, err, "failed to count runs for %s", symbol)
	}

	return count > 0, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
