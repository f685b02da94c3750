package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// TradeBreakdown aggregates the completed round-trip trades of a run.
type TradeBreakdown struct {
	// Count of completed buy/sell pairs.
	TradeCount int `yaml:"trade_count" json:"trade_count"`
	// Count of pairs with positive profit.
	WinningTrades int `yaml:"winning_trades" json:"winning_trades"`
	// Count of pairs with negative profit.
	LosingTrades int `yaml:"losing_trades" json:"losing_trades"`
	// Winning pairs over completed pairs. Zero when no pair completed.
	WinRate float64 `yaml:"win_rate" json:"win_rate"`
	// Mean profit of winning pairs.
	AvgWin float64 `yaml:"avg_win" json:"avg_win"`
	// Mean loss of losing pairs (negative).
	AvgLoss float64 `yaml:"avg_loss" json:"avg_loss"`
	// Gross profit over gross loss. Zero when no losing pair exists.
	ProfitFactor float64 `yaml:"profit_factor" json:"profit_factor"`
}

// Summary is one backtest run's performance record for a (strategy, symbol)
// pair. The results store appends one summary row per run; re-running the
// same pair appends another row under a fresh RunID.
type Summary struct {
	// RunID uniquely identifies this backtest run.
	RunID string `yaml:"run_id" json:"run_id"`
	// CreatedAt is when the run was executed.
	CreatedAt time.Time `yaml:"created_at" json:"created_at"`
	// Strategy is the registered strategy name.
	Strategy string `yaml:"strategy" json:"strategy"`
	// StrategyVersion is the semver of the strategy implementation.
	StrategyVersion string `yaml:"strategy_version" json:"strategy_version"`
	// Symbol of the backtested instrument.
	Symbol string `yaml:"symbol" json:"symbol"`
	// InitialCapital the equity curve starts from.
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital"`
	// FinalValue is the last equity point (cash plus open position value).
	FinalValue float64 `yaml:"final_value" json:"final_value"`
	// TotalReturn is FinalValue/InitialCapital - 1, exactly.
	TotalReturn float64 `yaml:"total_return" json:"total_return"`
	// MaxDrawdown is the largest peak-to-trough decline, negative.
	MaxDrawdown float64 `yaml:"max_drawdown" json:"max_drawdown"`
	// SharpeRatio is the annualized mean/std of per-bar equity returns.
	SharpeRatio float64 `yaml:"sharpe_ratio" json:"sharpe_ratio"`
	// BuyAndHoldReturn is the return of holding from first to last close.
	BuyAndHoldReturn float64 `yaml:"buy_and_hold_return" json:"buy_and_hold_return"`
	// TotalFees paid across all executions.
	TotalFees float64 `yaml:"total_fees" json:"total_fees"`
	// Trades breaks down the completed round trips.
	Trades TradeBreakdown `yaml:"trades" json:"trades"`
}

// WriteSummaries writes the given summaries to path as YAML.
func WriteSummaries(path string, summaries []Summary) error {
	data, err := yaml.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("failed to marshal summaries to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write summaries to file: %w", err)
	}

	return nil
}
