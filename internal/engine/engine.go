package engine

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stratlab/stratrun/internal/logger"
	"github.com/stratlab/stratrun/internal/types"
)

// Engine runs a signaled series through an all-in long-only backtest and
// produces a summary record plus the full equity curve. The engine is pure:
// it performs no I/O and a given input always yields the same output
// (except for the generated run ID and timestamp).
type Engine struct {
	config Config
	log    *logger.Logger
}

// execution is one fill recorded during the run. Prices are per share and
// already fee-adjusted, mirroring how pairs are scored.
type execution struct {
	buy   bool
	price decimal.Decimal
}

// New creates an engine with the given config. A nil logger falls back to
// a no-op logger.
func New(config Config, log *logger.Logger) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Engine{config: config, log: log}, nil
}

// Run backtests the signaled series. A buy signal on a flat book moves all
// cash into the position at that bar's close; a sell signal liquidates the
// whole position. Hold signals, buys while invested, and sells while flat
// do nothing. Equity is marked at every bar as cash plus position value, so
// the curve has exactly one point per input bar.
func (e *Engine) Run(series types.SignaledSeries) (types.Summary, types.EquityCurve, error) {
	if err := series.Validate(); err != nil {
		return types.Summary{}, nil, err
	}

	fee := decimal.NewFromFloat(e.config.Fee)
	cash := decimal.NewFromFloat(e.config.InitialCapital)
	position := decimal.Zero
	totalFees := decimal.Zero

	curve := make(types.EquityCurve, 0, series.Len())
	executions := make([]execution, 0)

	for _, bar := range series.Bars {
		price := decimal.NewFromFloat(bar.Close)

		switch {
		case bar.Signal == types.DirectionBuy && position.IsZero() && cash.IsPositive():
			position = cash.Div(price)
			totalFees = totalFees.Add(cash.Mul(fee))
			cash = decimal.Zero
			executions = append(executions, execution{
				buy:   true,
				price: price.Mul(decimal.NewFromInt(1).Add(fee)),
			})

		case bar.Signal == types.DirectionSell && position.IsPositive():
			exitPrice := price.Mul(decimal.NewFromInt(1).Sub(fee))
			totalFees = totalFees.Add(position.Mul(price).Mul(fee))
			cash = position.Mul(exitPrice)
			position = decimal.Zero
			executions = append(executions, execution{
				buy:   false,
				price: exitPrice,
			})
		}

		equity := cash.Add(position.Mul(price))
		curve = append(curve, types.EquityPoint{
			Time:   bar.Time,
			Equity: equity.InexactFloat64(),
		})
	}

	summary := e.summarize(series, curve, executions, totalFees)

	e.log.Debug("Backtest run complete",
		zap.String("strategy", series.Strategy),
		zap.String("symbol", series.Symbol),
		zap.Float64("final_value", summary.FinalValue),
		zap.Int("trades", summary.Trades.TradeCount),
	)

	return summary, curve, nil
}

func (e *Engine) summarize(series types.SignaledSeries, curve types.EquityCurve, executions []execution, totalFees decimal.Decimal) types.Summary {
	final := curve.Final()
	firstClose := series.Bars[0].Close
	lastClose := series.Bars[len(series.Bars)-1].Close

	return types.Summary{
		RunID:            uuid.New().String(),
		CreatedAt:        time.Now().UTC(),
		Strategy:         series.Strategy,
		Symbol:           series.Symbol,
		InitialCapital:   e.config.InitialCapital,
		FinalValue:       final,
		TotalReturn:      final/e.config.InitialCapital - 1,
		MaxDrawdown:      curve.MaxDrawdown(),
		SharpeRatio:      sharpeRatio(curve.Returns(), e.config.AnnualizationFactor),
		BuyAndHoldReturn: lastClose/firstClose - 1,
		TotalFees:        totalFees.InexactFloat64(),
		Trades:           pairTrades(executions),
	}
}

// pairTrades scores completed buy/sell round trips. Profit is the per-share
// price difference between fee-adjusted exit and entry. A trailing open buy
// has no exit yet and is not counted.
func pairTrades(executions []execution) types.TradeBreakdown {
	var breakdown types.TradeBreakdown

	grossWin := 0.0
	grossLoss := 0.0

	for i := 1; i < len(executions); i += 2 {
		entry := executions[i-1]
		exit := executions[i]

		if !entry.buy || exit.buy {
			continue
		}

		profit := exit.price.Sub(entry.price).InexactFloat64()
		breakdown.TradeCount++

		if profit > 0 {
			breakdown.WinningTrades++
			grossWin += profit
		} else if profit < 0 {
			breakdown.LosingTrades++
			grossLoss -= profit
		}
	}

	if breakdown.TradeCount > 0 {
		breakdown.WinRate = float64(breakdown.WinningTrades) / float64(breakdown.TradeCount)
	}

	if breakdown.WinningTrades > 0 {
		breakdown.AvgWin = grossWin / float64(breakdown.WinningTrades)
	}

	if breakdown.LosingTrades > 0 {
		breakdown.AvgLoss = -grossLoss / float64(breakdown.LosingTrades)
		breakdown.ProfitFactor = grossWin / grossLoss
	}

	return breakdown
}

// sharpeRatio annualizes mean/stddev of per-bar returns using the sample
// standard deviation. Returns 0 when fewer than two returns exist or the
// returns never vary.
func sharpeRatio(returns []float64, annualization float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}

	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}

	variance /= float64(len(returns) - 1)

	std := math.Sqrt(variance)
	if std == 0 {
		return 0
	}

	return mean / std * math.Sqrt(annualization)
}
