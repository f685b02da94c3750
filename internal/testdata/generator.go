package testdata

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/stratlab/stratrun/internal/types"
)

// Generator produces synthetic market data for tests and benchmarks.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a Generator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	// Symbol of the generated series.
	Symbol string
	// StartTime of the first bar.
	StartTime time.Time
	// Interval between bars.
	Interval time.Duration
	// Count of bars to generate.
	Count int
	// InitialPrice of the series.
	InitialPrice float64
	// Volatility controls per-bar price movement (0.01 = 1%).
	Volatility float64
	// Trend is the total drift over the series (-0.5 to 0.5 is sensible).
	Trend float64
	// VolumeBase is the average volume per bar.
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0).
	VolumeVariance float64
}

// DefaultConfig returns a sensible default configuration: one year of
// daily bars with mild volatility and no drift.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "TEST",
		StartTime:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:       24 * time.Hour,
		Count:          252,
		InitialPrice:   100.0,
		Volatility:     0.01,
		Trend:          0.0,
		VolumeBase:     10000,
		VolumeVariance: 0.3,
	}
}

// Generate creates a price series based on the configuration. Prices
// follow a geometric Brownian motion so indicator and engine behavior on
// the output resembles real market data.
func (g *Generator) Generate(config GeneratorConfig) types.PriceSeries {
	bars := make([]types.Bar, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.StartTime

	for i := 0; i < config.Count; i++ {
		open := currentPrice

		// Box-Muller transform for a normally distributed shock.
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		drift := config.Trend / float64(config.Count)
		close := open * (1 + drift + config.Volatility*z)
		if close <= 0 {
			close = open
		}

		high := math.Max(open, close) * (1 + g.rng.Float64()*config.Volatility)
		low := math.Min(open, close) * (1 - g.rng.Float64()*config.Volatility)

		volume := config.VolumeBase * (1 + config.VolumeVariance*(2*g.rng.Float64()-1))

		bars[i] = types.Bar{
			Time:   currentTime,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: math.Floor(volume),
		}

		currentPrice = close
		currentTime = currentTime.Add(config.Interval)
	}

	return types.PriceSeries{
		Symbol: config.Symbol,
		Bars:   bars,
	}
}

// WriteCSV writes the series to path in the data file layout the
// datasource reads (time,symbol,open,high,low,close,volume).
func WriteCSV(path string, series types.PriceSeries) error {
	var builder strings.Builder
	builder.WriteString("time,symbol,open,high,low,close,volume\n")

	for _, bar := range series.Bars {
		fmt.Fprintf(&builder, "%s,%s,%f,%f,%f,%f,%.0f\n",
			bar.Time.Format("2006-01-02 15:04:05"),
			series.Symbol, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
	}

	return os.WriteFile(path, []byte(builder.String()), 0644)
}
