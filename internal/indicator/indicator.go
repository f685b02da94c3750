package indicator

// Type identifies an indicator implementation in the registry.
type Type string

const (
	TypeEMA Type = "ema"
	TypeSMA Type = "sma"
	TypeRSI Type = "rsi"
)

// Indicator computes a derived series over close prices. Implementations
// are pure: the output has exactly one value per input close and no
// implementation performs I/O.
type Indicator interface {
	// Name returns the registry name of the indicator.
	Name() Type
	// Config configures the indicator parameters. Each implementation
	// documents its expected parameters.
	Config(params ...any) error
	// Series computes the indicator over the given closes. The result has
	// the same length as the input.
	Series(closes []float64) ([]float64, error)
}
