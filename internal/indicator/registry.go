package indicator

import (
	"github.com/stratlab/stratrun/pkg/errors"
)

// Registry holds the available indicators keyed by name.
type Registry interface {
	// Register adds an indicator to the registry.
	Register(indicator Indicator) error
	// Get returns the indicator with the given name.
	Get(name Type) (Indicator, error)
}

type registry struct {
	indicators map[Type]Indicator
}

// NewRegistry creates an empty indicator registry.
func NewRegistry() Registry {
	return &registry{
		indicators: make(map[Type]Indicator),
	}
}

// NewDefaultRegistry creates a registry pre-populated with all built-in
// indicators.
func NewDefaultRegistry() Registry {
	r := NewRegistry()

	// Registration of built-ins cannot collide.
	_ = r.Register(NewEMA())
	_ = r.Register(NewSMA())
	_ = r.Register(NewRSI())

	return r
}

// Register implements Registry.
func (r *registry) Register(indicator Indicator) error {
	name := indicator.Name()
	if _, exists := r.indicators[name]; exists {
		return errors.Newf(errors.ErrCodeInvalidParameter, "indicator %s is already registered", name)
	}

	r.indicators[name] = indicator

	return nil
}

// Get implements Registry.
func (r *registry) Get(name Type) (Indicator, error) {
	indicator, exists := r.indicators[name]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "indicator %s is not registered", name)
	}

	return indicator, nil
}
