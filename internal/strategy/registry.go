package strategy

import (
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/stratlab/stratrun/pkg/errors"
)

// Registry resolves strategies by name. Strategies are registered at
// startup; resolving an unknown name is an explicit error rather than a
// dynamic import by file-name convention.
type Registry interface {
	// Register adds a strategy. The strategy's version must parse as
	// semver and the name must not already be taken.
	Register(strategy Strategy) error
	// Get returns the strategy with the given name.
	Get(name string) (Strategy, error)
	// Names returns all registered strategy names, sorted.
	Names() []string
}

type registry struct {
	strategies map[string]Strategy
}

// NewRegistry creates an empty strategy registry.
func NewRegistry() Registry {
	return &registry{
		strategies: make(map[string]Strategy),
	}
}

// NewDefaultRegistry creates a registry pre-populated with the built-in
// strategies.
func NewDefaultRegistry() (Registry, error) {
	r := NewRegistry()

	builtins := []Strategy{
		NewEMACrossover(),
		NewSMACrossover(),
		NewRSIReversal(),
	}

	for _, s := range builtins {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Register implements Registry.
func (r *registry) Register(strategy Strategy) error {
	name := strategy.Name()
	if name == "" {
		return errors.New(errors.ErrCodeInvalidParameter, "strategy has no name")
	}

	if _, err := semver.NewVersion(strategy.Version()); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err,
			"strategy %s reports version %q which is not valid semver", name, strategy.Version())
	}

	if _, exists := r.strategies[name]; exists {
		return errors.Newf(errors.ErrCodeStrategyAlreadyExists, "strategy %s is already registered", name)
	}

	r.strategies[name] = strategy

	return nil
}

// Get implements Registry.
func (r *registry) Get(name string) (Strategy, error) {
	strategy, exists := r.strategies[name]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeStrategyNotFound, "strategy %q is not registered", name)
	}

	return strategy, nil
}

// Names implements Registry.
func (r *registry) Names() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
