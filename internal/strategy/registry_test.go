package strategy

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/stratlab/stratrun/internal/types"
	"github.com/stratlab/stratrun/pkg/errors"
)

// fakeStrategy lets registry tests control the reported name and version.
type fakeStrategy struct {
	name    string
	version string
}

func (f *fakeStrategy) Name() string                    { return f.name }
func (f *fakeStrategy) Version() string                 { return f.version }
func (f *fakeStrategy) Initialize(config string) error  { return nil }
func (f *fakeStrategy) Annotate(series types.PriceSeries) (types.SignaledSeries, error) {
	return types.SignaledSeries{Symbol: series.Symbol, Strategy: f.name}, nil
}

type RegistryTestSuite struct {
	suite.Suite
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (suite *RegistryTestSuite) TestRegisterAndGet() {
	registry := NewRegistry()

	s := &fakeStrategy{name: "custom", version: "0.1.0"}
	suite.NoError(registry.Register(s))

	got, err := registry.Get("custom")
	suite.NoError(err)
	suite.Equal(s, got)
}

func (suite *RegistryTestSuite) TestGetUnknownStrategy() {
	registry := NewRegistry()

	_, err := registry.Get("missing")
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeStrategyNotFound))
}

func (suite *RegistryTestSuite) TestRegisterDuplicate() {
	registry := NewRegistry()

	suite.NoError(registry.Register(&fakeStrategy{name: "dup", version: "1.0.0"}))

	err := registry.Register(&fakeStrategy{name: "dup", version: "2.0.0"})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeStrategyAlreadyExists))
}

func (suite *RegistryTestSuite) TestRegisterInvalidVersion() {
	registry := NewRegistry()

	err := registry.Register(&fakeStrategy{name: "bad", version: "not-semver"})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidVersion))
}

func (suite *RegistryTestSuite) TestRegisterEmptyName() {
	registry := NewRegistry()
	suite.Error(registry.Register(&fakeStrategy{name: "", version: "1.0.0"}))
}

func (suite *RegistryTestSuite) TestNamesSorted() {
	registry := NewRegistry()
	suite.NoError(registry.Register(&fakeStrategy{name: "zeta", version: "1.0.0"}))
	suite.NoError(registry.Register(&fakeStrategy{name: "alpha", version: "1.0.0"}))

	suite.Equal([]string{"alpha", "zeta"}, registry.Names())
}

func (suite *RegistryTestSuite) TestDefaultRegistry() {
	registry, err := NewDefaultRegistry()
	suite.NoError(err)
	suite.Equal([]string{"ema_crossover", "rsi_reversal", "sma_crossover"}, registry.Names())
}
