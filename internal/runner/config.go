package runner

import (
	"encoding/json"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/stratlab/stratrun/internal/engine"
	"github.com/stratlab/stratrun/pkg/errors"
)

// Config is the run configuration loaded from stratrun.yaml.
type Config struct {
	// Tickers to backtest, in order.
	Tickers []string `yaml:"tickers" json:"tickers" validate:"min=1,dive,required" jsonschema:"title=Tickers,description=Ticker symbols to backtest"`
	// DataDir holds per-ticker data files (<ticker>.parquet or <ticker>.csv).
	DataDir string `yaml:"data_dir" json:"data_dir" validate:"required" jsonschema:"title=Data Directory,description=Directory containing per-ticker price data files"`
	// ResultsPath is the DuckDB results store file.
	ResultsPath string `yaml:"results_path" json:"results_path" validate:"required" jsonschema:"title=Results Path,description=Path of the append-only results store"`
	// Start optionally restricts the backtest period.
	Start *time.Time `yaml:"start" json:"start,omitempty" jsonschema:"title=Start,description=Optional inclusive start of the backtest period"`
	// End optionally restricts the backtest period.
	End *time.Time `yaml:"end" json:"end,omitempty" jsonschema:"title=End,description=Optional inclusive end of the backtest period"`
	// Engine holds the backtest engine parameters.
	Engine engine.Config `yaml:"engine" json:"engine" jsonschema:"title=Engine,description=Backtest engine parameters"`
	// Strategies holds per-strategy parameter maps keyed by strategy name.
	Strategies map[string]map[string]any `yaml:"strategies" json:"strategies,omitempty" jsonschema:"title=Strategies,description=Per-strategy parameter overrides"`
}

// DefaultConfig returns a config with the conventional paths filled in.
func DefaultConfig() Config {
	return Config{
		DataDir:     "data",
		ResultsPath: "strategies_results.duckdb",
		Engine:      engine.DefaultConfig(),
	}
}

// LoadConfig reads and validates the config file at path. Omitted fields
// keep their defaults.
func LoadConfig(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
	}

	return ParseConfig(string(content))
}

// ParseConfig parses and validates a YAML run configuration.
func ParseConfig(content string) (Config, error) {
	config := DefaultConfig()

	if err := yaml.Unmarshal([]byte(content), &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse run config", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Validate checks the config constraints, including the embedded engine
// config.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid run config", err)
	}

	return c.Engine.Validate()
}

// StrategyConfigYAML returns the YAML parameter snippet for the named
// strategy, or an empty string if none is configured.
func (c Config) StrategyConfigYAML(name string) (string, error) {
	params, ok := c.Strategies[name]
	if !ok || len(params) == 0 {
		return "", nil
	}

	data, err := yaml.Marshal(params)
	if err != nil {
		return "", errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to marshal params for strategy %s", name)
	}

	return string(data), nil
}

// GenerateSchemaJSON generates the JSON schema for the run configuration.
func (c Config) GenerateSchemaJSON() (string, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
	}

	schema := reflector.Reflect(c)
	schema.Title = "stratrun-config"
	schema.Description = "Configuration schema for the stratrun runner"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
