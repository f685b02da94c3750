package engine

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v2"

	"github.com/stratlab/stratrun/pkg/errors"
)

// Config holds the backtest engine parameters.
type Config struct {
	// InitialCapital is the starting cash amount the equity curve begins at.
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital" validate:"gt=0" jsonschema:"title=Initial Capital,description=Starting capital for the backtest,minimum=0"`
	// Fee is the fractional cost per trade leg (0.001 = 0.1%).
	Fee float64 `yaml:"fee" json:"fee" validate:"gte=0,lt=1" jsonschema:"title=Fee,description=Fractional cost per trade leg,minimum=0,maximum=1"`
	// AnnualizationFactor scales the Sharpe ratio; 252 for daily bars.
	AnnualizationFactor float64 `yaml:"annualization_factor" json:"annualization_factor" validate:"gt=0" jsonschema:"title=Annualization Factor,description=Periods per year used to annualize the Sharpe ratio,minimum=1"`
}

// DefaultConfig returns the engine defaults: 100k capital, no fees, daily
// bars.
func DefaultConfig() Config {
	return Config{
		InitialCapital:      100_000,
		Fee:                 0,
		AnnualizationFactor: 252,
	}
}

// ParseConfig parses a YAML engine configuration. Omitted fields keep
// their defaults.
func ParseConfig(content string) (Config, error) {
	config := DefaultConfig()

	if err := yaml.Unmarshal([]byte(content), &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeEngineConfigError, "failed to parse engine config", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Validate checks the config constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeEngineConfigError, "invalid engine config", err)
	}

	return nil
}

// GenerateSchemaJSON generates the JSON schema for the engine config.
func (c Config) GenerateSchemaJSON() (string, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
	}

	schema := reflector.Reflect(c)
	schema.Title = "backtest-engine-config"
	schema.Description = "Configuration schema for the backtest engine"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
