package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "sentimentcli/internal/errors"
)

// Config represents the complete pipeline configuration.
// There is deliberately no global output-directory constant anywhere in the
// codebase: every component receives the paths it needs from this struct.
type Config struct {
	Inputs  InputsConfig  `yaml:"inputs" envconfig:"INPUTS"`
	Output  OutputConfig  `yaml:"output" envconfig:"OUTPUT"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// InputsConfig names the two read-only input files
type InputsConfig struct {
	TradesFile    string `yaml:"trades_file" envconfig:"TRADES_FILE" default:"data/historical_data.csv" validate:"required"`
	SentimentFile string `yaml:"sentiment_file" envconfig:"SENTIMENT_FILE" default:"data/fear_greed_index.csv" validate:"required"`
}

// OutputConfig names the directory all artifacts are written under
type OutputConfig struct {
	Dir string `yaml:"dir" envconfig:"DIR" default:"output" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"text" validate:"oneof=text json"`
}

// Load builds the configuration from defaults, the environment (ANALYZER_*
// variables), and an optional YAML file. File values override environment
// values; command-line flags are applied by the caller on top of the result.
// The merged configuration is validated once before it is returned.
func Load(configFile string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process("ANALYZER", &cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if configFile != "" {
		if err := overlayFromFile(configFile, &cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return apperrors.NewConfigError(fmt.Sprintf("invalid configuration: %v", err), err)
	}
	return nil
}

func overlayFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.NewConfigError("failed to read config file", err).
			WithContext("path", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return apperrors.NewConfigError("failed to parse config file", err).
			WithContext("path", path)
	}
	return nil
}
