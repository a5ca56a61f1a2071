// Package config manages cellgrid configuration from files and environment.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	Engine   struct {
		MaxFormulas int `mapstructure:"max_formulas"`
	} `mapstructure:"engine"`
	Output struct {
		Format string `mapstructure:"format"`
		Color  bool   `mapstructure:"color"`
	} `mapstructure:"output"`
	Documents struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"documents"`
}

// Load reads the configuration from ~/.cellgrid/config.yaml and
// environment variables. A missing config file is not an error.
func Load() (*Config, error) {
	dir := Dir()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(dir)

	// Defaults
	viper.SetDefault("provider", "anthropic")
	viper.SetDefault("model", "")
	viper.SetDefault("engine.max_formulas", 100000)
	viper.SetDefault("output.color", true)
	viper.SetDefault("output.format", "text")
	viper.SetDefault("documents.dir", filepath.Join(dir, "documents"))

	// Environment variable overrides (CELLGRID_PROVIDER, ...)
	viper.SetEnvPrefix("CELLGRID")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Dir returns the cellgrid configuration directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cellgrid"
	}
	return filepath.Join(home, ".cellgrid")
}

// Issue describes a configuration problem found by Validate.
type Issue struct {
	Key      string `json:"key"`
	Severity string `json:"severity"` // "error" or "warning"
	Message  string `json:"message"`
}

// Validate checks the loaded configuration for common problems.
func Validate(cfg *Config) []Issue {
	var issues []Issue

	if cfg.Engine.MaxFormulas < 1 {
		issues = append(issues, Issue{
			Key:      "engine.max_formulas",
			Severity: "error",
			Message:  "engine.max_formulas must be at least 1",
		})
	}

	switch cfg.Provider {
	case "anthropic":
		if os.Getenv("ANTHROPIC_API_KEY") == "" {
			issues = append(issues, Issue{
				Key:      "provider",
				Severity: "warning",
				Message:  "ANTHROPIC_API_KEY is not set — 'cellgrid chart' will fail until it is",
			})
		}
	case "openai":
		if os.Getenv("OPENAI_API_KEY") == "" {
			issues = append(issues, Issue{
				Key:      "provider",
				Severity: "warning",
				Message:  "OPENAI_API_KEY is not set — 'cellgrid chart' will fail until it is",
			})
		}
	case "ollama":
		// local inference needs no key
	default:
		issues = append(issues, Issue{
			Key:      "provider",
			Severity: "error",
			Message:  "unknown provider " + cfg.Provider + " — supported providers: anthropic, openai, ollama",
		})
	}

	if cfg.Output.Format != "text" && cfg.Output.Format != "json" {
		issues = append(issues, Issue{
			Key:      "output.format",
			Severity: "error",
			Message:  "output.format must be \"text\" or \"json\"",
		})
	}

	return issues
}
