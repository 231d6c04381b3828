package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads the configuration from the default path.
func Load() (*Config, error) {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads and validates the configuration from a specific path.
//
// Unknown keys are ignored; missing required keys fail fast via Validate.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ConfigNotFoundError{
				Path: path,
				Hint: "Run 'intent-hub-mcp bootstrap' to create a default config",
			}
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &InvalidConfigError{
			Path:    path,
			Message: err.Error(),
			Hint:    "Check the JSON syntax and try again",
		}
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrCreate loads the config from the default path, writing a default
// config first if none exists.
func LoadOrCreate() (*Config, error) {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := NewConfig()
		if err := Save(cfg, configPath); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
		return cfg, nil
	}

	return LoadFrom(configPath)
}

// applyDefaults fills optional sections that the file omitted.
// The intent set and tool mapping are required and never defaulted here.
func applyDefaults(cfg *Config) {
	defaults := NewConfig()
	if cfg.Routing == nil {
		cfg.Routing = defaults.Routing
	}
	if cfg.Reward == nil {
		cfg.Reward = defaults.Reward
	}
	if cfg.Learning == nil {
		cfg.Learning = defaults.Learning
	}
	if cfg.Features == nil {
		cfg.Features = defaults.Features
	}
}
