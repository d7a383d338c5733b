// Package config loads engine configuration from an optional YAML file
// with environment overrides layered on top. Missing files are not an
// error; defaults apply.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all engine configuration.
type Config struct {
	// LLM configures the remote classifier and synthesizer. An empty
	// APIKey selects the rule-based collaborators.
	LLM LLMConfig `yaml:"llm"`

	// DataDir holds the knowledge database. Empty means in-memory.
	DataDir string `yaml:"data_dir"`

	// Parallel lets independent tasks of a plan run concurrently.
	Parallel bool `yaml:"parallel"`

	// Logging controls the zap logger.
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the Gemini collaborators.
type LLMConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		LLM:     LLMConfig{Model: "gemini-2.0-flash"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// DefaultPath is where Load looks when no explicit path is given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".nion", "config.yaml")
}

// Load reads the config file at path (or the default location when path
// is empty), then applies environment overrides. A missing file yields
// the defaults; a malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults apply.
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = Default().LLM.Model
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = Default().Logging.Level
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if model := os.Getenv("NION_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if dir := os.Getenv("NION_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
}
