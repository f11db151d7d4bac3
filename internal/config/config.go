package config

import (
	"fmt"
	"os"

	"github.com/ericmiguel/pytyper/internal/builders"
	"gopkg.in/yaml.v3"
)

// Config represents the file-based configuration for pytyper. Every value
// can be overridden by the matching CLI flag.
type Config struct {
	// Style is the default output style when -t is not given.
	Style string `yaml:"style"`
	// RootName is the default name for the root class.
	RootName string `yaml:"root_name"`
	// Output is the default output file path; empty means stdout.
	Output string `yaml:"output"`
	// Naming maps JSON keys to explicit class or field names, bypassing the
	// automatic derivation for those keys.
	Naming map[string]string `yaml:"naming"`
	// Debug enables debug logging.
	Debug bool `yaml:"debug"`
}

// ConfigFileNames are the file names searched in the working directory when
// no explicit config path is given.
var ConfigFileNames = []string{".pytyper.yaml", ".pytyper.yml"}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		RootName: "GeneratedModel",
	}
}

// LoadConfig reads a YAML config file and merges it over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file '%s': %w", path, err)
	}
	return cfg, nil
}

// FindConfigFile looks for a config file in the working directory and
// returns its path, or empty string when none exists.
func FindConfigFile() string {
	for _, name := range ConfigFileNames {
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			return name
		}
	}
	return ""
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.Style == "" {
		return nil
	}
	for _, style := range builders.Styles() {
		if c.Style == style {
			return nil
		}
	}
	return fmt.Errorf("unknown style '%s', expected one of %v", c.Style, builders.Styles())
}
