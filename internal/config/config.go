package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Config represents a quill.yaml (or quill.toml) project configuration.
type Config struct {
	// Limits bound every execution started by the CLI.
	Limits Limits `yaml:"limits" toml:"limits"`

	// Check controls the static type check that runs before execution.
	Check Check `yaml:"check" toml:"check"`

	Log Log `yaml:"log" toml:"log"`

	// Color is one of auto, always, never. Auto colors only terminals.
	Color string `yaml:"color,omitempty" toml:"color,omitempty"`

	// Workers bounds the number of concurrent invocations of a batch run.
	Workers int `yaml:"workers,omitempty" toml:"workers,omitempty"`
}

type Limits struct {
	MaxOperations     int `yaml:"max_operations,omitempty" toml:"max_operations,omitempty"`
	MaxRecursionDepth int `yaml:"max_recursion_depth,omitempty" toml:"max_recursion_depth,omitempty"`
}

type Check struct {
	// Strict refuses to execute modules with type errors.
	Strict bool `yaml:"strict" toml:"strict"`
	// Skip disables the type check.
	Skip bool `yaml:"skip" toml:"skip"`
}

type Log struct {
	Level string `yaml:"level,omitempty" toml:"level,omitempty"`
}

// Default returns the configuration used when no config file is found.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses a config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses config data. The format follows the extension of path:
// .toml files are TOML, everything else is YAML.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig looks for a config file in dir and its parents. It returns ""
// when none exists.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

// LoadOrDefault finds the config for dir, falling back to Default.
func LoadOrDefault(dir string) (*Config, string, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

func (c *Config) validate(path string) error {
	if c.Limits.MaxOperations < 0 {
		return fmt.Errorf("%s: limits.max_operations must not be negative, got %d", path, c.Limits.MaxOperations)
	}
	if c.Limits.MaxRecursionDepth < 0 {
		return fmt.Errorf("%s: limits.max_recursion_depth must not be negative, got %d", path, c.Limits.MaxRecursionDepth)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%s: workers must not be negative, got %d", path, c.Workers)
	}
	if c.Check.Strict && c.Check.Skip {
		return fmt.Errorf("%s: check.strict and check.skip are mutually exclusive", path)
	}
	if c.Log.Level != "" && !contains(LogLevels, c.Log.Level) {
		return fmt.Errorf("%s: log.level must be one of %s, got %q", path, strings.Join(LogLevels, ", "), c.Log.Level)
	}
	switch c.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%s: color must be one of auto, always, never, got %q", path, c.Color)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Limits.MaxOperations == 0 {
		c.Limits.MaxOperations = DefaultMaxOperations
	}
	if c.Limits.MaxRecursionDepth == 0 {
		c.Limits.MaxRecursionDepth = DefaultMaxRecursionDepth
	}
	if c.Log.Level == "" {
		c.Log.Level = LogLevelError
	}
	if c.Color == "" {
		c.Color = ColorAuto
	}
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
