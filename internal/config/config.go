// Package config loads synthflow configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is where configuration is looked up when the CLI
// is not given an explicit --config flag.
const DefaultConfigPath = ".synthflow/config.yaml"

// HistoryConfig represents run history configuration
type HistoryConfig struct {
	// Enabled turns run history recording on
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database
	DBPath string `yaml:"db_path"`
}

// Config represents synthflow configuration options
type Config struct {
	// VivadoPath is the external tool binary (default: "vivado" in PATH)
	VivadoPath string `yaml:"vivado_path"`

	// GeneratorPath is the design-to-source generator binary
	GeneratorPath string `yaml:"generator_path"`

	// Timeout is the maximum wall-clock time for one tool run (0 = none)
	Timeout time.Duration `yaml:"timeout"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs will be written
	LogDir string `yaml:"log_dir"`

	// DeviceOverlay is an optional YAML file extending the device catalog
	DeviceOverlay string `yaml:"device_overlay"`

	// History contains run history configuration
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		VivadoPath:    "vivado",
		GeneratorPath: "",
		Timeout:       0, // no internal timeout; callers wrap the context
		LogLevel:      "info",
		LogDir:        ".synthflow/logs",
		DeviceOverlay: ".synthflow/devices.yaml",
		History: HistoryConfig{
			Enabled: true,
			DBPath:  ".synthflow/history.db",
		},
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without
// error. If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Temporary struct so the timeout can be written as "30m" etc.
	type yamlConfig struct {
		VivadoPath    string        `yaml:"vivado_path"`
		GeneratorPath string        `yaml:"generator_path"`
		Timeout       string        `yaml:"timeout"`
		LogLevel      string        `yaml:"log_level"`
		LogDir        string        `yaml:"log_dir"`
		DeviceOverlay string        `yaml:"device_overlay"`
		History       HistoryConfig `yaml:"history"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.VivadoPath != "" {
		cfg.VivadoPath = yamlCfg.VivadoPath
	}
	if yamlCfg.GeneratorPath != "" {
		cfg.GeneratorPath = yamlCfg.GeneratorPath
	}
	if yamlCfg.Timeout != "" {
		timeout, err := time.ParseDuration(yamlCfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout value %q: %w", yamlCfg.Timeout, err)
		}
		cfg.Timeout = timeout
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.LogDir != "" {
		cfg.LogDir = yamlCfg.LogDir
	}
	if yamlCfg.DeviceOverlay != "" {
		cfg.DeviceOverlay = yamlCfg.DeviceOverlay
	}
	// Merge History config - need to check if the section was provided at all
	// We create a temporary unmarshal to detect if history section exists
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if historySection, exists := rawMap["history"]; exists && historySection != nil {
			// History section exists in YAML, merge it field by field so an
			// omitted field keeps its default instead of its zero value
			historyMap, _ := historySection.(map[string]interface{})

			if _, exists := historyMap["enabled"]; exists {
				cfg.History.Enabled = yamlCfg.History.Enabled
			}
			if _, exists := historyMap["db_path"]; exists {
				// Explicitly set db_path, even if empty string
				cfg.History.DBPath = yamlCfg.History.DBPath
			}
		}
	}

	return cfg, nil
}
