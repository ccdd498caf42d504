// Package pmiconfig loads the YAML configuration consumed by
// cmd/pmiprobe: logging, per-backend library settings, and the metrics
// listener address, following the same default/override/env-precedence
// shape used elsewhere in this codebase.
package pmiconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level pmiprobe configuration.
type Config struct {
	Framework FrameworkConfig `yaml:"framework"`
	Legacy    LibraryConfig   `yaml:"legacy"`
	Modern    LibraryConfig   `yaml:"modern"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// FrameworkConfig contains general logging settings.
type FrameworkConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// LibraryConfig holds a dynamically loaded backend's library name and
// extra search directories as config-file settings. pmiprobe loads and
// validates them but does not pass them to the Factory, which takes its
// library names only from PMI_LIBRARY/PMIX_LIBRARY and its search
// directories only from its Lister.
type LibraryConfig struct {
	Name            string   `yaml:"name"`
	ExtraSearchDirs []string `yaml:"extra_search_dirs"`
}

// MetricsConfig contains the Prometheus exporter listener settings.
type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// DefaultConfig returns a default configuration. The library names match
// pkg/pmi/legacy.LibraryName and pkg/pmi/modern.LibraryName by
// convention; they are not imported directly so pmiconfig stays free of
// a dependency on the backend packages it merely configures.
func DefaultConfig() *Config {
	return &Config{
		Framework: FrameworkConfig{
			LogLevel:  "info",
			LogFormat: "text",
		},
		Legacy: LibraryConfig{
			Name: "libpmi.so",
		},
		Modern: LibraryConfig{
			Name: "libpmix.so",
		},
		Metrics: MetricsConfig{
			ListenAddr: ":9090",
		},
	}
}

// Load loads configuration from a YAML file at path, falling back to
// DefaultConfig() if path does not exist. Environment variable
// expansion runs over the raw file content before parsing, and
// PMI_METRICS_LISTEN_ADDR, when set, overrides the parsed value.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = "pmiprobe.yaml"
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	metricsAddrEnv, metricsAddrSet := os.LookupEnv("PMI_METRICS_LISTEN_ADDR")

	expanded := []byte(os.ExpandEnv(string(data)))
	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if metricsAddrSet {
		cfg.Metrics.ListenAddr = metricsAddrEnv
	}

	return cfg, nil
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks that required fields are present.
func (c *Config) Validate() error {
	if c.Legacy.Name == "" {
		return fmt.Errorf("legacy.name is required")
	}
	if c.Modern.Name == "" {
		return fmt.Errorf("modern.name is required")
	}
	if c.Metrics.ListenAddr == "" {
		return fmt.Errorf("metrics.listen_addr is required")
	}
	return nil
}
