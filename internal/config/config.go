// Package config provides configuration loading for the discovery tool.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment variable overrides
const EnvPrefix = "NUS_DISCOVERY"

// Defaults mirror the knobs of the catalog walk and the generated file
const (
	// DefaultOrgName is the NGC org that publishes the blueprint catalog
	DefaultOrgName = "qc69jvmznzxy"

	// DefaultLabel is the catalog label that marks blueprint entries
	DefaultLabel = "blueprint"

	// DefaultPageSize is the catalog search page size
	DefaultPageSize = 1000

	// DefaultWorkers is the spec fetch worker pool width
	DefaultWorkers = 8

	// DefaultBranch is the branch written for every generated repo entry
	DefaultBranch = "main"

	// DefaultDepth is the clone depth written to the generated defaults
	DefaultDepth = 1

	// DefaultOutput is the generated repos.yaml path
	DefaultOutput = "config/repos.yaml"
)

// Config holds the discovery run settings
type Config struct {
	// Org is the NGC organization to search
	Org string `yaml:"org,omitempty"`

	// Label filters catalog entries by label
	Label string `yaml:"label,omitempty"`

	// PageSize is the number of catalog entries per search page
	PageSize int `yaml:"pageSize,omitempty"`

	// Workers is the width of the per-page spec fetch pool
	Workers int `yaml:"workers,omitempty"`

	// Branch is the default branch for generated repo entries
	Branch string `yaml:"branch,omitempty"`

	// Depth is the default clone depth for generated repo entries
	Depth int `yaml:"depth,omitempty"`

	// Output is the path the generated repos.yaml is written to
	Output string `yaml:"output,omitempty"`
}

// Default returns a configuration populated with the built-in defaults
func Default() *Config {
	return &Config{
		Org:      DefaultOrgName,
		Label:    DefaultLabel,
		PageSize: DefaultPageSize,
		Workers:  DefaultWorkers,
		Branch:   DefaultBranch,
		Depth:    DefaultDepth,
		Output:   DefaultOutput,
	}
}

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		// Validate the path to prevent path traversal attacks
		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// LoadConfig loads and parses configuration from a YAML file. File values
// are merged over the built-in defaults, so a partial file is fine.
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if c.Org == "" {
		return fmt.Errorf("org cannot be empty")
	}
	if c.Label == "" {
		return fmt.Errorf("label cannot be empty")
	}
	if c.PageSize < 1 {
		return fmt.Errorf("pageSize must be at least 1, got %d", c.PageSize)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Branch == "" {
		return fmt.Errorf("branch cannot be empty")
	}
	if c.Depth < 1 {
		return fmt.Errorf("depth must be at least 1, got %d", c.Depth)
	}
	if c.Output == "" {
		return fmt.Errorf("output path cannot be empty")
	}

	return nil
}
