// Package config loads the optional mountgraph.yaml file that tunes trees
// created by tools and tests.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// FileName is the file LoadOptional looks for.
const FileName = "mountgraph.yaml"

// SchemaVersion is the newest schema this package reads. Files declaring a
// different major version are rejected.
const SchemaVersion = "v1.1.0"

// Config represents mountgraph.yaml.
type Config struct {
	Version string        `yaml:"version,omitempty"`
	Tree    TreeConfig    `yaml:"tree"`
	Mount   MountConfig   `yaml:"mount"`
	Layout  LayoutConfig  `yaml:"layout"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
}

// TreeConfig contains per-tree settings.
type TreeConfig struct {
	LogTag          string `yaml:"logTag,omitempty"`
	DrawableOutputs *bool  `yaml:"drawableOutputs,omitempty"`
}

// MountConfig contains mount settings.
type MountConfig struct {
	Incremental bool `yaml:"incremental,omitempty"`
	PoolSize    *int `yaml:"poolSize,omitempty"`
}

// LayoutConfig sizes the background layout pool.
type LayoutConfig struct {
	Workers int `yaml:"workers,omitempty"`
	Queue   int `yaml:"queue,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled,omitempty"`
	Namespace string `yaml:"namespace,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Verbosity enables V(n) logs up to n.
	Verbosity int `yaml:"verbosity,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Parse decodes and validates a configuration document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// LoadOptional reads mountgraph.yaml from dir if present, and returns the
// defaults otherwise.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func (c *Config) applyDefaults() {
	c.Version = strings.TrimSpace(c.Version)
	if c.Version == "" {
		c.Version = SchemaVersion
	}
	if c.Tree.DrawableOutputs == nil {
		on := true
		c.Tree.DrawableOutputs = &on
	}
	if c.Mount.PoolSize == nil {
		size := 8
		c.Mount.PoolSize = &size
	}
	if c.Layout.Workers == 0 {
		c.Layout.Workers = 1
	}
	if c.Layout.Queue == 0 {
		c.Layout.Queue = 16
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "mountgraph"
	}
}

// Validate checks field ranges and the schema version.
func (c *Config) Validate() error {
	if !semver.IsValid(c.Version) {
		return fmt.Errorf("version must be a semantic version such as %q (got %q)", SchemaVersion, c.Version)
	}
	if semver.Major(c.Version) != semver.Major(SchemaVersion) {
		return fmt.Errorf("unsupported schema version %s (want %s.x)", c.Version, semver.Major(SchemaVersion))
	}
	if semver.Compare(c.Version, SchemaVersion) > 0 {
		return fmt.Errorf("schema version %s is newer than supported %s", c.Version, SchemaVersion)
	}
	if c.Layout.Workers < 0 {
		return fmt.Errorf("layout.workers cannot be negative (got %d)", c.Layout.Workers)
	}
	if c.Layout.Queue < 0 {
		return fmt.Errorf("layout.queue cannot be negative (got %d)", c.Layout.Queue)
	}
	if c.Log.Verbosity < 0 {
		return fmt.Errorf("log.verbosity cannot be negative (got %d)", c.Log.Verbosity)
	}
	for _, r := range c.Metrics.Namespace {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return fmt.Errorf("metrics.namespace contains invalid character %q", r)
		}
	}
	return nil
}

// DrawableOutputsEnabled reports whether backgrounds and foregrounds become
// separate outputs.
func (c *Config) DrawableOutputsEnabled() bool {
	return c.Tree.DrawableOutputs == nil || *c.Tree.DrawableOutputs
}

// PoolSize returns the configured content pool size.
func (c *Config) PoolSize() int {
	if c.Mount.PoolSize == nil {
		return 8
	}
	return *c.Mount.PoolSize
}

// Logger returns a stderr logger honoring the configured verbosity.
func (c *Config) Logger() logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(os.Stderr, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(os.Stderr, args)
	}, funcr.Options{Verbosity: c.Log.Verbosity}).WithName("mountgraph")
}
