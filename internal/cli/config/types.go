// Package config provides configuration management for the defineview CLI.
//
// This package extends the shared configuration types from internal/config
// with CLI-specific fields. The shared types are re-exported here via type
// aliases for convenience.
package config

import (
	sharedcfg "github.com/SDen99/DatasetViewer-sub000/internal/config"
)

// ProjectConfig is an alias for the shared project configuration.
type ProjectConfig = sharedcfg.ProjectConfig

// VLMConfig is an alias for the shared value-level metadata configuration.
type VLMConfig = sharedcfg.VLMConfig

// ServeConfig holds configuration for the browse API server.
type ServeConfig struct {
	Port  int  `koanf:"port" yaml:"port"`
	Watch bool `koanf:"watch" yaml:"watch"`
}

// DefaultServeConfig returns a ServeConfig with default values.
func DefaultServeConfig() *ServeConfig {
	return &ServeConfig{
		Port:  sharedcfg.DefaultServePort,
		Watch: true,
	}
}

// GetServeConfig returns the serve config with defaults applied for any unset values.
func (c *Config) GetServeConfig() *ServeConfig {
	if c.Serve == nil {
		return DefaultServeConfig()
	}
	s := *c.Serve
	if s.Port == 0 {
		s.Port = sharedcfg.DefaultServePort
	}
	return &s
}

// ExportConfig holds configuration for the SQLite export.
type ExportConfig struct {
	Database string `koanf:"database" yaml:"database"`
}

// Config holds all CLI configuration options.
type Config struct {
	OutputFormat      string        `koanf:"output" yaml:"output"`
	LogLevel          string        `koanf:"log_level" yaml:"log_level"`
	Verbose           bool          `koanf:"verbose" yaml:"verbose"`
	MetricsFile       string        `koanf:"metrics_file" yaml:"metrics_file,omitempty"`
	Namespaces        []string      `koanf:"namespaces" yaml:"namespaces"`
	DatasetExtensions []string      `koanf:"dataset_extensions" yaml:"dataset_extensions"`
	VLM               *VLMConfig    `koanf:"vlm" yaml:"vlm"`
	Serve             *ServeConfig  `koanf:"serve" yaml:"serve"`
	Export            *ExportConfig `koanf:"export" yaml:"export"`

	// ProjectRoot is the directory holding the config file, or the working
	// directory when there is none.
	ProjectRoot string `koanf:"-" yaml:"-"`
}

// Project returns the parsing and resolution part of the config.
func (c *Config) Project() *ProjectConfig {
	return &ProjectConfig{
		Namespaces:        c.Namespaces,
		DatasetExtensions: c.DatasetExtensions,
		VLM:               c.VLM,
	}
}

// Default configuration values.
const (
	DefaultOutput   = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel = "warn"
)

// DefaultConfig returns the configuration written by `defineview init`.
func DefaultConfig() *Config {
	return &Config{
		OutputFormat:      DefaultOutput,
		LogLevel:          DefaultLogLevel,
		Namespaces:        []string{"http://www.cdisc.org/ns/def/v2.0", "http://www.cdisc.org/ns/def/v2.1"},
		DatasetExtensions: sharedcfg.DefaultDatasetExtensions(),
		VLM:               sharedcfg.DefaultVLMConfig(),
		Serve:             DefaultServeConfig(),
		Export:            &ExportConfig{Database: sharedcfg.DefaultExportDatabase},
	}
}
