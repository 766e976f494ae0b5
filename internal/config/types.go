// Package config provides shared configuration types for defineview.
// This package is decoupled from CLI concerns so the engine and the
// server can be configured without importing cobra or koanf providers.
package config

import (
	"fmt"
	"maps"
	"slices"

	"github.com/SDen99/DatasetViewer-sub000/pkg/core"
	"github.com/SDen99/DatasetViewer-sub000/pkg/parser"
	"github.com/SDen99/DatasetViewer-sub000/pkg/vlm"
)

// ProjectConfig holds the settings that shape parsing and resolution.
type ProjectConfig struct {
	Namespaces        []string   `koanf:"namespaces" yaml:"namespaces"`
	DatasetExtensions []string   `koanf:"dataset_extensions" yaml:"dataset_extensions"`
	VLM               *VLMConfig `koanf:"vlm" yaml:"vlm"`
}

// VLMConfig holds the value-level metadata vocabularies. Empty fields fall
// back to the built-in ADaM conventions.
type VLMConfig struct {
	// DerivationMode is "placeholder" or "unresolved".
	DerivationMode          string              `koanf:"derivation_mode" yaml:"derivation_mode"`
	StratificationVariables []string            `koanf:"stratification_variables" yaml:"stratification_variables"`
	DuplicateSources        []string            `koanf:"duplicate_sources" yaml:"duplicate_sources"`
	DuplicateValues         map[string][]string `koanf:"duplicate_values" yaml:"duplicate_values"`
	FallbackValues          []string            `koanf:"fallback_values" yaml:"fallback_values"`
	DerivationKeywords      []string            `koanf:"derivation_keywords" yaml:"derivation_keywords"`
	DefaultDerivationSource string              `koanf:"default_derivation_source" yaml:"default_derivation_source"`
	DuplicateAwareVariables []string            `koanf:"duplicate_aware_variables" yaml:"duplicate_aware_variables"`
}

// DefaultVLMConfig returns a VLMConfig holding the built-in rules.
func DefaultVLMConfig() *VLMConfig {
	r := vlm.DefaultRules()
	return &VLMConfig{
		DerivationMode:          DefaultDerivationMode,
		StratificationVariables: r.StratificationVariables,
		DuplicateSources:        r.DuplicateSources,
		DuplicateValues:         r.DuplicateValues,
		FallbackValues:          r.FallbackValues,
		DerivationKeywords:      r.DerivationKeywords,
		DefaultDerivationSource: r.DefaultDerivationSource,
		DuplicateAwareVariables: r.DuplicateAwareVariables,
	}
}

// Rules converts the config to vlm.Rules. Slices and maps are copied.
func (c *VLMConfig) Rules() vlm.Rules {
	if c == nil {
		return vlm.DefaultRules()
	}
	var values map[string][]string
	if c.DuplicateValues != nil {
		values = make(map[string][]string, len(c.DuplicateValues))
		for k, v := range c.DuplicateValues {
			values[k] = slices.Clone(v)
		}
	}
	return vlm.Rules{
		StratificationVariables: slices.Clone(c.StratificationVariables),
		DuplicateSources:        slices.Clone(c.DuplicateSources),
		DuplicateValues:         values,
		FallbackValues:          slices.Clone(c.FallbackValues),
		DerivationKeywords:      slices.Clone(c.DerivationKeywords),
		DefaultDerivationSource: c.DefaultDerivationSource,
		DuplicateAwareVariables: slices.Clone(c.DuplicateAwareVariables),
	}
}

// Validate checks the derivation mode and the duplicate value table.
func (c *VLMConfig) Validate() error {
	if c == nil {
		return nil
	}
	if _, err := vlm.NewDeriver(c.DerivationMode, c.Rules()); err != nil {
		return fmt.Errorf("vlm.derivation_mode: %w", err)
	}
	for _, k := range slices.Sorted(maps.Keys(c.DuplicateValues)) {
		if len(c.DuplicateValues[k]) == 0 {
			return fmt.Errorf("vlm.duplicate_values.%s: at least one value is required", k)
		}
	}
	return nil
}

// ParserOptions returns the extraction options for this project.
func (c *ProjectConfig) ParserOptions() parser.Options {
	if c == nil {
		return parser.Options{}
	}
	return parser.Options{Namespaces: slices.Clone(c.Namespaces)}
}

// Normalizer returns the dataset-name normaliser for this project.
func (c *ProjectConfig) Normalizer() core.NameNormalizer {
	if c == nil || len(c.DatasetExtensions) == 0 {
		return core.NormalizeDatasetName
	}
	return core.NewNameNormalizer(c.DatasetExtensions...)
}

// BuilderOptions returns vlm.Options for this project. The logger is
// passed through unchanged.
func (c *ProjectConfig) BuilderOptions() (vlm.Options, error) {
	var vc *VLMConfig
	if c != nil {
		vc = c.VLM
	}
	rules := vc.Rules()
	mode := DefaultDerivationMode
	if vc != nil && vc.DerivationMode != "" {
		mode = vc.DerivationMode
	}
	deriver, err := vlm.NewDeriver(mode, rules)
	if err != nil {
		return vlm.Options{}, err
	}
	return vlm.Options{
		Rules:     rules,
		Normalize: c.Normalizer(),
		Deriver:   deriver,
	}, nil
}

// Validate checks the whole project config.
func (c *ProjectConfig) Validate() error {
	if c == nil {
		return nil
	}
	for _, ns := range c.Namespaces {
		if ns == "" {
			return fmt.Errorf("namespaces: empty namespace URI")
		}
	}
	return c.VLM.Validate()
}
