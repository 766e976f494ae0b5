package config

import (
	"slices"

	"github.com/SDen99/DatasetViewer-sub000/pkg/core"
)

// Default configuration values.
const (
	DefaultDerivationMode = "placeholder"
	DefaultServePort      = 8765
	DefaultExportDatabase = "defineview.db"
)

// DefaultDatasetExtensions returns the file extensions stripped from
// dataset names.
func DefaultDatasetExtensions() []string {
	return slices.Clone(core.DefaultDatasetExtensions)
}

// ApplyDefaults fills unset fields of a ProjectConfig.
func ApplyDefaults(c *ProjectConfig) {
	if c == nil {
		return
	}
	if c.VLM == nil {
		c.VLM = DefaultVLMConfig()
	}
	if c.VLM.DerivationMode == "" {
		c.VLM.DerivationMode = DefaultDerivationMode
	}
}
