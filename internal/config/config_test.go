package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/SDen99/DatasetViewer-sub000/pkg/vlm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVLMConfig_Rules(t *testing.T) {
	t.Run("nil config gives defaults", func(t *testing.T) {
		var c *VLMConfig
		assert.Equal(t, vlm.DefaultRules(), c.Rules())
	})

	t.Run("default config round trips", func(t *testing.T) {
		assert.Equal(t, vlm.DefaultRules(), DefaultVLMConfig().Rules())
	})

	t.Run("rules do not alias the config", func(t *testing.T) {
		c := &VLMConfig{
			FallbackValues:  []string{"A"},
			DuplicateValues: map[string][]string{"DTYPE": {"LOCF"}},
		}
		r := c.Rules()
		r.FallbackValues[0] = "Z"
		r.DuplicateValues["DTYPE"][0] = "Z"

		assert.Equal(t, []string{"A"}, c.FallbackValues)
		assert.Equal(t, []string{"LOCF"}, c.DuplicateValues["DTYPE"])
	})
}

func TestVLMConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *VLMConfig
		wantErr string
	}{
		{name: "nil", cfg: nil},
		{name: "defaults", cfg: DefaultVLMConfig()},
		{name: "unresolved mode", cfg: &VLMConfig{DerivationMode: "unresolved"}},
		{name: "bad mode", cfg: &VLMConfig{DerivationMode: "random"}, wantErr: "vlm.derivation_mode"},
		{
			name:    "empty duplicate values",
			cfg:     &VLMConfig{DuplicateValues: map[string][]string{"DTYPE": {}}},
			wantErr: "vlm.duplicate_values.DTYPE",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProjectConfig_BuilderOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var c *ProjectConfig
		opts, err := c.BuilderOptions()
		require.NoError(t, err)
		assert.Equal(t, vlm.PlaceholderDeriver{Rules: vlm.DefaultRules()}, opts.Deriver)
		assert.Equal(t, "ADSL", opts.Normalize("adsl.xpt"))
	})

	t.Run("custom extensions and mode", func(t *testing.T) {
		c := &ProjectConfig{
			DatasetExtensions: []string{".dat"},
			VLM:               &VLMConfig{DerivationMode: "unresolved"},
		}
		opts, err := c.BuilderOptions()
		require.NoError(t, err)
		assert.Equal(t, vlm.UnresolvedDeriver{}, opts.Deriver)
		assert.Equal(t, "ADSL", opts.Normalize("adsl.dat"))
		assert.Equal(t, "ADSL.XPT", opts.Normalize("adsl.xpt"))
	})

	t.Run("invalid mode", func(t *testing.T) {
		c := &ProjectConfig{VLM: &VLMConfig{DerivationMode: "nope"}}
		_, err := c.BuilderOptions()
		require.Error(t, err)
	})
}

func TestProjectConfig_Validate(t *testing.T) {
	assert.NoError(t, (*ProjectConfig)(nil).Validate())
	assert.Error(t, (&ProjectConfig{Namespaces: []string{""}}).Validate())
	assert.NoError(t, (&ProjectConfig{Namespaces: []string{"urn:x"}}).Validate())
}

func TestApplyDefaults(t *testing.T) {
	c := &ProjectConfig{}
	ApplyDefaults(c)
	require.NotNil(t, c.VLM)
	assert.Equal(t, DefaultDerivationMode, c.VLM.DerivationMode)

	c = &ProjectConfig{VLM: &VLMConfig{FallbackValues: []string{"X"}}}
	ApplyDefaults(c)
	assert.Equal(t, []string{"X"}, c.VLM.FallbackValues)
	assert.Equal(t, DefaultDerivationMode, c.VLM.DerivationMode)

	ApplyDefaults(nil)
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileNameAlt), []byte("output: json\n"), 0o600))

	assert.Equal(t, root, FindProjectRoot(nested, 10))
	assert.Empty(t, FindProjectRoot(nested, 2))
	assert.Equal(t, filepath.Join(root, ConfigFileNameAlt), FindConfigFile(root))
	assert.Empty(t, FindConfigFile(nested))
}
