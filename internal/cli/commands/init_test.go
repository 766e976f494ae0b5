package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/SDen99/DatasetViewer-sub000/internal/cli/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name      string
		setupDir  func(t *testing.T, dir string) // setup before running
		args      []string
		wantErr   bool
		wantFiles []string
		noFiles   []string
	}{
		{
			name:      "init empty directory",
			args:      []string{},
			wantErr:   false,
			wantFiles: []string{"defineview.yaml"},
			noFiles:   []string{"define.xml"},
		},
		{
			name: "init existing config without force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "defineview.yaml"), []byte("existing"), 0600)
			},
			args:    []string{},
			wantErr: true,
		},
		{
			name: "init existing config with force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "defineview.yaml"), []byte("existing"), 0600)
			},
			args:      []string{"--force"},
			wantErr:   false,
			wantFiles: []string{"defineview.yaml"},
		},
		{
			name:      "init with example",
			args:      []string{"--example"},
			wantErr:   false,
			wantFiles: []string{"defineview.yaml", "define.xml", ".gitignore"},
			noFiles:   []string{"gitignore"},
		},
		{
			name:      "init new directory",
			args:      []string{"study", "--example"},
			wantErr:   false,
			wantFiles: []string{"study/defineview.yaml", "study/define.xml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Chdir(tmpDir)

			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			cmd := NewInitCommand()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, buf.String(), "defineview initialized!")

			for _, f := range tt.wantFiles {
				assert.FileExists(t, filepath.Join(tmpDir, f))
			}
			for _, f := range tt.noFiles {
				assert.NoFileExists(t, filepath.Join(tmpDir, f))
			}
		})
	}
}

func TestInitCreatesValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	t.Cleanup(config.ResetConfig)

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	require.NoError(t, cmd.Execute())

	content, err := os.ReadFile("defineview.yaml")
	require.NoError(t, err, "failed to read defineview.yaml")

	for _, expected := range []string{
		"output: auto",
		"derivation_mode: placeholder",
		"port: 8765",
		"database: defineview.db",
		"- http://www.cdisc.org/ns/def/v2.1",
	} {
		assert.Contains(t, string(content), expected, "config should contain %q", expected)
	}

	cfg, err := config.LoadConfig(filepath.Join(tmpDir, "defineview.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().VLM.DerivationMode, cfg.VLM.DerivationMode)
	assert.Equal(t, config.DefaultConfig().VLM.DuplicateSources, cfg.VLM.DuplicateSources)
	assert.Equal(t, filepath.Join(tmpDir, "defineview.db"), cfg.Export.Database)
}

func TestInitExampleIsLoadable(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	useOutput(t, "markdown")

	_, _, err := executeCommand(t, NewInitCommand(), "--example")
	require.NoError(t, err)

	out, _, err := executeCommand(t, NewVLMCommand(), filepath.Join(tmpDir, "define.xml"), "ADVS")
	require.NoError(t, err)
	assert.Contains(t, out, "LOCF(AVAL)")
}

func TestRenameSpecialFiles(t *testing.T) {
	assert.Equal(t, ".gitignore", renameSpecialFiles("gitignore"))
	assert.Equal(t, "sub/.gitignore", renameSpecialFiles("sub/gitignore"))
	assert.Equal(t, "define.xml", renameSpecialFiles("define.xml"))
}
