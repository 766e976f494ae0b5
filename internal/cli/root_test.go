package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/SDen99/DatasetViewer-sub000/internal/cli/config"
	clitest "github.com/SDen99/DatasetViewer-sub000/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Cleanup(config.ResetConfig)

	cmd := NewRootCmd()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), errOut.String(), err
}

func TestRootCmd_Help(t *testing.T) {
	out, _, err := runRoot(t, "--help")
	require.NoError(t, err)

	for _, name := range []string{"summary", "datasets", "vlm", "cell", "check", "export", "exports", "serve", "init", "completion", "version"} {
		assert.Contains(t, out, name)
	}
	for _, flag := range []string{"--config", "--output", "--log-level", "--metrics-file", "--verbose"} {
		assert.Contains(t, out, flag)
	}
}

func TestRootCmd_Version(t *testing.T) {
	out, _, err := runRoot(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "defineview "+Version)
	assert.Contains(t, out, "Define-XML value-level metadata viewer")
}

func TestRootCmd_Completion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, _, err := runRoot(t, "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, out, "defineview")
		})
	}

	_, _, err := runRoot(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestRootCmd_UnknownCommand(t *testing.T) {
	_, _, err := runRoot(t, "lineage")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	_, _, err := runRoot(t, "--log-level", "loud", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRootCmd_OutputFlagReachesCommands(t *testing.T) {
	path := clitest.WriteSampleDefine(t, t.TempDir())

	out, _, err := runRoot(t, "--output", "json", "summary", path)
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	require.Len(t, got, 1)
	assert.Equal(t, path, got[0]["file"])
}

func TestRootCmd_VerboseLogsToStderr(t *testing.T) {
	path := clitest.WriteSampleDefine(t, t.TempDir())

	out, errOut, err := runRoot(t, "-v", "-o", "markdown", "datasets", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ADVS")
	assert.Contains(t, errOut, "level=DEBUG")
}

func TestRootCmd_MetricsFile(t *testing.T) {
	dir := t.TempDir()
	path := clitest.WriteSampleDefine(t, dir)
	metricsPath := filepath.Join(dir, "defineview.prom")

	_, _, err := runRoot(t, "--metrics-file", metricsPath, "-o", "json", "vlm", path, "ADVS")
	require.NoError(t, err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "defineview_documents_parsed_total")
	assert.Contains(t, string(data), "defineview_rows_materialized_total")
}

func TestGetConfig_Default(t *testing.T) {
	cfg := GetConfig(t.Context())
	require.NotNil(t, cfg)
	assert.Equal(t, config.DefaultOutput, cfg.OutputFormat)
	assert.NotNil(t, GetRenderer(t.Context()))
}
