package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	clitest "github.com/SDen99/DatasetViewer-sub000/internal/cli/testutil"
	"github.com/SDen99/DatasetViewer-sub000/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryCommand(t *testing.T) {
	path := clitest.WriteSampleDefine(t, t.TempDir())

	t.Run("markdown", func(t *testing.T) {
		useOutput(t, "markdown")
		out, _, err := executeCommand(t, NewSummaryCommand(), path)
		require.NoError(t, err)

		for _, want := range []string{
			"# TEST-001",
			"- **Metadata version:** Test ADaM",
			"- **Define version:** 2.0.0",
			"- **Datasets:** 2",
			"- **Value lists:** 1",
			"- **Where clauses:** 2",
			"- **Analysis results:** 1",
		} {
			assert.Contains(t, out, want)
		}
		// Protocol equals the study name and is not repeated.
		assert.NotContains(t, out, "Protocol")
		clitest.AssertNoANSI(t, out)
		clitest.AssertValidMarkdown(t, out)
	})

	t.Run("json", func(t *testing.T) {
		useOutput(t, "json")
		out, _, err := executeCommand(t, NewSummaryCommand(), path)
		require.NoError(t, err)

		var got []SummaryOutput
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		require.Len(t, got, 1)
		assert.Equal(t, path, got[0].File)
		assert.Equal(t, "TEST-001", got[0].Study)
		assert.Equal(t, 2, got[0].Datasets)
		assert.Equal(t, 3, got[0].Methods)
		assert.Equal(t, 3, got[0].CodeLists)
	})
}

func TestSummaryCommand_MultipleFiles(t *testing.T) {
	useOutput(t, "json")
	first := clitest.WriteSampleDefine(t, t.TempDir())
	second := clitest.WriteSampleDefine(t, t.TempDir())

	out, _, err := executeCommand(t, NewSummaryCommand(), first, second)
	require.NoError(t, err)

	var got []SummaryOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, first, got[0].File)
	assert.Equal(t, second, got[1].File)
}

func TestSummaryCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	good := clitest.WriteSampleDefine(t, dir)
	broken := clitest.WriteDefine(t, dir, "broken.xml", "<ODM><Study>")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.xml"), nil, 0600))

	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{name: "missing file", args: []string{filepath.Join(dir, "nope.xml")}, wantMsg: "failed to read"},
		{name: "malformed xml", args: []string{good, broken}, wantErr: parser.ErrXMLSyntax},
		{name: "empty file", args: []string{filepath.Join(dir, "empty.xml")}, wantErr: parser.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(t, NewSummaryCommand(), tt.args...)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}
