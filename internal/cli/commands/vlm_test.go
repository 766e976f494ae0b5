package commands

import (
	"encoding/json"
	"strings"
	"testing"

	clitest "github.com/SDen99/DatasetViewer-sub000/internal/cli/testutil"
	"github.com/SDen99/DatasetViewer-sub000/internal/engine"
	"github.com/SDen99/DatasetViewer-sub000/internal/testutil"
	"github.com/SDen99/DatasetViewer-sub000/pkg/format"
	"github.com/SDen99/DatasetViewer-sub000/pkg/vlm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ghostDefine points the DIABP value list item at an ItemDef that does not
// exist.
var ghostDefine = strings.Replace(testutil.SampleDefineXML,
	`ItemOID="IT.ADVS.AVAL.DIABP" OrderNumber="2"`,
	`ItemOID="IT.ADVS.AVAL.GHOST" OrderNumber="2"`, 1)

func TestVLMCommand_JSON(t *testing.T) {
	useOutput(t, "json")
	path := clitest.WriteSampleDefine(t, t.TempDir())

	out, _, err := executeCommand(t, NewVLMCommand(), path, "advs.xpt")
	require.NoError(t, err)

	var res vlm.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "ADVS", res.Dataset)
	assert.Equal(t, []string{"DTYPE"}, res.DuplicateSources)
	require.Len(t, res.Rows, 4)

	keys := make([]string, 0, len(res.Rows))
	for _, row := range res.Rows {
		keys = append(keys, row.Paramcd+"/"+row.DuplicateValue)
	}
	assert.Equal(t, []string{"DIABP/", "DIABP/LOCF", "DIABP/WORST", "SYSBP/"}, keys)
	assert.Equal(t, "LOCF(AVAL)", res.Rows[1].Cells["AVAL"].Value)
	assert.Equal(t, "LOCF", res.Rows[1].Cells["AVAL"].Derivation)
}

func TestVLMCommand_Markdown(t *testing.T) {
	useOutput(t, "markdown")
	path := clitest.WriteSampleDefine(t, t.TempDir())

	tests := []struct {
		name    string
		args    []string
		want    []string
		exclude []string
	}{
		{
			name:    "populated columns only",
			args:    []string{path, "ADVS"},
			want:    []string{"# ADVS value-level metadata (4 rows)", "- **Duplicate sources:** DTYPE", "LOCF(AVAL)", "WORST"},
			exclude: []string{"USUBJID"},
		},
		{
			name: "all columns",
			args: []string{path, "ADVS", "--all-columns"},
			want: []string{"USUBJID"},
		},
		{
			name:    "unresolved derivation",
			args:    []string{path, "ADVS", "--derivation", "unresolved"},
			want:    []string{unresolvedMarker},
			exclude: []string{"LOCF(AVAL)"},
		},
		{
			name: "dataset without value-level metadata",
			args: []string{path, "ADSL"},
			want: []string{"# ADSL value-level metadata (0 rows)", "(0 rows)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := executeCommand(t, NewVLMCommand(), tt.args...)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, x := range tt.exclude {
				assert.NotContains(t, out, x)
			}
			clitest.AssertNoANSI(t, out)
		})
	}
}

func TestVLMCommand_Diagnostics(t *testing.T) {
	useOutput(t, "markdown")
	path := clitest.WriteDefine(t, t.TempDir(), "define.xml", ghostDefine)

	_, errOut, err := executeCommand(t, NewVLMCommand(), path, "ADVS")
	require.NoError(t, err)
	assert.Contains(t, errOut, "1 diagnostics (1 item refs skipped)")

	out, _, err := executeCommand(t, NewVLMCommand(), path, "ADVS", "--diagnostics")
	require.NoError(t, err)
	assert.Contains(t, out, string(vlm.DiagMissingItemDef))
	assert.Contains(t, out, "IT.ADVS.AVAL.GHOST")
}

func TestVLMCommand_Errors(t *testing.T) {
	path := clitest.WriteSampleDefine(t, t.TempDir())

	t.Run("unknown dataset", func(t *testing.T) {
		_, _, err := executeCommand(t, NewVLMCommand(), path, "ADAE")
		assert.ErrorIs(t, err, engine.ErrDatasetNotFound)
	})

	t.Run("unknown derivation mode", func(t *testing.T) {
		_, _, err := executeCommand(t, NewVLMCommand(), path, "ADVS", "--derivation", "guess")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "derivation")
	})
}

func TestCellText(t *testing.T) {
	row := &vlm.Row{
		Paramcd: "SYSBP",
		Cells: map[string]*vlm.Cell{
			"AVAL":  {Value: "1"},
			"AVALC": {Unresolved: true},
		},
	}
	all := &vlm.Row{Paramcd: vlm.AllParameters, NonParameterized: true, Cells: map[string]*vlm.Cell{}}

	tests := []struct {
		name   string
		row    *vlm.Row
		column string
		want   string
	}{
		{"value", row, "AVAL", "1"},
		{"unresolved", row, "AVALC", unresolvedMarker},
		{"missing", row, "AVALU", ""},
		{"all parameters code", all, vlm.ParamcdVariable, format.NonParameterizedGlyph},
		{"all parameters label", all, vlm.ParamVariable, format.NonParameterizedLabel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cellText(tt.row, tt.column))
		})
	}
}
