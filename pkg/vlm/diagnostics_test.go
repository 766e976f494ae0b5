package vlm_test

import (
	"encoding/json"
	"testing"

	"github.com/SDen99/DatasetViewer-sub000/pkg/core"
	"github.com/SDen99/DatasetViewer-sub000/pkg/vlm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticKind_Severity(t *testing.T) {
	tests := []struct {
		kind     vlm.DiagnosticKind
		want     core.Severity
		blocking bool
	}{
		{vlm.DiagMissingValueList, core.SeverityError, true},
		{vlm.DiagMissingItemOID, core.SeverityWarning, true},
		{vlm.DiagMissingItemDef, core.SeverityWarning, true},
		{vlm.DiagUnknownParameter, core.SeverityWarning, true},
		{vlm.DiagMissingWhereClause, core.SeverityInfo, false},
		{vlm.DiagMissingMethod, core.SeverityInfo, false},
		{vlm.DiagMissingCodeList, core.SeverityInfo, false},
		{vlm.DiagBlankDuplicateValue, core.SeverityHint, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Severity())
			assert.Equal(t, tt.blocking, tt.kind.Severity().Blocking())
		})
	}
}

func TestDiagnostics_SeverityEncodesByName(t *testing.T) {
	diag := &vlm.Diagnostics{}
	diag.Add(vlm.DiagMissingValueList, "VL.X", "value list of %s not found", "AVAL")
	diag.Add(vlm.DiagBlankDuplicateValue, "CL.DTYPE", "blank")

	data, err := json.Marshal(diag)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"severity":"error"`)
	assert.Contains(t, string(data), `"severity":"hint"`)
	assert.Equal(t, "unknown", core.Severity(9).String())
}

func TestDiagnostics_NilIsSafe(t *testing.T) {
	var diag *vlm.Diagnostics
	diag.Add(vlm.DiagMissingMethod, "MT.X", "gone")
	assert.Zero(t, diag.Len())
	assert.Zero(t, diag.Count(vlm.DiagMissingMethod))
	assert.Empty(t, diag.Counts())
}
