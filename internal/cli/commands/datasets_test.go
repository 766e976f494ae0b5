package commands

import (
	"encoding/json"
	"testing"

	clitest "github.com/SDen99/DatasetViewer-sub000/internal/cli/testutil"
	"github.com/SDen99/DatasetViewer-sub000/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetsCommand(t *testing.T) {
	path := clitest.WriteSampleDefine(t, t.TempDir())

	t.Run("json", func(t *testing.T) {
		useOutput(t, "json")
		out, _, err := executeCommand(t, NewDatasetsCommand(), path)
		require.NoError(t, err)

		var got []engine.DatasetInfo
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		require.Len(t, got, 2)

		assert.Equal(t, "ADSL", got[0].Name)
		assert.Equal(t, 3, got[0].Variables)
		assert.Zero(t, got[0].Parameters)
		assert.False(t, got[0].HasVLM())

		assert.Equal(t, "ADVS", got[1].Name)
		assert.Equal(t, "Vital Signs Analysis Dataset", got[1].Label)
		assert.Equal(t, 5, got[1].Variables)
		assert.Equal(t, 2, got[1].Parameters)
		assert.True(t, got[1].HasVLM())
	})

	t.Run("markdown", func(t *testing.T) {
		useOutput(t, "markdown")
		out, _, err := executeCommand(t, NewDatasetsCommand(), path)
		require.NoError(t, err)

		assert.Contains(t, out, "# Datasets (2 total)")
		assert.Contains(t, out, "Subject-Level Analysis Dataset")
		assert.Contains(t, out, "BASIC DATA STRUCTURE")
		clitest.AssertNoANSI(t, out)
	})
}
