package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(mode Mode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"TEXT", ModeText, false},
		{"md", ModeMarkdown, false},
		{"markdown", ModeMarkdown, false},
		{" json ", ModeJSON, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{"auto on terminal", ModeAuto, true, ModeText},
		{"auto piped", ModeAuto, false, ModeMarkdown},
		{"explicit text piped", ModeText, false, ModeText},
		{"json on terminal", ModeJSON, true, ModeJSON},
		{"invalid falls back to auto", Mode("xml"), false, ModeMarkdown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRenderer(tt.mode, tt.isTTY)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestRenderer_NewRendererDetectsPipe(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestRenderer_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	r, _, _ := newTestRenderer(ModeText, true)
	assert.True(t, r.IsTTY())
	assert.Equal(t, "ok", r.Styles().Success.Render("ok"))
	assert.Equal(t, "a b", r.Styles().Emphasize("a **b**"))
}

func TestRenderer_Table(t *testing.T) {
	t.Run("markdown", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeMarkdown, false)
		r.Table([]string{"PARAMCD", "AVAL"}, [][]string{{"SYSBP", "a|b"}, {"DIABP", "x\ny"}})

		got := out.String()
		assert.Contains(t, got, "| PARAMCD | AVAL |")
		assert.Contains(t, got, `a\|b`)
		assert.Contains(t, got, "x<br/>y")
	})

	t.Run("text", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeText, false)
		r.Table([]string{"PARAMCD"}, [][]string{{"SYSBP"}})

		assert.Contains(t, out.String(), "SYSBP")
		assert.Contains(t, out.String(), "(1 rows)")
	})

	t.Run("empty", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeText, false)
		r.Table([]string{"PARAMCD"}, nil)
		assert.Equal(t, "(0 rows)\n", out.String())
	})
}

func TestRenderer_Messages(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeMarkdown, false)

	r.Success("done")
	r.Warning("careful")
	r.Error("broken")
	r.StatusLine("defineview.yaml", "success", "")
	r.StatusLine("ADVS", "warning", "2 skipped")

	assert.Equal(t, "✓ done\n- ✓ defineview.yaml\n- ! ADVS (2 skipped)\n", out.String())
	assert.Equal(t, "Warning: careful\nError: broken\n", errOut.String())
}

func TestRenderer_JSON(t *testing.T) {
	r, out, _ := newTestRenderer(ModeJSON, false)
	require.NoError(t, r.JSON(map[string]string{"cond": "AGE < 65"}))
	assert.Equal(t, "{\n  \"cond\": \"AGE < 65\"\n}\n", out.String())
}

func TestStyles_Emphasize(t *testing.T) {
	s := NewStyles(false)

	assert.Equal(t, "AVAL and Origin: x", s.Emphasize("**AVAL** and **Origin:** x"))
	assert.Equal(t, "open **marker", s.Emphasize("open **marker"))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(0, "Title"))
	assert.Equal(t, "### Sub", FormatHeader(3, "Sub"))
	assert.Equal(t, "- **Rows:** 4", FormatKeyValue("Rows", "4"))
	assert.Equal(t, "```xml\n<a/>\n```", FormatCodeBlock("xml", "<a/>\n"))
}
