package output

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Table renders header and rows as a box table in text mode and as a
// markdown table otherwise. Markdown cells escape pipes and
// newlines. An empty table prints "(0 rows)".
func (r *Renderer) Table(header []string, rows [][]string) {
	if len(rows) == 0 {
		r.Println("(0 rows)")
		return
	}

	t := table.NewWriter()
	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = v
		}
		t.AppendRow(tr)
	}

	if r.EffectiveMode() != ModeText {
		r.Println(t.RenderMarkdown())
		return
	}
	t.SetStyle(table.StyleLight)
	r.Println(t.Render())
	r.Printf("(%d rows)\n", len(rows))
}

// KeyValue writes one labelled value in the effective mode.
func (r *Renderer) KeyValue(key string, value any) {
	v := fmt.Sprint(value)
	if r.EffectiveMode() == ModeText {
		r.Printf("  %s: %s\n", r.styles.Bold.Render(key), v)
		return
	}
	r.Println(FormatKeyValue(key, v))
}
