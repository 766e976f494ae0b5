package commands

import (
	"fmt"
	"strings"

	"github.com/SDen99/DatasetViewer-sub000/internal/cli/output"
	"github.com/SDen99/DatasetViewer-sub000/pkg/format"
	"github.com/SDen99/DatasetViewer-sub000/pkg/vlm"
	"github.com/spf13/cobra"
)

// VLMOptions holds options for the vlm command.
type VLMOptions struct {
	Derivation  string // Placeholder mode override: placeholder, unresolved
	AllColumns  bool   // Include dataset variables without any populated cell
	Diagnostics bool   // List resolution diagnostics after the table
}

// unresolvedMarker is shown for cells whose value could not be derived.
const unresolvedMarker = "?"

// NewVLMCommand creates the vlm command.
func NewVLMCommand() *cobra.Command {
	opts := &VLMOptions{}
	cmd := &cobra.Command{
		Use:   "vlm <define.xml> <dataset>",
		Short: "Show the value-level metadata table of a dataset",
		Long: `Materialize the value-level metadata of a dataset into a table with one row
per parameter (PARAMCD), plus one extra row per value of every duplicate
source (such as DTYPE) that applies to the parameter.

Cells hold placeholder values derived from the variable's data type.
Cells in duplicate rows whose method is LOCF, WOCF or BOCF read as
"LOCF(AVAL)" and similar. Use --derivation unresolved to leave every
cell unresolved instead.

The dataset may be given as ADVS, advs or advs.xpt.`,
		Example: `  # Show the ADVS table
  defineview vlm define.xml ADVS

  # Include every dataset variable as a column
  defineview vlm define.xml advs.xpt --all-columns

  # Machine-readable, with diagnostics
  defineview vlm define.xml ADVS -o json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVLM(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Derivation, "derivation", "", "Cell derivation mode: placeholder, unresolved")
	cmd.Flags().BoolVar(&opts.AllColumns, "all-columns", false, "Show dataset variables that have no value-level metadata")
	cmd.Flags().BoolVar(&opts.Diagnostics, "diagnostics", false, "List resolution diagnostics")

	return cmd
}

func runVLM(cmd *cobra.Command, path, dataset string, opts *VLMOptions) error {
	cfg := getConfig()
	if cmd.Flags().Changed("derivation") {
		cfg = withDerivationMode(cfg, opts.Derivation)
	}

	cmdCtx, cleanup, err := newCommandContext(cmd, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	s, err := cmdCtx.Engine.Load(cmd.Context(), path)
	if err != nil {
		return err
	}
	res, err := cmdCtx.Engine.Materialize(s.ID, dataset)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(res)
	}

	r.Header(1, fmt.Sprintf("%s value-level metadata (%d rows)", res.Dataset, len(res.Rows)))
	if r.EffectiveMode() != output.ModeText {
		r.Println("")
	}
	if len(res.DuplicateSources) > 0 {
		r.KeyValue("Duplicate sources", strings.Join(res.DuplicateSources, ", "))
		r.Println("")
	}

	columns := res.Columns
	if !opts.AllColumns {
		columns = populatedColumns(res)
	}
	r.Table(columns, vlmRows(res, columns))

	if n := res.Diagnostics.Len(); n > 0 {
		if opts.Diagnostics {
			r.Println("")
			renderDiagnostics(r, res.Diagnostics)
		} else {
			r.Warning(fmt.Sprintf("%d diagnostics (%d item refs skipped), use --diagnostics to list them",
				n, res.Diagnostics.Skipped()))
		}
	}
	return nil
}

// populatedColumns returns the columns holding at least one cell.
func populatedColumns(res *vlm.Result) []string {
	var cols []string
	for _, col := range res.Columns {
		for _, row := range res.Rows {
			if row.Cell(col) != nil {
				cols = append(cols, col)
				break
			}
		}
	}
	if len(cols) == 0 {
		return res.Columns
	}
	return cols
}

func vlmRows(res *vlm.Result, columns []string) [][]string {
	rows := make([][]string, 0, len(res.Rows))
	for _, row := range res.Rows {
		values := make([]string, len(columns))
		for i, col := range columns {
			values[i] = cellText(row, col)
		}
		rows = append(rows, values)
	}
	return rows
}

func cellText(row *vlm.Row, column string) string {
	if row.NonParameterized {
		switch column {
		case vlm.ParamcdVariable:
			return format.NonParameterizedGlyph
		case vlm.ParamVariable:
			return format.NonParameterizedLabel
		}
	}
	c := row.Cell(column)
	switch {
	case c == nil:
		return ""
	case c.Unresolved:
		return unresolvedMarker
	default:
		return c.Value
	}
}

func renderDiagnostics(r *output.Renderer, diags *vlm.Diagnostics) {
	rows := make([][]string, 0, diags.Len())
	for _, d := range diags.Entries {
		rows = append(rows, []string{d.Severity.String(), string(d.Kind), d.OID, d.Message})
	}
	r.Table([]string{"Severity", "Kind", "OID", "Message"}, rows)
}
