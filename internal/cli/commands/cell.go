package commands

import (
	"fmt"

	"github.com/SDen99/DatasetViewer-sub000/internal/cli/output"
	"github.com/SDen99/DatasetViewer-sub000/internal/engine"
	"github.com/spf13/cobra"
)

// NewCellCommand creates the cell command.
func NewCellCommand() *cobra.Command {
	var q engine.CellQuery
	cmd := &cobra.Command{
		Use:   "cell <define.xml> <dataset> <paramcd> <column>",
		Short: "Explain one cell of a value-level metadata table",
		Long: `Render the metadata behind one cell of a materialized table: description,
where clause, origin, method with its formal expressions, code list terms,
stratification and the identifiers it was resolved from.

Select a duplicate row with --source and --value.`,
		Example: `  # Explain AVAL for SYSBP
  defineview cell define.xml ADVS SYSBP AVAL

  # Explain AVAL in the LOCF row of DIABP
  defineview cell define.xml ADVS DIABP AVAL --source DTYPE --value LOCF`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Paramcd = args[2]
			q.Column = args[3]
			return runCell(cmd, args[0], args[1], q)
		},
	}

	cmd.Flags().StringVar(&q.Source, "source", "", "Duplicate source variable of the row (e.g. DTYPE)")
	cmd.Flags().StringVar(&q.Value, "value", "", "Duplicate source value of the row (e.g. LOCF)")
	cmd.MarkFlagsRequiredTogether("source", "value")

	return cmd
}

func runCell(cmd *cobra.Command, path, dataset string, q engine.CellQuery) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	s, err := cmdCtx.Engine.Load(cmd.Context(), path)
	if err != nil {
		return err
	}
	view, err := s.Cell(dataset, q)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	switch mode := r.EffectiveMode(); {
	case mode == output.ModeJSON:
		return r.JSON(view)
	case view.Content == "":
		r.Warning(fmt.Sprintf("no metadata for column %s of %s", q.Column, view.Row.Paramcd))
	case mode == output.ModeText:
		r.Println(r.Styles().Emphasize(view.Content))
	default:
		r.Println(view.Content)
	}
	return nil
}
