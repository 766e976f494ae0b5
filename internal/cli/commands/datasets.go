package commands

import (
	"fmt"
	"strconv"

	"github.com/SDen99/DatasetViewer-sub000/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewDatasetsCommand creates the datasets command.
func NewDatasetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datasets <define.xml>",
		Short: "List the datasets of a Define-XML document",
		Long: `List every dataset (ItemGroupDef) of a Define-XML document in document order
with its label, class, variable count, parameter count and whether any of
its variables carry value-level metadata.`,
		Example: `  # List datasets
  defineview datasets define.xml

  # As JSON
  defineview datasets define.xml -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDatasets(cmd, args[0])
		},
	}

	return cmd
}

func runDatasets(cmd *cobra.Command, path string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	s, err := cmdCtx.Engine.Load(cmd.Context(), path)
	if err != nil {
		return err
	}

	datasets := s.Datasets()
	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(datasets)
	}

	r.Header(1, fmt.Sprintf("Datasets (%d total)", len(datasets)))
	if r.EffectiveMode() != output.ModeText {
		r.Println("")
	}

	rows := make([][]string, 0, len(datasets))
	for _, d := range datasets {
		vlm := "-"
		if d.HasVLM() {
			vlm = strconv.Itoa(d.ValueLists)
		}
		rows = append(rows, []string{
			d.Name,
			d.Label,
			d.Class,
			strconv.Itoa(d.Variables),
			strconv.Itoa(d.Parameters),
			vlm,
		})
	}
	r.Table([]string{"Name", "Label", "Class", "Variables", "Parameters", "VLM"}, rows)
	return nil
}
