package commands

import (
	"strings"

	"github.com/SDen99/DatasetViewer-sub000/internal/cli/output"
	"github.com/SDen99/DatasetViewer-sub000/internal/engine"
	"github.com/spf13/cobra"
)

// NewSummaryCommand creates the summary command.
func NewSummaryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary <define.xml>...",
		Short: "Summarize Define-XML documents",
		Long: `Parse one or more Define-XML documents and show the study they describe
together with counts of datasets, variables, code lists, value lists,
where clauses, methods, comments, documents and analysis results.

Files are parsed concurrently. Any file that fails to parse fails the command.`,
		Example: `  # Summarize a define
  defineview summary define.xml

  # Compare two versions as JSON
  defineview summary v1/define.xml v2/define.xml --output json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, args)
		},
	}

	return cmd
}

// SummaryOutput is the JSON output for one summarized file.
type SummaryOutput struct {
	File string `json:"file"`
	engine.Summary
}

func runSummary(cmd *cobra.Command, args []string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	sessions, err := cmdCtx.LoadAll(cmd.Context(), args)
	if err != nil {
		return err
	}

	summaries := make([]SummaryOutput, 0, len(sessions))
	for _, s := range sessions {
		summaries = append(summaries, SummaryOutput{File: s.Path, Summary: s.Summary()})
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(summaries)
	}

	for i, sum := range summaries {
		if i > 0 {
			r.Println("")
		}
		renderSummary(r, sum)
	}
	return nil
}

func renderSummary(r *output.Renderer, sum SummaryOutput) {
	r.Header(1, sum.Study)
	if r.EffectiveMode() != output.ModeText {
		r.Println("")
	}
	r.KeyValue("File", sum.File)
	if sum.Protocol != "" && sum.Protocol != sum.Study {
		r.KeyValue("Protocol", sum.Protocol)
	}
	if sum.Description != "" {
		r.KeyValue("Description", sum.Description)
	}
	r.KeyValue("Metadata version", sum.MetaDataVersion)
	if sum.DefineVersion != "" {
		r.KeyValue("Define version", sum.DefineVersion)
	}
	if len(sum.Standards) > 0 {
		r.KeyValue("Standards", strings.Join(sum.Standards, ", "))
	}
	r.KeyValue("Datasets", sum.Datasets)
	r.KeyValue("Variables", sum.Variables)
	r.KeyValue("Code lists", sum.CodeLists)
	r.KeyValue("Value lists", sum.ValueLists)
	r.KeyValue("Where clauses", sum.WhereClauses)
	r.KeyValue("Methods", sum.Methods)
	r.KeyValue("Comments", sum.Comments)
	r.KeyValue("Documents", sum.Documents)
	r.KeyValue("Analysis results", sum.AnalysisResults)
}
