package commands

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/SDen99/DatasetViewer-sub000/internal/cli/output"
	"github.com/SDen99/DatasetViewer-sub000/internal/engine"
	"github.com/SDen99/DatasetViewer-sub000/pkg/core"
	"github.com/SDen99/DatasetViewer-sub000/pkg/vlm"
	"github.com/spf13/cobra"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Strict bool // Fail when any warning is found
}

// checkNames describes what each diagnostic kind checks, in report order.
var checkNames = []struct {
	Kind vlm.DiagnosticKind
	Name string
}{
	{vlm.DiagMissingItemOID, "Value list items carry an ItemOID"},
	{vlm.DiagMissingItemDef, "Value list items resolve to an ItemDef"},
	{vlm.DiagMissingValueList, "Value list references resolve"},
	{vlm.DiagUnknownParameter, "Where clauses name known parameters"},
	{vlm.DiagMissingWhereClause, "Where clause references resolve"},
	{vlm.DiagMissingMethod, "Method references resolve"},
	{vlm.DiagMissingCodeList, "Code list references resolve"},
	{vlm.DiagBlankDuplicateValue, "Duplicate source code lists have no blank values"},
}

// maxDetails caps the diagnostics listed per check in text mode.
const maxDetails = 3

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check <define.xml>",
		Short: "Check value-level metadata references of a Define-XML document",
		Long: `Materialize every dataset of a Define-XML document and report the references
that could not be resolved along the way.

The report includes:
- Document summary
- Rows and duplicate rows per dataset
- Checks grouped by severity, with the first offending OIDs
- Health score (0-100)

Broken references never stop materialization: the affected item is skipped
or left unresolved. Use --strict to fail when any warning is found.`,
		Example: `  # Check a define
  defineview check define.xml

  # Fail the build on warnings
  defineview check define.xml --strict -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit with an error when any warning is found")

	return cmd
}

// CheckOutput is the JSON output for the check command.
type CheckOutput struct {
	File         string         `json:"file"`
	Summary      engine.Summary `json:"summary"`
	Datasets     []DatasetCheck `json:"datasets"`
	HealthChecks []HealthCheck  `json:"health_checks"`
	Score        int            `json:"score"`
	IssueCount   int            `json:"issue_count"`
	Warnings     int            `json:"warnings"`
}

// DatasetCheck summarizes the materialized table of one dataset.
type DatasetCheck struct {
	Name          string `json:"name"`
	Rows          int    `json:"rows"`
	DuplicateRows int    `json:"duplicate_rows"`
	Diagnostics   int    `json:"diagnostics"`
}

// HealthCheck represents a single check result.
type HealthCheck struct {
	Kind       vlm.DiagnosticKind `json:"kind"`
	Name       string             `json:"name"`
	Group      string             `json:"group"`
	Status     string             `json:"status"` // "pass", "info", "warn", "error"
	IssueCount int                `json:"issue_count"`
	Details    []string           `json:"details,omitempty"`
}

func runCheck(cmd *cobra.Command, path string, opts *CheckOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	s, err := cmdCtx.Engine.Load(cmd.Context(), path)
	if err != nil {
		return err
	}

	var results []*vlm.Result
	for _, name := range s.DatasetNames() {
		res, err := cmdCtx.Engine.Materialize(s.ID, name)
		if err != nil {
			return err
		}
		results = append(results, res)
	}

	checkOutput := buildCheckOutput(s, results)

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		err = r.JSON(checkOutput)
	case output.ModeMarkdown:
		renderCheckMarkdown(r, checkOutput)
	default:
		renderCheckText(r, checkOutput)
	}
	if err != nil {
		return err
	}

	if opts.Strict && checkOutput.Warnings > 0 {
		return fmt.Errorf("check failed: %d warnings", checkOutput.Warnings)
	}
	return nil
}

func buildCheckOutput(s *engine.Session, results []*vlm.Result) *CheckOutput {
	out := &CheckOutput{
		File:    s.Path,
		Summary: s.Summary(),
	}
	if out.File == "" {
		out.File = s.Name
	}

	all := &vlm.Diagnostics{}
	for _, res := range results {
		dc := DatasetCheck{
			Name:        res.Dataset,
			Rows:        len(res.Rows),
			Diagnostics: res.Diagnostics.Len(),
		}
		for _, row := range res.Rows {
			if row.IsDuplicate() {
				dc.DuplicateRows++
			}
		}
		out.Datasets = append(out.Datasets, dc)
		all.Merge(res.Diagnostics)
	}

	out.HealthChecks = buildHealthChecks(all)
	out.Score = calculateHealthScore(out.HealthChecks, out.Summary.Variables)
	out.IssueCount = all.Len()
	for _, e := range all.Entries {
		if e.Severity.Blocking() {
			out.Warnings++
		}
	}
	return out
}

// buildHealthChecks groups diagnostics into one check per kind, most severe
// group first.
func buildHealthChecks(diags *vlm.Diagnostics) []HealthCheck {
	byKind := make(map[vlm.DiagnosticKind][]vlm.Diagnostic)
	for _, d := range diags.Entries {
		byKind[d.Kind] = append(byKind[d.Kind], d)
	}

	checks := make([]HealthCheck, 0, len(checkNames))
	for _, cn := range checkNames {
		kindDiags := byKind[cn.Kind]
		severity := cn.Kind.Severity()

		status := "pass"
		if len(kindDiags) > 0 {
			status = checkStatus(severity)
		}

		details := make([]string, 0, len(kindDiags))
		for _, d := range kindDiags {
			details = append(details, d.Message)
		}

		checks = append(checks, HealthCheck{
			Kind:       cn.Kind,
			Name:       cn.Name,
			Group:      severity.String(),
			Status:     status,
			IssueCount: len(kindDiags),
			Details:    details,
		})
	}

	slices.SortStableFunc(checks, func(a, b HealthCheck) int {
		return cmp.Compare(a.Kind.Severity(), b.Kind.Severity())
	})
	return checks
}

func checkStatus(s core.Severity) string {
	switch s {
	case core.SeverityError:
		return "error"
	case core.SeverityWarning:
		return "warn"
	case core.SeverityHint:
		return "hint"
	default:
		return "info"
	}
}

// calculateHealthScore computes a health score from 0-100.
// The scoring weights:
// - Each warning costs a base penalty, each error twice that
// - Informational findings cost a fifth of the base penalty, hints nothing
// - Larger documents make each individual issue count for less
func calculateHealthScore(checks []HealthCheck, variableCount int) int {
	if len(checks) == 0 {
		return 100
	}

	score := 100.0

	basePenalty := 5.0
	if variableCount > 50 {
		basePenalty = 3.0
	}
	if variableCount > 200 {
		basePenalty = 2.0
	}
	if variableCount > 1000 {
		basePenalty = 1.0
	}

	for _, check := range checks {
		switch check.Status {
		case "error":
			score -= float64(check.IssueCount) * basePenalty * 2
		case "warn":
			score -= float64(check.IssueCount) * basePenalty
		case "info":
			score -= float64(check.IssueCount) * basePenalty / 5
		}
	}

	return int(max(0, min(score, 100)))
}

func renderCheckText(r *output.Renderer, out *CheckOutput) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render("Define-XML Metadata Check"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	r.Println(styles.Header2.Render("Document"))
	r.Printf("   %s | %s | Define %s\n", out.Summary.Study, out.Summary.MetaDataVersion, out.Summary.DefineVersion)
	r.Printf("   Datasets: %d | Variables: %d | Value lists: %d\n", out.Summary.Datasets, out.Summary.Variables, out.Summary.ValueLists)
	r.Println("")

	r.Println(styles.Header2.Render("Datasets"))
	for _, ds := range out.Datasets {
		line := fmt.Sprintf("   %-10s %3d rows", ds.Name, ds.Rows)
		if ds.DuplicateRows > 0 {
			line += fmt.Sprintf(" (%d duplicate)", ds.DuplicateRows)
		}
		if ds.Diagnostics > 0 {
			line += styles.Warning.Render(fmt.Sprintf("  %d diagnostics", ds.Diagnostics))
		}
		r.Println(line)
	}
	r.Println("")

	r.Println(styles.Header2.Render("Checks"))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.Success.Render("✓")
		switch check.Status {
		case "info", "hint":
			icon = styles.Muted.Render("i")
		case "warn":
			icon = styles.Warning.Render("!")
		case "error":
			icon = styles.Error.Render("✗")
		}

		status := fmt.Sprintf("%s %s", icon, check.Name)
		if check.IssueCount > 0 {
			status += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		r.Println("   " + status)

		for i, detail := range check.Details {
			if i >= maxDetails {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-maxDetails)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))
	r.Println("")
}

func renderCheckMarkdown(r *output.Renderer, out *CheckOutput) {
	r.Println("# Define-XML Metadata Check")
	r.Println("")

	r.Println("## Document")
	r.Println("")
	r.Printf("- **Study**: %s\n", out.Summary.Study)
	r.Printf("- **Metadata version**: %s\n", out.Summary.MetaDataVersion)
	r.Printf("- **Datasets**: %d\n", out.Summary.Datasets)
	r.Printf("- **Variables**: %d\n", out.Summary.Variables)
	r.Printf("- **Value lists**: %d\n", out.Summary.ValueLists)
	r.Println("")

	r.Println("## Datasets")
	r.Println("")
	for _, ds := range out.Datasets {
		r.Printf("- **%s**: %d rows, %d duplicate, %d diagnostics\n", ds.Name, ds.Rows, ds.DuplicateRows, ds.Diagnostics)
	}
	r.Println("")

	r.Println("## Checks")
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("### " + titleCaser.String(currentGroup))
			r.Println("")
		}

		r.Printf("- **[%s]** %s", strings.ToUpper(check.Status), check.Name)
		if check.IssueCount > 0 {
			r.Printf(" (%d issues)", check.IssueCount)
		}
		r.Println("")

		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")

	r.Println("## Health Score")
	r.Println("")
	r.Printf("**%d/100**\n", out.Score)
}
