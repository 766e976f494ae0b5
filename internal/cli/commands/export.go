package commands

import (
	"fmt"

	"github.com/SDen99/DatasetViewer-sub000/internal/cli/output"
	sharedcfg "github.com/SDen99/DatasetViewer-sub000/internal/config"
	"github.com/SDen99/DatasetViewer-sub000/internal/state"
	"github.com/SDen99/DatasetViewer-sub000/pkg/vlm"
	"github.com/spf13/cobra"
)

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	var database string
	cmd := &cobra.Command{
		Use:   "export <define.xml>",
		Short: "Export materialized value-level metadata to SQLite",
		Long: `Materialize every dataset of a Define-XML document and store the result
in a SQLite database, one export per run.

Tables:
  exports    one row per export
  datasets   dataset definitions
  variables  dataset variables in order
  vlm_rows   materialized rows, including duplicate rows
  vlm_cells  cell values keyed by row and column

The schema is migrated on open. Use 'defineview exports' to list or
remove previous exports.`,
		Example: `  # Export to the configured database (defineview.db by default)
  defineview export define.xml

  # Export to a specific file
  defineview export define.xml --database metadata.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], database)
		},
	}

	cmd.Flags().StringVar(&database, "database", "", "SQLite database path (default from config)")

	return cmd
}

// databasePath returns the flag value, the configured database or the default.
func databasePath(cmdCtx *CommandContext, flag string) string {
	if flag != "" {
		return flag
	}
	if cmdCtx.Cfg.Export != nil && cmdCtx.Cfg.Export.Database != "" {
		return cmdCtx.Cfg.Export.Database
	}
	return sharedcfg.DefaultExportDatabase
}

func runExport(cmd *cobra.Command, path, database string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	s, err := cmdCtx.Engine.Load(ctx, path)
	if err != nil {
		return err
	}

	results := make([]*vlm.Result, 0, len(s.Document.ItemGroups))
	for _, name := range s.DatasetNames() {
		res, err := cmdCtx.Engine.Materialize(s.ID, name)
		if err != nil {
			return err
		}
		results = append(results, res)
	}

	dbPath := databasePath(cmdCtx, database)
	store, err := state.OpenAndMigrate(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	exp, err := store.SaveExport(ctx, state.ExportInput{
		Source:   s.Path,
		Document: s.Document,
		Results:  results,
	})
	if err != nil {
		return err
	}
	cmdCtx.Logger.Info("export saved", "id", exp.ID, "database", dbPath, "rows", exp.Rows)

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(exp)
	}
	r.Success(fmt.Sprintf("Exported %d rows from %d datasets to %s", exp.Rows, exp.Datasets, dbPath))
	r.KeyValue("Export ID", exp.ID)
	return nil
}
