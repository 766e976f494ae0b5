package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/SDen99/DatasetViewer-sub000/internal/cli/output"
	"github.com/SDen99/DatasetViewer-sub000/internal/state"
	"github.com/spf13/cobra"
)

// NewExportsCommand creates the exports command group.
func NewExportsCommand() *cobra.Command {
	var database string
	cmd := &cobra.Command{
		Use:   "exports",
		Short: "List, show and remove stored exports",
		Long: `Inspect the exports stored by 'defineview export'.

Without a subcommand, lists every export, newest first.`,
		Example: `  # List exports
  defineview exports

  # Show the datasets of one export
  defineview exports show 3f2c...

  # Remove an export and everything stored with it
  defineview exports rm 3f2c...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExportsList(cmd, database)
		},
	}

	cmd.PersistentFlags().StringVar(&database, "database", "", "SQLite database path (default from config)")

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show the datasets of an export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExportsShow(cmd, database, args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Remove an export",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExportsRemove(cmd, database, args[0])
		},
	})

	return cmd
}

// openStore opens and migrates the export database for a command.
func openStore(cmd *cobra.Command, database string) (*CommandContext, *state.SQLiteStore, error) {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	store, err := state.OpenAndMigrate(databasePath(cmdCtx, database))
	if err != nil {
		return nil, nil, err
	}
	return cmdCtx, store, nil
}

func runExportsList(cmd *cobra.Command, database string) error {
	cmdCtx, store, err := openStore(cmd, database)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	exports, err := store.ListExports(cmd.Context())
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(exports)
	}

	r.Header(1, fmt.Sprintf("Exports (%d total)", len(exports)))
	if r.EffectiveMode() != output.ModeText {
		r.Println("")
	}
	rows := make([][]string, 0, len(exports))
	for _, e := range exports {
		rows = append(rows, []string{
			e.ID,
			e.Study,
			e.MetaDataVersion,
			strconv.Itoa(e.Datasets),
			strconv.Itoa(e.Rows),
			e.CreatedAt.Local().Format(time.DateTime),
			e.Source,
		})
	}
	r.Table([]string{"ID", "Study", "Version", "Datasets", "Rows", "Created", "Source"}, rows)
	return nil
}

func runExportsShow(cmd *cobra.Command, database, id string) error {
	cmdCtx, store, err := openStore(cmd, database)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	exp, err := store.GetExport(ctx, id)
	if err != nil {
		return err
	}
	datasets, err := store.ListDatasets(ctx, id)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(struct {
			*state.Export
			DatasetList []state.DatasetRecord `json:"dataset_list"`
		}{exp, datasets})
	}

	r.Header(1, fmt.Sprintf("%s (%s)", exp.Study, exp.ID))
	if r.EffectiveMode() != output.ModeText {
		r.Println("")
	}
	r.KeyValue("Source", exp.Source)
	r.KeyValue("Metadata version", exp.MetaDataVersion)
	r.KeyValue("Created", exp.CreatedAt.Local().Format(time.DateTime))
	r.Println("")

	rows := make([][]string, 0, len(datasets))
	for _, d := range datasets {
		rows = append(rows, []string{d.Name, d.Label, strconv.Itoa(d.Variables), strconv.Itoa(d.Rows)})
	}
	r.Table([]string{"Name", "Label", "Variables", "Rows"}, rows)
	return nil
}

func runExportsRemove(cmd *cobra.Command, database, id string) error {
	cmdCtx, store, err := openStore(cmd, database)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.DeleteExport(cmd.Context(), id); err != nil {
		return err
	}
	cmdCtx.Renderer.Success("Removed export " + id)
	return nil
}
