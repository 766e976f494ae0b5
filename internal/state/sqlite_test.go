package state

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SDen99/DatasetViewer-sub000/internal/testutil"
	"github.com/SDen99/DatasetViewer-sub000/pkg/core"
	"github.com/SDen99/DatasetViewer-sub000/pkg/parser"
	"github.com/SDen99/DatasetViewer-sub000/pkg/vlm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenAndMigrate(filepath.Join(t.TempDir(), "export.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleExport(t *testing.T) ExportInput {
	t.Helper()
	doc, err := parser.ParseString(testutil.SampleDefineXML)
	require.NoError(t, err)
	b := vlm.NewBuilder(core.NewIndex(doc), vlm.Options{})
	return ExportInput{
		Source:   "define.xml",
		Document: doc,
		Results:  []*vlm.Result{b.Build("ADSL"), b.Build("ADVS")},
	}
}

func TestSQLiteStore_OpenClose(t *testing.T) {
	store := NewSQLiteStore()
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.Migrate())

	version, err := store.MigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	require.NoError(t, store.Close())
}

func TestSQLiteStore_Migrate(t *testing.T) {
	store := setupTestStore(t)

	for _, table := range []string{"exports", "datasets", "variables", "vlm_rows", "vlm_cells"} {
		rows, err := store.db.Query("SELECT 1 FROM " + table + " LIMIT 1")
		if assert.NoError(t, err, "table %s", table) {
			_ = rows.Close()
		}
	}

	// Re-running is a no-op.
	require.NoError(t, store.Migrate())
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	store := NewSQLiteStore()
	ctx := context.Background()

	_, err := store.SaveExport(ctx, ExportInput{})
	assert.ErrorIs(t, err, errNotOpened)
	_, err = store.ListExports(ctx)
	assert.ErrorIs(t, err, errNotOpened)
	assert.ErrorIs(t, store.Migrate(), errNotOpened)
	assert.NoError(t, store.Close())
}

func TestSQLiteStore_SaveExport(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	exp, err := store.SaveExport(ctx, sampleExport(t))
	require.NoError(t, err)
	assert.NotEmpty(t, exp.ID)
	assert.Equal(t, "TEST-001", exp.Study)
	assert.Equal(t, 2, exp.Datasets)
	assert.Equal(t, 4, exp.Rows)

	got, err := store.GetExport(ctx, exp.ID)
	require.NoError(t, err)
	assert.Equal(t, exp.ID, got.ID)
	assert.Equal(t, "define.xml", got.Source)
	assert.Equal(t, "Test ADaM", got.MetaDataVersion)
	assert.Equal(t, 2, got.Datasets)
	assert.Equal(t, 4, got.Rows)
	assert.WithinDuration(t, exp.CreatedAt, got.CreatedAt, 0)

	t.Run("datasets", func(t *testing.T) {
		datasets, err := store.ListDatasets(ctx, exp.ID)
		require.NoError(t, err)
		require.Len(t, datasets, 2)
		assert.Equal(t, "ADSL", datasets[0].Name)
		assert.Equal(t, "Subject-Level Analysis Dataset", datasets[0].Label)
		assert.Equal(t, 3, datasets[0].Variables)
		assert.Equal(t, 0, datasets[0].Rows)
		assert.Equal(t, "ADVS", datasets[1].Name)
		assert.Equal(t, 5, datasets[1].Variables)
		assert.Equal(t, 4, datasets[1].Rows)
	})

	t.Run("variables", func(t *testing.T) {
		vars, err := store.ListVariables(ctx, exp.ID, "ADVS")
		require.NoError(t, err)
		names := make([]string, 0, len(vars))
		for _, v := range vars {
			names = append(names, v.Name)
		}
		assert.Equal(t, []string{"USUBJID", "PARAMCD", "PARAM", "AVAL", "DTYPE"}, names)
		assert.Equal(t, "VL.ADVS.AVAL", vars[3].ValueListOID)
	})

	t.Run("rows", func(t *testing.T) {
		rows, err := store.ListRows(ctx, exp.ID, "ADVS")
		require.NoError(t, err)
		require.Len(t, rows, 4)

		assert.Equal(t, "DIABP", rows[0].Paramcd)
		assert.Empty(t, rows[0].DuplicateSource)
		assert.Equal(t, "DTYPE", rows[1].DuplicateSource)
		assert.Equal(t, "LOCF", rows[1].DuplicateValue)
		assert.Equal(t, "LOCF", rows[1].Cells["DTYPE"].Value)
		assert.Equal(t, "LOCF(AVAL)", rows[1].Cells["AVAL"].Value)
		assert.Equal(t, "LOCF", rows[1].Cells["AVAL"].Derivation)

		sys := rows[3]
		assert.Equal(t, "SYSBP", sys.Paramcd)
		assert.Equal(t, "Systolic Blood Pressure (mmHg)", sys.Param)
		assert.Equal(t, "SYSBP", sys.Cells["PARAMCD"].Value)
		assert.Equal(t, "IT.ADVS.AVAL.SYSBP", sys.Cells["AVAL"].ItemOID)
	})

	t.Run("unknown dataset has no rows", func(t *testing.T) {
		rows, err := store.ListRows(ctx, exp.ID, "ADAE")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestSQLiteStore_ListAndDelete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	first, err := store.SaveExport(ctx, sampleExport(t))
	require.NoError(t, err)
	second, err := store.SaveExport(ctx, sampleExport(t))
	require.NoError(t, err)

	exports, err := store.ListExports(ctx)
	require.NoError(t, err)
	require.Len(t, exports, 2)
	assert.Equal(t, second.ID, exports[0].ID, "newest first")

	require.NoError(t, store.DeleteExport(ctx, first.ID))
	assert.ErrorIs(t, store.DeleteExport(ctx, first.ID), ErrExportNotFound)

	_, err = store.GetExport(ctx, first.ID)
	assert.ErrorIs(t, err, ErrExportNotFound)
	_, err = store.ListDatasets(ctx, first.ID)
	assert.ErrorIs(t, err, ErrExportNotFound)

	rows, err := store.ListRows(ctx, first.ID, "ADVS")
	require.NoError(t, err)
	assert.Empty(t, rows, "rows cascade with their export")

	rows, err = store.ListRows(ctx, second.ID, "ADVS")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestSQLiteStore_SaveExportRejects(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.SaveExport(ctx, ExportInput{Source: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no document")

	in := sampleExport(t)
	in.Results = append(in.Results, &vlm.Result{Dataset: "ADAE"})
	_, err = store.SaveExport(ctx, in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown dataset ADAE")

	exports, err := store.ListExports(ctx)
	require.NoError(t, err)
	assert.Empty(t, exports)
}

func TestSQLiteStore_SaveExportFailures(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		errMsg    string
	}{
		{
			name: "begin fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(assert.AnError)
			},
			errMsg: "failed to begin transaction",
		},
		{
			name: "export insert fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO exports").WillReturnError(assert.AnError)
				mock.ExpectRollback()
			},
			errMsg: "failed to insert export",
		},
		{
			name: "dataset insert fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO exports").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec("INSERT INTO datasets").WillReturnError(assert.AnError)
				mock.ExpectRollback()
			},
			errMsg: "failed to insert dataset ADSL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()
			tt.setupMock(mock)

			store := NewStoreWithDB(db)
			_, err = store.SaveExport(context.Background(), sampleExport(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLiteStore_GetExportError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT .* FROM exports e WHERE e.id = ?").
		WithArgs("abc").
		WillReturnError(assert.AnError)

	_, err = NewStoreWithDB(db).GetExport(context.Background(), "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get export")
	assert.NoError(t, mock.ExpectationsWereMet())
}
