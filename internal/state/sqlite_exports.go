package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/SDen99/DatasetViewer-sub000/pkg/core"
	"github.com/SDen99/DatasetViewer-sub000/pkg/vlm"
	"github.com/google/uuid"
)

// SaveExport writes a document and its materialized tables in one
// transaction and returns the new export.
func (s *SQLiteStore) SaveExport(ctx context.Context, in ExportInput) (*Export, error) {
	if s.db == nil {
		return nil, errNotOpened
	}
	if in.Document == nil {
		return nil, errors.New("export has no document")
	}

	doc := in.Document
	idx := core.NewIndex(doc)
	for _, res := range in.Results {
		if idx.ItemGroupByName(res.Dataset) == nil {
			return nil, fmt.Errorf("result for unknown dataset %s", res.Dataset)
		}
	}

	exp := &Export{
		ID:              uuid.NewString(),
		Source:          in.Source,
		Study:           doc.Study.Name,
		Protocol:        doc.Study.ProtocolName,
		MetaDataVersion: doc.MetaData.Name,
		DefineVersion:   doc.MetaData.DefineVersion,
		CreatedAt:       time.Now().UTC(),
		Datasets:        len(doc.ItemGroups),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO exports (id, source, study, protocol, metadata_version, define_version, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		exp.ID, exp.Source, exp.Study, exp.Protocol, exp.MetaDataVersion, exp.DefineVersion,
		exp.CreatedAt.Format(timeFormat),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert export: %w", err)
	}

	if err := insertDatasets(ctx, tx, exp.ID, idx); err != nil {
		return nil, err
	}
	for _, res := range in.Results {
		n, err := insertResult(ctx, tx, exp.ID, res)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", res.Dataset, err)
		}
		exp.Rows += n
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit export: %w", err)
	}
	return exp, nil
}

func insertDatasets(ctx context.Context, tx *sql.Tx, exportID string, idx *core.Index) error {
	doc := idx.Document()
	for i, ig := range doc.ItemGroups {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO datasets (export_id, name, oid, label, class, structure, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			exportID, ig.Name, ig.OID, ig.Description.Text, ig.Class, ig.Structure, i+1,
		)
		if err != nil {
			return fmt.Errorf("failed to insert dataset %s: %w", ig.Name, err)
		}

		for pos, def := range idx.DatasetVariables(ig.Name) {
			var origin string
			if def.Origin != nil {
				origin = def.Origin.Type
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO variables (export_id, dataset, name, oid, position, label, data_type, length,
				                        origin_type, code_list_oid, value_list_oid)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				exportID, ig.Name, def.Name, def.OID, pos+1, def.Description.Text, def.DataType, def.Length,
				origin, def.CodeListOID, def.ValueListOID,
			)
			if err != nil {
				return fmt.Errorf("failed to insert variable %s.%s: %w", ig.Name, def.Name, err)
			}
		}
	}
	return nil
}

func insertResult(ctx context.Context, tx *sql.Tx, exportID string, res *vlm.Result) (int, error) {
	rowStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO vlm_rows (export_id, dataset, position, paramcd, param, where_clause,
		                       duplicate_source, duplicate_value, non_parameterized)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare row insert: %w", err)
	}
	defer func() { _ = rowStmt.Close() }()

	cellStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO vlm_cells (row_id, column_name, value, derivation, unresolved, data_type,
		                        item_oid, method_oid, origin_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare cell insert: %w", err)
	}
	defer func() { _ = cellStmt.Close() }()

	for pos, row := range res.Rows {
		r, err := rowStmt.ExecContext(ctx,
			exportID, res.Dataset, pos+1, row.Paramcd, row.Param, row.WhereClause,
			row.DuplicateSource, row.DuplicateValue, row.NonParameterized,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert row %s: %w", row.Paramcd, err)
		}
		rowID, err := r.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to read row id: %w", err)
		}

		for _, col := range slices.Sorted(maps.Keys(row.Cells)) {
			c := row.Cells[col]
			if c == nil {
				continue
			}
			_, err := cellStmt.ExecContext(ctx,
				rowID, col, c.Value, c.Derivation, c.Unresolved, c.DataType,
				c.ItemOID, c.MethodOID, c.OriginType,
			)
			if err != nil {
				return 0, fmt.Errorf("failed to insert cell %s.%s: %w", row.Paramcd, col, err)
			}
		}
	}
	return len(res.Rows), nil
}

// timeFormat is fixed width so stored timestamps sort as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

const exportColumns = `e.id, e.source, e.study, e.protocol, e.metadata_version, e.define_version, e.created_at,
	(SELECT COUNT(*) FROM datasets d WHERE d.export_id = e.id),
	(SELECT COUNT(*) FROM vlm_rows r WHERE r.export_id = e.id)`

type scanner interface {
	Scan(dest ...any) error
}

func scanExport(sc scanner) (*Export, error) {
	exp := &Export{}
	var created string
	err := sc.Scan(&exp.ID, &exp.Source, &exp.Study, &exp.Protocol, &exp.MetaDataVersion,
		&exp.DefineVersion, &created, &exp.Datasets, &exp.Rows)
	if err != nil {
		return nil, err
	}
	exp.CreatedAt, err = time.Parse(timeFormat, created)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", created, err)
	}
	return exp, nil
}

// GetExport retrieves an export by ID.
func (s *SQLiteStore) GetExport(ctx context.Context, id string) (*Export, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+exportColumns+` FROM exports e WHERE e.id = ?`, id)
	exp, err := scanExport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrExportNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get export: %w", err)
	}
	return exp, nil
}

// ListExports returns all exports, newest first.
func (s *SQLiteStore) ListExports(ctx context.Context) ([]*Export, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+exportColumns+` FROM exports e ORDER BY e.created_at DESC, e.rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*Export
	for rows.Next() {
		exp, err := scanExport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		out = append(out, exp)
	}
	return out, rows.Err()
}

// DeleteExport removes an export and everything stored under it.
func (s *SQLiteStore) DeleteExport(ctx context.Context, id string) error {
	if s.db == nil {
		return errNotOpened
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM exports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete export: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete export: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, ErrExportNotFound)
	}
	return nil
}
