package state

import (
	"context"
	"fmt"
)

// ListDatasets returns the datasets of an export in document order.
func (s *SQLiteStore) ListDatasets(ctx context.Context, exportID string) ([]DatasetRecord, error) {
	if s.db == nil {
		return nil, errNotOpened
	}
	if _, err := s.GetExport(ctx, exportID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT d.name, d.oid, d.label, d.class, d.structure,
		        (SELECT COUNT(*) FROM variables v WHERE v.export_id = d.export_id AND v.dataset = d.name),
		        (SELECT COUNT(*) FROM vlm_rows r WHERE r.export_id = d.export_id AND r.dataset = d.name)
		 FROM datasets d
		 WHERE d.export_id = ?
		 ORDER BY d.position`, exportID)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []DatasetRecord
	for rows.Next() {
		var d DatasetRecord
		if err := rows.Scan(&d.Name, &d.OID, &d.Label, &d.Class, &d.Structure, &d.Variables, &d.Rows); err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListVariables returns the variables of one dataset of an export.
func (s *SQLiteStore) ListVariables(ctx context.Context, exportID, dataset string) ([]VariableRecord, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, oid, position, label, data_type, length, origin_type, code_list_oid, value_list_oid
		 FROM variables
		 WHERE export_id = ? AND dataset = ?
		 ORDER BY position`, exportID, dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to list variables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []VariableRecord
	for rows.Next() {
		var v VariableRecord
		if err := rows.Scan(&v.Name, &v.OID, &v.Position, &v.Label, &v.DataType, &v.Length,
			&v.OriginType, &v.CodeListOID, &v.ValueListOID); err != nil {
			return nil, fmt.Errorf("failed to scan variable: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ListRows returns the materialized rows of one dataset of an export in
// their stored order.
func (s *SQLiteStore) ListRows(ctx context.Context, exportID, dataset string) ([]RowRecord, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, position, paramcd, param, where_clause, duplicate_source, duplicate_value, non_parameterized
		 FROM vlm_rows
		 WHERE export_id = ? AND dataset = ?
		 ORDER BY position`, exportID, dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to list rows: %w", err)
	}

	var out []RowRecord
	byID := make(map[int64]int)
	for rows.Next() {
		var id int64
		var r RowRecord
		if err := rows.Scan(&id, &r.Position, &r.Paramcd, &r.Param, &r.WhereClause,
			&r.DuplicateSource, &r.DuplicateValue, &r.NonParameterized); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		r.Cells = make(map[string]CellRecord)
		byID[id] = len(out)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	if len(out) == 0 {
		return out, nil
	}

	cells, err := s.db.QueryContext(ctx,
		`SELECT c.row_id, c.column_name, c.value, c.derivation, c.unresolved, c.data_type,
		        c.item_oid, c.method_oid, c.origin_type
		 FROM vlm_cells c
		 JOIN vlm_rows r ON r.id = c.row_id
		 WHERE r.export_id = ? AND r.dataset = ?`, exportID, dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to list cells: %w", err)
	}
	defer func() { _ = cells.Close() }()

	for cells.Next() {
		var rowID int64
		var col string
		var c CellRecord
		if err := cells.Scan(&rowID, &col, &c.Value, &c.Derivation, &c.Unresolved, &c.DataType,
			&c.ItemOID, &c.MethodOID, &c.OriginType); err != nil {
			return nil, fmt.Errorf("failed to scan cell: %w", err)
		}
		if i, ok := byID[rowID]; ok {
			out[i].Cells[col] = c
		}
	}
	return out, cells.Err()
}
