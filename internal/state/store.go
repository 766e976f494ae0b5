// Package state persists materialized value-level metadata to SQLite so it
// can be queried outside the tool.
package state

import (
	"context"
	"errors"
	"time"

	"github.com/SDen99/DatasetViewer-sub000/pkg/core"
	"github.com/SDen99/DatasetViewer-sub000/pkg/vlm"
)

// ErrExportNotFound is returned when an export ID is unknown.
var ErrExportNotFound = errors.New("export not found")

var errNotOpened = errors.New("database not opened")

// Export is one snapshot of a Define-XML document.
type Export struct {
	ID              string    `json:"id"`
	Source          string    `json:"source"`
	Study           string    `json:"study"`
	Protocol        string    `json:"protocol,omitempty"`
	MetaDataVersion string    `json:"metadata_version"`
	DefineVersion   string    `json:"define_version,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	Datasets        int       `json:"datasets"`
	Rows            int       `json:"rows"`
}

// DatasetRecord is a stored dataset definition.
type DatasetRecord struct {
	Name      string `json:"name"`
	OID       string `json:"oid"`
	Label     string `json:"label"`
	Class     string `json:"class,omitempty"`
	Structure string `json:"structure,omitempty"`
	Variables int    `json:"variables"`
	Rows      int    `json:"rows"`
}

// VariableRecord is a stored dataset variable.
type VariableRecord struct {
	Name         string `json:"name"`
	OID          string `json:"oid"`
	Position     int    `json:"position"`
	Label        string `json:"label,omitempty"`
	DataType     string `json:"data_type,omitempty"`
	Length       int    `json:"length,omitempty"`
	OriginType   string `json:"origin_type,omitempty"`
	CodeListOID  string `json:"code_list_oid,omitempty"`
	ValueListOID string `json:"value_list_oid,omitempty"`
}

// RowRecord is a stored materialized row with its cells keyed by column.
type RowRecord struct {
	Position         int                   `json:"position"`
	Paramcd          string                `json:"paramcd"`
	Param            string                `json:"param,omitempty"`
	WhereClause      string                `json:"where_clause,omitempty"`
	DuplicateSource  string                `json:"duplicate_source,omitempty"`
	DuplicateValue   string                `json:"duplicate_value,omitempty"`
	NonParameterized bool                  `json:"non_parameterized,omitempty"`
	Cells            map[string]CellRecord `json:"cells"`
}

// CellRecord is a stored cell.
type CellRecord struct {
	Value      string `json:"value"`
	Derivation string `json:"derivation,omitempty"`
	Unresolved bool   `json:"unresolved,omitempty"`
	DataType   string `json:"data_type,omitempty"`
	ItemOID    string `json:"item_oid,omitempty"`
	MethodOID  string `json:"method_oid,omitempty"`
	OriginType string `json:"origin_type,omitempty"`
}

// ExportInput is what SaveExport writes: the document's datasets and
// variables plus one materialized table per dataset.
type ExportInput struct {
	Source   string
	Document *core.Document
	Results  []*vlm.Result
}

// Store persists exports.
type Store interface {
	Open(path string) error
	Close() error
	Migrate() error

	SaveExport(ctx context.Context, in ExportInput) (*Export, error)
	GetExport(ctx context.Context, id string) (*Export, error)
	ListExports(ctx context.Context) ([]*Export, error)
	DeleteExport(ctx context.Context, id string) error

	ListDatasets(ctx context.Context, exportID string) ([]DatasetRecord, error)
	ListVariables(ctx context.Context, exportID, dataset string) ([]VariableRecord, error)
	ListRows(ctx context.Context, exportID, dataset string) ([]RowRecord, error)
}
