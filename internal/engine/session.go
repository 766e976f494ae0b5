package engine

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/SDen99/DatasetViewer-sub000/pkg/core"
	"github.com/SDen99/DatasetViewer-sub000/pkg/format"
	"github.com/SDen99/DatasetViewer-sub000/pkg/vlm"
)

// Session is one loaded Define-XML document. Its fields are not modified
// after Load; Reload swaps in a new Session under the same ID.
type Session struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Path     string         `json:"path,omitempty"`
	LoadedAt time.Time      `json:"loaded_at"`
	Document *core.Document `json:"-"`
	Index    *core.Index    `json:"-"`

	builder *vlm.Builder
}

// Builder returns the VLM builder of the session.
func (s *Session) Builder() *vlm.Builder { return s.builder }

// Summary counts the content of a document.
type Summary struct {
	Study           string   `json:"study"`
	Protocol        string   `json:"protocol,omitempty"`
	Description     string   `json:"description,omitempty"`
	MetaDataVersion string   `json:"metadata_version"`
	DefineVersion   string   `json:"define_version,omitempty"`
	Standards       []string `json:"standards,omitempty"`
	Datasets        int      `json:"datasets"`
	Variables       int      `json:"variables"`
	CodeLists       int      `json:"code_lists"`
	ValueLists      int      `json:"value_lists"`
	WhereClauses    int      `json:"where_clauses"`
	Methods         int      `json:"methods"`
	Comments        int      `json:"comments"`
	Documents       int      `json:"documents"`
	AnalysisResults int      `json:"analysis_results"`
}

// Summary returns the document summary.
func (s *Session) Summary() Summary {
	doc := s.Document
	sum := Summary{
		Study:           doc.Study.Name,
		Protocol:        doc.Study.ProtocolName,
		Description:     doc.Study.Description,
		MetaDataVersion: doc.MetaData.Name,
		DefineVersion:   doc.MetaData.DefineVersion,
		Datasets:        len(doc.ItemGroups),
		Variables:       len(doc.ItemDefs),
		CodeLists:       len(doc.CodeLists),
		ValueLists:      len(doc.ValueLists),
		WhereClauses:    len(doc.WhereClauses),
		Methods:         len(doc.Methods),
		Comments:        len(doc.Comments),
		Documents:       len(doc.Leaves),
		AnalysisResults: len(doc.AnalysisResults),
	}
	for _, st := range doc.Standards {
		sum.Standards = append(sum.Standards, strings.TrimSpace(st.Name+" "+st.Version))
	}
	return sum
}

// DatasetInfo describes one dataset of a document.
type DatasetInfo struct {
	Name       string `json:"name"`
	OID        string `json:"oid"`
	Label      string `json:"label"`
	Class      string `json:"class,omitempty"`
	Structure  string `json:"structure,omitempty"`
	Variables  int    `json:"variables"`
	Parameters int    `json:"parameters"`
	ValueLists int    `json:"value_lists"`
}

// HasVLM reports whether any variable of the dataset has value-level metadata.
func (d DatasetInfo) HasVLM() bool { return d.ValueLists > 0 }

// Datasets lists the datasets of the document in document order.
func (s *Session) Datasets() []DatasetInfo {
	doc := s.Document
	out := make([]DatasetInfo, 0, len(doc.ItemGroups))
	for _, ig := range doc.ItemGroups {
		out = append(out, DatasetInfo{
			Name:       ig.Name,
			OID:        ig.OID,
			Label:      ig.Description.Text,
			Class:      ig.Class,
			Structure:  ig.Structure,
			Variables:  len(ig.ItemRefs),
			Parameters: len(s.builder.Parameters(ig.Name).Codes),
			ValueLists: len(s.builder.ProcessDataset(ig.Name, nil)),
		})
	}
	return out
}

// Dataset resolves a user-supplied dataset name such as "adsl.xpt".
func (s *Session) Dataset(name string) (*core.ItemGroup, error) {
	ig := s.Index.ItemGroupByName(s.builder.Normalize(name))
	if ig == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrDatasetNotFound)
	}
	return ig, nil
}

// Materialize builds the value-level metadata table of a dataset.
func (s *Session) Materialize(dataset string) (*vlm.Result, error) {
	if _, err := s.Dataset(dataset); err != nil {
		return nil, err
	}
	return s.builder.Build(dataset), nil
}

// CellQuery selects one cell of a materialized table. Source and Value are
// empty for base rows.
type CellQuery struct {
	Paramcd string
	Column  string
	Source  string
	Value   string
}

// CellView is a cell together with the metadata it was built from and its
// rendered explanation.
type CellView struct {
	Row     *vlm.Row     `json:"row"`
	Cell    *vlm.Cell    `json:"cell,omitempty"`
	Ref     *vlm.ItemRef `json:"ref,omitempty"`
	Content string       `json:"content"`
}

// Cell looks up and renders one cell of a materialized table.
func (s *Session) Cell(dataset string, q CellQuery) (*CellView, error) {
	res, err := s.Materialize(dataset)
	if err != nil {
		return nil, err
	}
	row := res.Find(q.Paramcd, q.Source, q.Value)
	if row == nil {
		key := q.Paramcd
		if q.Source != "" {
			key += fmt.Sprintf(" (%s=%s)", q.Source, q.Value)
		}
		return nil, fmt.Errorf("%s in %s: %w", key, res.Dataset, ErrRowNotFound)
	}

	column := strings.ToUpper(strings.TrimSpace(q.Column))
	view := &CellView{Row: row, Cell: row.Cell(column)}
	if view.Cell != nil {
		view.Ref = view.Cell.Ref
	}
	if view.Ref == nil && (column == vlm.ParamcdVariable || column == vlm.ParamVariable) {
		view.Ref = rowRef(row, res.Columns)
	}
	view.Content = format.CellContent(view.Ref, column)
	return view, nil
}

// rowRef returns the first ItemRef behind any cell of the row, in column
// order, or a bare ref carrying the row's parameter.
func rowRef(row *vlm.Row, columns []string) *vlm.ItemRef {
	for _, col := range columns {
		if c := row.Cell(col); c != nil && c.Ref != nil {
			return c.Ref
		}
	}
	return &vlm.ItemRef{
		Paramcd:          row.Paramcd,
		Param:            row.Param,
		NonParameterized: row.NonParameterized,
	}
}

// DatasetNames returns the dataset names of the document, sorted.
func (s *Session) DatasetNames() []string {
	names := make([]string, 0, len(s.Document.ItemGroups))
	for _, ig := range s.Document.ItemGroups {
		names = append(names, ig.Name)
	}
	slices.Sort(names)
	return names
}
