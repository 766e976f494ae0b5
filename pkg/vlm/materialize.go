package vlm

import (
	"cmp"
	"maps"
	"slices"
	"strings"
)

// Cell is one materialised value.
type Cell struct {
	Value             string `json:"value"`
	Derivation        string `json:"derivation,omitempty"`
	Unresolved        bool   `json:"unresolved,omitempty"`
	DataType          string `json:"data_type,omitempty"`
	ItemOID           string `json:"item_oid,omitempty"`
	OriginType        string `json:"origin_type,omitempty"`
	OriginSource      string `json:"origin_source,omitempty"`
	MethodOID         string `json:"method_oid,omitempty"`
	MethodDescription string `json:"method_description,omitempty"`
	CommentOID        string `json:"comment_oid,omitempty"`
	Comment           string `json:"comment,omitempty"`
	CodeListOID       string `json:"code_list_oid,omitempty"`

	// Ref is the ItemRef the cell was populated from, if any.
	Ref *ItemRef `json:"-"`
}

// Row is one displayable row of a materialised table.
type Row struct {
	Paramcd          string `json:"paramcd"`
	Param            string `json:"param"`
	WhereClause      string `json:"where_clause,omitempty"`
	DuplicateSource  string `json:"duplicate_source,omitempty"`
	DuplicateValue   string `json:"duplicate_value,omitempty"`
	NonParameterized bool   `json:"non_parameterized,omitempty"`
	// Order is the insertion index, the last sort tie breaker.
	Order int              `json:"order"`
	Cells map[string]*Cell `json:"cells"`
}

// IsDuplicate reports whether the row was generated for a duplicate source.
func (r *Row) IsDuplicate() bool { return r.DuplicateSource != "" }

// Cell returns the cell of a column, or nil.
func (r *Row) Cell(column string) *Cell {
	if r == nil {
		return nil
	}
	return r.Cells[column]
}

// Result is the materialised value-level metadata of one dataset.
type Result struct {
	Dataset          string              `json:"dataset"`
	Columns          []string            `json:"columns"`
	Rows             []*Row              `json:"rows"`
	DuplicateSources []string            `json:"duplicate_sources"`
	Applicable       map[string][]string `json:"applicable,omitempty"`
	Diagnostics      *Diagnostics        `json:"diagnostics,omitempty"`
}

// Find returns the row for a parameter and, for duplicate rows, the
// duplicate source and value. Empty source selects the base row.
func (r *Result) Find(paramcd, source, value string) *Row {
	if r == nil {
		return nil
	}
	for _, row := range r.Rows {
		if row.Paramcd != paramcd {
			continue
		}
		if strings.EqualFold(row.DuplicateSource, source) && row.DuplicateValue == value {
			return row
		}
	}
	return nil
}

// Materialize turns processed value lists into a table with one base row per
// parameter, plus one duplicate row per value of every duplicate source that
// applies to the parameter and is present in the dataset.
func (b *Builder) Materialize(dataset string, processed []VariableVLM) *Result {
	ds := b.normalize(dataset)
	res := &Result{
		Dataset:     ds,
		Columns:     b.columns(ds, processed),
		Diagnostics: &Diagnostics{},
	}

	params := b.Parameters(ds)

	// Parameters referenced by an ItemRef come first; code list parameters
	// without value-level metadata still get a base row.
	var paramcds []string
	for _, v := range processed {
		for _, ref := range v.ItemRefs {
			paramcds = appendUnique(paramcds, ref.Paramcd)
		}
	}
	if len(processed) > 0 {
		for _, code := range params.Codes {
			paramcds = appendUnique(paramcds, code)
		}
	}

	var known []string
	for _, p := range paramcds {
		if p != AllParameters {
			known = append(known, p)
		}
	}
	res.DuplicateSources = b.IdentifyDuplicateSources(ds)
	res.Applicable = b.IdentifyApplicableDuplicateSources(ds, known)

	var bases []*Row
	for _, p := range paramcds {
		row := &Row{
			Paramcd:          p,
			Param:            paramLabel(p, params, processed),
			WhereClause:      firstWhereClause(p, processed),
			NonParameterized: p == AllParameters,
			Order:            len(bases),
			Cells:            make(map[string]*Cell),
		}
		bases = append(bases, row)
	}

	// Duplicate rows start from a copy of the base row's cells.
	for _, row := range bases {
		b.populate(row, processed)
	}

	sourceValues := make(map[string][]string)
	rows := slices.Clone(bases)
	for _, base := range bases {
		for _, source := range res.Applicable[base.Paramcd] {
			if !slices.Contains(res.DuplicateSources, source) {
				continue
			}
			values, ok := sourceValues[source]
			if !ok {
				for _, v := range b.duplicateSourceValues(source, ds, res.Diagnostics) {
					values = appendUnique(values, v)
				}
				sourceValues[source] = values
			}
			for _, value := range values {
				dup := &Row{
					Paramcd:         base.Paramcd,
					Param:           base.Param,
					WhereClause:     base.WhereClause,
					DuplicateSource: source,
					DuplicateValue:  value,
					Order:           len(rows),
					Cells:           maps.Clone(base.Cells),
				}
				b.populate(dup, processed)
				rows = append(rows, dup)
			}
		}
	}

	slices.SortFunc(rows, compareRows)
	res.Rows = rows
	return res
}

// populate fills the cells of a row. PARAMCD and PARAM come from the row;
// the duplicate-source column of a duplicate row holds its value; every
// other VLM variable is derived from the ItemRef matching the parameter.
func (b *Builder) populate(row *Row, processed []VariableVLM) {
	row.Cells[ParamcdVariable] = &Cell{Value: row.Paramcd}
	row.Cells[ParamVariable] = &Cell{Value: row.Param}
	if row.IsDuplicate() {
		row.Cells[row.DuplicateSource] = &Cell{Value: row.DuplicateValue}
	}

	for _, v := range processed {
		if strings.EqualFold(v.Variable, ParamcdVariable) || strings.EqualFold(v.Variable, ParamVariable) {
			continue
		}
		if row.IsDuplicate() && strings.EqualFold(v.Variable, row.DuplicateSource) {
			continue
		}
		ref := matchRef(v.ItemRefs, row.Paramcd)
		if ref == nil {
			continue
		}
		row.Cells[v.Variable] = b.cell(row, v.Variable, ref)
	}
}

func (b *Builder) cell(row *Row, variable string, ref *ItemRef) *Cell {
	d := b.deriver.Derive(DeriveInput{Row: row, Variable: variable, Ref: ref})
	c := &Cell{
		Value:      d.Value,
		Derivation: d.Derivation,
		Unresolved: d.Unresolved,
		ItemOID:    ref.ItemOID,
		Ref:        ref,
	}
	if def := ref.ItemDef; def != nil {
		c.DataType = def.DataType
		c.CodeListOID = def.CodeListOID
		if def.CommentOID != "" {
			c.CommentOID = def.CommentOID
			if com := b.idx.Comment(def.CommentOID); com != nil {
				c.Comment = com.Description.Text
			}
		}
	}
	if o := ref.Origin; o != nil {
		c.OriginType = o.Type
		c.OriginSource = o.Source
	}
	if m := ref.Method; m != nil {
		c.MethodOID = m.OID
		c.MethodDescription = m.Description.Text
	}
	return c
}

// columns returns PARAMCD, PARAM, the VLM variables, then the dataset's own
// variables, without duplicates.
func (b *Builder) columns(dataset string, processed []VariableVLM) []string {
	cols := []string{ParamcdVariable, ParamVariable}
	seen := map[string]bool{ParamcdVariable: true, ParamVariable: true}
	add := func(name string) {
		key := strings.ToUpper(name)
		if name == "" || seen[key] {
			return
		}
		seen[key] = true
		cols = append(cols, name)
	}
	for _, v := range processed {
		add(v.Variable)
	}
	for _, def := range b.idx.DatasetVariables(dataset) {
		add(def.Name)
	}
	return cols
}

// matchRef returns the ItemRef for a parameter, falling back to one that
// applies to all parameters.
func matchRef(refs []ItemRef, paramcd string) *ItemRef {
	var fallback *ItemRef
	for i := range refs {
		switch {
		case refs[i].Paramcd == paramcd:
			return &refs[i]
		case refs[i].NonParameterized && fallback == nil:
			fallback = &refs[i]
		}
	}
	return fallback
}

func paramLabel(paramcd string, params ParameterSet, processed []VariableVLM) string {
	if d, ok := params.Decode(paramcd); ok {
		return d
	}
	for _, v := range processed {
		for _, ref := range v.ItemRefs {
			if ref.Paramcd == paramcd && ref.Param != "" {
				return ref.Param
			}
		}
	}
	return ""
}

// firstWhereClause renders the first where clause found for a parameter.
func firstWhereClause(paramcd string, processed []VariableVLM) string {
	for _, v := range processed {
		for _, ref := range v.ItemRefs {
			if ref.Paramcd == paramcd && len(ref.Conditions) > 0 {
				wc := WhereClause{OID: ref.WhereClauseOID, Conditions: ref.Conditions}
				return wc.String()
			}
		}
	}
	return ""
}

// compareRows orders by parameter, base rows first, then duplicate source,
// duplicate value and insertion order.
func compareRows(a, b *Row) int {
	if c := cmp.Compare(a.Paramcd, b.Paramcd); c != 0 {
		return c
	}
	if a.IsDuplicate() != b.IsDuplicate() {
		if a.IsDuplicate() {
			return 1
		}
		return -1
	}
	return cmp.Or(
		cmp.Compare(a.DuplicateSource, b.DuplicateSource),
		cmp.Compare(a.DuplicateValue, b.DuplicateValue),
		cmp.Compare(a.Order, b.Order),
	)
}
