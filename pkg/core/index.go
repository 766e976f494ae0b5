package core

import (
	"cmp"
	"slices"
	"strings"
)

// Index is an OID lookup table over one Document.
// Build it once with NewIndex; it is read-only afterwards and safe to share.
type Index struct {
	doc *Document

	itemGroups       map[string]*ItemGroup
	itemGroupsByName map[string]*ItemGroup
	itemDefs         map[string]*ItemDef
	methods          map[string]*Method
	comments         map[string]*Comment
	codeLists        map[string]*CodeList
	whereClauses     map[string]*WhereClauseDef
	valueLists       map[string]*ValueListDef
	leaves           map[string]*Leaf
}

// NewIndex builds the lookup tables for doc. When an OID occurs twice the
// first definition wins.
func NewIndex(doc *Document) *Index {
	idx := &Index{
		doc:              doc,
		itemGroups:       make(map[string]*ItemGroup, len(doc.ItemGroups)),
		itemGroupsByName: make(map[string]*ItemGroup, len(doc.ItemGroups)),
		itemDefs:         make(map[string]*ItemDef, len(doc.ItemDefs)),
		methods:          make(map[string]*Method, len(doc.Methods)),
		comments:         make(map[string]*Comment, len(doc.Comments)),
		codeLists:        make(map[string]*CodeList, len(doc.CodeLists)),
		whereClauses:     make(map[string]*WhereClauseDef, len(doc.WhereClauses)),
		valueLists:       make(map[string]*ValueListDef, len(doc.ValueLists)),
		leaves:           make(map[string]*Leaf, len(doc.Leaves)),
	}

	for i := range doc.ItemGroups {
		g := &doc.ItemGroups[i]
		putFirst(idx.itemGroups, g.OID, g)
		putFirst(idx.itemGroupsByName, strings.ToUpper(g.Name), g)
		if g.SASDatasetName != "" {
			putFirst(idx.itemGroupsByName, strings.ToUpper(g.SASDatasetName), g)
		}
	}
	for i := range doc.ItemDefs {
		putFirst(idx.itemDefs, doc.ItemDefs[i].OID, &doc.ItemDefs[i])
	}
	for i := range doc.Methods {
		putFirst(idx.methods, doc.Methods[i].OID, &doc.Methods[i])
	}
	for i := range doc.Comments {
		putFirst(idx.comments, doc.Comments[i].OID, &doc.Comments[i])
	}
	for i := range doc.CodeLists {
		putFirst(idx.codeLists, doc.CodeLists[i].OID, &doc.CodeLists[i])
	}
	for i := range doc.WhereClauses {
		putFirst(idx.whereClauses, doc.WhereClauses[i].OID, &doc.WhereClauses[i])
	}
	for i := range doc.ValueLists {
		putFirst(idx.valueLists, doc.ValueLists[i].OID, &doc.ValueLists[i])
	}
	for i := range doc.Leaves {
		putFirst(idx.leaves, doc.Leaves[i].ID, &doc.Leaves[i])
	}
	return idx
}

func putFirst[T any](m map[string]*T, key string, v *T) {
	if key == "" {
		return
	}
	if _, ok := m[key]; !ok {
		m[key] = v
	}
}

// Document returns the indexed document.
func (idx *Index) Document() *Document { return idx.doc }

// ItemGroup looks up a dataset by OID.
func (idx *Index) ItemGroup(oid string) *ItemGroup { return idx.itemGroups[oid] }

// ItemGroupByName looks up a dataset by its (already normalised) name.
func (idx *Index) ItemGroupByName(name string) *ItemGroup {
	return idx.itemGroupsByName[strings.ToUpper(name)]
}

// ItemDef looks up a variable by OID.
func (idx *Index) ItemDef(oid string) *ItemDef { return idx.itemDefs[oid] }

// Method looks up a method by OID.
func (idx *Index) Method(oid string) *Method { return idx.methods[oid] }

// Comment looks up a comment by OID.
func (idx *Index) Comment(oid string) *Comment { return idx.comments[oid] }

// CodeList looks up a code list by OID.
func (idx *Index) CodeList(oid string) *CodeList { return idx.codeLists[oid] }

// WhereClause looks up a where clause by OID.
func (idx *Index) WhereClause(oid string) *WhereClauseDef { return idx.whereClauses[oid] }

// ValueList looks up a value list by OID.
func (idx *Index) ValueList(oid string) *ValueListDef { return idx.valueLists[oid] }

// Leaf looks up a document leaf by ID.
func (idx *Index) Leaf(id string) *Leaf { return idx.leaves[id] }

// VariableName returns the name of the ItemDef behind oid, falling back to
// the variable part of the OID when the ItemDef is unknown.
func (idx *Index) VariableName(oid string) string {
	if def := idx.itemDefs[oid]; def != nil && def.Name != "" {
		return def.Name
	}
	if parts, ok := SplitOID(oid); ok {
		return parts.Variable
	}
	return oid
}

// DatasetVariable finds the ItemDef for a variable of a dataset: first
// through the dataset's ItemRefs, then by OID decomposition.
func (idx *Index) DatasetVariable(dataset, variable string) *ItemDef {
	if g := idx.ItemGroupByName(dataset); g != nil {
		for _, ref := range g.ItemRefs {
			if def := idx.itemDefs[ref.ItemOID]; def != nil && strings.EqualFold(def.Name, variable) {
				return def
			}
		}
	}
	return idx.DatasetVariableByOID(dataset, variable)
}

// DatasetVariableByOID finds an ItemDef whose OID decomposes to
// dataset and variable, e.g. IT.ADLB.PARAMCD.
func (idx *Index) DatasetVariableByOID(dataset, variable string) *ItemDef {
	for i := range idx.doc.ItemDefs {
		def := &idx.doc.ItemDefs[i]
		parts, ok := SplitOID(def.OID)
		if !ok || len(parts.Rest) > 0 {
			continue
		}
		if strings.EqualFold(parts.Dataset, dataset) && strings.EqualFold(parts.Variable, variable) {
			return def
		}
	}
	return nil
}

// DatasetVariables returns the ItemDefs referenced by a dataset in
// OrderNumber order (document order for ties).
func (idx *Index) DatasetVariables(dataset string) []*ItemDef {
	g := idx.ItemGroupByName(dataset)
	if g == nil {
		return nil
	}
	refs := make([]ItemRef, len(g.ItemRefs))
	copy(refs, g.ItemRefs)
	sortItemRefs(refs)

	defs := make([]*ItemDef, 0, len(refs))
	for _, ref := range refs {
		if def := idx.itemDefs[ref.ItemOID]; def != nil {
			defs = append(defs, def)
		}
	}
	return defs
}

func sortItemRefs(refs []ItemRef) {
	// refs without an order number keep document order after numbered ones
	slices.SortStableFunc(refs, func(a, b ItemRef) int {
		switch {
		case a.OrderNumber == b.OrderNumber:
			return 0
		case a.OrderNumber == 0:
			return 1
		case b.OrderNumber == 0:
			return -1
		}
		return cmp.Compare(a.OrderNumber, b.OrderNumber)
	})
}
