package core

// =============================================================================
// Document
// =============================================================================

// Document is the normalised content of one Define-XML file.
// Every entity is owned by the Document; cross references are OID strings
// resolved through an Index.
type Document struct {
	Study           Study            `json:"study"`
	MetaData        MetaDataVersion  `json:"metadata"`
	Standards       []Standard       `json:"standards,omitempty"`
	ItemGroups      []ItemGroup      `json:"item_groups"`
	ItemDefs        []ItemDef        `json:"item_defs"`
	Methods         []Method         `json:"methods,omitempty"`
	Comments        []Comment        `json:"comments,omitempty"`
	ItemRefs        []ItemRef        `json:"item_refs,omitempty"` // group-level refs, flattened
	CodeLists       []CodeList       `json:"code_lists,omitempty"`
	WhereClauses    []WhereClauseDef `json:"where_clauses,omitempty"`
	ValueLists      []ValueListDef   `json:"value_lists,omitempty"`
	Leaves          []Leaf           `json:"leaves,omitempty"`
	AnalysisResults []AnalysisResult `json:"analysis_results,omitempty"`
}

// Study identifies the clinical study the metadata belongs to.
type Study struct {
	OID          string `json:"oid"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	ProtocolName string `json:"protocol_name,omitempty"`
}

// MetaDataVersion describes the version block holding all definitions.
type MetaDataVersion struct {
	OID           string `json:"oid"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	DefineVersion string `json:"define_version,omitempty"`
}

// Standard is a referenced data standard or controlled terminology package.
type Standard struct {
	OID           string `json:"oid"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	PublishingSet string `json:"publishing_set,omitempty"`
	Version       string `json:"version"`
	Status        string `json:"status,omitempty"`
}

// =============================================================================
// Datasets and variables
// =============================================================================

// ItemGroup is a dataset definition.
type ItemGroup struct {
	OID               string      `json:"oid"`
	Name              string      `json:"name"`
	SASDatasetName    string      `json:"sas_dataset_name,omitempty"`
	Structure         string      `json:"structure,omitempty"`
	Class             string      `json:"class,omitempty"`
	Purpose           string      `json:"purpose,omitempty"`
	Repeating         bool        `json:"repeating"`
	IsReferenceData   bool        `json:"is_reference_data"`
	Description       Description `json:"description"`
	CommentOID        string      `json:"comment_oid,omitempty"`
	ArchiveLocationID string      `json:"archive_location_id,omitempty"`
	ItemRefs          []ItemRef   `json:"item_refs"`
}

// ItemDef is a variable definition.
type ItemDef struct {
	OID               string      `json:"oid"`
	Name              string      `json:"name"`
	DataType          string      `json:"data_type"`
	Length            int         `json:"length,omitempty"`
	SignificantDigits int         `json:"significant_digits,omitempty"`
	SASFieldName      string      `json:"sas_field_name,omitempty"`
	DisplayFormat     string      `json:"display_format,omitempty"`
	Description       Description `json:"description"`
	CodeListOID       string      `json:"code_list_oid,omitempty"`
	CommentOID        string      `json:"comment_oid,omitempty"`
	ValueListOID      string      `json:"value_list_oid,omitempty"`
	Origin            *Origin     `json:"origin,omitempty"`
}

// Origin records where a variable's values come from.
type Origin struct {
	Type         string        `json:"type"`
	Source       string        `json:"source,omitempty"`
	Description  Description   `json:"description"`
	DocumentRefs []DocumentRef `json:"document_refs,omitempty"`
}

// ItemRef links an item group or value list to an ItemDef.
type ItemRef struct {
	OwnerOID        string   `json:"owner_oid"`
	ItemOID         string   `json:"item_oid"`
	Mandatory       bool     `json:"mandatory"`
	OrderNumber     int      `json:"order_number"`
	KeySequence     int      `json:"key_sequence,omitempty"`
	MethodOID       string   `json:"method_oid,omitempty"`
	Role            string   `json:"role,omitempty"`
	WhereClauseOIDs []string `json:"where_clause_oids,omitempty"`
}

// WhereClauseOID returns the first where-clause reference, or "".
func (r ItemRef) WhereClauseOID() string {
	if len(r.WhereClauseOIDs) == 0 {
		return ""
	}
	return r.WhereClauseOIDs[0]
}

// =============================================================================
// Methods, comments and documents
// =============================================================================

// Method is a derivation or imputation algorithm.
type Method struct {
	OID               string             `json:"oid"`
	Name              string             `json:"name"`
	Type              string             `json:"type"`
	Description       Description        `json:"description"`
	FormalExpressions []FormalExpression `json:"formal_expressions,omitempty"`
	DocumentRefs      []DocumentRef      `json:"document_refs,omitempty"`
}

// FormalExpression is machine-readable method code.
type FormalExpression struct {
	Context    string `json:"context"`
	Expression string `json:"expression"`
}

// Comment is a free-text annotation referenced by OID.
type Comment struct {
	OID          string        `json:"oid"`
	Description  Description   `json:"description"`
	DocumentRefs []DocumentRef `json:"document_refs,omitempty"`
}

// DocumentRef points at a Leaf, optionally narrowed to pages.
type DocumentRef struct {
	LeafID   string `json:"leaf_id"`
	PageRefs string `json:"page_refs,omitempty"`
	PageType string `json:"page_type,omitempty"`
}

// Leaf is an external document (annotated CRF, reviewer guide, ...).
type Leaf struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Href  string `json:"href"`
}

// =============================================================================
// Controlled terminology
// =============================================================================

// CodeListKind distinguishes the three shapes a CodeList can take.
type CodeListKind string

// Code list kinds.
const (
	CodeListEnumerated CodeListKind = "enumerated"
	CodeListCoded      CodeListKind = "coded"
	CodeListExternal   CodeListKind = "external"
)

// CodeList is a controlled terminology list.
type CodeList struct {
	OID             string            `json:"oid"`
	Name            string            `json:"name"`
	DataType        string            `json:"data_type"`
	StandardOID     string            `json:"standard_oid,omitempty"`
	CodeListItems   []CodeListItem    `json:"code_list_items,omitempty"`
	EnumeratedItems []CodeListItem    `json:"enumerated_items,omitempty"`
	External        *ExternalCodeList `json:"external,omitempty"`
}

// CodeListItem is one term. Decode is empty for enumerated items.
type CodeListItem struct {
	CodedValue    string  `json:"coded_value"`
	Decode        string  `json:"decode,omitempty"`
	OrderNumber   int     `json:"order_number,omitempty"`
	Rank          float64 `json:"rank,omitempty"`
	ExtendedValue bool    `json:"extended_value,omitempty"`
}

// ExternalCodeList references a dictionary such as MedDRA.
type ExternalCodeList struct {
	Dictionary string `json:"dictionary"`
	Version    string `json:"version,omitempty"`
	Ref        string `json:"ref,omitempty"`
	Href       string `json:"href,omitempty"`
}

// Kind reports which shape the code list has.
func (c *CodeList) Kind() CodeListKind {
	switch {
	case c.External != nil:
		return CodeListExternal
	case len(c.CodeListItems) > 0:
		return CodeListCoded
	default:
		return CodeListEnumerated
	}
}

// Values returns the coded values: CodeListItems, else EnumeratedItems.
func (c *CodeList) Values() []string {
	items := c.CodeListItems
	if len(items) == 0 {
		items = c.EnumeratedItems
	}
	values := make([]string, 0, len(items))
	for _, it := range items {
		values = append(values, it.CodedValue)
	}
	return values
}

// Decodes returns coded value -> decode for every coded item.
// Enumerated items decode to themselves.
func (c *CodeList) Decodes() map[string]string {
	m := make(map[string]string, len(c.CodeListItems)+len(c.EnumeratedItems))
	for _, it := range c.CodeListItems {
		m[it.CodedValue] = it.Decode
	}
	for _, it := range c.EnumeratedItems {
		if _, ok := m[it.CodedValue]; !ok {
			m[it.CodedValue] = it.CodedValue
		}
	}
	return m
}

// =============================================================================
// Value-level metadata
// =============================================================================

// Comparator is a RangeCheck comparison operator.
type Comparator string

// Comparators accepted in a RangeCheck.
const (
	ComparatorEQ    Comparator = "EQ"
	ComparatorNE    Comparator = "NE"
	ComparatorLT    Comparator = "LT"
	ComparatorLE    Comparator = "LE"
	ComparatorGT    Comparator = "GT"
	ComparatorGE    Comparator = "GE"
	ComparatorIN    Comparator = "IN"
	ComparatorNOTIN Comparator = "NOTIN"
)

// Valid reports whether c is one of the known comparators.
func (c Comparator) Valid() bool {
	switch c {
	case ComparatorEQ, ComparatorNE, ComparatorLT, ComparatorLE,
		ComparatorGT, ComparatorGE, ComparatorIN, ComparatorNOTIN:
		return true
	}
	return false
}

// Selects reports whether the comparator picks the listed values
// (as opposed to excluding them or comparing by order).
func (c Comparator) Selects() bool {
	return c == ComparatorEQ || c == ComparatorIN
}

// WhereClauseDef is a conjunction of range checks.
type WhereClauseDef struct {
	OID         string       `json:"oid"`
	RangeChecks []RangeCheck `json:"range_checks"`
}

// RangeCheck constrains one variable.
type RangeCheck struct {
	Comparator  Comparator `json:"comparator"`
	SoftHard    string     `json:"soft_hard"`
	ItemOID     string     `json:"item_oid"`
	CheckValues []string   `json:"check_values"`
}

// ValueListDef groups the value-level ItemRefs for one variable.
type ValueListDef struct {
	OID      string    `json:"oid"`
	ItemRefs []ItemRef `json:"item_refs"`
}

// =============================================================================
// Analysis results
// =============================================================================

// AnalysisResult is an analysis results metadata entry.
type AnalysisResult struct {
	OID                string            `json:"oid"`
	DisplayOID         string            `json:"display_oid,omitempty"`
	DisplayName        string            `json:"display_name,omitempty"`
	Description        Description       `json:"description"`
	ParameterOID       string            `json:"parameter_oid,omitempty"`
	Reason             string            `json:"reason,omitempty"`
	Purpose            string            `json:"purpose,omitempty"`
	Datasets           []AnalysisDataset `json:"datasets,omitempty"`
	Documentation      Description       `json:"documentation"`
	ProgrammingContext string            `json:"programming_context,omitempty"`
	ProgrammingCode    string            `json:"programming_code,omitempty"`
}

// AnalysisDataset names the dataset, selection and variables of an analysis.
type AnalysisDataset struct {
	ItemGroupOID   string   `json:"item_group_oid"`
	WhereClauseOID string   `json:"where_clause_oid,omitempty"`
	VariableOIDs   []string `json:"variable_oids,omitempty"`
}
