package vlm

import (
	"log/slog"
	"strings"

	"github.com/SDen99/DatasetViewer-sub000/pkg/core"
)

// Options configures a Builder. Zero values select the defaults.
type Options struct {
	Rules     Rules
	Normalize core.NameNormalizer
	// Detectors infer duplicate sources from methods, tried in order.
	Detectors []DuplicateDetector
	Deriver   CellDeriver
	Logger    *slog.Logger
}

// Builder resolves value-level metadata for the datasets of one document.
type Builder struct {
	idx       *core.Index
	rules     Rules
	normalize core.NameNormalizer
	detectors []DuplicateDetector
	deriver   CellDeriver
	logger    *slog.Logger
}

// NewBuilder creates a Builder over idx.
func NewBuilder(idx *core.Index, opts Options) *Builder {
	rules := opts.Rules.withDefaults()

	normalize := opts.Normalize
	if normalize == nil {
		normalize = core.NormalizeDatasetName
	}
	detectors := opts.Detectors
	if detectors == nil {
		detectors = DefaultDetectors(rules)
	}
	deriver := opts.Deriver
	if deriver == nil {
		deriver = PlaceholderDeriver{Rules: rules}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Builder{
		idx:       idx,
		rules:     rules,
		normalize: normalize,
		detectors: detectors,
		deriver:   deriver,
		logger:    logger,
	}
}

// Index returns the index the builder reads from.
func (b *Builder) Index() *core.Index { return b.idx }

// Rules returns the effective rules.
func (b *Builder) Rules() Rules { return b.rules }

// Normalize maps a user-supplied dataset name to its canonical form.
func (b *Builder) Normalize(dataset string) string { return b.normalize(dataset) }

// ResolveWhereClause resolves a where clause in the context of a dataset.
func (b *Builder) ResolveWhereClause(oid, dataset string) *WhereClause {
	return ResolveWhereClause(b.idx, oid, b.normalize(dataset))
}

// ParameterSet is the ordered PARAMCD code list of a dataset.
type ParameterSet struct {
	Codes   []string
	Decodes map[string]string
}

// Empty reports whether the dataset has no PARAMCD code list.
func (p ParameterSet) Empty() bool { return len(p.Codes) == 0 }

// Decode returns the decode of code and whether code is known.
func (p ParameterSet) Decode(code string) (string, bool) {
	d, ok := p.Decodes[code]
	return d, ok
}

// Parameters returns the PARAMCD code list of a dataset. Coded items
// decode to their Decode text, enumerated items to themselves.
func (b *Builder) Parameters(dataset string) ParameterSet {
	set := ParameterSet{Decodes: make(map[string]string)}

	def := b.idx.DatasetVariable(b.normalize(dataset), ParamcdVariable)
	if def == nil || def.CodeListOID == "" {
		return set
	}
	cl := b.idx.CodeList(def.CodeListOID)
	if cl == nil {
		return set
	}

	items := cl.CodeListItems
	if len(items) == 0 {
		items = cl.EnumeratedItems
	}
	for _, it := range items {
		if _, dup := set.Decodes[it.CodedValue]; dup {
			continue
		}
		decode := it.Decode
		if decode == "" {
			decode = it.CodedValue
		}
		set.Codes = append(set.Codes, it.CodedValue)
		set.Decodes[it.CodedValue] = decode
	}
	return set
}

// VariableVLM is the processed value list of one dataset variable.
type VariableVLM struct {
	Variable     string    `json:"variable"`
	ValueListOID string    `json:"value_list_oid"`
	ItemRefs     []ItemRef `json:"item_refs"`
}

// ProcessDataset processes every value list attached to a dataset: first
// those referenced by the dataset's variables, then any remaining value
// list whose OID names the dataset.
func (b *Builder) ProcessDataset(dataset string, diag *Diagnostics) []VariableVLM {
	ds := b.normalize(dataset)
	params := b.Parameters(ds)

	var out []VariableVLM
	seen := make(map[string]bool)
	for _, def := range b.idx.DatasetVariables(ds) {
		if def.ValueListOID == "" {
			continue
		}
		vl := b.idx.ValueList(def.ValueListOID)
		if vl == nil {
			diag.Add(DiagMissingValueList, def.ValueListOID, "value list of %s not found", def.Name)
			continue
		}
		if seen[vl.OID] {
			continue
		}
		seen[vl.OID] = true
		out = append(out, VariableVLM{
			Variable:     def.Name,
			ValueListOID: vl.OID,
			ItemRefs:     b.ProcessParameterItemRefs(vl, params, ds, diag),
		})
	}

	doc := b.idx.Document()
	for i := range doc.ValueLists {
		vl := &doc.ValueLists[i]
		if seen[vl.OID] {
			continue
		}
		parts, ok := core.SplitOID(vl.OID)
		if !ok || !strings.EqualFold(parts.Dataset, ds) {
			continue
		}
		seen[vl.OID] = true
		out = append(out, VariableVLM{
			Variable:     parts.Variable,
			ValueListOID: vl.OID,
			ItemRefs:     b.ProcessParameterItemRefs(vl, params, ds, diag),
		})
	}
	return out
}

// Build processes and materialises the value-level metadata of a dataset.
func (b *Builder) Build(dataset string) *Result {
	diag := &Diagnostics{}
	processed := b.ProcessDataset(dataset, diag)
	res := b.Materialize(dataset, processed)
	diag.Merge(res.Diagnostics)
	res.Diagnostics = diag

	b.logger.Debug("materialized value-level metadata",
		"dataset", res.Dataset,
		"variables", len(processed),
		"rows", len(res.Rows),
		"skipped_refs", diag.Skipped(),
		"diagnostics", diag.Len())
	return res
}
