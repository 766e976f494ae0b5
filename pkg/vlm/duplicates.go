package vlm

import (
	"slices"
	"strings"

	"github.com/SDen99/DatasetViewer-sub000/pkg/core"
)

// IdentifyDuplicateSources returns the candidate duplicate sources that are
// confirmed present in the dataset: an ItemDef must exist whose OID
// decomposes to the dataset and the variable (IT.<dataset>.<variable>).
func (b *Builder) IdentifyDuplicateSources(dataset string) []string {
	ds := b.normalize(dataset)
	var out []string
	for _, cand := range b.rules.DuplicateSources {
		if b.idx.DatasetVariableByOID(ds, cand) != nil {
			out = appendUnique(out, strings.ToUpper(cand))
		}
	}
	return out
}

// IdentifyApplicableDuplicateSources maps each known PARAMCD to the
// duplicate sources the metadata associates with it. Evidence comes from
// range checks on duplicate-source variables, duplicate-source tokens in
// where-clause OIDs, and the configured method detectors. Sources are
// sorted per parameter.
func (b *Builder) IdentifyApplicableDuplicateSources(dataset string, paramcds []string) map[string][]string {
	ds := b.normalize(dataset)
	out := make(map[string][]string)
	if len(paramcds) == 0 {
		return out
	}

	// Upper-cased code -> code as the parameter set spells it.
	known := make(map[string]string, len(paramcds))
	for _, p := range paramcds {
		if _, ok := known[strings.ToUpper(p)]; !ok {
			known[strings.ToUpper(p)] = p
		}
	}
	add := func(paramcd, source string) {
		out[paramcd] = appendUnique(out[paramcd], strings.ToUpper(source))
	}

	doc := b.idx.Document()
	for i := range doc.WhereClauses {
		def := &doc.WhereClauses[i]
		if !b.whereClauseInDataset(def, ds) {
			continue
		}
		wc := ResolveWhereClause(b.idx, def.OID, ds)
		selected := filterKnown(wc.Paramcds, known)
		if len(selected) == 0 {
			continue
		}
		for _, c := range wc.Conditions {
			if b.rules.isDuplicateSource(c.Variable) {
				for _, p := range selected {
					add(p, c.Variable)
				}
			}
		}
		for _, tok := range core.OIDTokens(def.OID) {
			if b.rules.isDuplicateSource(tok) {
				for _, p := range selected {
					add(p, tok)
				}
			}
		}
	}

	for i := range doc.Methods {
		m := &doc.Methods[i]
		selected := filterKnown(core.OIDTokens(m.OID), known)
		if len(selected) == 0 {
			continue
		}
		for _, d := range b.detectors {
			source, ok := d.Detect(m)
			if !ok {
				continue
			}
			for _, p := range selected {
				add(p, source)
			}
			break
		}
	}

	for p := range out {
		slices.Sort(out[p])
	}
	return out
}

// DuplicateSourceValues returns the values a duplicate source takes in a
// dataset: its code list (coded items, else enumerated items), else the
// configured defaults for the source, else the fallback values. Blank
// values are dropped.
func (b *Builder) DuplicateSourceValues(source, dataset string) []string {
	return b.duplicateSourceValues(source, b.normalize(dataset), nil)
}

func (b *Builder) duplicateSourceValues(source, ds string, diag *Diagnostics) []string {
	if def := b.idx.DatasetVariable(ds, source); def != nil && def.CodeListOID != "" {
		if cl := b.idx.CodeList(def.CodeListOID); cl != nil {
			values, blanks := dropBlank(cl.Values())
			if blanks > 0 {
				diag.Add(DiagBlankDuplicateValue, cl.OID,
					"code list %s of %s has %d blank coded values", cl.OID, source, blanks)
			}
			if len(values) > 0 {
				return values
			}
		}
	}
	values, _ := dropBlank(b.rules.valuesFor(source))
	return values
}

// dropBlank returns values without the blank ones, and how many were dropped.
func dropBlank(values []string) ([]string, int) {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out, len(values) - len(out)
}

// whereClauseInDataset reports whether any range check targets a variable
// of the dataset, or the clause OID names the dataset.
func (b *Builder) whereClauseInDataset(def *core.WhereClauseDef, dataset string) bool {
	for _, rc := range def.RangeChecks {
		if parts, ok := core.SplitOID(rc.ItemOID); ok && strings.EqualFold(parts.Dataset, dataset) {
			return true
		}
	}
	tokens := core.OIDTokens(def.OID)
	return len(tokens) > 1 && strings.EqualFold(tokens[1], dataset)
}

// filterKnown returns the known codes matching values case-insensitively,
// spelled as in known, in order.
func filterKnown(values []string, known map[string]string) []string {
	var out []string
	for _, v := range values {
		if code, ok := known[strings.ToUpper(v)]; ok {
			out = appendUnique(out, code)
		}
	}
	return out
}
