package vlm

import (
	"strings"

	"github.com/SDen99/DatasetViewer-sub000/pkg/core"
)

// Condition is one resolved RangeCheck.
type Condition struct {
	Variable   string          `json:"variable"`
	ItemOID    string          `json:"item_oid"`
	Comparator core.Comparator `json:"comparator"`
	Values     []string        `json:"values"`
}

// String renders the condition, e.g. "DTYPE = LOCF" or "AVISITN IN (1, 2)".
func (c Condition) String() string {
	sym := ComparatorSymbol(c.Comparator)
	switch c.Comparator {
	case core.ComparatorIN, core.ComparatorNOTIN:
		return c.Variable + " " + sym + " (" + strings.Join(c.Values, ", ") + ")"
	default:
		return c.Variable + " " + sym + " " + strings.Join(c.Values, ", ")
	}
}

// ComparatorSymbol maps a comparator to its display symbol. Unknown
// comparators are returned as-is.
func ComparatorSymbol(c core.Comparator) string {
	switch c {
	case core.ComparatorEQ:
		return "="
	case core.ComparatorNE:
		return "≠"
	case core.ComparatorLT:
		return "<"
	case core.ComparatorLE:
		return "≤"
	case core.ComparatorGT:
		return ">"
	case core.ComparatorGE:
		return "≥"
	case core.ComparatorIN:
		return "IN"
	case core.ComparatorNOTIN:
		return "NOT IN"
	default:
		return string(c)
	}
}

// WhereClause is a resolved WhereClauseDef.
type WhereClause struct {
	OID string `json:"oid"`
	// Conditions holds the range checks on variables other than PARAMCD,
	// in document order.
	Conditions []Condition `json:"conditions"`
	// Paramcds are the parameter codes selected with EQ or IN, first-seen order.
	Paramcds []string `json:"paramcds,omitempty"`
	// SpecialVariables maps each non-PARAMCD variable to its check values.
	SpecialVariables map[string][]string `json:"special_variables,omitempty"`
}

// String joins all conditions with AND.
func (w *WhereClause) String() string {
	if w == nil {
		return ""
	}
	parts := make([]string, 0, len(w.Conditions))
	for _, c := range w.Conditions {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " AND ")
}

// FirstSpecialCondition returns a copy of the first condition.
func (w *WhereClause) FirstSpecialCondition() *Condition {
	if w == nil || len(w.Conditions) == 0 {
		return nil
	}
	c := w.Conditions[0]
	return &c
}

// ResolveWhereClause resolves a where clause by OID. It returns nil when
// the OID is empty or unknown.
func ResolveWhereClause(idx *core.Index, oid, dataset string) *WhereClause {
	if oid == "" {
		return nil
	}
	def := idx.WhereClause(oid)
	if def == nil {
		return nil
	}

	wc := &WhereClause{OID: def.OID}
	for _, rc := range def.RangeChecks {
		cond := Condition{
			Variable:   variableOf(idx, rc.ItemOID, dataset),
			ItemOID:    rc.ItemOID,
			Comparator: rc.Comparator,
			Values:     append([]string(nil), rc.CheckValues...),
		}
		if strings.EqualFold(cond.Variable, ParamcdVariable) {
			if rc.Comparator.Selects() {
				for _, v := range rc.CheckValues {
					wc.Paramcds = appendUnique(wc.Paramcds, v)
				}
			}
			continue
		}

		wc.Conditions = append(wc.Conditions, cond)
		if wc.SpecialVariables == nil {
			wc.SpecialVariables = make(map[string][]string)
		}
		for _, v := range rc.CheckValues {
			wc.SpecialVariables[cond.Variable] = appendUnique(wc.SpecialVariables[cond.Variable], v)
		}
	}
	return wc
}

// variableOf names the variable behind an item OID: the ItemDef name when
// known, else the OID segment following the dataset.
func variableOf(idx *core.Index, itemOID, dataset string) string {
	if def := idx.ItemDef(itemOID); def != nil && def.Name != "" {
		return def.Name
	}
	if dataset != "" {
		prefix := "." + strings.ToUpper(dataset) + "."
		if i := strings.Index(strings.ToUpper(itemOID), prefix); i >= 0 {
			rest := itemOID[i+len(prefix):]
			if j := strings.IndexByte(rest, '.'); j >= 0 {
				rest = rest[:j]
			}
			return rest
		}
	}
	if parts, ok := core.SplitOID(itemOID); ok {
		return parts.Variable
	}
	if i := strings.LastIndexByte(itemOID, '.'); i >= 0 {
		return itemOID[i+1:]
	}
	return itemOID
}
