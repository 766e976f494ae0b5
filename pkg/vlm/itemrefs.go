package vlm

import (
	"strings"

	"github.com/SDen99/DatasetViewer-sub000/pkg/core"
)

// ItemRef is one value-level ItemRef bound to a single parameter.
type ItemRef struct {
	Paramcd      string `json:"paramcd"`
	Param        string `json:"param"`
	Variable     string `json:"variable"`
	ValueListOID string `json:"value_list_oid"`
	ItemOID      string `json:"item_oid"`

	ItemDef  *core.ItemDef  `json:"item_def,omitempty"`
	Method   *core.Method   `json:"method,omitempty"`
	CodeList *core.CodeList `json:"code_list,omitempty"`
	Comment  *core.Comment  `json:"comment,omitempty"`
	Origin   *core.Origin   `json:"origin,omitempty"`

	WhereClauseOID string `json:"where_clause_oid,omitempty"`
	// WhereClause is the first condition not on PARAMCD, if any.
	WhereClause *Condition `json:"where_clause,omitempty"`
	// Conditions holds the full where clause for display.
	Conditions       []Condition         `json:"conditions,omitempty"`
	SpecialVariables map[string][]string `json:"special_variables,omitempty"`
	Stratification   map[string][]string `json:"stratification,omitempty"`

	Mandatory        bool `json:"mandatory"`
	OrderNumber      int  `json:"order_number"`
	NonParameterized bool `json:"non_parameterized"`
}

// Description returns the ItemDef description text.
func (r *ItemRef) Description() string {
	if r == nil || r.ItemDef == nil {
		return ""
	}
	return r.ItemDef.Description.Text
}

// ProcessParameterItemRefs binds each ItemRef of a value list to the
// parameters it applies to.
//
// ItemRefs without an item OID or whose ItemDef is missing are skipped and
// reported to diag. An ItemRef without a PARAMCD restriction yields one entry
// per known parameter, or a single AllParameters entry when the dataset has
// no PARAMCD code list.
func (b *Builder) ProcessParameterItemRefs(vl *core.ValueListDef, params ParameterSet, dataset string, diag *Diagnostics) []ItemRef {
	if vl == nil {
		return nil
	}
	ds := b.normalize(dataset)
	variable := b.valueListVariable(vl, ds)

	var out []ItemRef
	for _, ref := range vl.ItemRefs {
		if ref.ItemOID == "" {
			diag.Add(DiagMissingItemOID, vl.OID, "ItemRef in %s has no ItemOID", vl.OID)
			continue
		}
		def := b.idx.ItemDef(ref.ItemOID)
		if def == nil {
			diag.Add(DiagMissingItemDef, ref.ItemOID, "ItemDef %s referenced by %s not found", ref.ItemOID, vl.OID)
			continue
		}

		base := ItemRef{
			Variable:     variable,
			ValueListOID: vl.OID,
			ItemOID:      ref.ItemOID,
			ItemDef:      def,
			Origin:       def.Origin,
			Mandatory:    ref.Mandatory,
			OrderNumber:  ref.OrderNumber,
		}
		base.Method = b.resolveMethod(ref.MethodOID, diag)
		base.CodeList = b.resolveCodeList(def.CodeListOID, diag)
		if def.CommentOID != "" {
			base.Comment = b.idx.Comment(def.CommentOID)
		}

		var paramcds []string
		if oid := ref.WhereClauseOID(); oid != "" {
			base.WhereClauseOID = oid
			if wc := ResolveWhereClause(b.idx, oid, ds); wc != nil {
				base.Conditions = wc.Conditions
				base.WhereClause = wc.FirstSpecialCondition()
				base.SpecialVariables = wc.SpecialVariables
				base.Stratification = b.stratification(wc)
				paramcds = wc.Paramcds
			} else {
				diag.Add(DiagMissingWhereClause, oid, "where clause %s referenced by %s not found", oid, ref.ItemOID)
			}
		}

		if len(paramcds) == 0 {
			out = append(out, b.allParameters(base, params)...)
			continue
		}
		for _, code := range paramcds {
			decode, known := params.Decode(code)
			if !known && !params.Empty() {
				diag.Add(DiagUnknownParameter, ref.ItemOID, "PARAMCD %q is not in the %s code list", code, ds)
				continue
			}
			if !known {
				decode = code
			}
			entry := base
			entry.Paramcd = code
			entry.Param = decode
			out = append(out, entry)
		}
	}
	return out
}

func (b *Builder) allParameters(base ItemRef, params ParameterSet) []ItemRef {
	if params.Empty() {
		base.Paramcd = AllParameters
		base.NonParameterized = true
		return []ItemRef{base}
	}
	out := make([]ItemRef, 0, len(params.Codes))
	for _, code := range params.Codes {
		entry := base
		entry.Paramcd = code
		entry.Param = params.Decodes[code]
		out = append(out, entry)
	}
	return out
}

func (b *Builder) stratification(wc *WhereClause) map[string][]string {
	var out map[string][]string
	for variable, values := range wc.SpecialVariables {
		if !b.rules.isStratification(variable) {
			continue
		}
		if out == nil {
			out = make(map[string][]string)
		}
		out[variable] = values
	}
	return out
}

func (b *Builder) resolveMethod(oid string, diag *Diagnostics) *core.Method {
	if oid == "" {
		return nil
	}
	m := b.idx.Method(oid)
	if m == nil {
		diag.Add(DiagMissingMethod, oid, "method %s not found", oid)
	}
	return m
}

func (b *Builder) resolveCodeList(oid string, diag *Diagnostics) *core.CodeList {
	if oid == "" {
		return nil
	}
	cl := b.idx.CodeList(oid)
	if cl == nil {
		diag.Add(DiagMissingCodeList, oid, "code list %s not found", oid)
	}
	return cl
}

// valueListVariable names the dataset variable a value list describes.
func (b *Builder) valueListVariable(vl *core.ValueListDef, dataset string) string {
	for _, def := range b.idx.DatasetVariables(dataset) {
		if def.ValueListOID == vl.OID {
			return def.Name
		}
	}
	if parts, ok := core.SplitOID(vl.OID); ok {
		return parts.Variable
	}
	for _, ref := range vl.ItemRefs {
		if def := b.idx.ItemDef(ref.ItemOID); def != nil {
			return def.Name
		}
	}
	return strings.TrimPrefix(vl.OID, "VL.")
}
