package format

import (
	"fmt"
	"slices"
	"strings"

	"github.com/SDen99/DatasetViewer-sub000/pkg/core"
	"github.com/SDen99/DatasetViewer-sub000/pkg/vlm"
)

// Fixed content of the PARAMCD and PARAM columns for an ItemRef that
// applies to every parameter.
const (
	NonParameterizedGlyph = "∀"
	NonParameterizedLabel = "All parameters"
)

// maxCodeListItems caps the terms listed in a code list block.
const maxCodeListItems = 10

// CellContent renders the display text of one cell of a materialised table.
// PARAMCD and PARAM render the parameter code and decode; every other column
// renders a block per available piece of metadata. A nil ref renders "".
func CellContent(ref *vlm.ItemRef, column string) string {
	if ref == nil {
		return ""
	}

	switch {
	case strings.EqualFold(column, vlm.ParamcdVariable):
		if ref.NonParameterized {
			return NonParameterizedGlyph
		}
		return ref.Paramcd
	case strings.EqualFold(column, vlm.ParamVariable):
		if ref.NonParameterized {
			return NonParameterizedLabel
		}
		return ref.Param
	}

	p := newPrinter()
	if ref.NonParameterized {
		p.header(ref, column, "("+strings.ToLower(NonParameterizedLabel)+")")
		p.description(ref)
		p.whereClause(ref)
		p.method(ref.Method)
		p.codeList(ref.CodeList)
		p.identifiers(ref)
		return p.String()
	}

	p.header(ref, column, "")
	p.description(ref)
	p.whereClause(ref)
	p.origin(ref)
	p.method(ref.Method)
	p.codeList(ref.CodeList)
	p.specialVariables(ref, column)
	p.identifiers(ref)
	return p.String()
}

func (p *Printer) header(ref *vlm.ItemRef, column, suffix string) {
	name := ref.Variable
	if name == "" {
		name = column
	}
	p.bold(name)
	if suffix != "" {
		p.write(" " + suffix)
	}
	p.writeln()
}

func (p *Printer) description(ref *vlm.ItemRef) {
	if d := ref.Description(); d != "" {
		p.text(d)
	}
}

func (p *Printer) whereClause(ref *vlm.ItemRef) {
	if ref.WhereClause == nil {
		return
	}
	p.blank()
	p.field("Where", ref.WhereClause.String())
}

func (p *Printer) origin(ref *vlm.ItemRef) {
	o := ref.Origin
	var notes string
	if ref.Comment != nil {
		notes = ref.Comment.Description.Text
	}
	if (o == nil || o.Type == "") && notes == "" {
		return
	}

	p.blank()
	if o != nil {
		label := o.Type
		if o.Source != "" {
			label += " (" + o.Source + ")"
		}
		p.field("Origin", label)
		p.indent()
		p.text(o.Description.Text)
		p.dedent()
	}
	p.field("Notes", notes)
}

func (p *Printer) method(m *core.Method) {
	if m == nil {
		return
	}
	p.blank()
	label := m.Name
	if label == "" {
		label = m.OID
	}
	if m.Type != "" {
		label += " (" + m.Type + ")"
	}
	p.field("Method", label)

	p.indent()
	p.text(m.Description.Text)
	for _, fe := range m.FormalExpressions {
		if fe.Context != "" {
			p.bold(fe.Context + ":")
			p.writeln()
		}
		p.indent()
		p.text(fe.Expression)
		p.dedent()
	}
	p.dedent()
}

func (p *Printer) codeList(cl *core.CodeList) {
	if cl == nil {
		return
	}
	p.blank()
	label := cl.Name
	if label == "" {
		label = cl.OID
	}
	p.field("Codelist", label)

	p.indent()
	defer p.dedent()

	if ext := cl.External; ext != nil {
		p.text(strings.TrimSpace(ext.Dictionary + " " + ext.Version))
		return
	}
	items := cl.CodeListItems
	if len(items) == 0 {
		items = cl.EnumeratedItems
	}
	shown := items[:min(len(items), maxCodeListItems)]
	for _, it := range shown {
		if it.Decode != "" && it.Decode != it.CodedValue {
			p.write(it.CodedValue + " = " + it.Decode)
		} else {
			p.write(it.CodedValue)
		}
		p.writeln()
	}
	if rest := len(items) - len(shown); rest > 0 {
		p.write(fmt.Sprintf("… %d more", rest))
		p.writeln()
	}
}

func (p *Printer) specialVariables(ref *vlm.ItemRef, column string) {
	var keys []string
	for k := range ref.Stratification {
		if !strings.EqualFold(k, column) {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return
	}
	slices.Sort(keys)

	p.blank()
	for _, k := range keys {
		values := ref.Stratification[k]
		p.bold(k + ":")
		p.write(" ")
		p.formatList(len(values), func(i int) { p.write(values[i]) }, ", ")
		p.writeln()
	}
}

func (p *Printer) identifiers(ref *vlm.ItemRef) {
	if ref.ItemOID == "" && ref.ValueListOID == "" && ref.WhereClauseOID == "" {
		return
	}
	p.blank()
	p.field("Item", ref.ItemOID)
	p.field("Value list", ref.ValueListOID)
	p.field("Where clause", ref.WhereClauseOID)
}
