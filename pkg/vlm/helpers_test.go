package vlm_test

import (
	"testing"

	"github.com/SDen99/DatasetViewer-sub000/internal/testutil"
	"github.com/SDen99/DatasetViewer-sub000/pkg/core"
	"github.com/SDen99/DatasetViewer-sub000/pkg/parser"
	"github.com/SDen99/DatasetViewer-sub000/pkg/vlm"
	"github.com/stretchr/testify/require"
)

// sampleBuilder parses the shared sample define.
func sampleBuilder(t *testing.T) *vlm.Builder {
	t.Helper()
	doc, err := parser.ParseString(testutil.SampleDefineXML)
	require.NoError(t, err)
	return vlm.NewBuilder(core.NewIndex(doc), vlm.Options{Logger: testutil.NewTestLogger(t)})
}

// adslDoc is a parameterised ADSL with PARAMCD {AGE, BMI} and a value list on
// AVAL holding the given refs. Extra where clauses and item defs are appended.
func adslDoc(refs []core.ItemRef, wcs []core.WhereClauseDef, defs ...core.ItemDef) *core.Document {
	doc := &core.Document{
		ItemGroups: []core.ItemGroup{{
			OID:  "IG.ADSL",
			Name: "ADSL",
			ItemRefs: []core.ItemRef{
				{ItemOID: "IT.ADSL.PARAMCD", OrderNumber: 1},
				{ItemOID: "IT.ADSL.PARAM", OrderNumber: 2},
				{ItemOID: "IT.ADSL.AVAL", OrderNumber: 3},
			},
		}},
		ItemDefs: []core.ItemDef{
			{OID: "IT.ADSL.PARAMCD", Name: "PARAMCD", DataType: "text", CodeListOID: "CL.PARAMCD"},
			{OID: "IT.ADSL.PARAM", Name: "PARAM", DataType: "text"},
			{OID: "IT.ADSL.AVAL", Name: "AVAL", DataType: "float", ValueListOID: "VL.ADSL.AVAL"},
			{OID: "IT.ADSL.AVAL.AGE", Name: "AVAL", DataType: "integer"},
		},
		CodeLists: []core.CodeList{{
			OID: "CL.PARAMCD",
			CodeListItems: []core.CodeListItem{
				{CodedValue: "AGE", Decode: "Age"},
				{CodedValue: "BMI", Decode: "Body Mass Index"},
			},
		}},
		WhereClauses: wcs,
		ValueLists:   []core.ValueListDef{{OID: "VL.ADSL.AVAL", ItemRefs: refs}},
	}
	doc.ItemDefs = append(doc.ItemDefs, defs...)
	return doc
}

// withDTYPE adds a DTYPE variable with code list {LOCF, WORST} to doc.
func withDTYPE(doc *core.Document) *core.Document {
	doc.ItemGroups[0].ItemRefs = append(doc.ItemGroups[0].ItemRefs, core.ItemRef{ItemOID: "IT.ADSL.DTYPE", OrderNumber: 4})
	doc.ItemDefs = append(doc.ItemDefs, core.ItemDef{OID: "IT.ADSL.DTYPE", Name: "DTYPE", DataType: "text", CodeListOID: "CL.DTYPE"})
	doc.CodeLists = append(doc.CodeLists, core.CodeList{
		OID:             "CL.DTYPE",
		EnumeratedItems: []core.CodeListItem{{CodedValue: "LOCF"}, {CodedValue: "WORST"}},
	})
	return doc
}

func rangeCheck(itemOID string, cmp core.Comparator, values ...string) core.RangeCheck {
	return core.RangeCheck{Comparator: cmp, SoftHard: "Soft", ItemOID: itemOID, CheckValues: values}
}

func newBuilder(t *testing.T, doc *core.Document) *vlm.Builder {
	t.Helper()
	return vlm.NewBuilder(core.NewIndex(doc), vlm.Options{Logger: testutil.NewTestLogger(t)})
}

// rowKeys renders rows as PARAMCD or PARAMCD/SOURCE=VALUE.
func rowKeys(rows []*vlm.Row) []string {
	keys := make([]string, 0, len(rows))
	for _, r := range rows {
		k := r.Paramcd
		if r.IsDuplicate() {
			k += "/" + r.DuplicateSource + "=" + r.DuplicateValue
		}
		keys = append(keys, k)
	}
	return keys
}
