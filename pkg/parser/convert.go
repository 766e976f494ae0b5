package parser

import (
	"strconv"
	"strings"

	"github.com/SDen99/DatasetViewer-sub000/pkg/core"
)

func convert(st *xmlStudy) *core.Document {
	mdv := st.MetaDataVersion
	doc := &core.Document{
		Study: core.Study{
			OID:          st.OID,
			Name:         clean(st.GlobalVariables.StudyName),
			Description:  clean(st.GlobalVariables.StudyDescription),
			ProtocolName: clean(st.GlobalVariables.ProtocolName),
		},
		MetaData: core.MetaDataVersion{
			OID:           mdv.OID,
			Name:          mdv.Name,
			Description:   mdv.Description,
			DefineVersion: mdv.DefineVersion,
		},
	}

	for _, s := range mdv.Standards {
		doc.Standards = append(doc.Standards, core.Standard{
			OID:           s.OID,
			Name:          s.Name,
			Type:          s.Type,
			PublishingSet: s.PublishingSet,
			Version:       s.Version,
			Status:        s.Status,
		})
	}

	for _, g := range mdv.ItemGroups {
		group := convertItemGroup(g)
		doc.ItemGroups = append(doc.ItemGroups, group)
		doc.ItemRefs = append(doc.ItemRefs, group.ItemRefs...)
	}
	for _, d := range mdv.ItemDefs {
		doc.ItemDefs = append(doc.ItemDefs, convertItemDef(d))
	}
	for _, m := range mdv.Methods {
		doc.Methods = append(doc.Methods, convertMethod(m))
	}
	for _, c := range mdv.Comments {
		doc.Comments = append(doc.Comments, core.Comment{
			OID:          c.OID,
			Description:  description(c.Description),
			DocumentRefs: documentRefs(c.DocumentRefs),
		})
	}
	for _, cl := range mdv.CodeLists {
		doc.CodeLists = append(doc.CodeLists, convertCodeList(cl))
	}
	for _, wc := range mdv.WhereClauses {
		doc.WhereClauses = append(doc.WhereClauses, convertWhereClause(wc))
	}
	for _, vl := range mdv.ValueLists {
		doc.ValueLists = append(doc.ValueLists, core.ValueListDef{
			OID:      vl.OID,
			ItemRefs: itemRefs(vl.OID, vl.ItemRefs),
		})
	}
	for _, l := range mdv.Leaves {
		doc.Leaves = append(doc.Leaves, core.Leaf{ID: l.ID, Title: clean(l.Title), Href: l.Href})
	}
	for _, rd := range mdv.ResultDisplays {
		for _, ar := range rd.AnalysisResults {
			doc.AnalysisResults = append(doc.AnalysisResults, convertAnalysisResult(rd, ar))
		}
	}
	return doc
}

func convertItemGroup(g xmlItemGroup) core.ItemGroup {
	class := g.ClassAttr
	if g.ClassElem != nil && g.ClassElem.Name != "" {
		class = g.ClassElem.Name
	}
	return core.ItemGroup{
		OID:               g.OID,
		Name:              g.Name,
		SASDatasetName:    g.SASDatasetName,
		Structure:         g.Structure,
		Class:             class,
		Purpose:           g.Purpose,
		Repeating:         yes(g.Repeating),
		IsReferenceData:   yes(g.IsReferenceData),
		Description:       description(g.Description),
		CommentOID:        g.CommentOID,
		ArchiveLocationID: g.ArchiveLocationID,
		ItemRefs:          itemRefs(g.OID, g.ItemRefs),
	}
}

func itemRefs(owner string, refs []xmlItemRef) []core.ItemRef {
	out := make([]core.ItemRef, 0, len(refs))
	for _, r := range refs {
		ref := core.ItemRef{
			OwnerOID:    owner,
			ItemOID:     strings.TrimSpace(r.ItemOID),
			Mandatory:   yes(r.Mandatory),
			OrderNumber: atoi(r.OrderNumber),
			KeySequence: atoi(r.KeySequence),
			MethodOID:   r.MethodOID,
			Role:        r.Role,
		}
		for _, wc := range r.WhereClauseRefs {
			if wc.WhereClauseOID != "" {
				ref.WhereClauseOIDs = append(ref.WhereClauseOIDs, wc.WhereClauseOID)
			}
		}
		out = append(out, ref)
	}
	return out
}

func convertItemDef(d xmlItemDef) core.ItemDef {
	def := core.ItemDef{
		OID:               d.OID,
		Name:              d.Name,
		DataType:          d.DataType,
		Length:            atoi(d.Length),
		SignificantDigits: atoi(d.SignificantDigits),
		SASFieldName:      d.SASFieldName,
		DisplayFormat:     d.DisplayFormat,
		Description:       description(d.Description),
		CommentOID:        d.CommentOID,
	}
	if d.CodeListRef != nil {
		def.CodeListOID = d.CodeListRef.CodeListOID
	}
	if d.ValueListRef != nil {
		def.ValueListOID = d.ValueListRef.ValueListOID
	}
	// Define-XML 2.1 allows several origins; the first is the primary one.
	if len(d.Origins) > 0 {
		o := d.Origins[0]
		def.Origin = &core.Origin{
			Type:         o.Type,
			Source:       o.Source,
			Description:  description(o.Description),
			DocumentRefs: documentRefs(o.DocumentRefs),
		}
	}
	return def
}

func convertMethod(m xmlMethod) core.Method {
	method := core.Method{
		OID:          m.OID,
		Name:         m.Name,
		Type:         m.Type,
		Description:  description(m.Description),
		DocumentRefs: documentRefs(m.DocumentRefs),
	}
	for _, fe := range m.FormalExpressions {
		method.FormalExpressions = append(method.FormalExpressions, core.FormalExpression{
			Context:    fe.Context,
			Expression: strings.TrimSpace(fe.Text),
		})
	}
	return method
}

func convertCodeList(cl xmlCodeList) core.CodeList {
	out := core.CodeList{
		OID:             cl.OID,
		Name:            cl.Name,
		DataType:        cl.DataType,
		StandardOID:     cl.StandardOID,
		CodeListItems:   codeListItems(cl.CodeListItems),
		EnumeratedItems: codeListItems(cl.EnumeratedItems),
	}
	if cl.External != nil {
		out.External = &core.ExternalCodeList{
			Dictionary: cl.External.Dictionary,
			Version:    cl.External.Version,
			Ref:        cl.External.Ref,
			Href:       cl.External.Href,
		}
	}
	return out
}

func codeListItems(items []xmlCodeListItem) []core.CodeListItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]core.CodeListItem, 0, len(items))
	for _, it := range items {
		rank, _ := strconv.ParseFloat(strings.TrimSpace(it.Rank), 64)
		out = append(out, core.CodeListItem{
			CodedValue:    it.CodedValue,
			Decode:        description(it.Decode).Text,
			OrderNumber:   atoi(it.OrderNumber),
			Rank:          rank,
			ExtendedValue: yes(it.ExtendedValue),
		})
	}
	return out
}

func convertWhereClause(wc xmlWhereClause) core.WhereClauseDef {
	out := core.WhereClauseDef{OID: wc.OID}
	for _, rc := range wc.RangeChecks {
		values := make([]string, 0, len(rc.CheckValues))
		for _, v := range rc.CheckValues {
			values = append(values, strings.TrimSpace(v))
		}
		out.RangeChecks = append(out.RangeChecks, core.RangeCheck{
			Comparator:  core.Comparator(strings.TrimSpace(rc.Comparator)),
			SoftHard:    strings.TrimSpace(rc.SoftHard),
			ItemOID:     strings.TrimSpace(rc.ItemOID),
			CheckValues: values,
		})
	}
	return out
}

func convertAnalysisResult(rd xmlResultDisplay, ar xmlAnalysisResult) core.AnalysisResult {
	out := core.AnalysisResult{
		OID:          ar.OID,
		DisplayOID:   rd.OID,
		DisplayName:  rd.Name,
		Description:  description(ar.Description),
		ParameterOID: ar.ParameterOID,
		Reason:       ar.AnalysisReason,
		Purpose:      ar.AnalysisPurpose,
	}
	for _, ds := range ar.Datasets {
		ads := core.AnalysisDataset{ItemGroupOID: ds.ItemGroupOID}
		if ds.WhereClauseRef != nil {
			ads.WhereClauseOID = ds.WhereClauseRef.WhereClauseOID
		}
		for _, v := range ds.Variables {
			ads.VariableOIDs = append(ads.VariableOIDs, v.ItemOID)
		}
		out.Datasets = append(out.Datasets, ads)
	}
	if ar.Documentation != nil {
		out.Documentation = description(ar.Documentation.Description)
	}
	if ar.ProgrammingCode != nil {
		out.ProgrammingContext = ar.ProgrammingCode.Context
		out.ProgrammingCode = strings.TrimSpace(ar.ProgrammingCode.Code)
	}
	return out
}

func documentRefs(refs []xmlDocumentRef) []core.DocumentRef {
	if len(refs) == 0 {
		return nil
	}
	out := make([]core.DocumentRef, 0, len(refs))
	for _, r := range refs {
		ref := core.DocumentRef{LeafID: r.LeafID}
		if p := r.PDFPageRef; p != nil {
			ref.PageType = p.Type
			ref.PageRefs = p.PageRefs
			if ref.PageRefs == "" && p.FirstPage != "" {
				ref.PageRefs = p.FirstPage
				if p.LastPage != "" {
					ref.PageRefs += "-" + p.LastPage
				}
			}
		}
		out = append(out, ref)
	}
	return out
}

// description resolves the Description element into its tagged variant.
// English (or unlabelled) translations are preferred.
func description(d *xmlDescription) core.Description {
	if d == nil {
		return core.Description{}
	}
	if len(d.Translated) > 0 {
		pick := d.Translated[0]
		for _, t := range d.Translated {
			if t.Lang == "" || strings.HasPrefix(strings.ToLower(t.Lang), "en") {
				pick = t
				break
			}
		}
		return core.TranslatedText(clean(pick.Text), pick.Lang)
	}
	return core.PlainText(clean(d.Text))
}

// clean trims and collapses internal whitespace runs.
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func yes(s string) bool {
	return strings.TrimSpace(s) == "Yes"
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
