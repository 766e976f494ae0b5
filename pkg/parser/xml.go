package parser

// Wire structs for encoding/xml. Tags carry local names only so that the
// same structs decode Define-XML 2.0 and 2.1, whose extension elements live
// in different namespaces.

type xmlODM struct {
	Study *xmlStudy `xml:"Study"`
}

type xmlStudy struct {
	OID             string             `xml:"OID,attr"`
	GlobalVariables xmlGlobalVariables `xml:"GlobalVariables"`
	MetaDataVersion *xmlMetaData       `xml:"MetaDataVersion"`
}

type xmlGlobalVariables struct {
	StudyName        string `xml:"StudyName"`
	StudyDescription string `xml:"StudyDescription"`
	ProtocolName     string `xml:"ProtocolName"`
}

type xmlMetaData struct {
	OID            string             `xml:"OID,attr"`
	Name           string             `xml:"Name,attr"`
	Description    string             `xml:"Description,attr"`
	DefineVersion  string             `xml:"DefineVersion,attr"`
	Standards      []xmlStandard      `xml:"Standards>Standard"`
	ValueLists     []xmlValueList     `xml:"ValueListDef"`
	WhereClauses   []xmlWhereClause   `xml:"WhereClauseDef"`
	ItemGroups     []xmlItemGroup     `xml:"ItemGroupDef"`
	ItemDefs       []xmlItemDef       `xml:"ItemDef"`
	CodeLists      []xmlCodeList      `xml:"CodeList"`
	Methods        []xmlMethod        `xml:"MethodDef"`
	Comments       []xmlComment       `xml:"CommentDef"`
	Leaves         []xmlLeaf          `xml:"leaf"`
	ResultDisplays []xmlResultDisplay `xml:"AnalysisResultDisplays>ResultDisplay"`
}

type xmlStandard struct {
	OID           string `xml:"OID,attr"`
	Name          string `xml:"Name,attr"`
	Type          string `xml:"Type,attr"`
	PublishingSet string `xml:"PublishingSet,attr"`
	Version       string `xml:"Version,attr"`
	Status        string `xml:"Status,attr"`
}

type xmlDescription struct {
	Text       string          `xml:",chardata"`
	Translated []xmlTranslated `xml:"TranslatedText"`
}

type xmlTranslated struct {
	Lang string `xml:"lang,attr"`
	Text string `xml:",chardata"`
}

type xmlItemGroup struct {
	OID               string          `xml:"OID,attr"`
	Name              string          `xml:"Name,attr"`
	Repeating         string          `xml:"Repeating,attr"`
	IsReferenceData   string          `xml:"IsReferenceData,attr"`
	SASDatasetName    string          `xml:"SASDatasetName,attr"`
	Purpose           string          `xml:"Purpose,attr"`
	Structure         string          `xml:"Structure,attr"`
	ClassAttr         string          `xml:"Class,attr"`
	ClassElem         *xmlNamed       `xml:"Class"`
	CommentOID        string          `xml:"CommentOID,attr"`
	ArchiveLocationID string          `xml:"ArchiveLocationID,attr"`
	Description       *xmlDescription `xml:"Description"`
	ItemRefs          []xmlItemRef    `xml:"ItemRef"`
}

type xmlNamed struct {
	Name string `xml:"Name,attr"`
}

type xmlItemRef struct {
	ItemOID         string              `xml:"ItemOID,attr"`
	OrderNumber     string              `xml:"OrderNumber,attr"`
	Mandatory       string              `xml:"Mandatory,attr"`
	KeySequence     string              `xml:"KeySequence,attr"`
	MethodOID       string              `xml:"MethodOID,attr"`
	Role            string              `xml:"Role,attr"`
	WhereClauseRefs []xmlWhereClauseRef `xml:"WhereClauseRef"`
}

type xmlWhereClauseRef struct {
	WhereClauseOID string `xml:"WhereClauseOID,attr"`
}

type xmlItemDef struct {
	OID               string           `xml:"OID,attr"`
	Name              string           `xml:"Name,attr"`
	DataType          string           `xml:"DataType,attr"`
	Length            string           `xml:"Length,attr"`
	SignificantDigits string           `xml:"SignificantDigits,attr"`
	SASFieldName      string           `xml:"SASFieldName,attr"`
	DisplayFormat     string           `xml:"DisplayFormat,attr"`
	CommentOID        string           `xml:"CommentOID,attr"`
	Description       *xmlDescription  `xml:"Description"`
	CodeListRef       *xmlCodeListRef  `xml:"CodeListRef"`
	Origins           []xmlOrigin      `xml:"Origin"`
	ValueListRef      *xmlValueListRef `xml:"ValueListRef"`
}

type xmlCodeListRef struct {
	CodeListOID string `xml:"CodeListOID,attr"`
}

type xmlValueListRef struct {
	ValueListOID string `xml:"ValueListOID,attr"`
}

type xmlOrigin struct {
	Type         string           `xml:"Type,attr"`
	Source       string           `xml:"Source,attr"`
	Description  *xmlDescription  `xml:"Description"`
	DocumentRefs []xmlDocumentRef `xml:"DocumentRef"`
}

type xmlDocumentRef struct {
	LeafID     string         `xml:"leafID,attr"`
	PDFPageRef *xmlPDFPageRef `xml:"PDFPageRef"`
}

type xmlPDFPageRef struct {
	PageRefs  string `xml:"PageRefs,attr"`
	FirstPage string `xml:"FirstPage,attr"`
	LastPage  string `xml:"LastPage,attr"`
	Type      string `xml:"Type,attr"`
}

type xmlCodeList struct {
	OID             string            `xml:"OID,attr"`
	Name            string            `xml:"Name,attr"`
	DataType        string            `xml:"DataType,attr"`
	StandardOID     string            `xml:"StandardOID,attr"`
	CodeListItems   []xmlCodeListItem `xml:"CodeListItem"`
	EnumeratedItems []xmlCodeListItem `xml:"EnumeratedItem"`
	External        *xmlExternal      `xml:"ExternalCodeList"`
}

type xmlCodeListItem struct {
	CodedValue    string          `xml:"CodedValue,attr"`
	OrderNumber   string          `xml:"OrderNumber,attr"`
	Rank          string          `xml:"Rank,attr"`
	ExtendedValue string          `xml:"ExtendedValue,attr"`
	Decode        *xmlDescription `xml:"Decode"`
}

type xmlExternal struct {
	Dictionary string `xml:"Dictionary,attr"`
	Version    string `xml:"Version,attr"`
	Ref        string `xml:"ref,attr"`
	Href       string `xml:"href,attr"`
}

type xmlWhereClause struct {
	OID         string          `xml:"OID,attr"`
	RangeChecks []xmlRangeCheck `xml:"RangeCheck"`
}

type xmlRangeCheck struct {
	Comparator  string   `xml:"Comparator,attr"`
	SoftHard    string   `xml:"SoftHard,attr"`
	ItemOID     string   `xml:"ItemOID,attr"`
	CheckValues []string `xml:"CheckValue"`
}

type xmlValueList struct {
	OID      string       `xml:"OID,attr"`
	ItemRefs []xmlItemRef `xml:"ItemRef"`
}

type xmlMethod struct {
	OID               string                `xml:"OID,attr"`
	Name              string                `xml:"Name,attr"`
	Type              string                `xml:"Type,attr"`
	Description       *xmlDescription       `xml:"Description"`
	FormalExpressions []xmlFormalExpression `xml:"FormalExpression"`
	DocumentRefs      []xmlDocumentRef      `xml:"DocumentRef"`
}

type xmlFormalExpression struct {
	Context string `xml:"Context,attr"`
	Text    string `xml:",chardata"`
}

type xmlComment struct {
	OID          string           `xml:"OID,attr"`
	Description  *xmlDescription  `xml:"Description"`
	DocumentRefs []xmlDocumentRef `xml:"DocumentRef"`
}

type xmlLeaf struct {
	ID    string `xml:"ID,attr"`
	Href  string `xml:"href,attr"`
	Title string `xml:"title"`
}

type xmlResultDisplay struct {
	OID             string              `xml:"OID,attr"`
	Name            string              `xml:"Name,attr"`
	Description     *xmlDescription     `xml:"Description"`
	AnalysisResults []xmlAnalysisResult `xml:"AnalysisResult"`
}

type xmlAnalysisResult struct {
	OID             string               `xml:"OID,attr"`
	ParameterOID    string               `xml:"ParameterOID,attr"`
	AnalysisReason  string               `xml:"AnalysisReason,attr"`
	AnalysisPurpose string               `xml:"AnalysisPurpose,attr"`
	Description     *xmlDescription      `xml:"Description"`
	Datasets        []xmlAnalysisDataset `xml:"AnalysisDatasets>AnalysisDataset"`
	Documentation   *xmlDocumentation    `xml:"Documentation"`
	ProgrammingCode *xmlProgrammingCode  `xml:"ProgrammingCode"`
}

type xmlAnalysisDataset struct {
	ItemGroupOID   string                `xml:"ItemGroupOID,attr"`
	WhereClauseRef *xmlWhereClauseRef    `xml:"WhereClauseRef"`
	Variables      []xmlAnalysisVariable `xml:"AnalysisVariable"`
}

type xmlAnalysisVariable struct {
	ItemOID string `xml:"ItemOID,attr"`
}

type xmlDocumentation struct {
	Description *xmlDescription `xml:"Description"`
}

type xmlProgrammingCode struct {
	Context string `xml:"Context,attr"`
	Code    string `xml:"Code"`
}
