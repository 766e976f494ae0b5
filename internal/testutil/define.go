package testutil

import "fmt"

// WrapDefine wraps MetaDataVersion content in an ODM root that declares the
// Define-XML 2.0 namespace.
func WrapDefine(body string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<ODM xmlns="http://www.cdisc.org/ns/odm/v1.3"
     xmlns:def="http://www.cdisc.org/ns/def/v2.0"
     xmlns:xlink="http://www.w3.org/1999/xlink"
     xmlns:arm="http://www.cdisc.org/ns/arm/v1.0"
     FileOID="DEF.TEST" ODMVersion="1.3.2" FileType="Snapshot">
  <Study OID="STUDY.TEST">
    <GlobalVariables>
      <StudyName>TEST-001</StudyName>
      <StudyDescription>Test study</StudyDescription>
      <ProtocolName>TEST-001</ProtocolName>
    </GlobalVariables>
    <MetaDataVersion OID="MDV.TEST" Name="Test ADaM" def:DefineVersion="2.0.0">
%s
    </MetaDataVersion>
  </Study>
</ODM>
`, body)
}

// SampleDefineXML is a small but complete ADaM define with one BDS dataset
// (ADVS) carrying value-level metadata on AVAL and a DTYPE duplicate source,
// plus a subject-level dataset (ADSL) without parameters.
var SampleDefineXML = WrapDefine(`
      <def:leaf ID="LF.ACRF" xlink:href="acrf.pdf"><def:title>Annotated CRF</def:title></def:leaf>

      <def:ValueListDef OID="VL.ADVS.AVAL">
        <ItemRef ItemOID="IT.ADVS.AVAL.SYSBP" OrderNumber="1" Mandatory="Yes" MethodOID="MT.ADVS.AVAL.SYSBP">
          <def:WhereClauseRef WhereClauseOID="WC.ADVS.PARAMCD.SYSBP"/>
        </ItemRef>
        <ItemRef ItemOID="IT.ADVS.AVAL.DIABP" OrderNumber="2" Mandatory="No" MethodOID="MT.ADVS.AVAL.DIABP.LOCF">
          <def:WhereClauseRef WhereClauseOID="WC.ADVS.PARAMCD.DIABP.DTYPE"/>
        </ItemRef>
      </def:ValueListDef>

      <def:WhereClauseDef OID="WC.ADVS.PARAMCD.SYSBP">
        <RangeCheck Comparator="EQ" SoftHard="Soft" def:ItemOID="IT.ADVS.PARAMCD">
          <CheckValue>SYSBP</CheckValue>
        </RangeCheck>
      </def:WhereClauseDef>
      <def:WhereClauseDef OID="WC.ADVS.PARAMCD.DIABP.DTYPE">
        <RangeCheck Comparator="EQ" SoftHard="Soft" def:ItemOID="IT.ADVS.PARAMCD">
          <CheckValue>DIABP</CheckValue>
        </RangeCheck>
        <RangeCheck Comparator="EQ" SoftHard="Soft" def:ItemOID="IT.ADVS.DTYPE">
          <CheckValue>LOCF</CheckValue>
        </RangeCheck>
      </def:WhereClauseDef>

      <ItemGroupDef OID="IG.ADSL" Name="ADSL" Repeating="No" IsReferenceData="No" SASDatasetName="ADSL"
                    Purpose="Analysis" def:Structure="One record per subject" def:Class="SUBJECT LEVEL ANALYSIS DATASET">
        <Description><TranslatedText xml:lang="en">Subject-Level Analysis Dataset</TranslatedText></Description>
        <ItemRef ItemOID="IT.ADSL.STUDYID" OrderNumber="1" Mandatory="Yes" KeySequence="1"/>
        <ItemRef ItemOID="IT.ADSL.USUBJID" OrderNumber="2" Mandatory="Yes" KeySequence="2"/>
        <ItemRef ItemOID="IT.ADSL.AGE" OrderNumber="3" Mandatory="No"/>
      </ItemGroupDef>

      <ItemGroupDef OID="IG.ADVS" Name="ADVS" Repeating="Yes" IsReferenceData="No" SASDatasetName="ADVS"
                    Purpose="Analysis" def:Structure="One record per subject per parameter per visit"
                    def:Class="BASIC DATA STRUCTURE">
        <Description><TranslatedText xml:lang="en">Vital Signs Analysis Dataset</TranslatedText></Description>
        <ItemRef ItemOID="IT.ADVS.USUBJID" OrderNumber="1" Mandatory="Yes" KeySequence="1"/>
        <ItemRef ItemOID="IT.ADVS.PARAMCD" OrderNumber="2" Mandatory="Yes" KeySequence="2"/>
        <ItemRef ItemOID="IT.ADVS.PARAM" OrderNumber="3" Mandatory="Yes"/>
        <ItemRef ItemOID="IT.ADVS.AVAL" OrderNumber="4" Mandatory="No" MethodOID="MT.ADVS.AVAL"/>
        <ItemRef ItemOID="IT.ADVS.DTYPE" OrderNumber="5" Mandatory="No"/>
      </ItemGroupDef>

      <ItemDef OID="IT.ADSL.STUDYID" Name="STUDYID" DataType="text" Length="12">
        <Description><TranslatedText xml:lang="en">Study Identifier</TranslatedText></Description>
      </ItemDef>
      <ItemDef OID="IT.ADSL.USUBJID" Name="USUBJID" DataType="text" Length="20">
        <Description><TranslatedText xml:lang="en">Unique Subject Identifier</TranslatedText></Description>
      </ItemDef>
      <ItemDef OID="IT.ADSL.AGE" Name="AGE" DataType="integer" Length="3">
        <Description><TranslatedText xml:lang="en">Age</TranslatedText></Description>
        <def:Origin Type="Predecessor"><Description><TranslatedText xml:lang="en">DM.AGE</TranslatedText></Description></def:Origin>
      </ItemDef>
      <ItemDef OID="IT.ADVS.USUBJID" Name="USUBJID" DataType="text" Length="20">
        <Description><TranslatedText xml:lang="en">Unique Subject Identifier</TranslatedText></Description>
      </ItemDef>
      <ItemDef OID="IT.ADVS.PARAMCD" Name="PARAMCD" DataType="text" Length="8">
        <Description><TranslatedText xml:lang="en">Parameter Code</TranslatedText></Description>
        <CodeListRef CodeListOID="CL.ADVS.PARAMCD"/>
      </ItemDef>
      <ItemDef OID="IT.ADVS.PARAM" Name="PARAM" DataType="text" Length="40">
        <Description><TranslatedText xml:lang="en">Parameter</TranslatedText></Description>
      </ItemDef>
      <ItemDef OID="IT.ADVS.AVAL" Name="AVAL" DataType="float" Length="8">
        <Description><TranslatedText xml:lang="en">Analysis Value</TranslatedText></Description>
        <def:Origin Type="Derived"/>
        <def:ValueListRef ValueListOID="VL.ADVS.AVAL"/>
      </ItemDef>
      <ItemDef OID="IT.ADVS.DTYPE" Name="DTYPE" DataType="text" Length="8">
        <Description><TranslatedText xml:lang="en">Derivation Type</TranslatedText></Description>
        <CodeListRef CodeListOID="CL.DTYPE"/>
        <def:Origin Type="Assigned"/>
      </ItemDef>
      <ItemDef OID="IT.ADVS.AVAL.SYSBP" Name="AVAL" DataType="integer" Length="3">
        <Description><TranslatedText xml:lang="en">Systolic blood pressure value</TranslatedText></Description>
        <def:Origin Type="Derived" Source="Sponsor">
          <Description><TranslatedText xml:lang="en">VS.VSSTRESN</TranslatedText></Description>
          <def:DocumentRef leafID="LF.ACRF"><def:PDFPageRef PageRefs="12" Type="PhysicalRef"/></def:DocumentRef>
        </def:Origin>
      </ItemDef>
      <ItemDef OID="IT.ADVS.AVAL.DIABP" Name="AVAL" DataType="float" Length="8" SignificantDigits="1">
        <Description><TranslatedText xml:lang="en">Diastolic blood pressure value</TranslatedText></Description>
        <def:Origin Type="Derived"/>
      </ItemDef>

      <CodeList OID="CL.ADVS.PARAMCD" Name="Vital Signs Parameter Code" DataType="text">
        <CodeListItem CodedValue="SYSBP" OrderNumber="1">
          <Decode><TranslatedText xml:lang="en">Systolic Blood Pressure (mmHg)</TranslatedText></Decode>
        </CodeListItem>
        <CodeListItem CodedValue="DIABP" OrderNumber="2">
          <Decode><TranslatedText xml:lang="en">Diastolic Blood Pressure (mmHg)</TranslatedText></Decode>
        </CodeListItem>
      </CodeList>
      <CodeList OID="CL.DTYPE" Name="Derivation Type" DataType="text">
        <EnumeratedItem CodedValue="LOCF" OrderNumber="1"/>
        <EnumeratedItem CodedValue="WORST" OrderNumber="2"/>
      </CodeList>
      <CodeList OID="CL.MEDDRA" Name="Adverse Event Dictionary" DataType="text">
        <ExternalCodeList Dictionary="MedDRA" Version="26.0"/>
      </CodeList>

      <MethodDef OID="MT.ADVS.AVAL" Name="Algorithm to derive AVAL" Type="Computation">
        <Description><TranslatedText xml:lang="en">AVAL = VSSTRESN</TranslatedText></Description>
      </MethodDef>
      <MethodDef OID="MT.ADVS.AVAL.SYSBP" Name="Algorithm to derive AVAL for SYSBP" Type="Computation">
        <Description><TranslatedText xml:lang="en">Set to VS.VSSTRESN where VSTESTCD is SYSBP</TranslatedText></Description>
        <FormalExpression Context="SAS">aval = vsstresn;</FormalExpression>
      </MethodDef>
      <MethodDef OID="MT.ADVS.AVAL.DIABP.LOCF" Name="Algorithm to impute DIABP" Type="Imputation">
        <Description><TranslatedText xml:lang="en">Missing post-baseline values are imputed using last observation carried forward (LOCF)</TranslatedText></Description>
      </MethodDef>

      <def:CommentDef OID="COM.ADVS">
        <Description><TranslatedText xml:lang="en">Vital signs collected at each visit</TranslatedText></Description>
      </def:CommentDef>

      <arm:AnalysisResultDisplays>
        <arm:ResultDisplay OID="RD.T14.1" Name="Table 14.1">
          <Description><TranslatedText xml:lang="en">Summary of Vital Signs</TranslatedText></Description>
          <arm:AnalysisResult OID="AR.T14.1.SYSBP" ParameterOID="IT.ADVS.PARAMCD" AnalysisReason="SPECIFIED IN SAP" AnalysisPurpose="PRIMARY OUTCOME MEASURE">
            <Description><TranslatedText xml:lang="en">Systolic blood pressure by visit</TranslatedText></Description>
            <arm:AnalysisDatasets>
              <arm:AnalysisDataset ItemGroupOID="IG.ADVS">
                <def:WhereClauseRef WhereClauseOID="WC.ADVS.PARAMCD.SYSBP"/>
                <arm:AnalysisVariable ItemOID="IT.ADVS.AVAL"/>
              </arm:AnalysisDataset>
            </arm:AnalysisDatasets>
            <arm:Documentation><Description><TranslatedText xml:lang="en">See SAP section 9.1</TranslatedText></Description></arm:Documentation>
            <arm:ProgrammingCode Context="SAS"><arm:Code>proc means data=advs;</arm:Code></arm:ProgrammingCode>
          </arm:AnalysisResult>
        </arm:ResultDisplay>
      </arm:AnalysisResultDisplays>
`)
