// Package parser extracts Define-XML documents into the core model.
//
// Parse is a pure function: the same bytes always produce the same Document
// or the same error, and nothing partial is returned on failure.
package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SDen99/DatasetViewer-sub000/pkg/core"
	"golang.org/x/net/html/charset"
)

// Define-XML extension namespaces recognised by default.
const (
	NamespaceDefine20 = "http://www.cdisc.org/ns/def/v2.0"
	NamespaceDefine21 = "http://www.cdisc.org/ns/def/v2.1"
)

// DefaultNamespaces lists the extension namespaces accepted when Options
// does not name any.
var DefaultNamespaces = []string{NamespaceDefine20, NamespaceDefine21}

// Options tunes extraction.
type Options struct {
	// Namespaces are the accepted Define-XML extension namespace URIs.
	// At least one must be declared on the root element.
	Namespaces []string
}

// Parse extracts a Document using DefaultNamespaces.
func Parse(data []byte) (*core.Document, error) {
	return ParseWithOptions(data, Options{})
}

// ParseString is Parse for string input.
func ParseString(text string) (*core.Document, error) {
	return Parse([]byte(text))
}

// ParseWithOptions extracts a Document from raw Define-XML bytes.
func ParseWithOptions(data []byte, opts Options) (*core.Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &Error{Kind: ErrInvalidInput, Message: msgEmptyInput}
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, &Error{Kind: ErrInvalidInput, Message: msgBinaryInput}
	}

	namespaces := opts.Namespaces
	if len(namespaces) == 0 {
		namespaces = DefaultNamespaces
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	root, err := rootElement(dec)
	if err != nil {
		return nil, err
	}
	if !declaresNamespace(root, namespaces) {
		return nil, &Error{Kind: ErrMissingNamespace, Element: root.Name.Local, Message: fmt.Sprintf(msgNoNamespace, namespaces)}
	}

	var odm xmlODM
	if err := dec.DecodeElement(&odm, &root); err != nil {
		return nil, syntaxError(err)
	}
	if err := drain(dec); err != nil {
		return nil, err
	}

	if odm.Study == nil || odm.Study.MetaDataVersion == nil {
		return nil, &Error{Kind: ErrMissingRequiredElement, Element: "MetaDataVersion", Message: msgNoMetaDataVersion}
	}
	if err := validateWhereClauses(odm.Study.MetaDataVersion.WhereClauses); err != nil {
		return nil, err
	}

	return convert(odm.Study), nil
}

// rootElement advances the decoder to the first start element.
func rootElement(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return xml.StartElement{}, &Error{Kind: ErrXMLSyntax, Message: msgNoRootElement}
		}
		if err != nil {
			return xml.StartElement{}, syntaxError(err)
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se, nil
		}
	}
}

// drain reads what follows the root element so trailing garbage is reported.
func drain(dec *xml.Decoder) error {
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return syntaxError(err)
		}
	}
}

func declaresNamespace(root xml.StartElement, namespaces []string) bool {
	for _, attr := range root.Attr {
		isDecl := attr.Name.Space == "xmlns" || (attr.Name.Space == "" && attr.Name.Local == "xmlns")
		if !isDecl {
			continue
		}
		for _, ns := range namespaces {
			if strings.TrimSpace(attr.Value) == ns {
				return true
			}
		}
	}
	return false
}

func syntaxError(err error) *Error {
	e := &Error{Kind: ErrXMLSyntax, Cause: err, Message: err.Error()}
	var se *xml.SyntaxError
	if errors.As(err, &se) {
		e.Line = se.Line
		e.Message = se.Msg
	}
	return e
}

// validateWhereClauses applies the strict rule policy: every WhereClauseDef
// needs at least one complete RangeCheck with a known comparator.
func validateWhereClauses(defs []xmlWhereClause) error {
	for _, wc := range defs {
		if len(wc.RangeChecks) == 0 {
			return newMalformed(wc.OID, msgNoRangeCheck)
		}
		for i, rc := range wc.RangeChecks {
			n := i + 1
			if !core.Comparator(strings.TrimSpace(rc.Comparator)).Valid() {
				return newMalformed(wc.OID, msgBadComparator, rc.Comparator)
			}
			if strings.TrimSpace(rc.ItemOID) == "" {
				return newMalformed(wc.OID, msgNoItemOID, n)
			}
			if strings.TrimSpace(rc.SoftHard) == "" {
				return newMalformed(wc.OID, msgNoSoftHard, n)
			}
			if len(rc.CheckValues) == 0 {
				return newMalformed(wc.OID, msgNoCheckValue, n)
			}
		}
	}
	return nil
}
