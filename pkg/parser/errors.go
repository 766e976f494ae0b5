package parser

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is on any error returned by Parse.
var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrXMLSyntax              = errors.New("xml syntax error")
	ErrMissingNamespace       = errors.New("missing define namespace")
	ErrMissingRequiredElement = errors.New("missing required element")
	ErrMalformedRule          = errors.New("malformed where clause")
)

// Error describes why a document could not be extracted.
type Error struct {
	Kind    error  // one of the Err* kinds above
	Element string // offending element, if known
	OID     string // offending definition, if known
	Line    int    // 1-based line for syntax errors, 0 otherwise
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	switch {
	case e.Line > 0:
		msg = fmt.Sprintf("%s at line %d", msg, e.Line)
	case e.OID != "":
		msg = fmt.Sprintf("%s in %s %q", msg, e.Element, e.OID)
	case e.Element != "":
		msg = fmt.Sprintf("%s: %s", msg, e.Element)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is matches the error kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// Unwrap returns the underlying decoder error, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Common error messages
const (
	msgEmptyInput        = "document is empty"
	msgBinaryInput       = "document is not text"
	msgNoNamespace       = "root element does not declare a Define-XML namespace (expected one of %v)"
	msgNoRangeCheck      = "where clause has no RangeCheck"
	msgBadComparator     = "unknown comparator %q"
	msgNoItemOID         = "RangeCheck %d has no ItemOID"
	msgNoSoftHard        = "RangeCheck %d has no SoftHard"
	msgNoCheckValue      = "RangeCheck %d has no CheckValue"
	msgNoMetaDataVersion = "Study/MetaDataVersion not found"
	msgNoRootElement     = "no root element"
)

func newMalformed(oid, format string, args ...any) *Error {
	return &Error{
		Kind:    ErrMalformedRule,
		Element: "WhereClauseDef",
		OID:     oid,
		Message: fmt.Sprintf(format, args...),
	}
}
