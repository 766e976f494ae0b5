package vlm

import (
	"fmt"

	"github.com/SDen99/DatasetViewer-sub000/pkg/core"
)

// DiagnosticKind classifies a resolution gap.
type DiagnosticKind string

// Diagnostic kinds.
const (
	DiagMissingItemOID     DiagnosticKind = "missing-item-oid"
	DiagMissingItemDef     DiagnosticKind = "missing-item-def"
	DiagUnknownParameter   DiagnosticKind = "unknown-parameter"
	DiagMissingWhereClause DiagnosticKind = "missing-where-clause"
	DiagMissingMethod      DiagnosticKind = "missing-method"
	DiagMissingCodeList    DiagnosticKind = "missing-code-list"
	DiagMissingValueList   DiagnosticKind = "missing-value-list"

	DiagBlankDuplicateValue DiagnosticKind = "blank-duplicate-value"
)

// Severity returns the default severity of the kind.
func (k DiagnosticKind) Severity() core.Severity {
	switch k {
	case DiagMissingValueList:
		return core.SeverityError
	case DiagMissingItemOID, DiagMissingItemDef, DiagUnknownParameter:
		return core.SeverityWarning
	case DiagBlankDuplicateValue:
		return core.SeverityHint
	default:
		return core.SeverityInfo
	}
}

// Diagnostic is one resolution gap. Resolution never fails on these; the
// affected entry is skipped or left unresolved.
type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind"`
	Severity core.Severity  `json:"severity"`
	OID      string         `json:"oid,omitempty"`
	Message  string         `json:"message"`
}

// Diagnostics collects gaps found during one resolution run.
// A nil *Diagnostics discards everything.
type Diagnostics struct {
	Entries []Diagnostic `json:"entries"`
}

// Add records a diagnostic.
func (d *Diagnostics) Add(kind DiagnosticKind, oid, format string, args ...any) {
	if d == nil {
		return
	}
	d.Entries = append(d.Entries, Diagnostic{
		Kind:     kind,
		Severity: kind.Severity(),
		OID:      oid,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Merge appends all entries of other.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if d == nil || other == nil {
		return
	}
	d.Entries = append(d.Entries, other.Entries...)
}

// Count returns the number of entries of the given kind.
func (d *Diagnostics) Count(kind DiagnosticKind) int {
	if d == nil {
		return 0
	}
	n := 0
	for _, e := range d.Entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Counts returns the number of entries per kind.
func (d *Diagnostics) Counts() map[DiagnosticKind]int {
	counts := make(map[DiagnosticKind]int)
	if d == nil {
		return counts
	}
	for _, e := range d.Entries {
		counts[e.Kind]++
	}
	return counts
}

// Skipped returns how many ItemRefs were dropped.
func (d *Diagnostics) Skipped() int {
	return d.Count(DiagMissingItemOID) + d.Count(DiagMissingItemDef)
}

// Len returns the number of entries.
func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Entries)
}
