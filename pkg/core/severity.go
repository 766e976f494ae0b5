package core

// Severity ranks resolution diagnostics, most severe first. Ordering by the
// numeric value puts a whole value list going missing ahead of a single
// skipped item.
type Severity int

const (
	SeverityError   Severity = iota // a referenced value list is gone
	SeverityWarning                 // an item was skipped
	SeverityInfo                    // a reference stayed unresolved
	SeverityHint                    // the metadata works but could be tidier
)

var severityNames = [...]string{"error", "warning", "info", "hint"}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "unknown"
	}
	return severityNames[s]
}

// Blocking reports whether the severity fails a strict check.
func (s Severity) Blocking() bool {
	return s <= SeverityWarning
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
