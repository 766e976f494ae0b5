package vlm

import (
	"strings"

	"github.com/SDen99/DatasetViewer-sub000/pkg/core"
)

// DuplicateDetector infers which duplicate source a method implies.
// Detect returns ok=false when the method says nothing about duplicates.
type DuplicateDetector interface {
	Detect(method *core.Method) (source string, ok bool)
}

// DefaultDetectors returns the OID-token detector followed by the
// derivation-keyword detector, both configured from rules.
func DefaultDetectors(rules Rules) []DuplicateDetector {
	return []DuplicateDetector{
		OIDTokenDetector{Sources: rules.DuplicateSources},
		DerivationKeywordDetector{
			Keywords:      rules.DerivationKeywords,
			Sources:       rules.DuplicateSources,
			DefaultSource: rules.DefaultDerivationSource,
		},
	}
}

// OIDTokenDetector reports the first duplicate source named by a token of
// the method OID, e.g. MT.ADLB.ALB.DTYPE implies DTYPE.
type OIDTokenDetector struct {
	Sources []string
}

// Detect implements DuplicateDetector.
func (d OIDTokenDetector) Detect(method *core.Method) (string, bool) {
	if method == nil {
		return "", false
	}
	return sourceToken(method.OID, d.Sources)
}

// DerivationKeywordDetector matches derivation keywords in the method
// description. The implied source comes from the method OID when it names
// one, else DefaultSource.
type DerivationKeywordDetector struct {
	Keywords      []string
	Sources       []string
	DefaultSource string
}

// Detect implements DuplicateDetector.
func (d DerivationKeywordDetector) Detect(method *core.Method) (string, bool) {
	if method == nil {
		return "", false
	}
	text := strings.ToLower(method.Description.Text)
	if text == "" {
		return "", false
	}
	for _, kw := range d.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || !strings.Contains(text, kw) {
			continue
		}
		if src, ok := sourceToken(method.OID, d.Sources); ok {
			return src, true
		}
		if d.DefaultSource == "" {
			return "", false
		}
		return strings.ToUpper(d.DefaultSource), true
	}
	return "", false
}

func sourceToken(oid string, sources []string) (string, bool) {
	for _, tok := range core.OIDTokens(oid) {
		if containsFold(sources, tok) {
			return tok, true
		}
	}
	return "", false
}
