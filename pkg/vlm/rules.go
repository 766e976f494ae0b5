// Package vlm resolves value-level metadata into a materialised table.
//
// A Builder wraps one core.Index and a set of Rules. It holds no state
// between calls: every Build or Materialize call returns fresh rows and a
// fresh Diagnostics collector, so a Builder can be shared across goroutines.
package vlm

import (
	"slices"
	"strings"
)

// Variable names with fixed meaning in parameterised datasets.
const (
	ParamcdVariable = "PARAMCD"
	ParamVariable   = "PARAM"
)

// AllParameters is the PARAMCD of an ItemRef that applies to every
// parameter of a dataset without a PARAMCD code list.
const AllParameters = "*"

// Rules holds the vocabularies that steer resolution. Every field is
// configurable; DefaultRules reproduces the ADaM conventions.
type Rules struct {
	// StratificationVariables are recorded on an ItemRef when its where
	// clause mentions them.
	StratificationVariables []string `json:"stratification_variables"`
	// DuplicateSources are variables that may produce extra rows per parameter.
	DuplicateSources []string `json:"duplicate_sources"`
	// DuplicateValues are used when a duplicate source has no code list.
	DuplicateValues map[string][]string `json:"duplicate_values"`
	// FallbackValues are used for a duplicate source with neither a code
	// list nor an entry in DuplicateValues.
	FallbackValues []string `json:"fallback_values"`
	// DerivationKeywords mark a method description as deriving extra records.
	DerivationKeywords []string `json:"derivation_keywords"`
	// DefaultDerivationSource is implied by a keyword match whose method OID
	// names no duplicate source.
	DefaultDerivationSource string `json:"default_derivation_source"`
	// DuplicateAwareVariables render as SOURCE(VAR) on duplicate rows.
	DuplicateAwareVariables []string `json:"duplicate_aware_variables"`
}

// DefaultRules returns the built-in rule set.
func DefaultRules() Rules {
	return Rules{
		StratificationVariables: []string{"DTYPE", "PARCAT", "PARCAT1", "PARCAT2", "QNAM", "QVAL"},
		DuplicateSources: []string{
			"DTYPE", "AVISITN", "AVALCAT1", "AVALCAT2", "AVALCAT3",
			"ASEQ", "ONTRTFL", "POSTTRTFL", "CRIT1", "CRIT2", "CRIT3",
		},
		DuplicateValues: map[string][]string{
			"DTYPE":     {"LOCF", "Mean", "Worst"},
			"ONTRTFL":   {"Y", "N"},
			"POSTTRTFL": {"Y", "N"},
			"ASEQ":      {"1", "2", "3"},
		},
		FallbackValues:          []string{"1", "2"},
		DerivationKeywords:      []string{"derive", "impute", "locf", "average"},
		DefaultDerivationSource: "DTYPE",
		DuplicateAwareVariables: []string{"AVAL", "AVALC"},
	}
}

// withDefaults fills every unset field from DefaultRules.
func (r Rules) withDefaults() Rules {
	def := DefaultRules()
	if r.StratificationVariables == nil {
		r.StratificationVariables = def.StratificationVariables
	}
	if r.DuplicateSources == nil {
		r.DuplicateSources = def.DuplicateSources
	}
	if r.DuplicateValues == nil {
		r.DuplicateValues = def.DuplicateValues
	}
	if r.FallbackValues == nil {
		r.FallbackValues = def.FallbackValues
	}
	if r.DerivationKeywords == nil {
		r.DerivationKeywords = def.DerivationKeywords
	}
	if r.DefaultDerivationSource == "" {
		r.DefaultDerivationSource = def.DefaultDerivationSource
	}
	if r.DuplicateAwareVariables == nil {
		r.DuplicateAwareVariables = def.DuplicateAwareVariables
	}
	return r
}

func (r Rules) isStratification(variable string) bool {
	return containsFold(r.StratificationVariables, variable)
}

func (r Rules) isDuplicateSource(variable string) bool {
	return containsFold(r.DuplicateSources, variable)
}

func (r Rules) isDuplicateAware(variable string) bool {
	return containsFold(r.DuplicateAwareVariables, variable)
}

// valuesFor returns the configured values for a duplicate source.
func (r Rules) valuesFor(source string) []string {
	for k, v := range r.DuplicateValues {
		if strings.EqualFold(k, source) {
			return slices.Clone(v)
		}
	}
	return slices.Clone(r.FallbackValues)
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// appendUnique appends s unless it is already present.
func appendUnique(list []string, s string) []string {
	if slices.Contains(list, s) {
		return list
	}
	return append(list, s)
}
