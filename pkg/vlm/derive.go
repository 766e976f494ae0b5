package vlm

import (
	"fmt"
	"strings"
)

// Derivation modes accepted by NewDeriver.
const (
	DerivationPlaceholder = "placeholder"
	DerivationUnresolved  = "unresolved"
)

// DeriveInput is what a CellDeriver sees for one cell.
type DeriveInput struct {
	Row      *Row
	Variable string
	Ref      *ItemRef
}

// Derived is the display value of a cell.
type Derived struct {
	Value string
	// Derivation names the applied function on duplicate rows, e.g. "LOCF".
	Derivation string
	// Unresolved marks a cell whose value could not be derived.
	Unresolved bool
}

// CellDeriver produces the display value of a materialised cell.
type CellDeriver interface {
	Derive(in DeriveInput) Derived
}

// NewDeriver returns the deriver for a configured mode. An empty mode
// selects the placeholder deriver.
func NewDeriver(mode string, rules Rules) (CellDeriver, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", DerivationPlaceholder:
		return PlaceholderDeriver{Rules: rules.withDefaults()}, nil
	case DerivationUnresolved:
		return UnresolvedDeriver{}, nil
	default:
		return nil, fmt.Errorf("unknown derivation mode %q (want %s or %s)", mode, DerivationPlaceholder, DerivationUnresolved)
	}
}

// PlaceholderDeriver renders sample values from the declared data type.
// On a duplicate row, duplicate-aware variables render as VALUE(VAR).
type PlaceholderDeriver struct {
	Rules Rules
}

// Derive implements CellDeriver.
func (d PlaceholderDeriver) Derive(in DeriveInput) Derived {
	if in.Row != nil && in.Row.IsDuplicate() && d.Rules.isDuplicateAware(in.Variable) {
		return Derived{
			Value:      in.Row.DuplicateValue + "(" + in.Variable + ")",
			Derivation: in.Row.DuplicateValue,
		}
	}
	if in.Ref == nil || in.Ref.ItemDef == nil {
		return Derived{Unresolved: true}
	}
	switch strings.ToLower(in.Ref.ItemDef.DataType) {
	case "integer":
		return Derived{Value: "1"}
	case "float":
		return Derived{Value: "1.0"}
	case "text":
		return Derived{Value: "TEXT"}
	case "date":
		return Derived{Value: "2023-01-01"}
	default:
		return Derived{Unresolved: true}
	}
}

// UnresolvedDeriver leaves every value empty and flags it unresolved.
type UnresolvedDeriver struct{}

// Derive implements CellDeriver.
func (UnresolvedDeriver) Derive(DeriveInput) Derived {
	return Derived{Unresolved: true}
}
