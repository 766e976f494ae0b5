package vlm_test

import (
	"testing"

	"github.com/SDen99/DatasetViewer-sub000/pkg/core"
	"github.com/SDen99/DatasetViewer-sub000/pkg/vlm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholderDeriver(t *testing.T) {
	d := vlm.PlaceholderDeriver{Rules: vlm.DefaultRules()}
	base := &vlm.Row{Paramcd: "AGE"}
	dup := &vlm.Row{Paramcd: "AGE", DuplicateSource: "DTYPE", DuplicateValue: "LOCF"}
	ref := func(dataType string) *vlm.ItemRef {
		return &vlm.ItemRef{ItemDef: &core.ItemDef{DataType: dataType}}
	}

	tests := []struct {
		name string
		in   vlm.DeriveInput
		want vlm.Derived
	}{
		{"integer", vlm.DeriveInput{Row: base, Variable: "AVAL", Ref: ref("integer")}, vlm.Derived{Value: "1"}},
		{"float", vlm.DeriveInput{Row: base, Variable: "AVAL", Ref: ref("float")}, vlm.Derived{Value: "1.0"}},
		{"text", vlm.DeriveInput{Row: base, Variable: "AVALC", Ref: ref("text")}, vlm.Derived{Value: "TEXT"}},
		{"date", vlm.DeriveInput{Row: base, Variable: "ADT", Ref: ref("date")}, vlm.Derived{Value: "2023-01-01"}},
		{"unknown type", vlm.DeriveInput{Row: base, Variable: "ADTM", Ref: ref("datetime")}, vlm.Derived{Unresolved: true}},
		{"no item def", vlm.DeriveInput{Row: base, Variable: "AVAL", Ref: &vlm.ItemRef{}}, vlm.Derived{Unresolved: true}},
		{"duplicate aware", vlm.DeriveInput{Row: dup, Variable: "AVAL", Ref: ref("float")}, vlm.Derived{Value: "LOCF(AVAL)", Derivation: "LOCF"}},
		{"duplicate aware AVALC", vlm.DeriveInput{Row: dup, Variable: "AVALC", Ref: ref("text")}, vlm.Derived{Value: "LOCF(AVALC)", Derivation: "LOCF"}},
		{"duplicate row other variable", vlm.DeriveInput{Row: dup, Variable: "AVALU", Ref: ref("text")}, vlm.Derived{Value: "TEXT"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Derive(tt.in))
		})
	}
}

func TestNewDeriver(t *testing.T) {
	tests := []struct {
		mode    string
		want    vlm.CellDeriver
		wantErr bool
	}{
		{"", vlm.PlaceholderDeriver{Rules: vlm.DefaultRules()}, false},
		{"placeholder", vlm.PlaceholderDeriver{Rules: vlm.DefaultRules()}, false},
		{" Unresolved ", vlm.UnresolvedDeriver{}, false},
		{"real", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			got, err := vlm.NewDeriver(tt.mode, vlm.Rules{})
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown derivation mode")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnresolvedDeriver(t *testing.T) {
	got := vlm.UnresolvedDeriver{}.Derive(vlm.DeriveInput{
		Row:      &vlm.Row{Paramcd: "AGE"},
		Variable: "AVAL",
		Ref:      &vlm.ItemRef{ItemDef: &core.ItemDef{DataType: "integer"}},
	})
	assert.Equal(t, vlm.Derived{Unresolved: true}, got)
}
