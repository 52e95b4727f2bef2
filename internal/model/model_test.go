package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    PatternStatus
		wantErr bool
	}{
		{input: "PENDING", want: StatusPending},
		{input: " approved ", want: StatusApproved},
		{input: "failed", want: StatusFailed},
		{input: "Draft", want: StatusDraft},
		{input: "rejected", want: StatusRejected},
		{input: "", wantErr: true},
		{input: "ARCHIVED", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, StatusNone, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input string
		want  Category
		ok    bool
	}{
		{input: "FOOD", want: CategoryFood, ok: true},
		{input: " groceries\n", want: CategoryGroceries, ok: true},
		{input: "Other", want: CategoryOther, ok: true},
		{input: "SNACKS"},
		{input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseCategory(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeMerchant(t *testing.T) {
	assert.Equal(t, "SWIGGY INSTAMART", NormalizeMerchant("  Swiggy Instamart "))
}

func TestPattern_IsExecutable(t *testing.T) {
	tests := []struct {
		name    string
		pattern Pattern
		want    bool
	}{
		{name: "approved with regex", pattern: Pattern{Status: StatusApproved, Regex: "x"}, want: true},
		{name: "approved blank regex", pattern: Pattern{Status: StatusApproved, Regex: "  "}},
		{name: "pending", pattern: Pattern{Status: StatusPending, Regex: "x"}},
		{name: "failed", pattern: Pattern{Status: StatusFailed}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pattern.IsExecutable())
		})
	}
}

func TestExtractionResult_Provenance(t *testing.T) {
	var r ExtractionResult
	assert.Equal(t, ProvenanceUnset, r.ProvenanceOf(FieldBankName))

	r.SetProvenance(FieldBankName, ProvenanceDefaulted)
	assert.Equal(t, ProvenanceDefaulted, r.ProvenanceOf(FieldBankName))
	assert.Equal(t, ProvenanceUnset, r.ProvenanceOf(FieldTxType))
}

func TestStringHelpers(t *testing.T) {
	assert.Empty(t, StringValue(nil))
	assert.Equal(t, "x", StringValue(StringPtr("x")))
}
