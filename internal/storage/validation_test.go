package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/smsledger/internal/model"
)

func TestValidateContext(t *testing.T) {
	assert.NoError(t, validateContext(context.Background()))
	//nolint:staticcheck // exercising validation
	assert.ErrorIs(t, validateContext(nil), ErrNilContext)
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid", input: "HDFCBK"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace", input: "  \t", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.input, "name")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrEmptyString)
				assert.Contains(t, err.Error(), "name")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePattern(t *testing.T) {
	tests := []struct {
		pattern *model.Pattern
		wantErr error
		name    string
	}{
		{
			name:    "nil",
			wantErr: ErrNilParameter,
		},
		{
			name:    "missing status",
			pattern: &model.Pattern{Regex: "x"},
			wantErr: ErrInvalidStatus,
		},
		{
			name:    "lowercase status",
			pattern: &model.Pattern{Status: "approved"},
			wantErr: ErrInvalidStatus,
		},
		{
			name:    "failed pattern with regex",
			pattern: &model.Pattern{Status: model.StatusFailed, Regex: "x"},
			wantErr: ErrInvalidPattern,
		},
		{
			name:    "failed pattern",
			pattern: &model.Pattern{Status: model.StatusFailed, SampleText: "unmatched"},
		},
		{
			name:    "draft with uncompilable regex is still storable",
			pattern: &model.Pattern{Status: model.StatusDraft, Regex: "(?<=x)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePattern(tt.pattern)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateMerchantCategory(t *testing.T) {
	tests := []struct {
		mc      *model.MerchantCategory
		wantErr error
		name    string
	}{
		{name: "nil", wantErr: ErrNilParameter},
		{name: "blank name", mc: &model.MerchantCategory{MerchantName: " ", Category: model.CategoryFood}, wantErr: ErrInvalidMerchant},
		{name: "unknown category", mc: &model.MerchantCategory{MerchantName: "SWIGGY", Category: "SNACKS"}, wantErr: ErrInvalidMerchant},
		{name: "valid", mc: &model.MerchantCategory{MerchantName: "SWIGGY", Category: model.CategoryFood}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateMerchantCategory(tt.mc)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTransaction(t *testing.T) {
	tests := []struct {
		txn     *model.Transaction
		wantErr error
		name    string
	}{
		{name: "nil", wantErr: ErrNilParameter},
		{name: "missing user", txn: &model.Transaction{Message: "sms"}, wantErr: ErrInvalidTransaction},
		{name: "missing message", txn: &model.Transaction{UserID: 1}, wantErr: ErrInvalidTransaction},
		{name: "valid", txn: &model.Transaction{UserID: 1, Message: "sms"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTransaction(tt.txn)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
