package engine

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/smsledger/internal/categorizer"
	"github.com/Veraticus/smsledger/internal/lifecycle"
	"github.com/Veraticus/smsledger/internal/model"
	"github.com/Veraticus/smsledger/internal/resolver"
	"github.com/Veraticus/smsledger/internal/testutil"
)

// fakeCategorizer returns fixed categories and panics for merchants listed in panics.
type fakeCategorizer struct {
	categories map[string]string
	panics     map[string]bool
	calls      []string
	mu         sync.Mutex
}

func (f *fakeCategorizer) Categorize(_ context.Context, merchant string) string {
	f.mu.Lock()
	f.calls = append(f.calls, merchant)
	f.mu.Unlock()

	key := strings.ToUpper(strings.TrimSpace(merchant))
	if f.panics[key] {
		panic("categorizer exploded on " + key)
	}
	if key == "" {
		return ""
	}
	if c, ok := f.categories[key]; ok {
		return c
	}
	return "OTHER"
}

const (
	upiRegex   = `Rs\.?\s?(?<amount>[\d,]+(?:\.\d+)?) debited .* to (?<merchant>[A-Za-z]+)`
	hdfcUPISMS = "Rs.1,23,456.50 debited from a/c **1234 to ZOMATO on 10-Jan-26"
)

func newTestEngine(t *testing.T, fixture *testutil.Fixture, cats *fakeCategorizer) (*Engine, *testutil.TestDB) {
	t.Helper()
	db := testutil.SetupTestDB(t, fixture)
	res := resolver.New(db.Storage, nil)
	life := lifecycle.NewService(db.Storage, res, nil)
	if cats == nil {
		cats = &fakeCategorizer{categories: map[string]string{"ZOMATO": "FOOD"}}
	}
	return NewWithConfig(res, db.Storage, cats, life, Config{Workers: 4}), db
}

func TestEngine_FirstMatchWins(t *testing.T) {
	e, db := newTestEngine(t, testutil.NewFixture().
		WithBank(testutil.BankHDFC).
		WithApprovedPattern(testutil.BankHDFC, `Rs(?=\d)`).
		WithApprovedPattern(testutil.BankHDFC, `credited`).
		WithApprovedPattern(testutil.BankHDFC, upiRegex).
		WithApprovedPattern(testutil.BankHDFC, `(?<amount>[\d,.]+) debited`).
		WithPattern(testutil.BankHDFC, model.Pattern{Regex: `debited`, Status: model.StatusPending}), nil)
	ctx := context.Background()

	result, err := e.FindPattern(ctx, hdfcUPISMS, "AD-HDFCBK")
	require.NoError(t, err)
	require.True(t, result.Matched)

	approved, err := db.Storage.ListPatternsByBankAndStatus(ctx, db.MustBank(testutil.BankHDFC).ID, model.StatusApproved)
	require.NoError(t, err)
	require.Len(t, approved, 4)
	require.NotNil(t, result.PatternID)
	assert.Equal(t, approved[2].ID, *result.PatternID)
	assert.Equal(t, upiRegex, result.PatternText)
	assert.True(t, decimal.RequireFromString("123456.50").Equal(*result.Amount))
}

func TestEngine_Provenance(t *testing.T) {
	e, _ := newTestEngine(t, testutil.NewFixture().
		WithBank(testutil.BankHDFC).
		WithPattern(testutil.BankHDFC, model.Pattern{
			Regex:           upiRegex,
			Status:          model.StatusApproved,
			BankNameDefault: model.StringPtr("HDFC Bank"),
			TxTypeDefault:   model.StringPtr("DEBIT"),
		}), nil)

	result, err := e.CheckPattern(context.Background(), hdfcUPISMS, "AD-HDFCBK")
	require.NoError(t, err)
	require.True(t, result.Matched)

	assert.Equal(t, "HDFC Bank", model.StringValue(result.BankName))
	assert.Equal(t, model.ProvenanceDefaulted, result.ProvenanceOf(model.FieldBankName))

	assert.Equal(t, "ZOMATO", model.StringValue(result.MerchantName))
	assert.Equal(t, model.ProvenanceParsed, result.ProvenanceOf(model.FieldMerchantName))

	assert.Equal(t, "DEBIT", model.StringValue(result.TxType))
	assert.Equal(t, model.ProvenanceDefaulted, result.ProvenanceOf(model.FieldTxType))

	assert.Nil(t, result.MsgType)
	assert.Equal(t, model.ProvenanceUnset, result.ProvenanceOf(model.FieldMsgType))

	assert.Equal(t, "FOOD", model.StringValue(result.MsgSubtype))
	assert.Equal(t, model.ProvenanceParsed, result.ProvenanceOf(model.FieldMsgSubtype))
}

func TestEngine_BankNameFallsBackToResolvedBank(t *testing.T) {
	e, _ := newTestEngine(t, testutil.NewFixture().
		WithBank(testutil.BankSBI).
		WithApprovedPattern(testutil.BankSBI, `INR (?<amount>\d+)`), nil)

	result, err := e.CheckPattern(context.Background(), "INR 500 spent", "VM-SBIBNK")
	require.NoError(t, err)
	require.True(t, result.Matched)

	assert.Equal(t, testutil.BankSBI, model.StringValue(result.BankName))
	assert.Equal(t, model.ProvenanceDefaulted, result.ProvenanceOf(model.FieldBankName))
	assert.Nil(t, result.MerchantName)
	assert.Nil(t, result.MsgSubtype)
	assert.Equal(t, model.ProvenanceUnset, result.ProvenanceOf(model.FieldMsgSubtype))
}

func TestEngine_MsgSubtype(t *testing.T) {
	tests := []struct {
		name           string
		pattern        model.Pattern
		sms            string
		wantSubtype    string
		wantProvenance model.Provenance
	}{
		{
			name:           "category overrides parsed subtype",
			pattern:        model.Pattern{Regex: `to (?<merchant>\w+) \[(?<msgSubtype>\w+)\]`},
			sms:            "paid to ZOMATO [SHOPPING]",
			wantSubtype:    "FOOD",
			wantProvenance: model.ProvenanceParsed,
		},
		{
			name: "category overrides default subtype",
			pattern: model.Pattern{
				Regex:             `to (?<merchant>\w+)`,
				MsgSubtypeDefault: model.StringPtr("BILLS"),
			},
			sms:            "paid to ZOMATO",
			wantSubtype:    "FOOD",
			wantProvenance: model.ProvenanceParsed,
		},
		{
			name: "defaulted merchant is categorized",
			pattern: model.Pattern{
				Regex:               `paid (?<amount>\d+)`,
				MerchantNameDefault: model.StringPtr("Zomato"),
			},
			sms:            "paid 20",
			wantSubtype:    "FOOD",
			wantProvenance: model.ProvenanceParsed,
		},
		{
			name:           "parsed subtype kept without merchant",
			pattern:        model.Pattern{Regex: `\[(?<msgSubtype>\w+)\]`},
			sms:            "autopay [BILLS]",
			wantSubtype:    "BILLS",
			wantProvenance: model.ProvenanceParsed,
		},
		{
			name: "default subtype without merchant",
			pattern: model.Pattern{
				Regex:             `salary of (?<amount>\d+)`,
				MsgSubtypeDefault: model.StringPtr("SALARY"),
			},
			sms:            "salary of 90000 credited",
			wantSubtype:    "SALARY",
			wantProvenance: model.ProvenanceDefaulted,
		},
		{
			name: "blank merchant falls through to default",
			pattern: model.Pattern{
				Regex:             `to(?<merchant>\s*)$`,
				MsgSubtypeDefault: model.StringPtr("TRANSFER"),
			},
			sms:            "sent to",
			wantSubtype:    "TRANSFER",
			wantProvenance: model.ProvenanceDefaulted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.pattern
			p.Status = model.StatusApproved
			e, _ := newTestEngine(t, testutil.NewFixture().
				WithBank(testutil.BankICICI).
				WithPattern(testutil.BankICICI, p), nil)

			result, err := e.CheckPattern(context.Background(), tt.sms, "JD-ICICIB")
			require.NoError(t, err)
			require.True(t, result.Matched, result.Message)
			assert.Equal(t, tt.wantSubtype, model.StringValue(result.MsgSubtype))
			assert.Equal(t, tt.wantProvenance, result.ProvenanceOf(model.FieldMsgSubtype))
		})
	}
}

func TestEngine_MsgSubtypeFromStoredMapping(t *testing.T) {
	db := testutil.SetupTestDB(t, testutil.NewFixture().
		WithBank(testutil.BankICICI).
		WithMerchant("ZOMATO", model.CategoryFood).
		WithPattern(testutil.BankICICI, model.Pattern{
			Regex:             `paid to (?<merchant>[A-Z]+ ORDER \d+)`,
			MsgSubtypeDefault: model.StringPtr("BILLS"),
			Status:            model.StatusApproved,
		}))
	res := resolver.New(db.Storage, nil)
	e := New(res, db.Storage, categorizer.New(db.Storage, nil), lifecycle.NewService(db.Storage, res, nil))

	result, err := e.CheckPattern(context.Background(), "INR 450 paid to ZOMATO ORDER 123", "JD-ICICIB")
	require.NoError(t, err)
	require.True(t, result.Matched, result.Message)
	assert.Equal(t, "ZOMATO ORDER 123", model.StringValue(result.MerchantName))
	assert.Equal(t, string(model.CategoryFood), model.StringValue(result.MsgSubtype))
	assert.Equal(t, model.ProvenanceParsed, result.ProvenanceOf(model.FieldMsgSubtype))
}

func TestEngine_UsesConfiguredLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	db := testutil.SetupTestDB(t, testutil.NewFixture().
		WithBank(testutil.BankHDFC).
		WithApprovedPattern(testutil.BankHDFC, upiRegex))
	res := resolver.New(db.Storage, nil)
	e := NewWithConfig(res, db.Storage, &fakeCategorizer{}, nil, Config{Workers: 2, Logger: logger})

	result, err := e.CheckPattern(context.Background(), hdfcUPISMS, "VM-HDFCBK")
	require.NoError(t, err)
	require.True(t, result.Matched)
	assert.Contains(t, buf.String(), "Pattern matched")

	buf.Reset()
	e.ProcessBatch(context.Background(), []BatchItem{{Title: "VM-HDFCBK", Message: hdfcUPISMS}})
	assert.Contains(t, buf.String(), "batch_id=")
}

func TestEngine_FailureCuration(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		sms         string
		wantMessage string
		wantBank    bool
	}{
		{
			name:        "unknown bank",
			title:       "XX-MYSTRY",
			sms:         "Rs 10 debited",
			wantMessage: "No bank found in SMS title: XX-MYSTRY",
		},
		{
			name:        "no approved patterns",
			title:       "VM-SBIBNK",
			sms:         "Rs 10 debited",
			wantMessage: "No approved patterns found for bank: SBIBNK",
			wantBank:    true,
		},
		{
			name:        "no pattern matches",
			title:       "AD-HDFCBK",
			sms:         "Your OTP is 1234",
			wantMessage: "No matching pattern found for SMS from bank: HDFCBK",
			wantBank:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := func() *testutil.Fixture {
				return testutil.NewFixture().
					WithBanks(testutil.BankHDFC, testutil.BankSBI).
					WithApprovedPattern(testutil.BankHDFC, upiRegex)
			}
			ctx := context.Background()

			t.Run("live path records one failure", func(t *testing.T) {
				e, db := newTestEngine(t, fixture(), nil)

				result, err := e.FindPattern(ctx, tt.sms, tt.title)
				require.NoError(t, err)
				assert.False(t, result.Matched)
				assert.Equal(t, tt.wantMessage+". SMS saved as FAILED pattern.", result.Message)

				failed := db.PatternsByStatus(model.StatusFailed)
				require.Len(t, failed, 1)
				assert.Equal(t, tt.sms, failed[0].SampleText)
				assert.Empty(t, failed[0].Regex)
				assert.Equal(t, tt.title, failed[0].TitleHint)
				assert.Equal(t, tt.wantBank, failed[0].BankID != nil)
			})

			t.Run("probe records nothing", func(t *testing.T) {
				e, db := newTestEngine(t, fixture(), nil)

				result, err := e.CheckPattern(ctx, tt.sms, tt.title)
				require.NoError(t, err)
				assert.False(t, result.Matched)
				assert.Equal(t, tt.wantMessage, result.Message)
				assert.Empty(t, db.PatternsByStatus(model.StatusFailed))
			})

			t.Run("bulk records nothing", func(t *testing.T) {
				e, db := newTestEngine(t, fixture(), nil)

				batch := e.ProcessBatch(ctx, []BatchItem{{Title: tt.title, Message: tt.sms}})
				require.Len(t, batch.Results, 1)
				assert.False(t, batch.Results[0].Matched)
				assert.Equal(t, tt.wantMessage, batch.Results[0].Message)
				assert.Empty(t, db.PatternsByStatus(model.StatusFailed))
			})
		})
	}
}
