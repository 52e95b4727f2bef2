package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/smsledger/internal/common"
	"github.com/Veraticus/smsledger/internal/model"
)

func TestSQLiteStorage_PatternRoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	bank, err := store.SaveBank(ctx, &model.Bank{Name: "HDFCBK"})
	require.NoError(t, err)

	created, err := store.SavePattern(ctx, &model.Pattern{
		BankID:        &bank.ID,
		Regex:         `Rs\.?(?<amount>[\d,.]+)`,
		SampleText:    "Rs.500 debited",
		Status:        model.StatusDraft,
		TxTypeDefault: model.StringPtr("DEBIT"),
		TitleHint:     "AD-HDFCBK",
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := store.GetPatternByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Regex, got.Regex)
	assert.Equal(t, model.StatusDraft, got.Status)
	require.NotNil(t, got.BankID)
	assert.Equal(t, bank.ID, *got.BankID)
	assert.Equal(t, "DEBIT", model.StringValue(got.TxTypeDefault))
	assert.Nil(t, got.MerchantNameDefault)
	assert.Equal(t, "AD-HDFCBK", got.TitleHint)

	got.Status = model.StatusPending
	got.MerchantNameDefault = model.StringPtr("AMAZON")
	updated, err := store.SavePattern(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	reloaded, err := store.GetPatternByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, reloaded.Status)
	assert.Equal(t, "AMAZON", model.StringValue(reloaded.MerchantNameDefault))
}

func TestSQLiteStorage_GetPatternNotFound(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.GetPatternByID(context.Background(), 42)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteStorage_UpdateMissingPattern(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.SavePattern(context.Background(), &model.Pattern{ID: 99, Status: model.StatusDraft})
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteStorage_ListPatternsByBankAndStatus(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	hdfc, err := store.SaveBank(ctx, &model.Bank{Name: "HDFCBK"})
	require.NoError(t, err)
	sbi, err := store.SaveBank(ctx, &model.Bank{Name: "SBIBNK"})
	require.NoError(t, err)

	save := func(bankID int64, regex string, status model.PatternStatus) int64 {
		p, err := store.SavePattern(ctx, &model.Pattern{BankID: &bankID, Regex: regex, Status: status})
		require.NoError(t, err)
		return p.ID
	}

	first := save(hdfc.ID, "a", model.StatusApproved)
	save(hdfc.ID, "b", model.StatusPending)
	second := save(hdfc.ID, "c", model.StatusApproved)
	save(sbi.ID, "d", model.StatusApproved)

	patterns, err := store.ListPatternsByBankAndStatus(ctx, hdfc.ID, model.StatusApproved)
	require.NoError(t, err)
	require.Len(t, patterns, 2)
	assert.Equal(t, first, patterns[0].ID)
	assert.Equal(t, second, patterns[1].ID)

	pending, err := store.ListPatternsByStatus(ctx, model.StatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	_, err = store.ListPatternsByStatus(ctx, "ARCHIVED")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestSQLiteStorage_FailedPatternWithoutBank(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	saved, err := store.SavePattern(ctx, &model.Pattern{
		SampleText:      "Your a/c debited Rs 100",
		Status:          model.StatusFailed,
		BankNameDefault: model.StringPtr("XX-UNKNOWN-S"),
	})
	require.NoError(t, err)

	got, err := store.GetPatternByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Nil(t, got.BankID)
	assert.Empty(t, got.Regex)

	_, err = store.SavePattern(ctx, &model.Pattern{Status: model.StatusFailed, Regex: "x"})
	require.ErrorIs(t, err, ErrInvalidPattern)
}
