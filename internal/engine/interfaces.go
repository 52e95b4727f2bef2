package engine

import (
	"context"

	"github.com/Veraticus/smsledger/internal/model"
)

// BankFinder resolves an SMS title to a bank without side effects.
type BankFinder interface {
	ResolveBank(ctx context.Context, title string) (*model.Bank, error)
}

// PatternSource supplies candidate patterns.
type PatternSource interface {
	ListPatternsByBankAndStatus(ctx context.Context, bankID int64, status model.PatternStatus) ([]model.Pattern, error)
}

// MerchantCategorizer maps a merchant name onto a category label.
type MerchantCategorizer interface {
	Categorize(ctx context.Context, merchantName string) string
}

// FailureRecorder stores messages no pattern could handle.
type FailureRecorder interface {
	RecordFailure(ctx context.Context, message, title string, bank *model.Bank) (*model.Pattern, error)
}
