// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/smsledger/internal/model"
)

// BankStore is the bank lookup/save surface used by the resolver.
type BankStore interface {
	// ListBanks returns every bank ordered by id ascending.
	ListBanks(ctx context.Context) ([]model.Bank, error)
	// SaveBank inserts a bank and returns it with its assigned id.
	SaveBank(ctx context.Context, bank *model.Bank) (*model.Bank, error)
}

// PatternStore is the pattern lookup/save surface.
type PatternStore interface {
	GetPatternByID(ctx context.Context, id int64) (*model.Pattern, error)
	// ListPatternsByBankAndStatus returns patterns ordered by id ascending.
	ListPatternsByBankAndStatus(ctx context.Context, bankID int64, status model.PatternStatus) ([]model.Pattern, error)
	ListPatternsByStatus(ctx context.Context, status model.PatternStatus) ([]model.Pattern, error)
	// SavePattern inserts when ID is zero and updates otherwise.
	SavePattern(ctx context.Context, pattern *model.Pattern) (*model.Pattern, error)
}

// MerchantStore is the merchant category cache.
type MerchantStore interface {
	// FindMerchantCategory does an exact case-insensitive lookup.
	// It returns common.ErrNotFound when no row exists.
	FindMerchantCategory(ctx context.Context, merchantName string) (*model.MerchantCategory, error)
	// ListMerchantCategories returns every mapping ordered by id ascending.
	ListMerchantCategories(ctx context.Context) ([]model.MerchantCategory, error)
	// SaveMerchantCategory inserts a mapping. A second insert for the same
	// merchant fails with common.ErrDuplicateEntry.
	SaveMerchantCategory(ctx context.Context, mc *model.MerchantCategory) error
}

// TransactionStore persists user-confirmed transactions.
type TransactionStore interface {
	SaveTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
	ListTransactionsByUser(ctx context.Context, userID int64) ([]model.Transaction, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	BankStore
	PatternStore
	MerchantStore
	TransactionStore

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
