// Package testutil provides test utilities for the smsledger project.
// It offers a fluent API for seeding banks, patterns and merchant mappings
// into an isolated in-memory database.
package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/Veraticus/smsledger/internal/model"
	"github.com/Veraticus/smsledger/internal/service"
	"github.com/Veraticus/smsledger/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
	banks   map[string]model.Bank
}

// SetupTestDB creates a new in-memory test database seeded from the given fixture.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t, testutil.NewFixture().
//		WithBank("HDFCBK").
//		WithApprovedPattern("HDFCBK", `Rs\.(?<amount>[\d,.]+)`))
func SetupTestDB(t *testing.T, fixture *Fixture) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	db := &TestDB{
		Storage: store,
		t:       t,
		banks:   make(map[string]model.Bank),
	}

	if fixture != nil {
		fixture.apply(ctx, db)
	}

	return db
}

// MustBank returns the seeded bank with the given name or fails the test.
func (db *TestDB) MustBank(name string) model.Bank {
	db.t.Helper()
	bank, ok := db.banks[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		db.t.Fatalf("bank %q was not seeded", name)
	}
	return bank
}

// SeedBank inserts a bank or fails the test.
func (db *TestDB) SeedBank(name string) model.Bank {
	db.t.Helper()
	bank, err := db.Storage.SaveBank(context.Background(), &model.Bank{Name: name})
	if err != nil {
		db.t.Fatalf("failed to seed bank %q: %v", name, err)
	}
	db.banks[bank.Name] = *bank
	return *bank
}

// SeedPattern inserts a pattern or fails the test.
func (db *TestDB) SeedPattern(p model.Pattern) model.Pattern {
	db.t.Helper()
	saved, err := db.Storage.SavePattern(context.Background(), &p)
	if err != nil {
		db.t.Fatalf("failed to seed pattern %q: %v", p.Regex, err)
	}
	return *saved
}

// SeedMerchant inserts a merchant mapping or fails the test.
func (db *TestDB) SeedMerchant(name string, category model.Category) {
	db.t.Helper()
	err := db.Storage.SaveMerchantCategory(context.Background(), &model.MerchantCategory{
		MerchantName: name,
		Category:     category,
	})
	if err != nil {
		db.t.Fatalf("failed to seed merchant %q: %v", name, err)
	}
}

// PatternsByStatus lists patterns in the given status or fails the test.
func (db *TestDB) PatternsByStatus(status model.PatternStatus) []model.Pattern {
	db.t.Helper()
	patterns, err := db.Storage.ListPatternsByStatus(context.Background(), status)
	if err != nil {
		db.t.Fatalf("failed to list %s patterns: %v", status, err)
	}
	return patterns
}
