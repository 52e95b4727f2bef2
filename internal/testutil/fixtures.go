package testutil

import (
	"context"

	"github.com/Veraticus/smsledger/internal/model"
)

// Common bank senders used across tests.
const (
	BankHDFC  = "HDFCBK"
	BankSBI   = "SBIBNK"
	BankICICI = "ICICIB"
)

// Fixture accumulates seed data. Banks are inserted first in the order they
// were added, then patterns, then merchant mappings.
type Fixture struct {
	merchants map[string]model.Category
	banks     []string
	patterns  []patternSeed
	order     []string
}

type patternSeed struct {
	pattern model.Pattern
	bank    string
}

// NewFixture returns an empty fixture.
func NewFixture() *Fixture {
	return &Fixture{merchants: make(map[string]model.Category)}
}

// WithBank adds a bank.
func (f *Fixture) WithBank(name string) *Fixture {
	f.banks = append(f.banks, name)
	return f
}

// WithBanks adds several banks in order.
func (f *Fixture) WithBanks(names ...string) *Fixture {
	f.banks = append(f.banks, names...)
	return f
}

// WithBasicBanks adds the three common senders.
func (f *Fixture) WithBasicBanks() *Fixture {
	return f.WithBanks(BankHDFC, BankSBI, BankICICI)
}

// WithApprovedPattern adds an APPROVED pattern bound to bank.
func (f *Fixture) WithApprovedPattern(bank, regex string) *Fixture {
	return f.WithPattern(bank, model.Pattern{Regex: regex, Status: model.StatusApproved})
}

// WithPattern adds a pattern bound to bank. The bank must also be added.
func (f *Fixture) WithPattern(bank string, p model.Pattern) *Fixture {
	f.patterns = append(f.patterns, patternSeed{bank: bank, pattern: p})
	return f
}

// WithMerchant adds a merchant mapping.
func (f *Fixture) WithMerchant(name string, category model.Category) *Fixture {
	if _, ok := f.merchants[name]; !ok {
		f.order = append(f.order, name)
	}
	f.merchants[name] = category
	return f
}

func (f *Fixture) apply(_ context.Context, db *TestDB) {
	db.t.Helper()

	for _, name := range f.banks {
		db.SeedBank(name)
	}
	for _, seed := range f.patterns {
		p := seed.pattern
		if seed.bank != "" {
			bank := db.MustBank(seed.bank)
			p.BankID = &bank.ID
		}
		db.SeedPattern(p)
	}
	for _, name := range f.order {
		db.SeedMerchant(name, f.merchants[name])
	}
}
