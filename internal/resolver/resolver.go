// Package resolver maps an SMS sender title onto a known bank.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/smsledger/internal/common"
	"github.com/Veraticus/smsledger/internal/model"
	"github.com/Veraticus/smsledger/internal/service"
)

// ErrBankNameRequired is returned when neither the title nor an explicit
// name identifies a bank.
var ErrBankNameRequired = errors.New("bank not found in SMS title and no bank name provided")

// Resolver resolves banks by uppercase substring containment. Banks are
// scanned in id order so the earliest registered bank wins ties.
type Resolver struct {
	store  service.BankStore
	logger *slog.Logger
}

// New creates a resolver over store.
func New(store service.BankStore, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: store, logger: logger}
}

// ResolveBank returns the first bank whose name occurs in title, or nil when
// none does. It never writes.
func (r *Resolver) ResolveBank(ctx context.Context, title string) (*model.Bank, error) {
	banks, err := r.store.ListBanks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list banks: %w", err)
	}
	return matchTitle(banks, title), nil
}

// ResolveOrCreateBank resolves from titleHint first, then by containment in
// either direction against explicitName, and finally creates a bank named
// after explicitName. It is used when authoring patterns, never when
// extracting.
func (r *Resolver) ResolveOrCreateBank(ctx context.Context, titleHint, explicitName string) (*model.Bank, error) {
	banks, err := r.store.ListBanks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list banks: %w", err)
	}

	if bank := matchTitle(banks, titleHint); bank != nil {
		return bank, nil
	}

	name := strings.ToUpper(strings.TrimSpace(explicitName))
	if name == "" {
		return nil, ErrBankNameRequired
	}

	if bank := matchName(banks, name); bank != nil {
		return bank, nil
	}

	created, err := r.store.SaveBank(ctx, &model.Bank{Name: name})
	if err == nil {
		r.logger.Info("created bank", "bank_id", created.ID, "name", created.Name)
		return created, nil
	}
	if !errors.Is(err, common.ErrDuplicateEntry) {
		return nil, fmt.Errorf("failed to create bank %q: %w", name, err)
	}

	// Another writer created it first.
	banks, err = r.store.ListBanks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list banks: %w", err)
	}
	if bank := matchName(banks, name); bank != nil {
		return bank, nil
	}
	return nil, fmt.Errorf("bank %q reported duplicate but was not found: %w", name, common.ErrNotFound)
}

func matchTitle(banks []model.Bank, title string) *model.Bank {
	upper := strings.ToUpper(title)
	for i := range banks {
		name := strings.ToUpper(banks[i].Name)
		if name != "" && strings.Contains(upper, name) {
			bank := banks[i]
			return &bank
		}
	}
	return nil
}

func matchName(banks []model.Bank, upperName string) *model.Bank {
	for i := range banks {
		name := strings.ToUpper(banks[i].Name)
		if name == "" {
			continue
		}
		if strings.Contains(name, upperName) || strings.Contains(upperName, name) {
			bank := banks[i]
			return &bank
		}
	}
	return nil
}
