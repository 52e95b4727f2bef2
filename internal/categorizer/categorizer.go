// Package categorizer assigns spend categories to merchant names.
//
// Lookups are tiered: an exact mapping, then a substring mapping in either
// direction, then the language model. Model answers other than OTHER are
// persisted so later lookups stay local.
package categorizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/smsledger/internal/common"
	"github.com/Veraticus/smsledger/internal/llm"
	"github.com/Veraticus/smsledger/internal/model"
	"github.com/Veraticus/smsledger/internal/service"
)

// DefaultTimeout bounds a single model call.
const DefaultTimeout = 10 * time.Second

// Categorizer resolves merchant names to categories.
type Categorizer struct {
	store   service.MerchantStore
	client  llm.Client
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures a Categorizer.
type Option func(*Categorizer)

// WithTimeout sets the model call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Categorizer) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Categorizer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a categorizer. A nil client disables the model tier: unknown
// merchants are reported as OTHER without any remote call.
func New(store service.MerchantStore, client llm.Client, opts ...Option) *Categorizer {
	c := &Categorizer{
		store:   store,
		client:  client,
		logger:  slog.Default(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Categorize returns the category for merchantName, or "" for a blank name.
// It never fails: lookup and classification problems degrade to OTHER.
func (c *Categorizer) Categorize(ctx context.Context, merchantName string) string {
	key := model.NormalizeMerchant(merchantName)
	if key == "" {
		return ""
	}

	if category, ok := c.lookup(ctx, key); ok {
		return string(category)
	}

	category := c.classify(ctx, merchantName)
	if category != model.CategoryOther {
		c.remember(ctx, key, category)
	}

	return string(category)
}

// lookup tries the exact mapping and then substring containment in either
// direction, taking the first mapping in id order.
func (c *Categorizer) lookup(ctx context.Context, key string) (model.Category, bool) {
	mc, err := c.store.FindMerchantCategory(ctx, key)
	switch {
	case err == nil:
		return mc.Category, true
	case !errors.Is(err, common.ErrNotFound):
		c.logger.Warn("exact merchant lookup failed", "merchant", key, "error", err)
	}

	mappings, err := c.store.ListMerchantCategories(ctx)
	if err != nil {
		c.logger.Warn("merchant mapping scan failed", "merchant", key, "error", err)
		return "", false
	}

	for _, m := range mappings {
		name := model.NormalizeMerchant(m.MerchantName)
		if name == "" {
			continue
		}
		if strings.Contains(key, name) || strings.Contains(name, key) {
			c.logger.Debug("merchant matched by substring", "merchant", key, "mapping", name, "category", m.Category)
			return m.Category, true
		}
	}

	return "", false
}

func (c *Categorizer) classify(ctx context.Context, merchantName string) model.Category {
	if c.client == nil {
		return model.CategoryOther
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reply, err := c.client.Complete(ctx, BuildPrompt(merchantName))
	if err != nil {
		c.logger.Warn("merchant classification failed", "merchant", merchantName, "error", err)
		return model.CategoryOther
	}

	category, ok := ParseReply(reply)
	if !ok {
		c.logger.Warn("classifier returned unknown category", "merchant", merchantName, "reply", reply)
		return model.CategoryOther
	}

	return category
}

// remember persists a classification. A concurrent writer inserting the same
// merchant first is not an error.
func (c *Categorizer) remember(ctx context.Context, key string, category model.Category) {
	err := c.store.SaveMerchantCategory(ctx, &model.MerchantCategory{
		MerchantName: key,
		Category:     category,
	})
	switch {
	case err == nil:
		c.logger.Info("learned merchant category", "merchant", key, "category", category)
	case errors.Is(err, common.ErrDuplicateEntry):
		c.logger.Debug("merchant category already stored", "merchant", key)
	default:
		c.logger.Warn("failed to store merchant category", "merchant", key, "error", err)
	}
}

// Add stores a manual mapping.
func (c *Categorizer) Add(ctx context.Context, merchantName, category string) (*model.MerchantCategory, error) {
	key := model.NormalizeMerchant(merchantName)
	if key == "" {
		return nil, fmt.Errorf("merchant name is required")
	}

	parsed, ok := model.ParseCategory(category)
	if !ok {
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownCategory, category)
	}

	mc := &model.MerchantCategory{MerchantName: key, Category: parsed}
	if err := c.store.SaveMerchantCategory(ctx, mc); err != nil {
		return nil, fmt.Errorf("failed to add merchant %q: %w", key, err)
	}
	return mc, nil
}

// List returns every stored mapping.
func (c *Categorizer) List(ctx context.Context) ([]model.MerchantCategory, error) {
	mappings, err := c.store.ListMerchantCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list merchant categories: %w", err)
	}
	return mappings, nil
}
