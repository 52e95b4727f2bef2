package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/smsledger/internal/model"
)

// FindMerchantCategory looks a merchant up by exact, case-insensitive name.
func (s *SQLiteStorage) FindMerchantCategory(ctx context.Context, merchantName string) (*model.MerchantCategory, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(merchantName, "merchantName"); err != nil {
		return nil, err
	}

	key := model.NormalizeMerchant(merchantName)
	if mc := s.getCachedMerchant(key); mc != nil {
		return mc, nil
	}

	var (
		mc       model.MerchantCategory
		category string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, merchant_name, category, created_at
		FROM merchant_categories
		WHERE merchant_name = ?
	`, key).Scan(&mc.ID, &mc.MerchantName, &category, &mc.CreatedAt)
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("merchant %q", key))
	}
	mc.Category = model.Category(category)

	s.cacheMerchant(&mc)
	return &mc, nil
}

// ListMerchantCategories returns every mapping ordered by id ascending.
func (s *SQLiteStorage) ListMerchantCategories(ctx context.Context) ([]model.MerchantCategory, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, merchant_name, category, created_at
		FROM merchant_categories
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query merchant categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var mappings []model.MerchantCategory
	for rows.Next() {
		var (
			mc       model.MerchantCategory
			category string
		)
		if err := rows.Scan(&mc.ID, &mc.MerchantName, &category, &mc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan merchant category: %w", err)
		}
		mc.Category = model.Category(category)
		mappings = append(mappings, mc)
	}

	return mappings, rows.Err()
}

// SaveMerchantCategory inserts a new mapping. The merchant name is stored
// uppercased; an existing merchant yields common.ErrDuplicateEntry.
func (s *SQLiteStorage) SaveMerchantCategory(ctx context.Context, mc *model.MerchantCategory) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMerchantCategory(mc); err != nil {
		return err
	}

	mc.MerchantName = model.NormalizeMerchant(mc.MerchantName)
	if mc.CreatedAt.IsZero() {
		mc.CreatedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO merchant_categories (merchant_name, category, created_at)
		VALUES (?, ?, ?)
	`, mc.MerchantName, string(mc.Category), mc.CreatedAt)
	if err != nil {
		return translateError(err, fmt.Sprintf("failed to save merchant %q", mc.MerchantName))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	mc.ID = id

	s.cacheMerchant(mc)
	return nil
}

// getCachedMerchant retrieves a mapping from the cache.
func (s *SQLiteStorage) getCachedMerchant(key string) *model.MerchantCategory {
	s.cacheMutex.RLock()

	if time.Now().After(s.cacheExpiry) {
		s.cacheMutex.RUnlock()
		s.cacheMutex.Lock()
		defer s.cacheMutex.Unlock()

		// Double-check after acquiring write lock
		if time.Now().After(s.cacheExpiry) {
			s.merchantCache = make(map[string]*model.MerchantCategory)
		}
		return nil
	}

	mc := s.merchantCache[key]
	s.cacheMutex.RUnlock()
	if mc == nil {
		return nil
	}
	cp := *mc
	return &cp
}

// cacheMerchant adds a mapping to the cache.
func (s *SQLiteStorage) cacheMerchant(mc *model.MerchantCategory) {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()

	if len(s.merchantCache) == 0 {
		s.cacheExpiry = time.Now().Add(merchantCacheTTL)
	}
	cp := *mc
	s.merchantCache[model.NormalizeMerchant(mc.MerchantName)] = &cp
}

// WarmMerchantCache loads all mappings into the cache.
func (s *SQLiteStorage) WarmMerchantCache(ctx context.Context) error {
	mappings, err := s.ListMerchantCategories(ctx)
	if err != nil {
		return err
	}

	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()

	s.merchantCache = make(map[string]*model.MerchantCategory, len(mappings))
	for i := range mappings {
		s.merchantCache[model.NormalizeMerchant(mappings[i].MerchantName)] = &mappings[i]
	}

	s.cacheExpiry = time.Now().Add(merchantCacheTTL)
	return nil
}
