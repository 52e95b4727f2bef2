package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/smsledger/internal/model"
)

// ListBanks returns every bank ordered by id ascending.
func (s *SQLiteStorage) ListBanks(ctx context.Context) ([]model.Bank, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM banks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query banks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var banks []model.Bank
	for rows.Next() {
		var bank model.Bank
		if err := rows.Scan(&bank.ID, &bank.Name); err != nil {
			return nil, fmt.Errorf("failed to scan bank: %w", err)
		}
		banks = append(banks, bank)
	}

	return banks, rows.Err()
}

// SaveBank inserts a bank with its name uppercased.
// A name that already exists yields common.ErrDuplicateEntry.
func (s *SQLiteStorage) SaveBank(ctx context.Context, bank *model.Bank) (*model.Bank, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if bank == nil {
		return nil, fmt.Errorf("%w: bank", ErrNilParameter)
	}
	if err := validateString(bank.Name, "bank name"); err != nil {
		return nil, err
	}

	name := strings.ToUpper(strings.TrimSpace(bank.Name))
	result, err := s.db.ExecContext(ctx, `INSERT INTO banks (name) VALUES (?)`, name)
	if err != nil {
		return nil, translateError(err, "failed to save bank")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return &model.Bank{ID: id, Name: name}, nil
}
