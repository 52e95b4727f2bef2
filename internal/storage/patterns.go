package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/smsledger/internal/common"
	"github.com/Veraticus/smsledger/internal/model"
)

const patternColumns = `id, bank_id, regex, sample_text, status, bank_name, merchant_name,
	tx_type, msg_type, msg_subtype, title_hint, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPattern(row rowScanner) (*model.Pattern, error) {
	var (
		p            model.Pattern
		bankID       sql.NullInt64
		bankName     sql.NullString
		merchantName sql.NullString
		txType       sql.NullString
		msgType      sql.NullString
		msgSubtype   sql.NullString
		status       string
	)

	if err := row.Scan(
		&p.ID, &bankID, &p.Regex, &p.SampleText, &status,
		&bankName, &merchantName, &txType, &msgType, &msgSubtype,
		&p.TitleHint, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.Status = model.PatternStatus(status)
	p.BankID = int64Ptr(bankID)
	p.BankNameDefault = stringPtr(bankName)
	p.MerchantNameDefault = stringPtr(merchantName)
	p.TxTypeDefault = stringPtr(txType)
	p.MsgTypeDefault = stringPtr(msgType)
	p.MsgSubtypeDefault = stringPtr(msgSubtype)

	return &p, nil
}

// GetPatternByID retrieves a pattern by ID.
func (s *SQLiteStorage) GetPatternByID(ctx context.Context, id int64) (*model.Pattern, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+patternColumns+` FROM patterns WHERE id = ?`, id)
	pattern, err := scanPattern(row)
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("pattern %d", id))
	}
	return pattern, nil
}

// ListPatternsByBankAndStatus returns a bank's patterns in one status, oldest first.
func (s *SQLiteStorage) ListPatternsByBankAndStatus(ctx context.Context, bankID int64, status model.PatternStatus) ([]model.Pattern, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateStatus(status); err != nil {
		return nil, err
	}

	return s.listPatterns(ctx, s.db,
		`SELECT `+patternColumns+` FROM patterns WHERE bank_id = ? AND status = ? ORDER BY id`,
		bankID, string(status))
}

// ListPatternsByStatus returns every pattern in one status, oldest first.
func (s *SQLiteStorage) ListPatternsByStatus(ctx context.Context, status model.PatternStatus) ([]model.Pattern, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateStatus(status); err != nil {
		return nil, err
	}

	return s.listPatterns(ctx, s.db,
		`SELECT `+patternColumns+` FROM patterns WHERE status = ? ORDER BY id`,
		string(status))
}

func (s *SQLiteStorage) listPatterns(ctx context.Context, q queryable, query string, args ...any) ([]model.Pattern, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query patterns: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var patterns []model.Pattern
	for rows.Next() {
		p, err := scanPattern(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pattern: %w", err)
		}
		patterns = append(patterns, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating patterns: %w", err)
	}

	return patterns, nil
}

// SavePattern inserts the pattern when its ID is zero and updates it otherwise.
func (s *SQLiteStorage) SavePattern(ctx context.Context, pattern *model.Pattern) (*model.Pattern, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validatePattern(pattern); err != nil {
		return nil, err
	}

	saved := *pattern
	now := time.Now().UTC()
	saved.UpdatedAt = now

	if saved.ID == 0 {
		saved.CreatedAt = now
		result, err := s.db.ExecContext(ctx, `
			INSERT INTO patterns (
				bank_id, regex, sample_text, status, bank_name, merchant_name,
				tx_type, msg_type, msg_subtype, title_hint, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			nullInt64(saved.BankID), saved.Regex, saved.SampleText, string(saved.Status),
			nullString(saved.BankNameDefault), nullString(saved.MerchantNameDefault),
			nullString(saved.TxTypeDefault), nullString(saved.MsgTypeDefault),
			nullString(saved.MsgSubtypeDefault), saved.TitleHint, saved.CreatedAt, saved.UpdatedAt,
		)
		if err != nil {
			return nil, translateError(err, "failed to create pattern")
		}

		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to get last insert id: %w", err)
		}
		saved.ID = id
		slog.Debug("created pattern", "id", id, "status", saved.Status)
		return &saved, nil
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE patterns SET
			bank_id = ?, regex = ?, sample_text = ?, status = ?, bank_name = ?,
			merchant_name = ?, tx_type = ?, msg_type = ?, msg_subtype = ?,
			title_hint = ?, updated_at = ?
		WHERE id = ?`,
		nullInt64(saved.BankID), saved.Regex, saved.SampleText, string(saved.Status),
		nullString(saved.BankNameDefault), nullString(saved.MerchantNameDefault),
		nullString(saved.TxTypeDefault), nullString(saved.MsgTypeDefault),
		nullString(saved.MsgSubtypeDefault), saved.TitleHint, saved.UpdatedAt, saved.ID,
	)
	if err != nil {
		return nil, translateError(err, "failed to update pattern")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("pattern %d: %w", saved.ID, common.ErrNotFound)
	}

	slog.Debug("updated pattern", "id", saved.ID, "status", saved.Status)
	return &saved, nil
}
