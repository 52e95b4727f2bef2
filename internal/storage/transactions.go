package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/smsledger/internal/model"
)

const dateLayout = "2006-01-02"

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func decimalPtr(nd decimal.NullDecimal) *decimal.Decimal {
	if !nd.Valid {
		return nil
	}
	v := nd.Decimal
	return &v
}

func optional(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// SaveTransaction persists a user-confirmed transaction.
func (s *SQLiteStorage) SaveTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateTransaction(txn); err != nil {
		return nil, err
	}

	saved := *txn
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = time.Now().UTC()
	}

	var date sql.NullString
	if saved.Date != nil {
		date = sql.NullString{String: saved.Date.Format(dateLayout), Valid: true}
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (
			user_id, msg, bank_name, merchant_name, amount, account_number,
			tx_type, msg_type, msg_subtype, date, reference_no, available_balance, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		saved.UserID, saved.Message, optional(saved.BankName), optional(saved.MerchantName),
		nullDecimal(saved.Amount), optional(saved.AccountNumber), optional(saved.TxType),
		optional(saved.MsgType), optional(saved.MsgSubtype), date, optional(saved.ReferenceNo),
		nullDecimal(saved.AvailableBalance), saved.CreatedAt,
	)
	if err != nil {
		return nil, translateError(err, "failed to save transaction")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}
	saved.ID = id

	return &saved, nil
}

// ListTransactionsByUser returns a user's transactions, oldest first.
func (s *SQLiteStorage) ListTransactionsByUser(ctx context.Context, userID int64) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, msg, bank_name, merchant_name, amount, account_number,
			tx_type, msg_type, msg_subtype, date, reference_no, available_balance, created_at
		FROM transactions
		WHERE user_id = ?
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		var (
			txn                                      model.Transaction
			bankName, merchantName, accountNumber    sql.NullString
			txType, msgType, msgSubtype, date, refNo sql.NullString
			amount, availableBalance                 decimal.NullDecimal
		)
		if err := rows.Scan(
			&txn.ID, &txn.UserID, &txn.Message, &bankName, &merchantName, &amount,
			&accountNumber, &txType, &msgType, &msgSubtype, &date, &refNo,
			&availableBalance, &txn.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		txn.BankName = bankName.String
		txn.MerchantName = merchantName.String
		txn.AccountNumber = accountNumber.String
		txn.TxType = txType.String
		txn.MsgType = msgType.String
		txn.MsgSubtype = msgSubtype.String
		txn.ReferenceNo = refNo.String
		txn.Amount = decimalPtr(amount)
		txn.AvailableBalance = decimalPtr(availableBalance)
		if date.Valid {
			parsed, err := time.Parse(dateLayout, date.String)
			if err != nil {
				return nil, fmt.Errorf("transaction %d has malformed date %q: %w", txn.ID, date.String, err)
			}
			txn.Date = &parsed
		}

		transactions = append(transactions, txn)
	}

	return transactions, rows.Err()
}
