package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a user-confirmed extraction persisted for that user.
type Transaction struct {
	CreatedAt        time.Time        `json:"created_at"`
	Date             *time.Time       `json:"date,omitempty"`
	Amount           *decimal.Decimal `json:"amount,omitempty"`
	AvailableBalance *decimal.Decimal `json:"available_balance,omitempty"`
	Message          string           `json:"msg"`
	BankName         string           `json:"bank_name,omitempty"`
	MerchantName     string           `json:"merchant_name,omitempty"`
	AccountNumber    string           `json:"account_number,omitempty"`
	TxType           string           `json:"tx_type,omitempty"`
	MsgType          string           `json:"msg_type,omitempty"`
	MsgSubtype       string           `json:"msg_subtype,omitempty"`
	ReferenceNo      string           `json:"reference_no,omitempty"`
	UserID           int64            `json:"user_id"`
	ID               int64            `json:"tx_id"`
}
