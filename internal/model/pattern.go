package model

import (
	"fmt"
	"strings"
	"time"
)

// PatternStatus is the lifecycle state of a pattern.
type PatternStatus string

// Pattern lifecycle states.
const (
	// StatusNone is the pseudo-state of a pattern that does not exist yet.
	StatusNone     PatternStatus = ""
	StatusDraft    PatternStatus = "DRAFT"
	StatusPending  PatternStatus = "PENDING"
	StatusApproved PatternStatus = "APPROVED"
	StatusRejected PatternStatus = "REJECTED"
	StatusFailed   PatternStatus = "FAILED"
)

// AllStatuses lists every persisted status in display order.
var AllStatuses = []PatternStatus{
	StatusDraft,
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusFailed,
}

// ParseStatus converts user input into a PatternStatus.
func ParseStatus(s string) (PatternStatus, error) {
	status := PatternStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllStatuses {
		if status == known {
			return status, nil
		}
	}
	return StatusNone, fmt.Errorf("unknown pattern status: %q", s)
}

// Pattern is a stored extraction regex for one bank's message format,
// together with default field values and its lifecycle status.
//
// A FAILED pattern carries an empty Regex and the unmatched message as
// SampleText; it is a curation task, not an executable pattern.
type Pattern struct {
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
	BankID              *int64        `json:"bank_id,omitempty"`
	BankNameDefault     *string       `json:"bank_name,omitempty"`
	MerchantNameDefault *string       `json:"merchant_name,omitempty"`
	TxTypeDefault       *string       `json:"tx_type,omitempty"`
	MsgTypeDefault      *string       `json:"msg_type,omitempty"`
	MsgSubtypeDefault   *string       `json:"msg_subtype,omitempty"`
	Regex               string        `json:"regex"`
	SampleText          string        `json:"sample_text"`
	TitleHint           string        `json:"title_hint,omitempty"`
	Status              PatternStatus `json:"status"`
	ID                  int64         `json:"pattern_id"`
}

// IsExecutable reports whether the pattern may be tried against live traffic.
func (p *Pattern) IsExecutable() bool {
	return p.Status == StatusApproved && strings.TrimSpace(p.Regex) != ""
}
