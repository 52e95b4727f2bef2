package model

import "github.com/shopspring/decimal"

// Field names an extracted field that carries provenance.
type Field string

// Fields tracked for provenance.
const (
	FieldBankName     Field = "bankName"
	FieldMerchantName Field = "merchantName"
	FieldTxType       Field = "txType"
	FieldMsgType      Field = "msgType"
	FieldMsgSubtype   Field = "msgSubtype"
)

// Provenance records where a field's final value came from.
type Provenance string

// Provenance values.
const (
	ProvenanceUnset     Provenance = ""
	ProvenanceParsed    Provenance = "parsed"
	ProvenanceDefaulted Provenance = "defaulted"
)

// Extraction outcome messages.
const (
	MessageMatched    = "Pattern matched successfully"
	MessageNoMatch    = "Pattern did not match the SMS"
	MessageBadPattern = "Invalid regex pattern"
)

// ExtractionResult is the output contract of the extraction pipeline.
// A nil field was not extracted, which is distinct from an empty capture.
type ExtractionResult struct {
	Amount           *decimal.Decimal     `json:"amount,omitempty"`
	AvailableBalance *decimal.Decimal     `json:"available_balance,omitempty"`
	AccountNumber    *string              `json:"account_number,omitempty"`
	BankName         *string              `json:"bank_name,omitempty"`
	MerchantName     *string              `json:"merchant_name,omitempty"`
	TxType           *string              `json:"tx_type,omitempty"`
	MsgType          *string              `json:"msg_type,omitempty"`
	MsgSubtype       *string              `json:"msg_subtype,omitempty"`
	Date             *string              `json:"date,omitempty"`
	ReferenceNo      *string              `json:"reference_no,omitempty"`
	PatternID        *int64               `json:"pattern_id,omitempty"`
	Provenance       map[Field]Provenance `json:"provenance,omitempty"`
	Message          string               `json:"message"`
	PatternText      string               `json:"pattern,omitempty"`
	Matched          bool                 `json:"matched"`
}

// NotMatched builds a negative result carrying an explanation.
func NotMatched(message string) ExtractionResult {
	return ExtractionResult{Message: message}
}

// ProvenanceOf returns the recorded provenance for f.
func (r *ExtractionResult) ProvenanceOf(f Field) Provenance {
	if r.Provenance == nil {
		return ProvenanceUnset
	}
	return r.Provenance[f]
}

// SetProvenance records the provenance for f.
func (r *ExtractionResult) SetProvenance(f Field, p Provenance) {
	if r.Provenance == nil {
		r.Provenance = make(map[Field]Provenance)
	}
	r.Provenance[f] = p
}

// StringValue dereferences an optional string, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
