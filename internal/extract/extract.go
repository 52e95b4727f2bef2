// Package extract applies a single regex with named capture groups to an SMS
// body and maps the captures onto an ExtractionResult.
//
// Patterns are compiled case-insensitively and searched with find semantics:
// the first match anywhere in the message is used. Both (?P<name>...) and
// (?<name>...) group syntaxes are accepted.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/smsledger/internal/model"
)

// Capture group names recognised by the extractor.
const (
	GroupAmount           = "amount"
	GroupAccountNumber    = "accountNumber"
	GroupBankName         = "bankName"
	GroupMerchantName     = "merchantName"
	GroupMerchant         = "merchant"
	GroupTxType           = "txType"
	GroupType             = "type"
	GroupMsgType          = "msgType"
	GroupMsgSubtype       = "msgSubtype"
	GroupDate             = "date"
	GroupAvailableBalance = "availableBalance"
	GroupReferenceNo      = "referenceNo"
	GroupReferenceNumber  = "referenceNumber"
	GroupRefNo            = "refNo"
)

// Alias chains, tried in order until one yields a value.
var (
	merchantGroups  = []string{GroupMerchantName, GroupMerchant}
	txTypeGroups    = []string{GroupTxType, GroupType}
	referenceGroups = []string{GroupReferenceNo, GroupReferenceNumber, GroupRefNo}
)

// Compile compiles src case-insensitively.
func Compile(src string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + src)
	if err != nil {
		return nil, fmt.Errorf("compile pattern: %w", err)
	}
	return re, nil
}

// Extract compiles regexSource and applies it to message. It never returns an
// error: a bad pattern or a miss produces a result with Matched false and an
// explanatory Message.
func Extract(regexSource, message string) model.ExtractionResult {
	re, err := regexp.Compile("(?i)" + regexSource)
	if err != nil {
		return model.NotMatched(model.MessageBadPattern + ": " + err.Error())
	}
	return FieldsFrom(re, message)
}

// FieldsFrom applies a precompiled regex to message.
func FieldsFrom(re *regexp.Regexp, message string) model.ExtractionResult {
	loc := re.FindStringSubmatchIndex(message)
	if loc == nil {
		return model.NotMatched(model.MessageNoMatch)
	}

	m := match{re: re, loc: loc, text: message}
	result := model.ExtractionResult{
		Matched: true,
		Message: model.MessageMatched,
	}

	result.Amount = parseAmount(m.group(GroupAmount))
	result.AccountNumber = m.group(GroupAccountNumber)
	result.BankName = m.group(GroupBankName)
	result.MerchantName = m.first(merchantGroups)
	result.TxType = m.first(txTypeGroups)
	result.MsgType = m.group(GroupMsgType)
	result.MsgSubtype = m.group(GroupMsgSubtype)
	result.Date = m.group(GroupDate)
	result.AvailableBalance = parseAmount(m.group(GroupAvailableBalance))
	result.ReferenceNo = m.first(referenceGroups)

	return result
}

// match wraps the submatch index slice of a single find.
type match struct {
	re   *regexp.Regexp
	text string
	loc  []int
}

// group returns the capture for name, or nil when no group of that name exists
// or none participated in the match. Duplicate names resolve to the leftmost
// participating group.
func (m match) group(name string) *string {
	for i, n := range m.re.SubexpNames() {
		if n != name {
			continue
		}
		start, end := m.loc[2*i], m.loc[2*i+1]
		if start < 0 {
			continue
		}
		s := m.text[start:end]
		return &s
	}
	return nil
}

func (m match) first(names []string) *string {
	for _, name := range names {
		if v := m.group(name); v != nil {
			return v
		}
	}
	return nil
}

// parseAmount strips thousands separators and parses the remainder.
// Anything unparseable leaves the field unset.
func parseAmount(raw *string) *decimal.Decimal {
	if raw == nil {
		return nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(*raw, ",", ""))
	if err != nil {
		return nil
	}
	return &d
}
