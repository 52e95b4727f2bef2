package engine

import (
	"context"

	"github.com/Veraticus/smsledger/internal/model"
)

// overlay fills fields the regex did not capture from pattern defaults and
// records where each value came from. When a merchant is known its category
// replaces any msgSubtype, parsed or defaulted.
func (e *Engine) overlay(ctx context.Context, r *model.ExtractionResult, p *model.Pattern, bank *model.Bank) {
	if r.BankName != nil {
		r.SetProvenance(model.FieldBankName, model.ProvenanceParsed)
	} else {
		if p.BankNameDefault != nil {
			r.BankName = copyString(p.BankNameDefault)
		} else {
			r.BankName = model.StringPtr(bank.Name)
		}
		r.SetProvenance(model.FieldBankName, model.ProvenanceDefaulted)
	}

	r.MerchantName = applyDefault(r, model.FieldMerchantName, r.MerchantName, p.MerchantNameDefault)
	r.TxType = applyDefault(r, model.FieldTxType, r.TxType, p.TxTypeDefault)
	r.MsgType = applyDefault(r, model.FieldMsgType, r.MsgType, p.MsgTypeDefault)

	if r.MerchantName != nil && e.categorizer != nil {
		if category := e.categorizer.Categorize(ctx, *r.MerchantName); category != "" {
			r.MsgSubtype = model.StringPtr(category)
			r.SetProvenance(model.FieldMsgSubtype, model.ProvenanceParsed)
			return
		}
	}

	r.MsgSubtype = applyDefault(r, model.FieldMsgSubtype, r.MsgSubtype, p.MsgSubtypeDefault)
}

// applyDefault keeps a parsed value, otherwise falls back to def.
func applyDefault(r *model.ExtractionResult, f model.Field, parsed, def *string) *string {
	switch {
	case parsed != nil:
		r.SetProvenance(f, model.ProvenanceParsed)
		return parsed
	case def != nil:
		r.SetProvenance(f, model.ProvenanceDefaulted)
		return copyString(def)
	default:
		return nil
	}
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
