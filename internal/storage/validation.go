// Package storage provides the data persistence layer for the smsledger application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/smsledger/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidStatus      = errors.New("invalid pattern status")
	ErrInvalidPattern     = errors.New("invalid pattern")
	ErrInvalidMerchant    = errors.New("invalid merchant category")
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateStatus(status model.PatternStatus) error {
	for _, known := range model.AllStatuses {
		if status == known {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
}

// validatePattern checks the structural rules a stored pattern must satisfy.
// Regex compilability is a lifecycle concern and is not checked here.
func validatePattern(p *model.Pattern) error {
	if p == nil {
		return fmt.Errorf("%w: pattern", ErrNilParameter)
	}
	if err := validateStatus(p.Status); err != nil {
		return err
	}
	if p.Status == model.StatusFailed && p.Regex != "" {
		return fmt.Errorf("%w: failed pattern must not carry a regex", ErrInvalidPattern)
	}
	return nil
}

func validateMerchantCategory(mc *model.MerchantCategory) error {
	if mc == nil {
		return fmt.Errorf("%w: merchant category", ErrNilParameter)
	}
	if strings.TrimSpace(mc.MerchantName) == "" {
		return fmt.Errorf("%w: missing merchant name", ErrInvalidMerchant)
	}
	if _, ok := model.ParseCategory(string(mc.Category)); !ok {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidMerchant, mc.Category)
	}
	return nil
}

func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.UserID <= 0 {
		return fmt.Errorf("%w: missing user id", ErrInvalidTransaction)
	}
	if strings.TrimSpace(txn.Message) == "" {
		return fmt.Errorf("%w: missing message", ErrInvalidTransaction)
	}
	return nil
}
