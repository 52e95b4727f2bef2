// Package engine runs SMS messages through bank resolution, pattern matching
// and field overlay. The live path, the maker's probe and bulk processing all
// share one pipeline that differs only in whether failures are recorded.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sync"

	"github.com/Veraticus/smsledger/internal/extract"
	"github.com/Veraticus/smsledger/internal/model"
)

// Engine extracts transaction fields from bank SMS messages.
type Engine struct {
	banks       BankFinder
	patterns    PatternSource
	categorizer MerchantCategorizer
	failures    FailureRecorder
	compiled    map[string]*regexp.Regexp
	logger      *slog.Logger
	workers     int
	compiledMu  sync.RWMutex
}

// Config holds configuration options for the engine.
type Config struct {
	Logger  *slog.Logger
	Workers int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Workers: 8, Logger: slog.Default()}
}

// New creates an engine with the default configuration.
func New(banks BankFinder, patterns PatternSource, categorizer MerchantCategorizer, failures FailureRecorder) *Engine {
	return NewWithConfig(banks, patterns, categorizer, failures, DefaultConfig())
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(banks BankFinder, patterns PatternSource, categorizer MerchantCategorizer, failures FailureRecorder, config Config) *Engine {
	workers := config.Workers
	if workers <= 0 {
		workers = DefaultConfig().Workers
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		banks:       banks,
		patterns:    patterns,
		categorizer: categorizer,
		failures:    failures,
		workers:     workers,
		logger:      logger,
		compiled:    make(map[string]*regexp.Regexp),
	}
}

// FindPattern is the live path: it extracts fields and records the message
// as a FAILED pattern when nothing handles it.
func (e *Engine) FindPattern(ctx context.Context, message, title string) (model.ExtractionResult, error) {
	return e.run(ctx, message, title, true)
}

// CheckPattern reports whether an approved pattern already handles message.
// It never writes.
func (e *Engine) CheckPattern(ctx context.Context, message, title string) (model.ExtractionResult, error) {
	return e.run(ctx, message, title, false)
}

func (e *Engine) run(ctx context.Context, message, title string, persistFailures bool) (model.ExtractionResult, error) {
	bank, err := e.banks.ResolveBank(ctx, title)
	if err != nil {
		return model.ExtractionResult{}, fmt.Errorf("failed to resolve bank: %w", err)
	}

	if bank == nil {
		e.logger.Debug("No bank found for SMS title", "title", title)
		return e.fail(ctx, message, title, nil, persistFailures,
			fmt.Sprintf("No bank found in SMS title: %s", title))
	}

	candidates, err := e.patterns.ListPatternsByBankAndStatus(ctx, bank.ID, model.StatusApproved)
	if err != nil {
		return model.ExtractionResult{}, fmt.Errorf("failed to load patterns for bank %s: %w", bank.Name, err)
	}

	if len(candidates) == 0 {
		return e.fail(ctx, message, title, bank, persistFailures,
			fmt.Sprintf("No approved patterns found for bank: %s", bank.Name))
	}

	for i := range candidates {
		pattern := &candidates[i]
		if !pattern.IsExecutable() {
			continue
		}

		re, err := e.compile(pattern.Regex)
		if err != nil {
			e.logger.Debug("Skipping pattern that does not compile",
				"pattern_id", pattern.ID,
				"error", err)
			continue
		}

		result := extract.FieldsFrom(re, message)
		if !result.Matched {
			continue
		}

		result.PatternID = &pattern.ID
		result.PatternText = pattern.Regex
		e.overlay(ctx, &result, pattern, bank)

		e.logger.Debug("Pattern matched", "pattern_id", pattern.ID, "bank", bank.Name)
		return result, nil
	}

	return e.fail(ctx, message, title, bank, persistFailures,
		fmt.Sprintf("No matching pattern found for SMS from bank: %s", bank.Name))
}

// fail builds the negative result and, on the live path, records the message.
func (e *Engine) fail(ctx context.Context, message, title string, bank *model.Bank, persist bool, reason string) (model.ExtractionResult, error) {
	if !persist || e.failures == nil {
		return model.NotMatched(reason), nil
	}

	if _, err := e.failures.RecordFailure(ctx, message, title, bank); err != nil {
		return model.ExtractionResult{}, fmt.Errorf("failed to record unmatched SMS: %w", err)
	}
	return model.NotMatched(reason + ". SMS saved as FAILED pattern."), nil
}

// compile returns a cached compiled regex. Only successful compiles are cached.
func (e *Engine) compile(src string) (*regexp.Regexp, error) {
	e.compiledMu.RLock()
	re, ok := e.compiled[src]
	e.compiledMu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := extract.Compile(src)
	if err != nil {
		return nil, err
	}

	e.compiledMu.Lock()
	e.compiled[src] = re
	e.compiledMu.Unlock()
	return re, nil
}
