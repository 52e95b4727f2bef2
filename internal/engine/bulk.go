package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/smsledger/internal/model"
)

// BatchItem is one SMS submitted for bulk processing.
type BatchItem struct {
	Title   string `json:"smsTitle"`
	Message string `json:"sms"`
}

// ItemResult reports the outcome for the item at Index.
type ItemResult struct {
	Extraction *model.ExtractionResult `json:"extraction,omitempty"`
	Title      string                  `json:"smsTitle"`
	SMS        string                  `json:"sms"`
	Message    string                  `json:"message"`
	Index      int                     `json:"index"`
	Matched    bool                    `json:"matched"`
}

// BatchResult aggregates a bulk run. Results are in input order.
type BatchResult struct {
	BatchID      string       `json:"batchId"`
	Results      []ItemResult `json:"results"`
	TotalCount   int          `json:"totalCount"`
	SuccessCount int          `json:"successCount"`
	FailedCount  int          `json:"failedCount"`
}

// BatchOption configures a single ProcessBatch call.
type BatchOption func(*batchOptions)

type batchOptions struct {
	progress func(ItemResult)
	workers  int
}

// WithWorkers overrides the engine's concurrency for one batch.
func WithWorkers(n int) BatchOption {
	return func(o *batchOptions) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithProgress registers a callback invoked once per finished item. Calls may
// come from several goroutines.
func WithProgress(fn func(ItemResult)) BatchOption {
	return func(o *batchOptions) {
		o.progress = fn
	}
}

// ProcessBatch runs every item through the pipeline without recording
// failures. A failing or panicking item never affects the others.
func (e *Engine) ProcessBatch(ctx context.Context, items []BatchItem, opts ...BatchOption) BatchResult {
	o := batchOptions{workers: e.workers}
	for _, opt := range opts {
		opt(&o)
	}

	batchID := uuid.NewString()
	logger := e.logger.With("batch_id", batchID)
	logger.Info("Starting bulk processing", "items", len(items), "workers", o.workers)

	results := make([]ItemResult, len(items))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, item := range items {
		g.Go(func() error {
			results[i] = e.processItem(gCtx, logger, i, item)
			if o.progress != nil {
				o.progress(results[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	batch := BatchResult{
		BatchID:    batchID,
		TotalCount: len(items),
		Results:    results,
	}
	for _, r := range results {
		if r.Matched {
			batch.SuccessCount++
		} else {
			batch.FailedCount++
		}
	}

	logger.Info("Bulk processing complete",
		"total", batch.TotalCount,
		"matched", batch.SuccessCount,
		"failed", batch.FailedCount)

	return batch
}

func (e *Engine) processItem(ctx context.Context, logger *slog.Logger, index int, item BatchItem) (res ItemResult) {
	res = ItemResult{Index: index, Title: item.Title, SMS: item.Message}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic while processing SMS",
				"index", index,
				"panic", r,
				"stack", string(debug.Stack()))
			res = ItemResult{
				Index:   index,
				Title:   item.Title,
				SMS:     item.Message,
				Message: fmt.Sprintf("Error processing SMS: %v", r),
			}
		}
	}()

	result, err := e.run(ctx, item.Message, item.Title, false)
	if err != nil {
		logger.Warn("Failed to process SMS", "index", index, "error", err)
		res.Message = "Error processing SMS: " + err.Error()
		return res
	}

	res.Matched = result.Matched
	res.Message = result.Message
	if result.Matched {
		res.Extraction = &result
	}
	return res
}
