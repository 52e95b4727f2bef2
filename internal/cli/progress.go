package cli

import (
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/schollz/progressbar/v3"
)

// BatchProgress renders a progress bar for a bulk run and counts matches.
// Tick is safe for concurrent use.
type BatchProgress struct {
	bar     *progressbar.ProgressBar
	matched atomic.Int64
}

// NewBatchProgress creates a progress bar for total items written to w.
func NewBatchProgress(w io.Writer, total int) *BatchProgress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Processing SMS...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
	return &BatchProgress{bar: bar}
}

// Tick records one finished item.
func (p *BatchProgress) Tick(matched bool) {
	if matched {
		p.matched.Add(1)
	}
	if err := p.bar.Add(1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

// Matched returns the number of matched items seen so far.
func (p *BatchProgress) Matched() int {
	return int(p.matched.Load())
}
