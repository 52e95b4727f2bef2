package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Summary reports what a review session decided.
type Summary struct {
	Approved int
	Rejected int
}

// Run opens the review screen and blocks until the user quits or ctx is
// canceled.
func Run(ctx context.Context, reviewer Reviewer, opts ...Option) (Summary, error) {
	if reviewer == nil {
		return Summary{}, fmt.Errorf("reviewer is required")
	}

	program := tea.NewProgram(
		NewModel(ctx, reviewer, opts...),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	final, err := program.Run()
	if err != nil {
		return Summary{}, fmt.Errorf("review screen failed: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return Summary{}, fmt.Errorf("unexpected model type %T", final)
	}
	return Summary{Approved: m.Approved(), Rejected: m.Rejected()}, nil
}
