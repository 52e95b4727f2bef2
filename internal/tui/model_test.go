package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/smsledger/internal/lifecycle"
	"github.com/Veraticus/smsledger/internal/model"
)

type fakeReviewer struct {
	approveErr error
	listErr    error
	approved   []lifecycle.PatternUpdate
	rejected   []lifecycle.PatternUpdate
	pending    []model.Pattern
}

func (f *fakeReviewer) ListByStatus(_ context.Context, status model.PatternStatus) ([]model.Pattern, error) {
	if status != model.StatusPending {
		return nil, nil
	}
	return append([]model.Pattern(nil), f.pending...), f.listErr
}

func (f *fakeReviewer) Approve(_ context.Context, upd lifecycle.PatternUpdate) (*model.Pattern, error) {
	if f.approveErr != nil {
		return nil, f.approveErr
	}
	f.approved = append(f.approved, upd)
	return &model.Pattern{ID: upd.ID, Status: model.StatusApproved}, nil
}

func (f *fakeReviewer) Reject(_ context.Context, upd lifecycle.PatternUpdate) (*model.Pattern, error) {
	f.rejected = append(f.rejected, upd)
	return &model.Pattern{ID: upd.ID, Status: model.StatusRejected}, nil
}

func pendingQueue() []model.Pattern {
	return []model.Pattern{
		{
			ID:              1,
			Status:          model.StatusPending,
			TitleHint:       "HDFCBK",
			Regex:           `Rs\.?\s*(?P<amount>[\d,]+\.\d{2}) debited.*to (?P<merchant>\w+)`,
			SampleText:      "Rs. 1,250.00 debited from a/c XX1234 to SWIGGY",
			BankNameDefault: model.StringPtr("HDFC"),
			TxTypeDefault:   model.StringPtr("DEBIT"),
		},
		{
			ID:         2,
			Status:     model.StatusPending,
			TitleHint:  "SBIBNK",
			Regex:      `credited (?P<amount>[\d.]+)`,
			SampleText: "credited 500.00",
		},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// step applies msg and runs any resulting command once, feeding its message back.
func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	switch out := cmd().(type) {
	case patternsLoadedMsg, reviewedMsg:
		next, _ = m.Update(out)
		m = next.(Model)
	}
	return m
}

func loaded(t *testing.T, reviewer *fakeReviewer) Model {
	t.Helper()
	m := NewModel(context.Background(), reviewer, WithSize(120, 40))
	msg := m.loadPatterns()()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModel_LoadsPendingQueue(t *testing.T) {
	m := loaded(t, &fakeReviewer{pending: pendingQueue()})

	assert.True(t, m.ready)
	assert.Len(t, m.patterns, 2)
	assert.Contains(t, m.View(), "2 pending")
	assert.Contains(t, m.View(), "HDFCBK")
}

func TestModel_LoadError(t *testing.T) {
	m := loaded(t, &fakeReviewer{listErr: errors.New("database is locked")})

	assert.True(t, m.ready)
	assert.Contains(t, m.View(), "database is locked")
}

func TestModel_Navigation(t *testing.T) {
	m := loaded(t, &fakeReviewer{pending: pendingQueue()})

	tests := []struct {
		name   string
		key    tea.KeyMsg
		cursor int
	}{
		{name: "down", key: tea.KeyMsg{Type: tea.KeyDown}, cursor: 1},
		{name: "down stops at end", key: runes("j"), cursor: 1},
		{name: "up", key: runes("k"), cursor: 0},
		{name: "up stops at start", key: tea.KeyMsg{Type: tea.KeyUp}, cursor: 0},
		{name: "end", key: runes("G"), cursor: 1},
		{name: "home", key: runes("g"), cursor: 0},
	}

	for _, tt := range tests {
		m = step(t, m, tt.key)
		assert.Equal(t, tt.cursor, m.cursor, tt.name)
	}
}

func TestModel_ApproveRemovesFromQueue(t *testing.T) {
	reviewer := &fakeReviewer{pending: pendingQueue()}
	m := loaded(t, reviewer)

	m = step(t, m, runes("a"))

	require.Len(t, reviewer.approved, 1)
	assert.Equal(t, int64(1), reviewer.approved[0].ID)
	assert.Nil(t, reviewer.approved[0].Regex)
	assert.Len(t, m.patterns, 1)
	assert.Equal(t, int64(2), m.patterns[0].ID)
	assert.Equal(t, 1, m.Approved())
	assert.False(t, m.busy)
	assert.Contains(t, m.View(), "Pattern #1 approved")
}

func TestModel_RejectLastPattern(t *testing.T) {
	reviewer := &fakeReviewer{pending: pendingQueue()}
	m := loaded(t, reviewer)

	m = step(t, m, runes("G"))
	m = step(t, m, runes("r"))

	require.Len(t, reviewer.rejected, 1)
	assert.Equal(t, int64(2), reviewer.rejected[0].ID)
	assert.Equal(t, 0, m.cursor)
	assert.Equal(t, 1, m.Rejected())
}

func TestModel_ApproveFailureKeepsPattern(t *testing.T) {
	reviewer := &fakeReviewer{
		pending:    pendingQueue(),
		approveErr: lifecycle.ErrInvalidRegex,
	}
	m := loaded(t, reviewer)

	m = step(t, m, runes("y"))

	assert.Len(t, m.patterns, 2)
	assert.ErrorIs(t, m.lastError, lifecycle.ErrInvalidRegex)
	assert.Equal(t, 0, m.Approved())
}

func TestModel_EditRegexThenApprove(t *testing.T) {
	reviewer := &fakeReviewer{pending: pendingQueue()}
	m := loaded(t, reviewer)

	m = step(t, m, runes("e"))
	require.True(t, m.editing)
	assert.Equal(t, pendingQueue()[0].Regex, m.editor.Value())

	m.editor.SetValue(`(?P<amount>[\d,.]+)`)
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Len(t, reviewer.approved, 1)
	require.NotNil(t, reviewer.approved[0].Regex)
	assert.Equal(t, `(?P<amount>[\d,.]+)`, *reviewer.approved[0].Regex)
	assert.False(t, m.editing)
}

func TestModel_EditCancel(t *testing.T) {
	reviewer := &fakeReviewer{pending: pendingQueue()}
	m := loaded(t, reviewer)

	m = step(t, m, runes("e"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, m.editing)
	assert.False(t, m.quitting)
	assert.Empty(t, reviewer.approved)
}

func TestModel_Quit(t *testing.T) {
	m := loaded(t, &fakeReviewer{})

	next, cmd := m.Update(runes("q"))

	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
	assert.Empty(t, next.(Model).View())
}

func TestModel_EmptyQueue(t *testing.T) {
	m := loaded(t, &fakeReviewer{})

	assert.Contains(t, m.View(), "queue is empty")

	m = step(t, m, runes("a"))
	assert.False(t, m.busy)
}

func TestModel_PreviewShowsDefaults(t *testing.T) {
	m := loaded(t, &fakeReviewer{pending: pendingQueue()})

	view := m.View()

	assert.Contains(t, view, "1,250.00")
	assert.Contains(t, view, "SWIGGY")
	assert.Contains(t, view, "DEBIT (default)")
}

func TestModel_HelpToggle(t *testing.T) {
	m := loaded(t, &fakeReviewer{})

	assert.NotContains(t, m.View(), "force quit")
	m = step(t, m, runes("?"))
	assert.Contains(t, m.View(), "force quit")
}

func TestRun_RequiresReviewer(t *testing.T) {
	_, err := Run(context.Background(), nil)
	assert.Error(t, err)
}
