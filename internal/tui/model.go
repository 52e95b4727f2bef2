// Package tui implements the checker's interactive review of PENDING patterns.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/smsledger/internal/lifecycle"
	"github.com/Veraticus/smsledger/internal/model"
	"github.com/Veraticus/smsledger/internal/tui/themes"
)

// Reviewer is the lifecycle surface the review screen drives.
type Reviewer interface {
	ListByStatus(ctx context.Context, status model.PatternStatus) ([]model.Pattern, error)
	Approve(ctx context.Context, upd lifecycle.PatternUpdate) (*model.Pattern, error)
	Reject(ctx context.Context, upd lifecycle.PatternUpdate) (*model.Pattern, error)
}

// Model holds the review screen state.
type Model struct {
	ctx       context.Context
	reviewer  Reviewer
	lastError error
	theme     themes.Theme
	keymap    KeyMap
	spinner   spinner.Model
	editor    textinput.Model
	notice    string
	patterns  []model.Pattern
	approved  int
	rejected  int
	cursor    int
	width     int
	height    int
	ready     bool
	busy      bool
	editing   bool
	showHelp  bool
	quitting  bool
}

// NewModel creates a review model backed by reviewer.
func NewModel(ctx context.Context, reviewer Reviewer, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	editor := textinput.New()
	editor.Placeholder = "regex"
	editor.CharLimit = 2048
	editor.Width = cfg.Width - 20

	return Model{
		ctx:      ctx,
		reviewer: reviewer,
		theme:    cfg.Theme,
		keymap:   DefaultKeyMap(),
		spinner:  sp,
		editor:   editor,
		width:    cfg.Width,
		height:   cfg.Height,
	}
}

// Init loads the PENDING queue.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadPatterns(), m.spinner.Tick)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor.Width = max(msg.Width-20, 10)
		return m, nil

	case patternsLoadedMsg:
		m.ready = true
		m.busy = false
		m.lastError = msg.err
		if msg.err == nil {
			m.patterns = msg.patterns
			m.cursor = clamp(m.cursor, len(m.patterns))
		}
		return m, nil

	case reviewedMsg:
		return m.handleReviewed(msg), nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.editing {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.editing {
		switch {
		case key.Matches(msg, m.keymap.Cancel):
			m.editing = false
			m.editor.Blur()
			return m, nil
		case key.Matches(msg, m.keymap.Submit):
			m.editing = false
			m.editor.Blur()
			regex := m.editor.Value()
			return m.decide(true, &regex)
		}
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keymap.Down):
		if m.cursor < len(m.patterns)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keymap.Home):
		m.cursor = 0
	case key.Matches(msg, m.keymap.End):
		m.cursor = clamp(len(m.patterns)-1, len(m.patterns))
	case key.Matches(msg, m.keymap.Refresh):
		m.busy = true
		return m, m.loadPatterns()
	case key.Matches(msg, m.keymap.Approve):
		return m.decide(true, nil)
	case key.Matches(msg, m.keymap.Reject):
		return m.decide(false, nil)
	case key.Matches(msg, m.keymap.Edit):
		p := m.current()
		if p == nil || m.busy {
			return m, nil
		}
		m.editing = true
		m.editor.SetValue(p.Regex)
		m.editor.CursorEnd()
		return m, m.editor.Focus()
	}
	return m, nil
}

// decide sends an approve or reject for the highlighted pattern. Only one
// decision is in flight at a time.
func (m Model) decide(approve bool, regex *string) (tea.Model, tea.Cmd) {
	p := m.current()
	if p == nil || m.busy {
		return m, nil
	}
	m.busy = true
	m.notice = ""

	upd := lifecycle.PatternUpdate{ID: p.ID, Regex: regex}
	ctx, reviewer := m.ctx, m.reviewer
	return m, func() tea.Msg {
		var (
			saved *model.Pattern
			err   error
		)
		if approve {
			saved, err = reviewer.Approve(ctx, upd)
		} else {
			saved, err = reviewer.Reject(ctx, upd)
		}
		return reviewedMsg{id: upd.ID, pattern: saved, err: err}
	}
}

func (m Model) handleReviewed(msg reviewedMsg) Model {
	m.busy = false
	if msg.err != nil {
		m.lastError = msg.err
		return m
	}
	m.lastError = nil

	for i := range m.patterns {
		if m.patterns[i].ID == msg.id {
			m.patterns = append(m.patterns[:i], m.patterns[i+1:]...)
			break
		}
	}
	m.cursor = clamp(m.cursor, len(m.patterns))

	if msg.pattern == nil {
		return m
	}
	switch msg.pattern.Status {
	case model.StatusApproved:
		m.approved++
		m.notice = fmt.Sprintf("Pattern #%d approved", msg.id)
	case model.StatusRejected:
		m.rejected++
		m.notice = fmt.Sprintf("Pattern #%d rejected", msg.id)
	}
	return m
}

func (m Model) loadPatterns() tea.Cmd {
	ctx, reviewer := m.ctx, m.reviewer
	return func() tea.Msg {
		patterns, err := reviewer.ListByStatus(ctx, model.StatusPending)
		return patternsLoadedMsg{patterns: patterns, err: err}
	}
}

func (m Model) current() *model.Pattern {
	if m.cursor < 0 || m.cursor >= len(m.patterns) {
		return nil
	}
	return &m.patterns[m.cursor]
}

// Approved returns how many patterns were approved this session.
func (m Model) Approved() int { return m.approved }

// Rejected returns how many patterns were rejected this session.
func (m Model) Rejected() int { return m.rejected }

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
