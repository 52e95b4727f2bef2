package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/smsledger/internal/extract"
	"github.com/Veraticus/smsledger/internal/model"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" "+m.theme.Subtitle.Render("Loading review queue..."))
	}

	header := m.theme.Title.Render(fmt.Sprintf("Pattern review  %d pending", len(m.patterns)))

	var body string
	if len(m.patterns) == 0 {
		body = m.theme.StatusOK.Render("Nothing to review. The PENDING queue is empty.")
	} else {
		listWidth := max(m.width/3, 24)
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderQueue(listWidth),
			m.renderDetail(max(m.width-listWidth-4, 30)),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderStatus(), m.renderHelp())
}

func (m Model) renderQueue(width int) string {
	lines := make([]string, 0, len(m.patterns))
	for i, p := range m.patterns {
		line := fmt.Sprintf("#%-5d %s", p.ID, p.TitleHint)
		if p.TitleHint == "" {
			line = fmt.Sprintf("#%-5d %s", p.ID, model.StringValue(p.BankNameDefault))
		}
		line = truncate(line, width-4)
		if i == m.cursor {
			line = m.theme.Selected.Render(line)
		} else {
			line = m.theme.Normal.Render(line)
		}
		lines = append(lines, line)
	}
	return m.theme.RoundedBox.Width(width).Render(strings.Join(lines, "\n"))
}

func (m Model) renderDetail(width int) string {
	p := m.current()
	if p == nil {
		return ""
	}

	rows := []string{
		m.row("Bank", bankLabel(p)),
		m.row("Title hint", p.TitleHint),
		m.row("Sample", p.SampleText),
	}

	if m.editing {
		rows = append(rows, m.row("Regex", m.editor.View()))
	} else {
		rows = append(rows, m.row("Regex", m.theme.Code.Render(p.Regex)))
	}

	rows = append(rows, "", m.theme.Bold.Render("Preview against sample"))
	rows = append(rows, m.renderPreview(p)...)

	return m.theme.RoundedBox.Width(width).Render(strings.Join(rows, "\n"))
}

// renderPreview runs the regex over the pattern's own sample so the checker
// sees which groups it captures and which fields fall back to defaults.
func (m Model) renderPreview(p *model.Pattern) []string {
	r := extract.Extract(p.Regex, p.SampleText)
	if !r.Matched {
		return []string{m.theme.StatusError.Render(r.Message)}
	}

	rows := []string{}
	add := func(label string, parsed, def *string) {
		switch {
		case parsed != nil:
			rows = append(rows, m.row(label, *parsed))
		case def != nil:
			rows = append(rows, m.row(label, m.theme.Defaulted.Render(*def+" (default)")))
		}
	}
	if r.Amount != nil {
		rows = append(rows, m.row("Amount", r.Amount.String()))
	}
	add("Account", r.AccountNumber, nil)
	add("Bank", r.BankName, p.BankNameDefault)
	add("Merchant", r.MerchantName, p.MerchantNameDefault)
	add("Tx type", r.TxType, p.TxTypeDefault)
	add("Msg type", r.MsgType, p.MsgTypeDefault)
	add("Category", r.MsgSubtype, p.MsgSubtypeDefault)
	add("Date", r.Date, nil)
	if r.AvailableBalance != nil {
		rows = append(rows, m.row("Balance", r.AvailableBalance.String()))
	}
	add("Reference", r.ReferenceNo, nil)
	return rows
}

func (m Model) row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, m.theme.Label.Render(label), value)
}

func (m Model) renderStatus() string {
	var status string
	switch {
	case m.lastError != nil:
		status = m.theme.StatusError.Render("Error: " + m.lastError.Error())
	case m.busy:
		status = m.spinner.View() + " " + m.theme.Subtitle.Render("Saving...")
	case m.notice != "":
		status = m.theme.StatusOK.Render(m.notice)
	}
	tally := m.theme.Subtitle.Render(fmt.Sprintf("approved %d  rejected %d", m.approved, m.rejected))
	if status == "" {
		return tally
	}
	return status + "  " + tally
}

func (m Model) renderHelp() string {
	var groups [][]key.Binding
	if m.showHelp {
		groups = m.keymap.FullHelp()
	} else {
		groups = [][]key.Binding{m.keymap.ShortHelp()}
	}

	lines := make([]string, 0, len(groups))
	for _, group := range groups {
		parts := make([]string, 0, len(group))
		for _, b := range group {
			h := b.Help()
			parts = append(parts, h.Key+" "+h.Desc)
		}
		lines = append(lines, strings.Join(parts, " • "))
	}
	return m.theme.Subtitle.Render(strings.Join(lines, "\n"))
}

func bankLabel(p *model.Pattern) string {
	if name := model.StringValue(p.BankNameDefault); name != "" {
		return name
	}
	if p.BankID != nil {
		return fmt.Sprintf("bank #%d", *p.BankID)
	}
	return "-"
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if n < 1 || len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
