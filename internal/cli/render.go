package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/smsledger/internal/model"
)

// RenderExtraction renders an extraction result as a labelled box. Defaulted
// values are marked so a reviewer can tell them from parsed ones.
func RenderExtraction(r model.ExtractionResult) string {
	if !r.Matched {
		return FormatError(r.Message)
	}

	rows := []string{
		field("Amount", decimalString(r.Amount), ""),
		field("Account", model.StringValue(r.AccountNumber), ""),
		field("Bank", model.StringValue(r.BankName), r.ProvenanceOf(model.FieldBankName)),
		field("Merchant", model.StringValue(r.MerchantName), r.ProvenanceOf(model.FieldMerchantName)),
		field("Tx type", model.StringValue(r.TxType), r.ProvenanceOf(model.FieldTxType)),
		field("Msg type", model.StringValue(r.MsgType), r.ProvenanceOf(model.FieldMsgType)),
		field("Category", model.StringValue(r.MsgSubtype), r.ProvenanceOf(model.FieldMsgSubtype)),
		field("Date", model.StringValue(r.Date), ""),
		field("Available bal.", decimalString(r.AvailableBalance), ""),
		field("Reference", model.StringValue(r.ReferenceNo), ""),
	}
	if r.PatternID != nil {
		rows = append(rows, field("Pattern", fmt.Sprintf("#%d", *r.PatternID), ""))
	}

	return RenderBox(FormatSuccess(r.Message), lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func field(label, value string, provenance model.Provenance) string {
	if value == "" {
		value = SubtleStyle.Render("-")
	}
	if provenance == model.ProvenanceDefaulted {
		value += " " + WarningStyle.Render("(default)")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render(label), value)
}

func decimalString(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}

// RenderTable renders rows under a header with aligned columns.
func RenderTable(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	var b strings.Builder
	headerCells := make([]string, len(header))
	for i, h := range header {
		headerCells[i] = TableCellStyle.Width(widths[i] + 2).Render(h)
	}
	b.WriteString(TableHeaderStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, headerCells...)))
	b.WriteString("\n")

	for _, row := range rows {
		cells := make([]string, len(header))
		for i := range header {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cells[i] = TableCellStyle.Width(widths[i] + 2).Render(cell)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}

	return b.String()
}

// RenderPatterns renders a pattern queue.
func RenderPatterns(patterns []model.Pattern) string {
	if len(patterns) == 0 {
		return FormatInfo("No patterns found")
	}

	rows := make([][]string, 0, len(patterns))
	for _, p := range patterns {
		bank := model.StringValue(p.BankNameDefault)
		if bank == "" && p.BankID != nil {
			bank = fmt.Sprintf("bank #%d", *p.BankID)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", p.ID),
			string(p.Status),
			bank,
			p.TitleHint,
			Truncate(p.Regex, 40),
			Truncate(p.SampleText, 50),
		})
	}
	return RenderTable([]string{"ID", "STATUS", "BANK", "TITLE", "REGEX", "SAMPLE"}, rows)
}

// RenderBatchSummary renders the counts of a bulk run.
func RenderBatchSummary(batchID string, total, matched, failed int) string {
	lines := []string{
		fmt.Sprintf("%s %s", LabelStyle.Render("Batch"), SubtleStyle.Render(batchID)),
		fmt.Sprintf("%s %d", LabelStyle.Render("Total"), total),
		fmt.Sprintf("%s %s", LabelStyle.Render("Matched"), SuccessStyle.Render(fmt.Sprintf("%d", matched))),
		fmt.Sprintf("%s %s", LabelStyle.Render("Failed"), ErrorStyle.Render(fmt.Sprintf("%d", failed))),
	}
	return RenderBox("Bulk results", strings.Join(lines, "\n"))
}

// RenderMerchants renders the merchant category cache.
func RenderMerchants(merchants []model.MerchantCategory) string {
	if len(merchants) == 0 {
		return FormatInfo("No merchant mappings yet")
	}
	rows := make([][]string, 0, len(merchants))
	for _, m := range merchants {
		rows = append(rows, []string{fmt.Sprintf("%d", m.ID), m.MerchantName, string(m.Category)})
	}
	return RenderTable([]string{"ID", "MERCHANT", "CATEGORY"}, rows)
}

// RenderBanks renders known banks.
func RenderBanks(banks []model.Bank) string {
	if len(banks) == 0 {
		return FormatInfo("No banks registered")
	}
	rows := make([][]string, 0, len(banks))
	for _, b := range banks {
		rows = append(rows, []string{fmt.Sprintf("%d", b.ID), b.Name})
	}
	return RenderTable([]string{"ID", "BANK"}, rows)
}

// RenderTransactions renders a user's saved transactions.
func RenderTransactions(txns []model.Transaction) string {
	if len(txns) == 0 {
		return FormatInfo("No transactions saved")
	}
	rows := make([][]string, 0, len(txns))
	for _, t := range txns {
		date := ""
		if t.Date != nil {
			date = t.Date.Format("2006-01-02")
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", t.ID),
			date,
			t.BankName,
			t.TxType,
			decimalString(t.Amount),
			t.MerchantName,
			t.MsgSubtype,
		})
	}
	return RenderTable([]string{"ID", "DATE", "BANK", "TYPE", "AMOUNT", "MERCHANT", "CATEGORY"}, rows)
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= n || n < 1 {
		return s
	}
	return string(runes[:n-1]) + "…"
}
