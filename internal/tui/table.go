package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/tui/themes"
)

const (
	dateWidth     = 10
	categoryWidth = 16
	amountWidth   = 14
	minNoteWidth  = 12
)

// tableHeaderHeight is the header row plus its bottom border.
const tableHeaderHeight = 2

func newTransactionTable(theme themes.Theme) table.Model {
	t := table.New(
		table.WithColumns(transactionColumns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(false)
	s.Selected = theme.Selected
	t.SetStyles(s)

	return t
}

// transactionColumns gives the note column whatever width is left over.
func transactionColumns(width int) []table.Column {
	note := width - dateWidth - categoryWidth - amountWidth - 8
	if note < minNoteWidth {
		note = minNoteWidth
	}
	return []table.Column{
		{Title: "Date", Width: dateWidth},
		{Title: "Category", Width: categoryWidth},
		{Title: "Note", Width: note},
		{Title: "Amount", Width: amountWidth},
	}
}

func (m *Model) resizeTable() {
	height := m.height - chromeHeight - 2
	if height < tableHeaderHeight+1 {
		height = tableHeaderHeight + 1
	}
	m.table.SetColumns(transactionColumns(m.width))
	m.table.SetWidth(m.width)
	m.table.SetHeight(height)
}

// syncTable refills the table from the filtered transactions.
func (m *Model) syncTable() {
	visible := m.visibleTransactions()
	rows := make([]table.Row, 0, len(visible))
	for _, t := range visible {
		rows = append(rows, m.transactionRow(t))
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(len(rows) - 1)
	}
	if m.table.Cursor() < 0 {
		m.table.SetCursor(0)
	}
}

func (m Model) transactionRow(t model.Transaction) table.Row {
	return table.Row{
		m.localDate(t.Date),
		t.Category.Name,
		t.Note,
		m.config.Money.Signed(t),
	}
}
