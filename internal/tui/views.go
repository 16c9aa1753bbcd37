package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/expense-tracker/internal/aggregate"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/store"
)

const (
	barWidth     = 30
	chromeHeight = 6
)

func (m Model) renderLoading() string {
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		m.theme.Title.Render("Loading expenses..."),
	)
}

func (m Model) renderFrame() string {
	var body string
	switch m.tab {
	case TabDashboard:
		body = m.renderDashboard()
	case TabTransactions:
		body = m.renderTransactions()
	case TabGoals:
		body = m.renderGoals()
	}

	parts := []string{m.renderTabs(), "", body}
	if m.lastError != nil {
		parts = append(parts, "", m.theme.StatusError.Render("Error: "+m.lastError.Error()))
	}
	if m.writeError != nil {
		parts = append(parts, "", m.theme.LevelWarn.Render("Last save failed: "+m.writeError.Error()))
	}
	parts = append(parts, "", m.help.View(m.keymap))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, tabCount)
	for t := TabDashboard; t < tabCount; t++ {
		label := fmt.Sprintf("%d %s", int(t)+1, t)
		if t == m.tab {
			tabs = append(tabs, m.theme.TabActive.Render(label))
		} else {
			tabs = append(tabs, m.theme.TabInactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderDashboard() string {
	balance := aggregate.ComputeBalance(m.transactions)
	money := m.config.Money

	net := m.theme.Income
	if balance.NetBalance < 0 {
		net = m.theme.Expense
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		m.theme.Card.Render("Balance\n"+net.Render(money.Format(balance.NetBalance))),
		m.theme.Card.Render("Income\n"+m.theme.Income.Render(money.Format(balance.TotalIncome))),
		m.theme.Card.Render("Expenses\n"+m.theme.Expense.Render(money.Format(balance.TotalExpenses))),
	)

	sections := []string{cards, ""}

	sections = append(sections, m.theme.Bold.Render("Recent Transactions"))
	recent := aggregate.RecentTransactions(m.transactions, m.config.RecentLimit)
	if len(recent) == 0 {
		sections = append(sections, m.theme.Muted.Render("No transactions yet"))
	}
	for _, t := range recent {
		sections = append(sections, m.renderTransactionRow(t))
	}

	sections = append(sections, "", m.theme.Bold.Render("Goals"))
	active := aggregate.DashboardGoals(m.goals, m.config.Now())
	if len(active) == 0 {
		sections = append(sections, m.theme.Muted.Render("No active goals"))
	}
	for _, g := range active {
		sections = append(sections, m.renderGoal(g, false))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTransactions() string {
	visible := m.visibleTransactions()

	filter := "all"
	if m.typeFilter != "" {
		filter = string(m.typeFilter)
	}
	title := m.theme.Subtitle.Render(fmt.Sprintf("%d transactions (%s)", len(visible), filter))
	if len(visible) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, m.theme.Muted.Render("Nothing to show"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, m.table.View())
}

func (m Model) renderGoals() string {
	if len(m.goals) == 0 {
		return m.theme.Muted.Render("No goals yet")
	}

	now := m.config.Now()
	lines := make([]string, 0, len(m.goals))
	for i, g := range m.goals {
		line := m.renderGoal(g, i == m.cursor)
		if !g.IsActive(now) {
			line += m.theme.Muted.Render("  (inactive)")
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderTransactionRow(t model.Transaction) string {
	amount := m.theme.Expense.Render(m.config.Money.Signed(t))
	if t.Type == model.TransactionTypeIncome {
		amount = m.theme.Income.Render(m.config.Money.Signed(t))
	}

	label := t.Category.Name
	if t.Note != "" {
		label += m.theme.Muted.Render(" · " + t.Note)
	}
	return fmt.Sprintf("  %s  %-40s %s", m.localDate(t.Date), label, amount)
}

// localDate shows t as a calendar date in the dashboard clock's zone.
func (m Model) localDate(t time.Time) string {
	return t.In(m.config.Now().Location()).Format(model.DateLayout)
}

func (m Model) renderGoal(g model.Goal, selected bool) string {
	p := aggregate.ComputeGoalProgress(g, m.transactions)

	style := m.theme.LevelOK
	switch p.Level() {
	case aggregate.LevelWarning:
		style = m.theme.LevelWarn
	case aggregate.LevelOver:
		style = m.theme.LevelOver
	}

	scope := "All expenses"
	if g.CategoryID != "" {
		scope = g.CategoryID
		if c, ok := store.FindCategory(m.categories, g.CategoryID); ok {
			scope = c.Name
		}
	}

	bar := m.bar
	bar.Width = barWidth
	header := fmt.Sprintf("%s %s (%s, %s)", g.Name, m.theme.Muted.Render(string(g.Period)), scope,
		m.config.Money.Format(g.TargetAmount))
	progressLine := fmt.Sprintf("%s %s  %s of %s, %s left",
		bar.ViewAs(p.Percentage/100),
		style.Render(fmt.Sprintf("%.0f%%", p.Percentage)),
		m.config.Money.Format(p.Current),
		m.config.Money.Format(g.TargetAmount),
		m.config.Money.Format(p.Remaining),
	)

	prefix := "  "
	if selected {
		prefix = "> "
		header = m.theme.Selected.Render(header)
	}
	return prefix + header + "\n" + strings.Repeat(" ", len(prefix)) + progressLine
}
