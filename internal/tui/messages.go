package tui

import "github.com/Veraticus/expense-tracker/internal/model"

type dataLoadedMsg struct {
	err          error
	writeErr     error
	transactions []model.Transaction
	categories   []model.Category
	goals        []model.Goal
}

// Tab is one of the dashboard's views.
type Tab int

// Tabs in display order.
const (
	TabDashboard Tab = iota
	TabTransactions
	TabGoals
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabDashboard:
		return "Dashboard"
	case TabTransactions:
		return "Transactions"
	case TabGoals:
		return "Goals"
	}
	return "?"
}
