package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/expense-tracker/internal/model"
)

// DataSource is the read side of the store the dashboard needs.
type DataSource interface {
	GetTransactions(ctx context.Context) []model.Transaction
	GetCategories(ctx context.Context) []model.Category
	GetGoals(ctx context.Context) []model.Goal
	LastWriteError() error
}

const loadTimeout = 10 * time.Second

// loadData reads everything the views need in one pass.
func (m Model) loadData() tea.Cmd {
	source := m.config.Store
	return func() tea.Msg {
		if source == nil {
			return dataLoadedMsg{err: errNoStore}
		}

		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		return dataLoadedMsg{
			transactions: source.GetTransactions(ctx),
			categories:   source.GetCategories(ctx),
			goals:        source.GetGoals(ctx),
			writeErr:     source.LastWriteError(),
		}
	}
}
