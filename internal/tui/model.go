package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/expense-tracker/internal/aggregate"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/tui/themes"
)

var errNoStore = errors.New("storage not configured")

// Model holds the dashboard state.
type Model struct {
	loadedAt     time.Time
	lastError    error
	writeError   error
	theme        themes.Theme
	config       Config
	keymap       KeyMap
	help         help.Model
	bar          progress.Model
	table        table.Model
	transactions []model.Transaction
	categories   []model.Category
	goals        []model.Goal
	typeFilter   model.TransactionType
	tab          Tab
	cursor       int
	width        int
	height       int
	ready        bool
	showHelp     bool
	quitting     bool
}

func newModel(cfg Config) Model {
	bar := progress.New(progress.WithDefaultGradient())
	bar.ShowPercentage = false

	m := Model{
		config: cfg,
		theme:  cfg.Theme,
		keymap: DefaultKeyMap(),
		help:   help.New(),
		bar:    bar,
		table:  newTransactionTable(cfg.Theme),
		width:  cfg.Width,
		height: cfg.Height,
	}
	m.resizeTable()
	return m
}

// Init starts the first data load.
func (m Model) Init() tea.Cmd {
	return m.loadData()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizeTable()

	case dataLoadedMsg:
		m.ready = true
		m.lastError = msg.err
		m.writeError = msg.writeErr
		m.transactions = msg.transactions
		m.categories = msg.categories
		m.goals = msg.goals
		m.loadedAt = m.config.Now()
		m.clampCursor()
		m.syncTable()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case key.Matches(msg, m.keymap.NextTab):
		m.switchTab((m.tab + 1) % tabCount)
	case key.Matches(msg, m.keymap.PrevTab):
		m.switchTab((m.tab + tabCount - 1) % tabCount)
	case key.Matches(msg, m.keymap.Dashboard):
		m.switchTab(TabDashboard)
	case key.Matches(msg, m.keymap.Transactions):
		m.switchTab(TabTransactions)
	case key.Matches(msg, m.keymap.Goals):
		m.switchTab(TabGoals)
	case key.Matches(msg, m.keymap.Refresh):
		return m, m.loadData()
	case key.Matches(msg, m.keymap.CycleType):
		if m.tab == TabTransactions {
			m.typeFilter = nextTypeFilter(m.typeFilter)
			m.syncTable()
			m.table.GotoTop()
		}
	case m.tab == TabTransactions:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keymap.Down):
		m.cursor++
		m.clampCursor()
	}
	return m, nil
}

func (m *Model) switchTab(t Tab) {
	if m.tab != t {
		m.tab = t
		m.cursor = 0
		m.table.GotoTop()
	}
}

func nextTypeFilter(t model.TransactionType) model.TransactionType {
	switch t {
	case "":
		return model.TransactionTypeIncome
	case model.TransactionTypeIncome:
		return model.TransactionTypeExpense
	}
	return ""
}

// clampCursor keeps the goals cursor on a goal. The transactions table
// tracks its own cursor.
func (m *Model) clampCursor() {
	n := len(m.goals)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) visibleTransactions() []model.Transaction {
	return aggregate.FilterTransactions(m.transactions, aggregate.TransactionFilter{Type: m.typeFilter})
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return m.renderLoading()
	}
	return m.renderFrame()
}
