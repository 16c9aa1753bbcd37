package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/storage"
	"github.com/Veraticus/expense-tracker/internal/store"
	"github.com/Veraticus/expense-tracker/internal/testutil"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	st, _ := testutil.NewStore(t)
	ctx := context.Background()

	st.SaveTransactions(ctx, []model.Transaction{
		testutil.NewTransaction("1").Income(3000).In("1").On(2024, 3, 1).Note("March pay").Build(),
		testutil.NewTransaction("2").Expense(120).In("5").On(2024, 3, 5).Note("Groceries").Build(),
		testutil.NewTransaction("3").Expense(45.5).In("6").On(2024, 3, 10).Build(),
		testutil.NewTransaction("4").Expense(60).In("5").On(2024, 2, 20).Build(),
	})
	st.SaveGoals(ctx, []model.Goal{
		testutil.MonthlyGoal("g1", 200, "5"),
		testutil.MonthlyGoal("g2", 1000, ""),
	})

	cfg := defaultConfig()
	WithStore(st)(&cfg)
	WithSize(140, 60)(&cfg)
	WithClock(func() time.Time { return testutil.FixedNow })(&cfg)

	m := newModel(cfg)
	msg := m.Init()()
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "shift+tab":
			msg = tea.KeyMsg{Type: tea.KeyShiftTab}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func TestModel_LoadsData(t *testing.T) {
	m := newTestModel(t)

	assert.True(t, m.ready)
	assert.Len(t, m.transactions, 4)
	assert.Len(t, m.categories, 11)
	assert.Len(t, m.goals, 2)
	assert.NoError(t, m.lastError)
}

func TestModel_LoadingView(t *testing.T) {
	m := newModel(defaultConfig())
	assert.Contains(t, m.View(), "Loading expenses...")
}

func TestModel_NoStore(t *testing.T) {
	m := newModel(defaultConfig())
	updated, _ := m.Update(m.Init()())
	view := updated.(Model).View()
	assert.Contains(t, view, "storage not configured")
}

func TestModel_DashboardView(t *testing.T) {
	m := newTestModel(t)
	view := m.View()

	for _, want := range []string{
		"Dashboard",
		"$2,774.50",
		"$3,000.00",
		"$225.50",
		"Recent Transactions",
		"March pay",
		"Goal g1",
		"Goal g2",
		"60%",
	} {
		assert.Contains(t, view, want)
	}
}

func TestModel_TabNavigation(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want Tab
	}{
		{name: "tab advances", keys: []string{"tab"}, want: TabTransactions},
		{name: "tab wraps", keys: []string{"tab", "tab", "tab"}, want: TabDashboard},
		{name: "shift+tab wraps backwards", keys: []string{"shift+tab"}, want: TabGoals},
		{name: "number jumps", keys: []string{"3"}, want: TabGoals},
		{name: "back to dashboard", keys: []string{"2", "1"}, want: TabDashboard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(t, newTestModel(t), tt.keys...)
			assert.Equal(t, tt.want, m.tab)
		})
	}
}

func TestModel_TransactionsTab(t *testing.T) {
	m := press(t, newTestModel(t), "2")

	view := m.View()
	assert.Contains(t, view, "4 transactions (all)")
	assert.Less(t, strings.Index(view, "2024-03-10"), strings.Index(view, "2024-02-20"), "newest first")

	m = press(t, m, "t")
	assert.Equal(t, model.TransactionTypeIncome, m.typeFilter)
	assert.Contains(t, m.View(), "1 transactions (income)")

	m = press(t, m, "t")
	assert.Contains(t, m.View(), "3 transactions (expense)")

	m = press(t, m, "t")
	assert.Empty(t, m.typeFilter)
}

func TestModel_CursorStaysInRange(t *testing.T) {
	m := press(t, newTestModel(t), "2")

	m = press(t, m, "up")
	assert.Equal(t, 0, m.table.Cursor())

	m = press(t, m, "down", "down", "down", "down", "down", "down")
	assert.Equal(t, 3, m.table.Cursor())

	m = press(t, m, "3")
	assert.Equal(t, 0, m.cursor)
	m = press(t, m, "down", "down", "down")
	assert.Equal(t, 1, m.cursor, "goals cursor stops on the last goal")

	m = press(t, m, "2")
	assert.Equal(t, 0, m.table.Cursor(), "switching tabs resets the cursor")
}

func TestModel_TransactionTable(t *testing.T) {
	tests := []struct {
		name       string
		keys       []string
		wantCursor int
		wantRows   int
	}{
		{name: "jump to bottom", keys: []string{"G"}, wantCursor: 3, wantRows: 4},
		{name: "jump back to top", keys: []string{"G", "g"}, wantCursor: 0, wantRows: 4},
		{name: "vim keys move", keys: []string{"j", "j", "k"}, wantCursor: 1, wantRows: 4},
		{name: "income filter", keys: []string{"G", "t"}, wantCursor: 0, wantRows: 1},
		{name: "expense filter", keys: []string{"t", "t", "G"}, wantCursor: 2, wantRows: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(t, newTestModel(t), "2")
			m = press(t, m, tt.keys...)

			assert.Equal(t, tt.wantCursor, m.table.Cursor())
			assert.Len(t, m.table.Rows(), tt.wantRows)
		})
	}
}

func TestModel_TransactionTableRows(t *testing.T) {
	m := press(t, newTestModel(t), "2")

	rows := m.table.Rows()
	require.Len(t, rows, 4)
	assert.Equal(t, "2024-03-10", rows[0][0])
	assert.Equal(t, "Food", rows[1][1])
	assert.Equal(t, "Groceries", rows[1][2])
	assert.Equal(t, "-$120.00", rows[1][3])
	assert.Equal(t, "2024-02-20", rows[3][0])

	view := m.View()
	assert.Contains(t, view, "Category")
	assert.Contains(t, view, "Amount")
}

func TestModel_TransactionTableResizes(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	m = updated.(Model)
	assert.Equal(t, 100, m.table.Width())
	assert.Equal(t, 20-chromeHeight-2-tableHeaderHeight, m.table.Height())

	updated, _ = m.Update(tea.WindowSizeMsg{Width: 40, Height: 3})
	m = updated.(Model)
	assert.Equal(t, 1, m.table.Height())
}

func TestModel_GoalsTab(t *testing.T) {
	m := press(t, newTestModel(t), "3")
	view := m.View()

	assert.Contains(t, view, "Goal g1")
	assert.Contains(t, view, "Food")
	assert.Contains(t, view, "All expenses")
	assert.Contains(t, view, "$120.00 of $200.00")
}

func TestModel_HelpToggle(t *testing.T) {
	m := newTestModel(t)
	assert.NotContains(t, m.View(), "previous view")

	m = press(t, m, "?")
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "previous view")
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, updated.(Model).View())
}

func TestModel_RefreshReloads(t *testing.T) {
	st, _ := testutil.NewStore(t)
	cfg := defaultConfig()
	WithStore(st)(&cfg)
	m := newModel(cfg)
	updated, _ := m.Update(m.Init()())
	m = updated.(Model)
	assert.Empty(t, m.transactions)

	st.AddTransaction(context.Background(), testutil.NewTransaction("new").Build())

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.NotNil(t, cmd)
	updated, _ = updated.(Model).Update(cmd())
	assert.Len(t, updated.(Model).transactions, 1)
}

func TestModel_ShowsWriteError(t *testing.T) {
	medium := testutil.NewFailingMedium(storage.NewMemoryStorage())
	medium.FailWrites()
	st := store.New(medium, store.WithLogger(testutil.QuietLogger()))
	st.AddTransaction(context.Background(), testutil.NewTransaction("lost").Build())

	cfg := defaultConfig()
	WithStore(st)(&cfg)
	m := newModel(cfg)
	updated, _ := m.Update(m.Init()())

	assert.Empty(t, updated.(Model).transactions)
	assert.Contains(t, updated.(Model).View(), "Last save failed")
}

func TestRun_RequiresStore(t *testing.T) {
	assert.ErrorIs(t, Run(context.Background()), errNoStore)
}
