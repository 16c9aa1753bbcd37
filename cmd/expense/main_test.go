package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/sheets"
	"github.com/Veraticus/expense-tracker/internal/store"
	"github.com/Veraticus/expense-tracker/internal/testutil"
)

// setup gives each test a fresh in-memory medium, an empty HOME and a
// clock that ticks one millisecond per call starting at testutil.FixedNow.
func setup(t *testing.T) *store.Store {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")

	ephemeralOnce = sync.Once{}
	ephemeralMedium = nil

	var ticks int64
	now = func() time.Time {
		ticks++
		return testutil.FixedNow.Add(time.Duration(ticks) * time.Millisecond)
	}
	t.Cleanup(func() { now = time.Now })

	return store.New(memoryMedium(), store.WithLogger(testutil.QuietLogger()))
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--ephemeral", "--log-level", "error"}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, "", args...)
	require.NoError(t, err, out)
	return out
}

func seed(t *testing.T, st *store.Store) {
	t.Helper()
	ctx := context.Background()
	st.SaveTransactions(ctx, []model.Transaction{
		testutil.NewTransaction("t-pay").Income(3000).In("1").On(2024, 3, 1).Note("March pay").Build(),
		testutil.NewTransaction("t-food").Expense(120).In("5").On(2024, 3, 5).Note("Groceries").Build(),
	})
}

func TestAddAndList(t *testing.T) {
	setup(t)

	out := mustRun(t, "add", "--type", "expense", "--amount", "12.5", "--category", "food", "--note", "Lunch")
	assert.Contains(t, out, "Added expense $12.50 in Food")

	mustRun(t, "add", "-t", "income", "-a", "3000", "-c", "1", "-d", "2024-03-01")

	out = mustRun(t, "list")
	assert.Contains(t, out, "Lunch")
	assert.Contains(t, out, "-$12.50")
	assert.Contains(t, out, "+$3,000.00")
	assert.Less(t, strings.Index(out, "Lunch"), strings.Index(out, "Salary"), "newest first")

	out = mustRun(t, "list", "--type", "income")
	assert.NotContains(t, out, "Lunch")
	assert.Contains(t, out, "Salary")

	out = mustRun(t, "list", "--search", "LUNCH")
	assert.Contains(t, out, "Lunch")
	assert.NotContains(t, out, "Salary")

	out = mustRun(t, "list", "--limit", "1")
	assert.Contains(t, out, "Lunch")
	assert.NotContains(t, out, "Salary")
}

func TestList_Empty(t *testing.T) {
	setup(t)
	assert.Contains(t, mustRun(t, "list"), "No transactions found")
}

func TestAdd_Validation(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		args    []string
	}{
		{name: "zero amount", args: []string{"-t", "expense", "-a", "0", "-c", "5"}, wantErr: model.ErrInvalidAmount},
		{name: "negative amount", args: []string{"-t", "expense", "-a", "-3", "-c", "5"}, wantErr: model.ErrInvalidAmount},
		{name: "category of the other type", args: []string{"-t", "income", "-a", "5", "-c", "Food"}, wantErr: model.ErrCategoryType},
		{name: "unknown category", args: []string{"-t", "expense", "-a", "5", "-c", "Yachts"}, wantErr: model.ErrInvalidCategory},
		{name: "bad type", args: []string{"-t", "lent", "-a", "5", "-c", "5"}, wantErr: model.ErrInvalidType},
		{name: "bad date", args: []string{"-t", "expense", "-a", "5", "-c", "5", "-d", "tomorrow"}, wantErr: model.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := setup(t)
			_, err := runCLI(t, "", append([]string{"add"}, tt.args...)...)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, st.GetTransactions(context.Background()))
		})
	}
}

func TestAdd_RequiredFlags(t *testing.T) {
	setup(t)
	_, err := runCLI(t, "", "add", "--type", "expense", "--category", "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount")
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	st := setup(t)
	seed(t, st)

	out := mustRun(t, "update", "t-food", "--amount", "20", "--note", "Market")
	assert.Contains(t, out, "Updated transaction t-food")

	txn, ok := store.FindTransaction(st.GetTransactions(ctx), "t-food")
	require.True(t, ok)
	assert.InDelta(t, 20.0, txn.Amount, 1e-9)
	assert.Equal(t, "Market", txn.Note)
	assert.Equal(t, "Food", txn.Category.Name, "untouched fields are kept")

	out = mustRun(t, "update", "t-food", "--type", "income", "--category", "Freelance")
	assert.Contains(t, out, "Updated")
	txn, _ = store.FindTransaction(st.GetTransactions(ctx), "t-food")
	assert.Equal(t, model.TransactionTypeIncome, txn.Type)
	assert.Equal(t, "2", txn.Category.ID)
}

func TestUpdate_Errors(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		args    []string
	}{
		{name: "unknown id", args: []string{"update", "nope", "--amount", "3"}, wantErr: common.ErrNotFound},
		{name: "type change leaves category mismatched", args: []string{"update", "t-food", "--type", "income"}, wantErr: model.ErrCategoryType},
		{name: "zero amount", args: []string{"update", "t-food", "--amount", "0"}, wantErr: model.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := setup(t)
			seed(t, st)
			_, err := runCLI(t, "", tt.args...)
			assert.ErrorIs(t, err, tt.wantErr)

			txn, _ := store.FindTransaction(st.GetTransactions(context.Background()), "t-food")
			assert.InDelta(t, 120.0, txn.Amount, 1e-9)
		})
	}

	t.Run("no flags", func(t *testing.T) {
		st := setup(t)
		seed(t, st)
		_, err := runCLI(t, "", "update", "t-food")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Nothing to update")
	})
}

func TestDelete(t *testing.T) {
	st := setup(t)
	seed(t, st)

	assert.Contains(t, mustRun(t, "delete", "t-food"), "Deleted transaction t-food")
	assert.Len(t, st.GetTransactions(context.Background()), 1)

	assert.Contains(t, mustRun(t, "delete", "t-food"), "No transaction with id t-food")
	assert.Len(t, st.GetTransactions(context.Background()), 1)
}

func TestBalance(t *testing.T) {
	st := setup(t)
	seed(t, st)

	out := mustRun(t, "balance")
	assert.Contains(t, out, "$2,880.00")
	assert.Contains(t, out, "$3,000.00")
	assert.Contains(t, out, "$120.00")
	assert.Contains(t, out, "Salary")
	assert.Contains(t, out, "Food")
}

func TestBalance_Currency(t *testing.T) {
	st := setup(t)
	seed(t, st)

	assert.Contains(t, mustRun(t, "--currency", "EUR", "balance"), "€2,880.00")

	_, err := runCLI(t, "", "--currency", "NOPE", "balance")
	assert.Error(t, err)
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	st := setup(t)

	out := mustRun(t, "categories", "list")
	assert.Contains(t, out, "Other Expense")

	out = mustRun(t, "categories", "list", "--type", "income")
	assert.Contains(t, out, "Salary")
	assert.NotContains(t, out, "Food")

	out = mustRun(t, "categories", "add", "Pets", "--type", "expense", "--color", "#a855f7")
	assert.Contains(t, out, `Added expense category "Pets"`)

	cats := st.GetCategories(ctx)
	require.Len(t, cats, 12)
	pets := cats[11]
	assert.Equal(t, "Pets", pets.Name)
	assert.Len(t, pets.ID, 36, "uuid")

	_, err := runCLI(t, "", "categories", "add", "pets", "--type", "expense")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	mustRun(t, "add", "-t", "expense", "-a", "30", "-c", "Pets")
	txns := st.GetTransactions(ctx)
	require.Len(t, txns, 1)
	assert.Equal(t, pets.ID, txns[0].Category.ID)
}

func TestGoals(t *testing.T) {
	ctx := context.Background()
	st := setup(t)
	seed(t, st)

	out := mustRun(t, "goals", "add", "--name", "Groceries", "--target", "200", "--category", "Food")
	assert.Contains(t, out, `Created monthly goal "Groceries"`)

	goals := st.GetGoals(ctx)
	require.Len(t, goals, 1)
	goal := goals[0]
	assert.Equal(t, "5", goal.CategoryID)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), goal.StartDate)

	out = mustRun(t, "goals", "list")
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "60%")
	assert.Contains(t, out, "$120.00")

	mustRun(t, "goals", "update", goal.ID, "--period", "yearly", "--target", "1000")
	updated, ok := store.FindGoal(st.GetGoals(ctx), goal.ID)
	require.True(t, ok)
	assert.Equal(t, model.GoalPeriodYearly, updated.Period)
	assert.Equal(t, goal.StartDate, updated.StartDate, "start date is kept")
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), updated.EndDate)
	assert.InDelta(t, 1000.0, updated.TargetAmount, 1e-9)

	assert.Contains(t, mustRun(t, "goals", "delete", goal.ID), "Deleted goal")
	assert.Empty(t, st.GetGoals(ctx))
	assert.Contains(t, mustRun(t, "goals", "list"), "No goals found")
}

func TestAdd_DateInLocalZone(t *testing.T) {
	ctx := context.Background()
	st := setup(t)

	est := time.FixedZone("EST", -5*3600)
	now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, est) }

	mustRun(t, "add", "-t", "expense", "-a", "50", "-c", "Food", "-d", "2024-03-01", "-n", "First")
	mustRun(t, "goals", "add", "--name", "Groceries", "--target", "200", "--category", "Food")

	txns := st.GetTransactions(ctx)
	require.Len(t, txns, 1)
	assert.True(t, time.Date(2024, 3, 1, 0, 0, 0, 0, est).Equal(txns[0].Date), "got %s", txns[0].Date)

	out := mustRun(t, "goals", "list")
	assert.Contains(t, out, "$50.00")
	assert.Contains(t, out, "25%")

	out = mustRun(t, "list")
	assert.Contains(t, out, "2024-03-01")
	assert.NotContains(t, out, "2024-02-29")
}

func TestGoals_Validation(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		args    []string
	}{
		{name: "zero target", args: []string{"--name", "x", "--target", "0"}, wantErr: model.ErrInvalidTarget},
		{name: "blank name", args: []string{"--name", " ", "--target", "10"}, wantErr: model.ErrMissingName},
		{name: "bad period", args: []string{"--name", "x", "--target", "10", "--period", "daily"}, wantErr: model.ErrInvalidPeriod},
		{name: "income category", args: []string{"--name", "x", "--target", "10", "--category", "Salary"}, wantErr: model.ErrCategoryType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := setup(t)
			_, err := runCLI(t, "", append([]string{"goals", "add"}, tt.args...)...)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, st.GetGoals(context.Background()))
		})
	}
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	st := setup(t)
	seed(t, st)
	path := filepath.Join(t.TempDir(), "backup.json")

	assert.Contains(t, mustRun(t, "export", "--output", path), "Backup written to")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": "1.0"`)

	out := mustRun(t, "export", "-o", "-")
	assert.Contains(t, out, `"transactions"`)

	st.SaveTransactions(ctx, []model.Transaction{})

	out, err = runCLI(t, "n\n", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Replace all data with 2 transactions and 11 categories")
	assert.Contains(t, out, "Import canceled")
	assert.Empty(t, st.GetTransactions(ctx))

	out, err = runCLI(t, "y\n", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, store.MsgImportSuccess)
	assert.Len(t, st.GetTransactions(ctx), 2)
}

func TestExport_DefaultFileName(t *testing.T) {
	setup(t)
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	mustRun(t, "export")
	_, err = os.Stat(filepath.Join(dir, "expense-tracker-backup-2024-03-15.json"))
	assert.NoError(t, err)
}

func TestImport_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "not json", content: "{{", want: store.MsgImportFailed},
		{name: "missing categories", content: `{"transactions": []}`, want: store.MsgInvalidBackup},
		{name: "array", content: `[]`, want: store.MsgInvalidBackup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := setup(t)
			seed(t, st)
			path := filepath.Join(t.TempDir(), "bad.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := runCLI(t, "", "import", path, "--yes")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Len(t, st.GetTransactions(context.Background()), 2)
		})
	}
}

const cardStatement = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4000123412341234
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240301000000[0:GMT]
<DTEND>20240331000000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240305120000[0:GMT]
<TRNAMT>-15.49
<FITID>CC-0305
<NAME>STREAMFLIX
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240307120000[0:GMT]
<TRNAMT>20.00
<FITID>CC-0307
<NAME>REFUND BOOKSHOP
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-95.49
<DTASOF>20240331000000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestImportOFX(t *testing.T) {
	ctx := context.Background()
	st := setup(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "card.qfx")
	require.NoError(t, os.WriteFile(path, []byte(cardStatement), 0o600))

	out := mustRun(t, "import-ofx", path, "--dry-run")
	assert.Contains(t, out, "Dry run: 2 new, 0 already imported")
	assert.Empty(t, st.GetTransactions(ctx))

	out = mustRun(t, "import-ofx", filepath.Join(dir, "*.qfx"))
	assert.Contains(t, out, "Imported 2 transactions (0 already present)")

	txns := st.GetTransactions(ctx)
	require.Len(t, txns, 2)
	assert.Equal(t, "ofx-CC-0305", txns[0].ID)
	assert.Equal(t, "Other Expense", txns[0].Category.Name)

	out = mustRun(t, "import-ofx", path)
	assert.Contains(t, out, "Imported 0 transactions (2 already present)")
	assert.Len(t, st.GetTransactions(ctx), 2)
}

func TestImportOFX_NoFiles(t *testing.T) {
	setup(t)
	_, err := runCLI(t, "", "import-ofx", filepath.Join(t.TempDir(), "*.qfx"))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestImportOFX_SkipsUnreadable(t *testing.T) {
	st := setup(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.qfx"), []byte(cardStatement), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.qfx"), []byte("not ofx"), 0o600))

	out := mustRun(t, "import-ofx", filepath.Join(dir, "*.qfx"))
	assert.Contains(t, out, "Skipped junk.qfx")
	assert.Contains(t, out, "Imported 2 transactions")
	assert.Len(t, st.GetTransactions(context.Background()), 2)
}

func TestReportSheets(t *testing.T) {
	st := setup(t)
	seed(t, st)

	mock := sheets.NewMockWriter()
	original := newReportWriter
	newReportWriter = func(context.Context) (sheets.ReportWriter, error) { return mock, nil }
	t.Cleanup(func() { newReportWriter = original })

	out := mustRun(t, "report", "sheets")
	assert.Contains(t, out, "Report written with 2 transactions")
	assert.Equal(t, 1, mock.WriteCalls)
	require.NotNil(t, mock.LastReport)
	assert.InDelta(t, 2880.0, mock.LastReport.Balance.NetBalance, 1e-9)
}

func TestReportSheets_NotConfigured(t *testing.T) {
	setup(t)
	for _, env := range []string{"GOOGLE_SHEETS_CLIENT_ID", "GOOGLE_SHEETS_CLIENT_SECRET", "GOOGLE_SHEETS_REFRESH_TOKEN", "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"} {
		t.Setenv(env, "")
	}
	_, err := runCLI(t, "", "report", "sheets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expense auth sheets")
}

func TestAuthSheets_MissingCredentials(t *testing.T) {
	setup(t)
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "")
	t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "")

	_, err := runCLI(t, "", "auth", "sheets")
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestDoctor(t *testing.T) {
	ctx := context.Background()
	st := setup(t)
	seed(t, st)

	out := mustRun(t, "doctor")
	assert.Contains(t, out, "Database: in memory")
	assert.Contains(t, out, store.TransactionsKey)
	assert.Contains(t, out, "not stored (defaults)")
	assert.NotContains(t, out, "cannot be read")

	require.NoError(t, memoryMedium().Write(ctx, store.GoalsKey, "{broken"))
	out = mustRun(t, "doctor")
	assert.Contains(t, out, "1 collection(s) cannot be read")

	require.NoError(t, memoryMedium().Write(ctx, store.TransactionsKey,
		`[{"id":"ok","amount":5,"type":"expense","category":{"id":"5"},"date":"2024-03-01T00:00:00.000Z"},`+
			`{"id":"bad","amount":5,"type":"expense","category":{"id":"5"},"date":null}]`))
	out = mustRun(t, "doctor")
	assert.Contains(t, out, "1 unreadable record(s)")
	assert.Contains(t, out, "1 record(s) are skipped")
}

func TestDoctor_SQLite(t *testing.T) {
	setup(t)
	viper.Reset()

	dbPath := filepath.Join(t.TempDir(), "expense.db")
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"--db", dbPath, "--log-level", "error", "doctor"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	assert.Contains(t, out.String(), dbPath)
	assert.Contains(t, out.String(), "schema v2")
}

func TestEnvFile(t *testing.T) {
	st := setup(t)
	seed(t, st)
	t.Setenv("EXPENSE_DISPLAY_CURRENCY", "")
	require.NoError(t, os.Unsetenv("EXPENSE_DISPLAY_CURRENCY"))

	path := filepath.Join(t.TempDir(), "expense.env")
	require.NoError(t, os.WriteFile(path, []byte("EXPENSE_DISPLAY_CURRENCY=GBP\n"), 0o600))

	assert.Contains(t, mustRun(t, "--env-file", path, "balance"), "£2,880.00")

	_, err := runCLI(t, "", "--env-file", filepath.Join(t.TempDir(), "nope.env"), "version")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	setup(t)
	assert.Contains(t, mustRun(t, "version"), "expense version dev")
}

func TestInvalidLogLevel(t *testing.T) {
	setup(t)
	viper.Reset()
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--ephemeral", "--log-level", "loud", "version"})
	err := root.ExecuteContext(context.Background())
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}
