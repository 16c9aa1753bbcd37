package sheets

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/expense-tracker/internal/aggregate"
	"github.com/Veraticus/expense-tracker/internal/model"
)

// ReportWriter publishes a Report somewhere outside the local store.
type ReportWriter interface {
	Write(ctx context.Context, report *Report) error
}

// TransactionRow represents a single row in the Transactions tab.
type TransactionRow struct {
	Date     time.Time
	ID       string
	Type     string
	Category string
	Note     string
	Amount   decimal.Decimal
}

// CategoryRow represents a single row in the category breakdown.
type CategoryRow struct {
	Category string
	Type     string
	Total    decimal.Decimal
	Count    int
}

// GoalRow represents a single row in the goal section.
type GoalRow struct {
	Start      time.Time
	End        time.Time
	Name       string
	Category   string
	Period     string
	Level      string
	Target     decimal.Decimal
	Spent      decimal.Decimal
	Remaining  decimal.Decimal
	Percentage decimal.Decimal
	Active     bool
}

// Report is everything the writer publishes.
type Report struct {
	GeneratedAt  time.Time
	Transactions []TransactionRow
	Categories   []CategoryRow
	Goals        []GoalRow
	Balance      model.Balance
}

// BuildReport derives a Report from the stored collections.
func BuildReport(txns []model.Transaction, cats []model.Category, goals []model.Goal, now time.Time) *Report {
	report := &Report{
		GeneratedAt: now,
		Balance:     aggregate.ComputeBalance(txns),
	}

	for _, t := range aggregate.FilterTransactions(txns, aggregate.TransactionFilter{}) {
		report.Transactions = append(report.Transactions, TransactionRow{
			Date:     t.Date,
			ID:       t.ID,
			Type:     string(t.Type),
			Category: t.Category.Name,
			Note:     t.Note,
			Amount:   decimal.NewFromFloat(t.Amount),
		})
	}

	for _, ct := range aggregate.SummarizeByCategory(txns) {
		report.Categories = append(report.Categories, CategoryRow{
			Category: ct.Category.Name,
			Type:     string(ct.Type),
			Total:    ct.Total,
			Count:    ct.Count,
		})
	}

	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}
	for _, g := range goals {
		progress := aggregate.ComputeGoalProgress(g, txns)
		category := "All expenses"
		if g.CategoryID != "" {
			category = names[g.CategoryID]
			if category == "" {
				category = g.CategoryID
			}
		}
		report.Goals = append(report.Goals, GoalRow{
			Start:      g.StartDate,
			End:        g.EndDate,
			Name:       g.Name,
			Category:   category,
			Period:     string(g.Period),
			Level:      string(progress.Level()),
			Target:     decimal.NewFromFloat(g.TargetAmount),
			Spent:      decimal.NewFromFloat(progress.Current),
			Remaining:  decimal.NewFromFloat(progress.Remaining),
			Percentage: decimal.NewFromFloat(progress.Percentage).Round(1),
			Active:     g.IsActive(now),
		})
	}

	return report
}
