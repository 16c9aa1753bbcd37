package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/expense-tracker/internal/model"
)

// DashboardGoalLimit is how many active goals the dashboard shows.
const DashboardGoalLimit = 2

// Level buckets goal progress for display.
type Level string

// Progress levels.
const (
	LevelOK      Level = "ok"
	LevelWarning Level = "warning"
	LevelOver    Level = "over"
)

// GoalProgress is the derived state of a goal.
type GoalProgress struct {
	Current    float64
	Percentage float64
	Remaining  float64
}

// Level reports ok up to 50%, warning up to 80% and over beyond that.
func (p GoalProgress) Level() Level {
	switch {
	case p.Percentage <= 50:
		return LevelOK
	case p.Percentage <= 80:
		return LevelWarning
	default:
		return LevelOver
	}
}

// ComputeGoalProgress sums the expenses inside the goal window (boundaries
// included), restricted to the goal's category when it has one.
// Percentage is clamped to [0, 100]; a non-positive target reports 0.
func ComputeGoalProgress(goal model.Goal, txns []model.Transaction) GoalProgress {
	current := decimal.Zero
	for _, t := range txns {
		if t.Type != model.TransactionTypeExpense || !goal.Contains(t.Date) {
			continue
		}
		if goal.CategoryID != "" && t.Category.ID != goal.CategoryID {
			continue
		}
		current = current.Add(decimal.NewFromFloat(t.Amount))
	}

	target := decimal.NewFromFloat(goal.TargetAmount)
	progress := GoalProgress{
		Current:   current.InexactFloat64(),
		Remaining: decimal.Max(decimal.Zero, target.Sub(current)).InexactFloat64(),
	}
	if target.IsPositive() {
		pct := current.Div(target).Mul(decimal.NewFromInt(100))
		progress.Percentage = decimal.Min(pct, decimal.NewFromInt(100)).InexactFloat64()
	}
	return progress
}

// ActiveGoals returns goals whose window contains now, in storage order.
func ActiveGoals(goals []model.Goal, now time.Time) []model.Goal {
	active := make([]model.Goal, 0, len(goals))
	for _, g := range goals {
		if g.IsActive(now) {
			active = append(active, g)
		}
	}
	return active
}

// DashboardGoals returns the first DashboardGoalLimit active goals.
func DashboardGoals(goals []model.Goal, now time.Time) []model.Goal {
	active := ActiveGoals(goals, now)
	if len(active) > DashboardGoalLimit {
		active = active[:DashboardGoalLimit]
	}
	return active
}
