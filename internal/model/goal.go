package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// GoalPeriod is the length of a spending goal's window.
type GoalPeriod string

const (
	// GoalPeriodWeekly spans seven days from the start of the month.
	GoalPeriodWeekly GoalPeriod = "weekly"
	// GoalPeriodMonthly spans the current calendar month.
	GoalPeriodMonthly GoalPeriod = "monthly"
	// GoalPeriodYearly spans the current calendar year.
	GoalPeriodYearly GoalPeriod = "yearly"
)

// IsValid reports whether p is a known period.
func (p GoalPeriod) IsValid() bool {
	switch p {
	case GoalPeriodWeekly, GoalPeriodMonthly, GoalPeriodYearly:
		return true
	}
	return false
}

// ParseGoalPeriod converts user input into a GoalPeriod.
func ParseGoalPeriod(s string) (GoalPeriod, error) {
	p := GoalPeriod(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return p, nil
}

// Window returns the goal window a new goal of this period gets when created at now.
// Boundaries are computed in now's location. Every window starts on the first day
// of the current month, except yearly which starts on January 1.
func (p GoalPeriod) Window(now time.Time) (start, end time.Time) {
	loc := now.Location()
	year, month, _ := now.Date()
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, loc)

	switch p {
	case GoalPeriodWeekly:
		return monthStart, monthStart.AddDate(0, 0, 7)
	case GoalPeriodYearly:
		return time.Date(year, time.January, 1, 0, 0, 0, 0, loc),
			time.Date(year+1, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return monthStart, monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)
	}
}

// Goal caps spending over a fixed window, optionally for a single category.
// Progress is always derived from transactions and never stored.
type Goal struct {
	StartDate    time.Time
	EndDate      time.Time
	ID           string
	Name         string
	CategoryID   string
	Period       GoalPeriod
	TargetAmount float64
}

type goalJSON struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	TargetAmount float64    `json:"targetAmount"`
	CategoryID   string     `json:"categoryId,omitempty"`
	Period       GoalPeriod `json:"period"`
	StartDate    string     `json:"startDate"`
	EndDate      string     `json:"endDate"`
}

// NewGoalID returns a goal identifier derived from the creation time.
func NewGoalID(now time.Time) string {
	return "goal-" + strconv.FormatInt(now.UnixMilli(), 10)
}

// MarshalJSON writes window boundaries as ISO-8601 strings.
func (g Goal) MarshalJSON() ([]byte, error) {
	return json.Marshal(goalJSON{
		ID:           g.ID,
		Name:         g.Name,
		TargetAmount: g.TargetAmount,
		CategoryID:   g.CategoryID,
		Period:       g.Period,
		StartDate:    FormatTimestamp(g.StartDate),
		EndDate:      FormatTimestamp(g.EndDate),
	})
}

// UnmarshalJSON reads a stored goal. A legacy currentAmount field is ignored.
func (g *Goal) UnmarshalJSON(data []byte) error {
	var raw goalJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	start, err := ParseTimestamp(raw.StartDate)
	if err != nil {
		return fmt.Errorf("goal %s start: %w", raw.ID, err)
	}
	end, err := ParseTimestamp(raw.EndDate)
	if err != nil {
		return fmt.Errorf("goal %s end: %w", raw.ID, err)
	}
	*g = Goal{
		ID:           raw.ID,
		Name:         raw.Name,
		TargetAmount: raw.TargetAmount,
		CategoryID:   raw.CategoryID,
		Period:       raw.Period,
		StartDate:    start,
		EndDate:      end,
	}
	return nil
}

// Validate rejects goals that would make progress meaningless.
func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrMissingName
	}
	if !(g.TargetAmount > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidTarget, g.TargetAmount)
	}
	if !g.Period.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPeriod, g.Period)
	}
	if g.StartDate.After(g.EndDate) {
		return ErrInvalidWindow
	}
	return nil
}

// Contains reports whether t falls inside the goal window, boundaries included.
func (g Goal) Contains(t time.Time) bool {
	return !t.Before(g.StartDate) && !t.After(g.EndDate)
}

// IsActive reports whether the goal window contains now.
func (g Goal) IsActive(now time.Time) bool {
	return g.Contains(now)
}

// GoalUpdate is a partial goal. Nil fields are left unchanged.
type GoalUpdate struct {
	Name         *string
	TargetAmount *float64
	CategoryID   *string
	Period       *GoalPeriod
	StartDate    *time.Time
	EndDate      *time.Time
}

// IsEmpty reports whether the update changes nothing.
func (u GoalUpdate) IsEmpty() bool {
	return u.Name == nil && u.TargetAmount == nil && u.CategoryID == nil &&
		u.Period == nil && u.StartDate == nil && u.EndDate == nil
}

// Apply shallow-merges u into g. The ID is never changed.
func (u GoalUpdate) Apply(g Goal) Goal {
	if u.Name != nil {
		g.Name = *u.Name
	}
	if u.TargetAmount != nil {
		g.TargetAmount = *u.TargetAmount
	}
	if u.CategoryID != nil {
		g.CategoryID = *u.CategoryID
	}
	if u.Period != nil {
		g.Period = *u.Period
	}
	if u.StartDate != nil {
		g.StartDate = *u.StartDate
	}
	if u.EndDate != nil {
		g.EndDate = *u.EndDate
	}
	return g
}

// Balance summarizes a set of transactions. It is derived, never stored.
type Balance struct {
	TotalIncome   float64
	TotalExpenses float64
	NetBalance    float64
}
