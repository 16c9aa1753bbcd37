package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Veraticus/expense-tracker/internal/aggregate"
	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/store"
)

func goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Manage spending goals",
		Long: `A goal caps spending over a window. Monthly goals cover the current month,
weekly goals the first seven days of it, yearly goals the calendar year.
Goals without a category count every expense.`,
	}

	cmd.AddCommand(listGoalsCmd())
	cmd.AddCommand(addGoalCmd())
	cmd.AddCommand(updateGoalCmd())
	cmd.AddCommand(deleteGoalCmd())

	return cmd
}

type goalFlags struct {
	name     string
	period   string
	category string
	target   float64
}

func (f *goalFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "goal name")
	cmd.Flags().Float64Var(&f.target, "target", 0, "spending cap, greater than zero")
	cmd.Flags().StringVar(&f.period, "period", string(model.GoalPeriodMonthly), "weekly, monthly or yearly")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "expense category id or name (default: all expenses)")
}

// goalCategory resolves the --category flag. Empty means every expense.
func goalCategory(cats []model.Category, ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", nil
	}
	c, err := resolveCategory(cats, ref, model.TransactionTypeExpense)
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

func listGoalsCmd() *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List goals with their progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			goals := s.store.GetGoals(ctx)
			if activeOnly {
				goals = aggregate.ActiveGoals(goals, now())
			}
			if len(goals) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No goals found. Use 'expense goals add' to create one."))
				return nil
			}

			txns := s.store.GetTransactions(ctx)
			cats := s.store.GetCategories(ctx)

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", "ID", "NAME", "PERIOD", "CATEGORY", "SPENT", "TARGET", "PROGRESS")
			for _, g := range goals {
				p := aggregate.ComputeGoalProgress(g, txns)
				scope := "All expenses"
				if c, ok := store.FindCategory(cats, g.CategoryID); ok {
					scope = c.Name
				} else if g.CategoryID != "" {
					scope = g.CategoryID
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					g.ID, g.Name, g.Period, scope,
					s.money.Format(p.Current), s.money.Format(g.TargetAmount), levelStyle(p).Render(fmt.Sprintf("%.0f%%", p.Percentage)))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "only goals whose window contains today")
	return cmd
}

func levelStyle(p aggregate.GoalProgress) lipgloss.Style {
	switch p.Level() {
	case aggregate.LevelWarning:
		return cli.WarningStyle
	case aggregate.LevelOver:
		return cli.ErrorStyle
	}
	return cli.SuccessStyle
}

func addGoalCmd() *cobra.Command {
	var flags goalFlags

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Create a spending goal",
		Example: `  expense goals add --name "Groceries" --target 400 --category Food`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			period, err := model.ParseGoalPeriod(flags.period)
			if err != nil {
				return common.NewUserError("Invalid --period", err)
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			categoryID, err := goalCategory(s.store.GetCategories(ctx), flags.category)
			if err != nil {
				return err
			}

			created := now()
			start, end := period.Window(created)
			goal := model.Goal{
				ID:           model.NewGoalID(created),
				Name:         strings.TrimSpace(flags.name),
				TargetAmount: flags.target,
				CategoryID:   categoryID,
				Period:       period,
				StartDate:    start,
				EndDate:      end,
			}
			if err := goal.Validate(); err != nil {
				return common.NewUserError("Invalid goal", err)
			}

			s.store.AddGoal(ctx, goal)
			if err := s.checkSaved("goal"); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created %s goal %q (id %s)", period, goal.Name, goal.ID)))
			return nil
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func updateGoalCmd() *cobra.Command {
	var flags goalFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a goal",
		Long: `Change a goal's name, target, category or period. The start date is kept;
changing the period recomputes the end date from today.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			existing, ok := store.FindGoal(s.store.GetGoals(ctx), id)
			if !ok {
				return common.NewUserError("No goal with id "+id, common.ErrNotFound)
			}

			var update model.GoalUpdate
			changed := cmd.Flags().Changed
			if changed("name") {
				name := strings.TrimSpace(flags.name)
				update.Name = &name
			}
			if changed("target") {
				update.TargetAmount = &flags.target
			}
			if changed("category") {
				categoryID, err := goalCategory(s.store.GetCategories(ctx), flags.category)
				if err != nil {
					return err
				}
				update.CategoryID = &categoryID
			}
			if changed("period") {
				period, err := model.ParseGoalPeriod(flags.period)
				if err != nil {
					return common.NewUserError("Invalid --period", err)
				}
				_, end := period.Window(now())
				update.Period = &period
				update.EndDate = &end
			}
			if update.IsEmpty() {
				return common.NewUserError("Nothing to update; pass at least one flag", nil)
			}
			if err := update.Apply(existing).Validate(); err != nil {
				return common.NewUserError("Invalid goal", err)
			}

			if !s.store.UpdateGoal(ctx, id, update) {
				return common.NewUserError("No goal with id "+id, common.ErrNotFound)
			}
			if err := s.checkSaved("goal"); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Updated goal "+id))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func deleteGoalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]
			out := cmd.OutOrStdout()

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if _, ok := store.FindGoal(s.store.GetGoals(ctx), id); !ok {
				fmt.Fprintln(out, cli.FormatWarning("No goal with id "+id))
				return nil
			}

			s.store.DeleteGoal(ctx, id)
			if err := s.checkSaved("goals"); err != nil {
				return err
			}
			fmt.Fprintln(out, cli.FormatSuccess("Deleted goal "+id))
			return nil
		},
	}
}
