package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/expense-tracker/internal/aggregate"
	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/store"
)

type transactionFlags struct {
	txType   string
	category string
	date     string
	note     string
	amount   float64
}

func (f *transactionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.txType, "type", "t", "", "income or expense")
	cmd.Flags().Float64VarP(&f.amount, "amount", "a", 0, "amount, greater than zero")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category id or name")
	cmd.Flags().StringVarP(&f.date, "date", "d", "", "date as YYYY-MM-DD (default: now)")
	cmd.Flags().StringVarP(&f.note, "note", "n", "", "free-text note")
}

func addCmd() *cobra.Command {
	var flags transactionFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an income or expense",
		Example: `  expense add --type expense --amount 12.50 --category Food --note "Lunch"
  expense add -t income -a 3000 -c Salary -d 2024-03-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			txType, err := model.ParseTransactionType(flags.txType)
			if err != nil {
				return common.NewUserError("Invalid --type", err)
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			category, err := resolveCategory(s.store.GetCategories(ctx), flags.category, txType)
			if err != nil {
				return err
			}
			date, err := parseDate(flags.date)
			if err != nil {
				return err
			}

			txn := model.Transaction{
				ID:       model.NewTransactionID(now()),
				Type:     txType,
				Amount:   flags.amount,
				Category: category,
				Date:     date,
				Note:     strings.TrimSpace(flags.note),
			}
			if err := txn.Validate(); err != nil {
				return common.NewUserError("Invalid transaction", err)
			}

			s.store.AddTransaction(ctx, txn)
			if err := s.checkSaved("transaction"); err != nil {
				return err
			}

			common.LogInfo("Added transaction", common.Fields{"id": txn.ID, "type": txn.Type})
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %s %s in %s (id %s)",
				txn.Type, s.money.Format(txn.Amount), txn.Category.Name, txn.ID)))
			return nil
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func listCmd() *cobra.Command {
	var (
		search   string
		txType   string
		category string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			filter := aggregate.TransactionFilter{Search: search}
			if txType != "" {
				t, err := model.ParseTransactionType(txType)
				if err != nil {
					return common.NewUserError("Invalid --type", err)
				}
				filter.Type = t
			}
			if category != "" {
				c, err := resolveCategory(s.store.GetCategories(ctx), category, filter.Type)
				if err != nil {
					return err
				}
				filter.CategoryID = c.ID
			}

			txns := aggregate.FilterTransactions(s.store.GetTransactions(ctx), filter)
			if limit > 0 && len(txns) > limit {
				txns = txns[:limit]
			}
			if len(txns) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No transactions found. Use 'expense add' to record one."))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", "ID", "DATE", "TYPE", "CATEGORY", "AMOUNT", "NOTE")
			for _, t := range txns {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					t.ID, t.Date.In(now().Location()).Format(model.DateLayout), t.Type, t.Category.Name, s.money.Signed(t), t.Note)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "match category name or note")
	cmd.Flags().StringVarP(&txType, "type", "t", "", "only income or expense")
	cmd.Flags().StringVarP(&category, "category", "c", "", "only this category id or name")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "show at most this many (0 for all)")

	return cmd
}

func updateCmd() *cobra.Command {
	var flags transactionFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			existing, ok := store.FindTransaction(s.store.GetTransactions(ctx), id)
			if !ok {
				return common.NewUserError("No transaction with id "+id, common.ErrNotFound)
			}

			var update model.TransactionUpdate
			changed := cmd.Flags().Changed
			if changed("type") {
				t, err := model.ParseTransactionType(flags.txType)
				if err != nil {
					return common.NewUserError("Invalid --type", err)
				}
				update.Type = &t
			}
			if changed("amount") {
				update.Amount = &flags.amount
			}
			if changed("category") {
				txType := existing.Type
				if update.Type != nil {
					txType = *update.Type
				}
				c, err := resolveCategory(s.store.GetCategories(ctx), flags.category, txType)
				if err != nil {
					return err
				}
				update.Category = &c
			}
			if changed("date") {
				d, err := parseDate(flags.date)
				if err != nil {
					return err
				}
				update.Date = &d
			}
			if changed("note") {
				note := strings.TrimSpace(flags.note)
				update.Note = &note
			}
			if update.IsEmpty() {
				return common.NewUserError("Nothing to update; pass at least one flag", nil)
			}
			if err := update.Apply(existing).Validate(); err != nil {
				return common.NewUserError("Invalid transaction", err)
			}

			if !s.store.UpdateTransaction(ctx, id, update) {
				return common.NewUserError("No transaction with id "+id, common.ErrNotFound)
			}
			if err := s.checkSaved("transaction"); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Updated transaction "+id))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
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

			if _, ok := store.FindTransaction(s.store.GetTransactions(ctx), id); !ok {
				fmt.Fprintln(out, cli.FormatWarning("No transaction with id "+id))
				return nil
			}

			s.store.DeleteTransaction(ctx, id)
			if err := s.checkSaved("transactions"); err != nil {
				return err
			}
			fmt.Fprintln(out, cli.FormatSuccess("Deleted transaction "+id))
			return nil
		},
	}
}
