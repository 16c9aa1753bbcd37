package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/expense-tracker/internal/aggregate"
	"github.com/Veraticus/expense-tracker/internal/cli"
)

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show totals and a per-category breakdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			txns := s.store.GetTransactions(ctx)
			balance := aggregate.ComputeBalance(txns)

			net := cli.IncomeStyle
			if balance.NetBalance < 0 {
				net = cli.ExpenseStyle
			}
			card := strings.Join([]string{
				"Balance   " + net.Render(s.money.Format(balance.NetBalance)),
				"Income    " + cli.IncomeStyle.Render(s.money.Format(balance.TotalIncome)),
				"Expenses  " + cli.ExpenseStyle.Render(s.money.Format(balance.TotalExpenses)),
			}, "\n")
			fmt.Fprintln(out, cli.RenderBox(cli.WalletIcon+" Total Balance", card))

			totals := aggregate.SummarizeByCategory(txns)
			if len(totals) == 0 {
				return nil
			}

			fmt.Fprintln(out)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", "CATEGORY", "TYPE", "COUNT", "TOTAL")
			for _, ct := range totals {
				fmt.Fprintf(w, "%s %s\t%s\t%d\t%s\n",
					cli.Swatch(ct.Category.Color), ct.Category.Name, ct.Type, ct.Count,
					s.money.Format(ct.Total.InexactFloat64()))
			}
			return w.Flush()
		},
	}
}
