package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/expense-tracker/internal/tui"
	"github.com/Veraticus/expense-tracker/internal/tui/themes"
)

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive dashboard",
		Long: `Open a full-screen dashboard with your balance, recent transactions and
goal progress. Press ? for keys, r to reload after changes from another
terminal, q to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			return tui.Run(ctx,
				tui.WithStore(s.store),
				tui.WithMoney(s.money),
				tui.WithTheme(themes.ByName(viper.GetString("display.theme"))),
				tui.WithRecentLimit(viper.GetInt("display.recent_limit")),
				tui.WithClock(now),
			)
		},
	}
}
