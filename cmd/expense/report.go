package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/config"
	"github.com/Veraticus/expense-tracker/internal/sheets"
)

// newReportWriter builds the Google Sheets writer from configuration.
var newReportWriter = func(ctx context.Context) (sheets.ReportWriter, error) {
	cfg, err := config.LoadSheetsConfig()
	if err != nil {
		return nil, common.NewUserError("Google Sheets is not configured; run 'expense auth sheets' first", err)
	}
	return sheets.NewWriter(ctx, *cfg, slog.Default())
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Publish reports outside the local database",
	}
	cmd.AddCommand(reportSheetsCmd())
	return cmd
}

func reportSheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets",
		Short: "Write a summary and the transaction list to Google Sheets",
		Long: `Write the balance, per-category totals, goal progress and every
transaction to a Google Sheets spreadsheet. Existing report tabs are replaced.
Nothing is read back from the spreadsheet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			report := sheets.BuildReport(
				s.store.GetTransactions(ctx),
				s.store.GetCategories(ctx),
				s.store.GetGoals(ctx),
				now(),
			)

			writer, err := newReportWriter(ctx)
			if err != nil {
				return err
			}
			if err := writer.Write(ctx, report); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s Report written with %d transactions",
				cli.ChartIcon, len(report.Transactions))))
			return nil
		},
	}
}
