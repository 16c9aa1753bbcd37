package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/config"
	"github.com/Veraticus/expense-tracker/internal/store"
)

// backupFileName is the default export file for the given day.
func backupFileName() string {
	return "expense-tracker-backup-" + now().Format("2006-01-02") + ".json"
}

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write transactions and categories to a JSON backup",
		Long: `Write all transactions and categories to a JSON backup file.
Goals are not part of the backup. Use --output - to print to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			data, err := s.store.ExportData(ctx)
			if err != nil {
				return err
			}

			if output == "-" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), data)
				return err
			}
			if output == "" {
				output = backupFileName()
			}
			path := config.ExpandPath(output)
			if err := os.WriteFile(path, []byte(data+"\n"), 0o600); err != nil {
				return fmt.Errorf("failed to write backup: %w", err)
			}

			common.LogInfo("Exported backup", common.Fields{"path": path})
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Backup written to "+path))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, or - for stdout (default: expense-tracker-backup-<date>.json)")
	return cmd
}

func importCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all transactions and categories with a backup",
		Long: `Replace all transactions and categories with the contents of a JSON
backup. Nothing is changed if the file is not a valid backup. Goals are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			data, err := os.ReadFile(config.ExpandPath(args[0]))
			if err != nil {
				return fmt.Errorf("failed to read backup: %w", err)
			}

			backup, failure := store.ParseBackup(string(data))
			if failure != nil {
				return common.NewUserError(failure.Message, nil)
			}

			if !yes {
				question := fmt.Sprintf("Replace all data with %d transactions and %d categories from %s?",
					len(backup.Transactions), len(backup.Categories), args[0])
				ok, err := cli.Confirm(ctx, cli.NewNonBlockingReader(cmd.InOrStdin()), out, question)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, cli.FormatInfo("Import canceled"))
					return nil
				}
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			result := s.store.ImportData(ctx, string(data))
			if !result.Success {
				return common.NewUserError(result.Message, s.store.LastWriteError())
			}

			fmt.Fprintln(out, cli.FormatSuccess(result.Message))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
