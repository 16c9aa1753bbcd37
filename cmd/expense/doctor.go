package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/storage"
)

// keyLister is implemented by media that can enumerate their keys.
type keyLister interface {
	Keys(ctx context.Context) ([]string, error)
}

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that stored data can be read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			switch m := s.medium.(type) {
			case *storage.SQLiteStorage:
				version, err := m.SchemaVersion(ctx)
				if err != nil {
					return fmt.Errorf("failed to read schema version: %w", err)
				}
				fmt.Fprintf(out, "Database: %s (schema v%d)\n", m.Path(), version)
			default:
				fmt.Fprintln(out, "Database: in memory")
			}

			if lister, ok := s.medium.(keyLister); ok {
				keys, err := lister.Keys(ctx)
				if err != nil {
					return fmt.Errorf("failed to list keys: %w", err)
				}
				fmt.Fprintf(out, "Keys: %d\n", len(keys))
				for _, k := range keys {
					fmt.Fprintln(out, "  "+k)
				}
			}
			fmt.Fprintln(out)

			problems, skipped := 0, 0
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\n", "COLLECTION", "ITEMS", "STATUS")
			for _, c := range s.store.Inspect(ctx) {
				status := cli.SuccessStyle.Render(cli.SuccessIcon + " ok")
				items := fmt.Sprintf("%d", c.Count)
				switch {
				case !c.Healthy():
					problems++
					status = cli.ErrorStyle.Render(cli.ErrorIcon + " " + c.Err.Error())
					items = "-"
				case !c.Present:
					status = cli.SubtleStyle.Render("not stored (defaults)")
					items = "-"
				case len(c.Skipped) > 0:
					skipped += len(c.Skipped)
					status = cli.WarningStyle.Render(fmt.Sprintf("%s %d unreadable record(s), first: %v",
						cli.WarningIcon, len(c.Skipped), c.Skipped[0]))
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", c.Key, items, status)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if problems > 0 {
				fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf(
					"%d collection(s) cannot be read and will show as empty or default. Restore with 'expense import'.", problems)))
			}
			if skipped > 0 {
				fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf(
					"%d record(s) are skipped when reading and will be dropped by the next save.", skipped)))
			}
			return nil
		},
	}
}
