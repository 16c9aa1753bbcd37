package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/ofx"
	"github.com/Veraticus/expense-tracker/internal/store"
)

func importOFXCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import-ofx <files...>",
		Short: "Import transactions from OFX/QFX bank statements",
		Long: `Import transactions from OFX or QFX files exported from your bank.

Credits become income in "Other Income", debits become expenses in
"Other Expense". Transactions already imported are skipped, so the same
statement can be imported twice safely.`,
		Example: `  expense import-ofx ~/Downloads/checking_2024_03.qfx
  expense import-ofx ~/Downloads/*.qfx --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			files, err := expandFiles(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return common.NewUserError("No OFX files found", common.ErrNotFound)
			}

			interrupts := cli.NewInterruptHandler(out, "Nothing was saved.")
			ctx, stop := interrupts.HandleInterrupts(cmd.Context())
			defer stop()

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			cats := s.store.GetCategories(ctx)
			parser := ofx.NewParser(
				fallbackCategory(cats, store.OtherIncomeCategoryID),
				fallbackCategory(cats, store.OtherExpenseCategoryID),
				slog.Default(),
			)

			results := parseOFXFiles(ctx, parser, files, cli.NewProgress(out, len(files), "Reading statements"))
			if err := ctx.Err(); err != nil {
				return err
			}

			var parsed []model.Transaction
			for i, r := range results {
				if r.err != nil {
					common.LogError(r.err, "Skipping unreadable statement", common.Fields{"file": files[i]})
					fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Skipped %s: %v", filepath.Base(files[i]), r.err)))
					continue
				}
				parsed = append(parsed, r.txns...)
			}

			merged, added := ofx.Merge(s.store.GetTransactions(ctx), parsed)
			skipped := len(parsed) - added

			if dryRun {
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Dry run: %d new, %d already imported", added, skipped)))
				return nil
			}
			if added > 0 {
				s.store.SaveTransactions(ctx, merged)
				if err := s.checkSaved("imported transactions"); err != nil {
					return err
				}
			}

			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d transactions (%d already present)", added, skipped)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "preview the import without saving")
	return cmd
}

// expandFiles resolves glob patterns, keeping literal paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}
	return files, nil
}

// parseWorkers bounds how many statements are parsed at once.
const parseWorkers = 4

type parseResult struct {
	err  error
	txns []model.Transaction
}

// parseOFXFiles parses every file concurrently. Results keep the order of files
// so the merge is deterministic.
func parseOFXFiles(ctx context.Context, parser *ofx.Parser, files []string, bar *progressbar.ProgressBar) []parseResult {
	results := make([]parseResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parseWorkers)
	for i, path := range files {
		g.Go(func() error {
			txns, err := parseOFXFile(gctx, parser, path)
			results[i] = parseResult{txns: txns, err: err}
			if err == nil {
				common.LogDebug("Parsed statement", common.Fields{"file": path, "transactions": len(txns)})
			}
			cli.Step(bar)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func parseOFXFile(ctx context.Context, parser *ofx.Parser, path string) ([]model.Transaction, error) {
	f, err := os.Open(path) //nolint:gosec // user-supplied statement path
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return parser.ParseFile(ctx, f)
}

// fallbackCategory finds id among the user's categories, falling back to the seed.
func fallbackCategory(cats []model.Category, id string) model.Category {
	if c, ok := store.FindCategory(cats, id); ok {
		return c
	}
	c, _ := store.FindCategory(store.DefaultCategories(), id)
	return c
}
