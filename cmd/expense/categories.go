package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Veraticus/expense-tracker/internal/aggregate"
	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
		Long:  `List the income and expense categories, or add your own.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var txType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			cats := s.store.GetCategories(ctx)
			if txType != "" {
				t, err := model.ParseTransactionType(txType)
				if err != nil {
					return common.NewUserError("Invalid --type", err)
				}
				cats = aggregate.CategoriesOfType(cats, t)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("ID"), cli.BoldStyle.Render("NAME"),
				cli.BoldStyle.Render("TYPE"), cli.BoldStyle.Render("ICON"))
			for _, c := range cats {
				fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\n", c.ID, cli.Swatch(c.Color), c.Name, c.Type, c.Icon)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&txType, "type", "t", "", "only income or expense categories")
	return cmd
}

func addCategoryCmd() *cobra.Command {
	var (
		txType string
		icon   string
		color  string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := strings.TrimSpace(args[0])

			t, err := model.ParseTransactionType(txType)
			if err != nil {
				return common.NewUserError("Invalid --type", err)
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			for _, c := range s.store.GetCategories(ctx) {
				if strings.EqualFold(c.Name, name) {
					return common.NewUserError(fmt.Sprintf("Category %q already exists", c.Name), nil)
				}
			}

			category := model.Category{
				ID:    uuid.NewString(),
				Name:  name,
				Icon:  icon,
				Color: color,
				Type:  t,
			}
			if err := category.Validate(); err != nil {
				return common.NewUserError("Invalid category", err)
			}

			s.store.AddCategory(ctx, category)
			if err := s.checkSaved("category"); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %s category %q (id %s)", t, name, category.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&txType, "type", "t", "", "income or expense")
	cmd.Flags().StringVar(&icon, "icon", "Tag", "icon name")
	cmd.Flags().StringVar(&color, "color", "#6366f1", "display color as #rrggbb")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}
