package store

import (
	"context"
	"strings"

	"github.com/Veraticus/expense-tracker/internal/model"
)

var defaultCategories = []model.Category{
	{ID: "1", Name: "Salary", Icon: "Briefcase", Color: "#10b981", Type: model.TransactionTypeIncome},
	{ID: "2", Name: "Freelance", Icon: "Laptop", Color: "#059669", Type: model.TransactionTypeIncome},
	{ID: "3", Name: "Investment", Icon: "TrendingUp", Color: "#047857", Type: model.TransactionTypeIncome},
	{ID: "4", Name: "Other Income", Icon: "Plus", Color: "#065f46", Type: model.TransactionTypeIncome},
	{ID: "5", Name: "Food", Icon: "Utensils", Color: "#ef4444", Type: model.TransactionTypeExpense},
	{ID: "6", Name: "Transport", Icon: "Car", Color: "#dc2626", Type: model.TransactionTypeExpense},
	{ID: "7", Name: "Entertainment", Icon: "Film", Color: "#b91c1c", Type: model.TransactionTypeExpense},
	{ID: "8", Name: "Shopping", Icon: "ShoppingBag", Color: "#991b1b", Type: model.TransactionTypeExpense},
	{ID: "9", Name: "Bills", Icon: "Receipt", Color: "#7f1d1d", Type: model.TransactionTypeExpense},
	{ID: "10", Name: "Health", Icon: "Heart", Color: "#dc2626", Type: model.TransactionTypeExpense},
	{ID: "11", Name: "Other Expense", Icon: "Minus", Color: "#991b1b", Type: model.TransactionTypeExpense},
}

// Seed category IDs used as fallbacks by importers.
const (
	OtherIncomeCategoryID  = "4"
	OtherExpenseCategoryID = "11"
)

// DefaultCategories returns a fresh copy of the seed category set.
func DefaultCategories() []model.Category {
	out := make([]model.Category, len(defaultCategories))
	copy(out, defaultCategories)
	return out
}

// GetCategories returns the stored categories, or the seed set when none are
// stored or the stored collection is unparsable. The seed set is not written back.
func (s *Store) GetCategories(ctx context.Context) []model.Category {
	cats, ok := load[model.Category](ctx, s, CategoriesKey)
	if !ok {
		return DefaultCategories()
	}
	return cats
}

// SaveCategories replaces the stored category collection.
func (s *Store) SaveCategories(ctx context.Context, cats []model.Category) {
	save(ctx, s, CategoriesKey, cats)
}

// AddCategory appends c to the current categories (seed set included on first add).
func (s *Store) AddCategory(ctx context.Context, c model.Category) {
	cats := s.GetCategories(ctx)
	s.SaveCategories(ctx, append(cats, c))
}

// FindCategory looks a category up by ID.
func FindCategory(cats []model.Category, id string) (model.Category, bool) {
	for _, c := range cats {
		if c.ID == id {
			return c, true
		}
	}
	return model.Category{}, false
}

// ResolveCategory finds a category by ID, falling back to a case-insensitive name match.
func ResolveCategory(cats []model.Category, ref string) (model.Category, bool) {
	if c, ok := FindCategory(cats, ref); ok {
		return c, true
	}
	for _, c := range cats {
		if strings.EqualFold(c.Name, strings.TrimSpace(ref)) {
			return c, true
		}
	}
	return model.Category{}, false
}
