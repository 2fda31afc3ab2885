package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/cbudget/internal/budget"
	"github.com/theirongolddev/cbudget/internal/cli"

	"github.com/charmbracelet/huh"
)

// formKind says what a completed form feeds into.
type formKind int

const (
	formNone formKind = iota
	formIncome
	formExpenseCategory
	formExpenseDetail
	formEditSuggested
	formRemoveSuggested
)

// formValues backs every form field. It lives behind a pointer so copies
// of App made by Update keep writing to the same place.
type formValues struct {
	income   string
	category string
	exists   bool
	mode     budget.Mode
	amount   string
	confirm  bool
}

func (v *formValues) reset() {
	*v = formValues{}
}

func validateAmount(s string) error {
	if _, err := cli.ParseAmount(s); err != nil {
		return errors.New("enter a number, e.g. 1,250.50")
	}
	return nil
}

func validateCategory(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("category is required")
	}
	return nil
}

func newIncomeForm(v *formValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Monthly income").
				Description("Your budget plan is derived from this amount.").
				Placeholder("e.g. 50,000").
				Value(&v.income).
				Validate(validateAmount),
		),
	).WithShowHelp(true)
}

func newExpenseCategoryForm(v *formValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Expense category").
				Description("A new category is added; an existing one can be updated, increased or removed.").
				Placeholder("e.g. Groceries").
				Value(&v.category).
				Validate(validateCategory),
		),
	).WithShowHelp(true)
}

func newExpenseDetailForm(v *formValues, currency string) *huh.Form {
	amount := huh.NewInput().
		Title(fmt.Sprintf("Amount for %s (%s)", v.category, currency)).
		Value(&v.amount).
		Validate(validateAmount)

	if !v.exists {
		v.mode = budget.ModeAdd
		return huh.NewForm(huh.NewGroup(amount)).WithShowHelp(true)
	}

	v.mode = budget.ModeUpdate
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[budget.Mode]().
				Title(fmt.Sprintf("'%s' already exists. Choose an action:", v.category)).
				Options(
					huh.NewOption("Update amount", budget.ModeUpdate),
					huh.NewOption("Add to existing amount", budget.ModeIncrement),
					huh.NewOption("Remove expense", budget.ModeRemove),
				).
				Value(&v.mode),
		),
		huh.NewGroup(amount).
			WithHideFunc(func() bool { return v.mode == budget.ModeRemove }),
	).WithShowHelp(true)
}

func newEditSuggestedForm(v *formValues, categories []string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select a category to edit").
				Options(huh.NewOptions(categories...)...).
				Value(&v.category),
			huh.NewInput().
				Title("New amount").
				Description("Savings absorbs the difference.").
				Value(&v.amount).
				Validate(validateAmount),
		),
	).WithShowHelp(true)
}

func newRemoveSuggestedForm(v *formValues, categories []string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select a category to remove").
				Description("Its amount moves to Savings.").
				Options(huh.NewOptions(categories...)...).
				Value(&v.category),
			huh.NewConfirm().
				Title("Remove it?").
				Affirmative("Remove").
				Negative("Keep").
				Value(&v.confirm),
		),
	).WithShowHelp(true)
}
