package budget

import (
	"iter"

	"github.com/shopspring/decimal"
)

// Totals are derived from income and expenses on demand.
type Totals struct {
	Income          decimal.Decimal
	TotalExpenses   decimal.Decimal
	RemainingIncome decimal.Decimal
}

// ComputeTotals sums expenses and subtracts them from income.
func ComputeTotals(income decimal.Decimal, expenses Amounts) Totals {
	total := expenses.Total()
	return Totals{
		Income:          income,
		TotalExpenses:   total,
		RemainingIncome: income.Sub(total),
	}
}

// RebasePolicy decides the suggested budget after an expense change.
type RebasePolicy func(income decimal.Decimal, expenses, suggested Amounts) Amounts

// RebaseOnRemaining re-derives the whole suggested budget from the remaining
// income when it is positive, discarding manual edits. Otherwise the current
// suggestion is kept.
func RebaseOnRemaining(income decimal.Decimal, expenses, suggested Amounts) Amounts {
	remaining := ComputeTotals(income, expenses).RemainingIncome
	if remaining.IsPositive() {
		return Derive(remaining)
	}
	return suggested
}

// Warning flags a category whose expense exceeds its suggested amount.
type Warning struct {
	Category  string
	Suggested decimal.Decimal
	Actual    decimal.Decimal
}

// CheckExceedance yields a Warning for every category present in both
// mappings whose expense is greater than its suggestion, in expense order.
// The sequence reads the mappings at iteration time and may be ranged over
// again.
func CheckExceedance(expenses, suggested Amounts) iter.Seq[Warning] {
	return func(yield func(Warning) bool) {
		for category, actual := range expenses.All() {
			limit, ok := suggested.Get(category)
			if !ok || !actual.GreaterThan(limit) {
				continue
			}
			if !yield(Warning{Category: category, Suggested: limit, Actual: actual}) {
				return
			}
		}
	}
}
