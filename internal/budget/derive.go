package budget

import "github.com/shopspring/decimal"

// Savings is the balancing category. Edits and removals settle into it.
const Savings = "Savings"

// Weight is the share of the basis income a category receives.
type Weight struct {
	Category string
	Share    decimal.Decimal
}

// DefaultWeights is the fixed allocation, in display order.
var DefaultWeights = []Weight{
	{"Rent", decimal.New(30, -2)},
	{"Food", decimal.New(20, -2)},
	{Savings, decimal.New(20, -2)},
	{"Utilities", decimal.New(10, -2)},
	{"Entertainment", decimal.New(10, -2)},
}

// Derive returns the suggested allocation for a basis income. Each amount is
// truncated toward zero to a whole unit, so the entries may sum to less than
// the income.
func Derive(income decimal.Decimal) Amounts {
	var a Amounts
	for _, w := range DefaultWeights {
		a.Set(w.Category, income.Mul(w.Share).Truncate(0))
	}
	return a
}
