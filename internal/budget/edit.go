package budget

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// EditResult describes an accepted suggested-budget edit.
type EditResult struct {
	Budget  Amounts
	Savings decimal.Decimal // value after the edit; zero when Savings was removed earlier
}

// EditCategory sets category to amount and lets Savings absorb the difference.
//
// The edit is accepted when income minus every non-Savings allocation covers
// the increase, and the recomputed Savings stays non-negative. Savings itself
// follows the same rule, so editing it re-settles it to the unallocated
// remainder. When Savings was removed earlier the residual is checked but not
// stored. The input budget is never modified.
func EditCategory(budget Amounts, income decimal.Decimal, category string, amount decimal.Decimal) (EditResult, error) {
	old, ok := budget.Get(category)
	if !ok {
		return EditResult{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	if amount.IsNegative() {
		return EditResult{}, fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
	}

	available := income.Sub(budget.Total()).Add(budget.Amount(Savings))
	if available.LessThan(amount.Sub(old)) {
		return EditResult{}, &InsufficientFundsError{Category: category, Requested: amount, Available: available}
	}

	next := budget.Clone()
	next.Set(category, amount)

	savings := income.Sub(next.Total()).Add(next.Amount(Savings))
	if savings.IsNegative() {
		return EditResult{}, &InsufficientFundsError{Category: category, Requested: amount, Available: available}
	}
	if next.Has(Savings) {
		next.Set(Savings, savings)
	}

	return EditResult{Budget: next, Savings: next.Amount(Savings)}, nil
}

// RemoveResult describes a suggested-budget removal.
type RemoveResult struct {
	Budget      Amounts
	Removed     decimal.Decimal
	Transferred bool // false when Savings no longer exists and the amount was dropped
}

// RemoveCategory deletes category and moves its amount onto Savings when
// Savings still exists. Removing Savings itself drops its amount.
func RemoveCategory(budget Amounts, category string) (RemoveResult, error) {
	removed, ok := budget.Get(category)
	if !ok {
		return RemoveResult{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	next := budget.Clone()
	next.Delete(category)

	res := RemoveResult{Budget: next, Removed: removed}
	if s, ok := next.Get(Savings); ok {
		next.Set(Savings, s.Add(removed))
		res.Transferred = true
	}
	return res, nil
}
