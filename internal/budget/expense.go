package budget

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Mode selects how UpsertExpense changes an expense.
type Mode int

const (
	ModeAdd Mode = iota
	ModeUpdate
	ModeIncrement
	ModeRemove
)

var modeNames = [...]string{"add", "update", "increment", "remove"}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range modeNames {
		if n == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, s)
}

// UpsertExpense returns a copy of expenses with one change applied.
//
// ModeAdd requires a new category and a positive amount. ModeUpdate replaces
// an existing amount with a positive one. ModeIncrement adds a non-negative
// amount to an existing one. ModeRemove deletes an existing category and
// ignores amount.
func UpsertExpense(expenses Amounts, category string, amount decimal.Decimal, mode Mode) (Amounts, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return Amounts{}, fmt.Errorf("%w: category must not be empty", ErrInvalidInput)
	}

	exists := expenses.Has(category)
	if mode == ModeAdd && exists {
		return Amounts{}, fmt.Errorf("%w: %q", ErrDuplicateCategory, category)
	}
	if mode != ModeAdd && !exists {
		return Amounts{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	next := expenses.Clone()
	switch mode {
	case ModeAdd, ModeUpdate:
		if !amount.IsPositive() {
			return Amounts{}, fmt.Errorf("%w: expense amount must be greater than zero", ErrInvalidInput)
		}
		next.Set(category, amount)
	case ModeIncrement:
		if amount.IsNegative() {
			return Amounts{}, fmt.Errorf("%w: increment must not be negative", ErrInvalidInput)
		}
		next.Set(category, next.Amount(category).Add(amount))
	case ModeRemove:
		next.Delete(category)
	default:
		return Amounts{}, fmt.Errorf("%w: unknown mode %s", ErrInvalidInput, mode)
	}
	return next, nil
}
