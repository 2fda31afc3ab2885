package budget

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidInput indicates a non-positive income or expense amount, or an empty category.
	ErrInvalidInput = errors.New("budget: invalid input")
	// ErrInsufficientFunds indicates an edit that the income cannot cover.
	ErrInsufficientFunds = errors.New("budget: insufficient funds")
	// ErrUnknownCategory indicates an operation on a category that does not exist.
	ErrUnknownCategory = errors.New("budget: unknown category")
	// ErrDuplicateCategory indicates an add for a category that already exists.
	ErrDuplicateCategory = errors.New("budget: category already exists")
	// ErrNoExpenses indicates completion was requested with no expenses recorded.
	ErrNoExpenses = errors.New("budget: no expenses recorded")
	// ErrWrongStep indicates an operation not available in the current step.
	ErrWrongStep = errors.New("budget: operation not available in this step")
	// ErrAdviceFailed indicates the advice collaborator failed.
	ErrAdviceFailed = errors.New("budget: advice request failed")
)

// AdviceErrorMessage is shown to the user whenever advice cannot be fetched.
const AdviceErrorMessage = "Error fetching budgeting advice. Please try again later."

// InsufficientFundsError describes a rejected suggested-budget edit.
type InsufficientFundsError struct {
	Category  string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("budget: insufficient funds to set %s to %s (available %s)",
		e.Category, e.Requested.StringFixed(2), e.Available.StringFixed(2))
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// StepError reports an operation attempted outside the step that allows it.
type StepError struct {
	Op   string
	Have Step
	Want Step
}

func (e *StepError) Error() string {
	return fmt.Sprintf("budget: %s requires step %s, session is at %s", e.Op, e.Want, e.Have)
}

func (e *StepError) Unwrap() error { return ErrWrongStep }

// AdviceFailure carries the fixed user-facing message plus the raw cause.
type AdviceFailure struct {
	Err error
}

func (e *AdviceFailure) Error() string {
	return AdviceErrorMessage + " (" + e.Err.Error() + ")"
}

// Message is the text to display.
func (e *AdviceFailure) Message() string { return AdviceErrorMessage }

// Detail is the raw diagnostic text of the underlying failure.
func (e *AdviceFailure) Detail() string { return e.Err.Error() }

// Is matches ErrAdviceFailed.
func (e *AdviceFailure) Is(target error) bool { return target == ErrAdviceFailed }

func (e *AdviceFailure) Unwrap() error { return e.Err }
