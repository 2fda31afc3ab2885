package budget

import (
	"context"
	"fmt"
	"iter"
	"slices"

	"github.com/theirongolddev/cbudget/internal/logging"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session is one user's budgeting state. It is not safe for concurrent use;
// each shell owns exactly one.
type Session struct {
	id        string
	step      Step
	income    decimal.Decimal
	suggested Amounts
	expenses  Amounts
	currency  string

	rebase RebasePolicy
	log    *logging.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithRebasePolicy replaces the rule applied to the suggested budget after
// an expense change.
func WithRebasePolicy(p RebasePolicy) Option {
	return func(s *Session) { s.rebase = p }
}

// WithLogger attaches a logger. Every line carries the session ID.
func WithLogger(l *logging.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithCurrency sets the currency symbol passed to the advisor.
func WithCurrency(symbol string) Option {
	return func(s *Session) { s.currency = symbol }
}

// NewSession starts a session at StepCollectIncome.
func NewSession(opts ...Option) *Session {
	s := &Session{
		id:       uuid.NewString(),
		step:     StepCollectIncome,
		currency: "₹",
		rebase:   RebaseOnRemaining,
		log:      logging.Discard(),
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With("session", s.id)
	return s
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// Step returns the current step.
func (s *Session) Step() Step { return s.step }

// Income returns the submitted income, zero before submission.
func (s *Session) Income() decimal.Decimal { return s.income }

// Currency returns the display currency symbol.
func (s *Session) Currency() string { return s.currency }

// Suggested returns a copy of the suggested budget.
func (s *Session) Suggested() Amounts { return s.suggested.Clone() }

// Expenses returns a copy of the recorded expenses.
func (s *Session) Expenses() Amounts { return s.expenses.Clone() }

// Totals computes total expenses and remaining income.
func (s *Session) Totals() Totals { return ComputeTotals(s.income, s.expenses) }

// Warnings yields overspent categories against the current suggestion.
func (s *Session) Warnings() iter.Seq[Warning] {
	return CheckExceedance(s.expenses, s.suggested)
}

func (s *Session) require(op string, want Step) error {
	if s.step != want {
		return &StepError{Op: op, Have: s.step, Want: want}
	}
	return nil
}

// SubmitIncome records a positive income, derives the suggested budget and
// moves to StepCollectExpenses.
func (s *Session) SubmitIncome(income decimal.Decimal) error {
	if err := s.require("submit income", StepCollectIncome); err != nil {
		return err
	}
	if !income.IsPositive() {
		return fmt.Errorf("%w: income must be a positive number", ErrInvalidInput)
	}
	s.income = income
	s.suggested = Derive(income)
	s.step = StepCollectExpenses
	s.log.Info("income submitted", "income", income.String())
	return nil
}

// ExpenseOutcome reports the state after an expense change.
type ExpenseOutcome struct {
	Totals   Totals
	Rebased  bool
	Warnings []Warning
}

// ApplyExpense changes one expense, then recomputes totals, applies the
// rebase policy to the suggested budget and checks for overspending. A
// rejected change leaves the session untouched.
func (s *Session) ApplyExpense(category string, amount decimal.Decimal, mode Mode) (ExpenseOutcome, error) {
	if err := s.require("change expense", StepCollectExpenses); err != nil {
		return ExpenseOutcome{}, err
	}
	next, err := UpsertExpense(s.expenses, category, amount, mode)
	if err != nil {
		s.log.Debug("expense rejected", "category", category, "mode", mode.String(), "err", err)
		return ExpenseOutcome{}, err
	}

	s.expenses = next
	suggested := s.rebase(s.income, s.expenses, s.suggested)
	rebased := !suggested.Equal(s.suggested)
	s.suggested = suggested

	out := ExpenseOutcome{
		Totals:   s.Totals(),
		Rebased:  rebased,
		Warnings: slices.Collect(s.Warnings()),
	}
	s.log.Info("expense applied",
		"category", category,
		"mode", mode.String(),
		"remaining", out.Totals.RemainingIncome.String(),
		"rebased", rebased,
		"warnings", len(out.Warnings))
	return out, nil
}

// EditSuggested changes one suggested category; Savings absorbs the difference.
func (s *Session) EditSuggested(category string, amount decimal.Decimal) (EditResult, error) {
	if err := s.require("edit suggested budget", StepCollectExpenses); err != nil {
		return EditResult{}, err
	}
	res, err := EditCategory(s.suggested, s.income, category, amount)
	if err != nil {
		s.log.Info("suggested edit rejected", "category", category, "amount", amount.String(), "err", err)
		return EditResult{}, err
	}
	s.suggested = res.Budget
	s.log.Info("suggested edit applied", "category", category, "amount", amount.String(), "savings", res.Savings.String())
	return res, nil
}

// RemoveSuggested deletes one suggested category; its amount moves to Savings.
func (s *Session) RemoveSuggested(category string) (RemoveResult, error) {
	if err := s.require("remove suggested category", StepCollectExpenses); err != nil {
		return RemoveResult{}, err
	}
	res, err := RemoveCategory(s.suggested, category)
	if err != nil {
		return RemoveResult{}, err
	}
	s.suggested = res.Budget
	s.log.Info("suggested category removed", "category", category, "transferred", res.Transferred)
	return res, nil
}

// Complete moves to StepFinalSummary. It fails with ErrNoExpenses while no
// expense has been recorded.
func (s *Session) Complete() error {
	if err := s.require("complete", StepCollectExpenses); err != nil {
		return err
	}
	if s.expenses.Len() == 0 {
		return ErrNoExpenses
	}
	s.step = StepFinalSummary
	return nil
}

// Reopen returns from the summary to expense collection.
func (s *Session) Reopen() error {
	if err := s.require("update expenses", StepFinalSummary); err != nil {
		return err
	}
	s.step = StepCollectExpenses
	return nil
}

// AdviceRequest builds the advisor input from the current state.
func (s *Session) AdviceRequest() AdviceRequest {
	t := s.Totals()
	return AdviceRequest{
		Income:          s.income,
		Expenses:        s.expenses.Clone(),
		RemainingIncome: t.RemainingIncome,
		Currency:        s.currency,
	}
}

// RequestAdvice asks the advisor for recommendations on the final summary.
// Any advisor failure is returned as *AdviceFailure and leaves the budget
// untouched.
func (s *Session) RequestAdvice(ctx context.Context, a Advisor) (string, error) {
	if err := s.require("request advice", StepFinalSummary); err != nil {
		return "", err
	}
	text, err := a.Advise(ctx, s.AdviceRequest())
	if err != nil {
		s.log.Warn("advice request failed", "err", err)
		return "", &AdviceFailure{Err: err}
	}
	return text, nil
}

// Snapshot is a read-only copy of the session for rendering.
type Snapshot struct {
	ID        string
	Step      Step
	Currency  string
	Suggested Amounts
	Expenses  Amounts
	Totals    Totals
	Warnings  []Warning
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:        s.id,
		Step:      s.step,
		Currency:  s.currency,
		Suggested: s.suggested.Clone(),
		Expenses:  s.expenses.Clone(),
		Totals:    s.Totals(),
		Warnings:  slices.Collect(s.Warnings()),
	}
}
