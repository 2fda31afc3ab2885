package budget

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/theirongolddev/cbudget/internal/logging"

	"github.com/shopspring/decimal"
)

func startedSession(t *testing.T, income string, opts ...Option) *Session {
	t.Helper()
	s := NewSession(opts...)
	if err := s.SubmitIncome(d(income)); err != nil {
		t.Fatalf("SubmitIncome(%s): %v", income, err)
	}
	return s
}

func TestSessionIncomeValidation(t *testing.T) {
	s := NewSession()
	if s.Step() != StepCollectIncome {
		t.Fatalf("initial step = %s", s.Step())
	}
	for _, bad := range []string{"0", "-10"} {
		if err := s.SubmitIncome(d(bad)); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("SubmitIncome(%s) err = %v, want ErrInvalidInput", bad, err)
		}
		if s.Step() != StepCollectIncome || s.Suggested().Len() != 0 {
			t.Fatalf("state changed after invalid income")
		}
	}

	if err := s.SubmitIncome(d("1000")); err != nil {
		t.Fatalf("SubmitIncome: %v", err)
	}
	if s.Step() != StepCollectExpenses {
		t.Fatalf("step = %s, want collect-expenses", s.Step())
	}
	if !s.Suggested().Equal(Derive(d("1000"))) {
		t.Fatalf("suggested = %v", s.Suggested().Entries())
	}

	var se *StepError
	if err := s.SubmitIncome(d("5")); !errors.As(err, &se) || !errors.Is(err, ErrWrongStep) {
		t.Fatalf("second SubmitIncome err = %v, want *StepError", err)
	}
}

func TestSessionExpenseRebasesSuggestion(t *testing.T) {
	s := startedSession(t, "1000")
	if _, err := s.EditSuggested("Rent", d("350")); err != nil {
		t.Fatalf("EditSuggested: %v", err)
	}

	out, err := s.ApplyExpense("Groceries", d("250"), ModeAdd)
	if err != nil {
		t.Fatalf("ApplyExpense: %v", err)
	}
	if !out.Rebased {
		t.Fatal("Rebased = false, want true")
	}
	if !out.Totals.TotalExpenses.Equal(d("250")) || !out.Totals.RemainingIncome.Equal(d("750")) {
		t.Fatalf("totals = %+v", out.Totals)
	}
	if !s.Suggested().Equal(Derive(d("750"))) {
		t.Fatalf("suggested = %v, want Derive(750)", s.Suggested().Entries())
	}
	if !s.Income().Equal(d("1000")) {
		t.Fatalf("income changed to %s", s.Income())
	}
}

func TestSessionSuggestionMatchesRemainingAfterEveryMutation(t *testing.T) {
	s := startedSession(t, "2500")
	steps := []struct {
		cat  string
		amt  string
		mode Mode
	}{
		{"Taxi", "120", ModeAdd},
		{"Books", "35.75", ModeAdd},
		{"Taxi", "30", ModeIncrement},
		{"Books", "10", ModeUpdate},
		{"Taxi", "0", ModeRemove},
	}
	for _, st := range steps {
		if _, err := s.ApplyExpense(st.cat, d(st.amt), st.mode); err != nil {
			t.Fatalf("%s %s: %v", st.mode, st.cat, err)
		}
		remaining := s.Income().Sub(s.Expenses().Total())
		if remaining.IsPositive() && !s.Suggested().Equal(Derive(remaining)) {
			t.Fatalf("after %s %s: suggested = %v, want Derive(%s)", st.mode, st.cat, s.Suggested().Entries(), remaining)
		}
	}
}

func TestSessionOverspendKeepsSuggestion(t *testing.T) {
	s := startedSession(t, "1000")
	out, err := s.ApplyExpense("Rent", d("1200"), ModeAdd)
	if err != nil {
		t.Fatalf("ApplyExpense: %v", err)
	}
	if out.Rebased {
		t.Fatal("suggestion rebased with no remaining income")
	}
	if !out.Totals.RemainingIncome.Equal(d("-200")) {
		t.Fatalf("remaining = %s, want -200", out.Totals.RemainingIncome)
	}
	if len(out.Warnings) != 1 || out.Warnings[0].Category != "Rent" {
		t.Fatalf("warnings = %+v, want one for Rent", out.Warnings)
	}
}

func TestSessionRejectedExpenseLeavesState(t *testing.T) {
	s := startedSession(t, "1000")
	before := s.Snapshot()
	if _, err := s.ApplyExpense("Taxi", d("0"), ModeAdd); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	after := s.Snapshot()
	if !after.Suggested.Equal(before.Suggested) || after.Expenses.Len() != 0 {
		t.Fatal("state changed after rejected expense")
	}
}

func TestSessionStepMachine(t *testing.T) {
	s := startedSession(t, "1000")

	if err := s.Complete(); !errors.Is(err, ErrNoExpenses) {
		t.Fatalf("Complete with no expenses err = %v, want ErrNoExpenses", err)
	}
	if s.Step() != StepCollectExpenses {
		t.Fatalf("step = %s after refused completion", s.Step())
	}
	if err := s.Reopen(); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("Reopen err = %v, want ErrWrongStep", err)
	}

	if _, err := s.ApplyExpense("Taxi", d("20"), ModeAdd); err != nil {
		t.Fatalf("ApplyExpense: %v", err)
	}
	if err := s.Complete(); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if s.Step() != StepFinalSummary {
		t.Fatalf("step = %s, want final-summary", s.Step())
	}

	if _, err := s.ApplyExpense("Books", d("5"), ModeAdd); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("ApplyExpense in summary err = %v, want ErrWrongStep", err)
	}
	if _, err := s.EditSuggested("Rent", d("1")); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("EditSuggested in summary err = %v, want ErrWrongStep", err)
	}

	if err := s.Reopen(); err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	if s.Step() != StepCollectExpenses {
		t.Fatalf("step = %s, want collect-expenses", s.Step())
	}
	if s.Expenses().Len() != 1 {
		t.Fatal("expenses cleared on reopen")
	}
}

func TestIsDone(t *testing.T) {
	for _, in := range []string{"done", "DONE", "  Done\n"} {
		if !IsDone(in) {
			t.Fatalf("IsDone(%q) = false", in)
		}
	}
	for _, in := range []string{"", "don", "done!", "Groceries"} {
		if IsDone(in) {
			t.Fatalf("IsDone(%q) = true", in)
		}
	}
}

func TestSessionRequestAdvice(t *testing.T) {
	s := startedSession(t, "1000", WithCurrency("$"))
	if _, err := s.ApplyExpense("Groceries", d("250"), ModeAdd); err != nil {
		t.Fatalf("ApplyExpense: %v", err)
	}

	var got AdviceRequest
	advisor := AdvisorFunc(func(_ context.Context, req AdviceRequest) (string, error) {
		got = req
		return "Spend less on groceries.", nil
	})

	if _, err := s.RequestAdvice(context.Background(), advisor); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("advice before summary err = %v, want ErrWrongStep", err)
	}
	if err := s.Complete(); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	text, err := s.RequestAdvice(context.Background(), advisor)
	if err != nil {
		t.Fatalf("RequestAdvice: %v", err)
	}
	if text != "Spend less on groceries." {
		t.Fatalf("text = %q", text)
	}
	if !got.Income.Equal(d("1000")) || !got.RemainingIncome.Equal(d("750")) || got.Currency != "$" {
		t.Fatalf("request = %+v", got)
	}
	if v := got.Expenses.Amount("Groceries"); !v.Equal(d("250")) {
		t.Fatalf("request expenses Groceries = %s", v)
	}
}

func TestSessionAdviceFailure(t *testing.T) {
	s := startedSession(t, "1000")
	if _, err := s.ApplyExpense("Taxi", d("20"), ModeAdd); err != nil {
		t.Fatalf("ApplyExpense: %v", err)
	}
	if err := s.Complete(); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	before := s.Snapshot()

	cause := errors.New("quota exceeded")
	_, err := s.RequestAdvice(context.Background(), AdvisorFunc(func(context.Context, AdviceRequest) (string, error) {
		return "", cause
	}))
	if !errors.Is(err, ErrAdviceFailed) || !errors.Is(err, cause) {
		t.Fatalf("err = %v, want ErrAdviceFailed wrapping cause", err)
	}
	var af *AdviceFailure
	if !errors.As(err, &af) {
		t.Fatalf("err = %T, want *AdviceFailure", err)
	}
	if af.Message() != AdviceErrorMessage || af.Detail() != "quota exceeded" {
		t.Fatalf("failure = %q / %q", af.Message(), af.Detail())
	}
	if s.Step() != StepFinalSummary || !s.Snapshot().Suggested.Equal(before.Suggested) {
		t.Fatal("advice failure changed budget state")
	}
}

func TestSessionCustomRebasePolicy(t *testing.T) {
	keep := func(_ decimal.Decimal, _, suggested Amounts) Amounts { return suggested }
	s := startedSession(t, "1000", WithRebasePolicy(keep))
	if _, err := s.EditSuggested("Rent", d("400")); err != nil {
		t.Fatalf("EditSuggested: %v", err)
	}
	out, err := s.ApplyExpense("Taxi", d("50"), ModeAdd)
	if err != nil {
		t.Fatalf("ApplyExpense: %v", err)
	}
	if out.Rebased {
		t.Fatal("Rebased = true under keep policy")
	}
	if v := s.Suggested().Amount("Rent"); !v.Equal(d("400")) {
		t.Fatalf("Rent = %s, want manual edit 400 kept", v)
	}
}

func TestSessionLogsCarrySessionID(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New(logging.Config{Level: slog.LevelInfo, Component: "test", Output: &buf})
	s := startedSession(t, "1000", WithLogger(l))
	if !strings.Contains(buf.String(), "session="+s.ID()) {
		t.Fatalf("log output %q missing session id", buf.String())
	}
}
