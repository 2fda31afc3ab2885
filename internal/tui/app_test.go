package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/theirongolddev/cbudget/internal/budget"
	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(msg)
	next, ok := m.(App)
	if !ok {
		t.Fatalf("Update returned %T, want App", m)
	}
	return next, cmd
}

func sized(t *testing.T, a App) App {
	t.Helper()
	a, _ = send(t, a, tea.WindowSizeMsg{Width: 100, Height: 40})
	return a
}

func startedApp(t *testing.T, advisor budget.Advisor) App {
	t.Helper()
	a := NewApp(budget.NewSession(), advisor, Options{Income: decimal.NewFromInt(1000)})
	if a.sess.Step() != budget.StepCollectExpenses {
		t.Fatalf("step = %s, want collect-expenses", a.sess.Step())
	}
	return sized(t, a)
}

func TestAppPrefilledIncomeSkipsIncomeForm(t *testing.T) {
	a := startedApp(t, nil)
	if a.form != nil {
		t.Fatalf("form kind %d open, want none", a.formKind)
	}
	view := a.View()
	for _, want := range []string{"Budget Planner", "Rent", "₹300.00", "Savings"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestAppIncomeForm(t *testing.T) {
	a := NewApp(budget.NewSession(), nil, Options{})
	if a.formKind != formIncome || a.form == nil {
		t.Fatalf("formKind = %d, want income form", a.formKind)
	}

	a.vals.income = "-5"
	a, _ = a.completeForm()
	if !a.flashErr || !strings.Contains(a.flash, "Income must be a positive number") {
		t.Fatalf("flash = %q", a.flash)
	}
	if a.formKind != formIncome {
		t.Fatal("income form not reopened after invalid income")
	}

	a.vals.income = "1,000"
	a, _ = a.completeForm()
	if a.sess.Step() != budget.StepCollectExpenses || a.form != nil {
		t.Fatalf("step = %s, form open = %v", a.sess.Step(), a.form != nil)
	}
	if !a.sess.Suggested().Equal(budget.Derive(decimal.NewFromInt(1000))) {
		t.Fatalf("suggested = %v", a.sess.Suggested().Entries())
	}
}

func TestAppExpenseForms(t *testing.T) {
	a := startedApp(t, nil)

	a, _ = send(t, a, keyMsg("n"))
	if a.formKind != formExpenseCategory {
		t.Fatalf("formKind = %d, want expense category", a.formKind)
	}
	a.vals.category = " Food "
	a, _ = a.completeForm()
	if a.formKind != formExpenseDetail || a.vals.exists || a.vals.mode != budget.ModeAdd {
		t.Fatalf("detail form = %d exists=%v mode=%s", a.formKind, a.vals.exists, a.vals.mode)
	}
	a.vals.amount = "300"
	a, _ = a.completeForm()

	if got := a.sess.Expenses().Amount("Food"); !got.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("Food = %s, want 300", got)
	}
	if !strings.Contains(a.flash, "Added Food: ₹300.00") || !strings.Contains(a.flash, "(1 over budget)") {
		t.Fatalf("flash = %q", a.flash)
	}
	if a.activeTab != tabExpenses {
		t.Fatalf("activeTab = %d, want expenses", a.activeTab)
	}
	if view := a.View(); !strings.Contains(view, "Over Budget") || !strings.Contains(view, "₹700.00") {
		t.Fatalf("expenses view:\n%s", view)
	}

	a, _ = send(t, a, keyMsg("n"))
	a.vals.category = "Food"
	a, _ = a.completeForm()
	if !a.vals.exists || a.vals.mode != budget.ModeUpdate {
		t.Fatalf("existing category: exists=%v mode=%s", a.vals.exists, a.vals.mode)
	}
	a.vals.mode = budget.ModeIncrement
	a.vals.amount = "50"
	a, _ = a.completeForm()
	if got := a.sess.Expenses().Amount("Food"); !got.Equal(decimal.NewFromInt(350)) {
		t.Fatalf("Food = %s, want 350", got)
	}
	if !strings.Contains(a.flash, "Food is now ₹350.00") {
		t.Fatalf("flash = %q", a.flash)
	}
}

func TestAppDoneTokenCompletes(t *testing.T) {
	a := startedApp(t, nil)

	a, _ = send(t, a, keyMsg("n"))
	a.vals.category = " DONE "
	a, _ = a.completeForm()
	if a.form != nil || a.sess.Step() != budget.StepCollectExpenses {
		t.Fatalf("form open = %v, step = %s; want no form, collect-expenses", a.form != nil, a.sess.Step())
	}
	if !a.flashErr || a.flash != "No extra expenses added." {
		t.Fatalf("flash = %q", a.flash)
	}

	if _, err := a.sess.ApplyExpense("Taxi", decimal.NewFromInt(50), budget.ModeAdd); err != nil {
		t.Fatalf("ApplyExpense: %v", err)
	}
	a, _ = send(t, a, keyMsg("n"))
	a.vals.category = "done"
	a, _ = a.completeForm()
	if a.sess.Step() != budget.StepFinalSummary {
		t.Fatalf("step = %s, want final-summary", a.sess.Step())
	}
	if a.sess.Expenses().Has("done") || a.sess.Expenses().Len() != 1 {
		t.Fatalf("expenses = %v, want only Taxi", a.sess.Expenses().Entries())
	}
	if a.activeTab != tabAdvice {
		t.Fatalf("activeTab = %d, want advice", a.activeTab)
	}
}

func TestAppRejectsZeroExpense(t *testing.T) {
	a := startedApp(t, nil)
	a.submitExpense("Taxi", budget.ModeAdd, "0")
	if !a.flashErr || a.flash != "Expense amount must be greater than zero." {
		t.Fatalf("flash = %q", a.flash)
	}
	if a.sess.Expenses().Len() != 0 {
		t.Fatal("rejected expense was recorded")
	}
}

func TestAppEditAndRemoveSuggested(t *testing.T) {
	a := startedApp(t, nil)

	a, _ = send(t, a, keyMsg("m"))
	if a.formKind != formEditSuggested {
		t.Fatalf("formKind = %d, want edit", a.formKind)
	}
	a.vals.category = "Rent"
	a.vals.amount = "900"
	a, _ = a.completeForm()
	if !strings.HasPrefix(a.flash, "Insufficient funds! Can't update Rent to ₹900.00.") {
		t.Fatalf("flash = %q", a.flash)
	}

	a, _ = send(t, a, keyMsg("m"))
	a.vals.category = "Rent"
	a.vals.amount = "400"
	a, _ = a.completeForm()
	if a.flash != "Updated Rent: ₹400.00. New Savings: ₹200.00" {
		t.Fatalf("flash = %q", a.flash)
	}

	a, _ = send(t, a, keyMsg("x"))
	a.vals.category = "Food"
	a.vals.confirm = false
	a, _ = a.completeForm()
	if !a.sess.Suggested().Has("Food") {
		t.Fatal("Food removed without confirmation")
	}

	a, _ = send(t, a, keyMsg("x"))
	a.vals.category = "Food"
	a.vals.confirm = true
	a, _ = a.completeForm()
	if a.flash != "Removed Food. Added ₹200.00 to Savings." {
		t.Fatalf("flash = %q", a.flash)
	}
	if got := a.sess.Suggested().Amount(budget.Savings); !got.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("Savings = %s, want 400", got)
	}
}

func TestAppEscCancelsForm(t *testing.T) {
	a := startedApp(t, nil)
	a, _ = send(t, a, keyMsg("n"))
	a, _ = send(t, a, keyMsg("esc"))
	if a.form != nil || a.flash != "Cancelled." {
		t.Fatalf("form open = %v, flash = %q", a.form != nil, a.flash)
	}
}

func TestAppDoneAndAdvice(t *testing.T) {
	advisor := budget.AdvisorFunc(func(_ context.Context, req budget.AdviceRequest) (string, error) {
		return "Cook at home.", nil
	})
	a := startedApp(t, advisor)

	a, _ = send(t, a, keyMsg("d"))
	if a.flash != "No extra expenses added." || a.sess.Step() != budget.StepCollectExpenses {
		t.Fatalf("flash = %q, step = %s", a.flash, a.sess.Step())
	}

	a.submitExpense("Groceries", budget.ModeAdd, "250")
	a, cmd := send(t, a, keyMsg("d"))
	if a.sess.Step() != budget.StepFinalSummary || !a.advising || cmd == nil {
		t.Fatalf("step = %s, advising = %v, cmd nil = %v", a.sess.Step(), a.advising, cmd == nil)
	}
	if a.activeTab != tabAdvice {
		t.Fatalf("activeTab = %d, want advice", a.activeTab)
	}

	a, _ = send(t, a, keyMsg("u"))
	if a.sess.Step() != budget.StepFinalSummary {
		t.Fatal("reopened while advice was in flight")
	}

	msg := fetchAdviceCmd(context.Background(), a.sess, advisor)()
	a, _ = send(t, a, msg)
	if a.advising || a.advice != "Cook at home." {
		t.Fatalf("advising = %v, advice = %q", a.advising, a.advice)
	}
	if view := a.View(); !strings.Contains(view, "Cook at home.") {
		t.Fatalf("advice view:\n%s", view)
	}

	a, _ = send(t, a, keyMsg("u"))
	if a.sess.Step() != budget.StepCollectExpenses || a.activeTab != tabExpenses {
		t.Fatalf("step = %s, tab = %d after update", a.sess.Step(), a.activeTab)
	}
}

func TestAppAdviceFailure(t *testing.T) {
	advisor := budget.AdvisorFunc(func(context.Context, budget.AdviceRequest) (string, error) {
		return "", errors.New("rate limited")
	})
	a := startedApp(t, advisor)
	a.submitExpense("Groceries", budget.ModeAdd, "250")
	a, _ = send(t, a, keyMsg("d"))

	a, _ = send(t, a, fetchAdviceCmd(context.Background(), a.sess, advisor)())
	if a.adviceErr == nil {
		t.Fatal("adviceErr = nil, want failure")
	}
	view := a.View()
	if !strings.Contains(view, budget.AdviceErrorMessage) || !strings.Contains(view, "rate limited") {
		t.Fatalf("failure view:\n%s", view)
	}
	if got := a.sess.Expenses().Amount("Groceries"); !got.Equal(decimal.NewFromInt(250)) {
		t.Fatal("advice failure changed the budget")
	}

	_, cmd := send(t, a, keyMsg("r"))
	if cmd == nil {
		t.Fatal("retry returned no command")
	}
}

func TestAppWithoutAdvisor(t *testing.T) {
	a := startedApp(t, nil)
	a.submitExpense("Groceries", budget.ModeAdd, "250")
	a, cmd := send(t, a, keyMsg("d"))
	if cmd != nil || a.advising {
		t.Fatal("advice requested without an advisor")
	}
	if !strings.Contains(a.View(), "Advice is turned off.") {
		t.Fatalf("view:\n%s", a.View())
	}
}

func TestAppTabNavigation(t *testing.T) {
	a := startedApp(t, nil)

	a, _ = send(t, a, keyMsg("e"))
	if a.activeTab != tabExpenses {
		t.Fatalf("after e: tab = %d", a.activeTab)
	}
	a, _ = send(t, a, keyMsg("right"))
	if a.activeTab != tabAdvice {
		t.Fatalf("after right: tab = %d", a.activeTab)
	}
	a, _ = send(t, a, keyMsg("right"))
	if a.activeTab != tabPlan {
		t.Fatalf("right should wrap: tab = %d", a.activeTab)
	}
	a, _ = send(t, a, keyMsg("left"))
	if a.activeTab != tabAdvice {
		t.Fatalf("left should wrap: tab = %d", a.activeTab)
	}

	x := components.TabWidth(0, a.activeTab) + 1 + components.TabWidth(1, a.activeTab)/2
	a, _ = send(t, a, tea.MouseMsg{X: x, Y: 1, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if a.activeTab != tabExpenses {
		t.Fatalf("click: tab = %d, want expenses", a.activeTab)
	}
}

func TestAppHelpAndNarrowViews(t *testing.T) {
	a := startedApp(t, nil)

	a, _ = send(t, a, keyMsg("?"))
	if !strings.Contains(a.View(), "Keyboard Shortcuts") {
		t.Fatal("help not shown")
	}
	a, _ = send(t, a, keyMsg("n"))
	if a.showHelp || a.form != nil {
		t.Fatal("key while help shown should only close help")
	}

	a, _ = send(t, a, tea.WindowSizeMsg{Width: 40, Height: 20})
	if !strings.Contains(a.View(), "Terminal too narrow") {
		t.Fatalf("narrow view:\n%s", a.View())
	}
}

func TestApplySetup(t *testing.T) {
	cfg := config.DefaultConfig()
	got := applySetup(cfg, &setupValues{
		provider: config.ProviderOllama,
		apiKey:   "  sk-new  ",
		currency: "$",
		theme:    "tokyo-night",
	})
	if got.Advice.Provider != config.ProviderOllama || got.Advice.APIKey != "sk-new" ||
		got.General.Currency != "$" || got.Appearance.Theme != "tokyo-night" {
		t.Fatalf("applySetup = %+v", got)
	}

	kept := applySetup(cfg, &setupValues{currency: "  "})
	if kept.General.Currency != cfg.General.Currency || kept.Advice.Provider != cfg.Advice.Provider {
		t.Fatalf("blank answers overwrote config: %+v", kept)
	}
}
