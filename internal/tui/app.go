// Package tui provides the interactive Bubble Tea budgeting screen.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/cbudget/internal/budget"
	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/logging"
	"github.com/theirongolddev/cbudget/internal/tui/components"
	"github.com/theirongolddev/cbudget/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// AdviceMsg carries the result of an advice request.
type AdviceMsg struct {
	Text string
	Err  error
}

// Options configure NewApp.
type Options struct {
	// Income, when positive, is submitted before the first frame.
	Income decimal.Decimal
	// Setup shows the first-run setup form before anything else.
	Setup bool
	// AdvisorFor rebuilds the advisor after setup changes the config.
	AdvisorFor func(config.Config) budget.Advisor
	Context    context.Context
	Log        *logging.Logger
}

// App is the root Bubble Tea model.
type App struct {
	sess    *budget.Session
	advisor budget.Advisor // nil disables advice
	ctx     context.Context
	log     *logging.Logger

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Active form, if any
	form     *huh.Form
	formKind formKind
	vals     *formValues

	// First-run setup (huh form)
	setupForm  *huh.Form
	setupVals  *setupValues
	advisorFor func(config.Config) budget.Advisor

	// Advice
	spinner   spinner.Model
	advising  bool
	advice    string
	adviceErr *budget.AdviceFailure

	// One-line feedback for the last action
	flash    string
	flashErr bool
}

const (
	minTerminalWidth = 60
	maxContentWidth  = 120
	minContentHeight = 5

	tabPlan     = 0
	tabExpenses = 1
	tabAdvice   = 2
)

// NewApp creates the TUI model for sess.
func NewApp(sess *budget.Session, advisor budget.Advisor, opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}

	a := App{
		sess:       sess,
		advisor:    advisor,
		ctx:        ctx,
		log:        log,
		vals:       &formValues{},
		spinner:    sp,
		advisorFor: opts.AdvisorFor,
	}

	if opts.Income.IsPositive() && sess.Step() == budget.StepCollectIncome {
		a.submitIncome(opts.Income.String())
	}

	if opts.Setup {
		cfg, err := config.Load()
		if err != nil {
			cfg = config.DefaultConfig()
		}
		a.setupVals = newSetupValues(cfg)
		a.setupForm = newSetupForm(a.setupVals)
	} else if sess.Step() == budget.StepCollectIncome {
		a.openForm(formIncome)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	} else if a.form != nil {
		cmds = append(cmds, a.form.Init())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		if a.form != nil {
			a.form = a.form.WithWidth(a.formWidth())
		}
		return a, nil

	case tea.MouseMsg:
		if a.showHelp || a.setupForm != nil || a.form != nil {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 1 {
			if tab := components.TabAtX(msg.X, a.activeTab); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		// Global: quit
		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// First-run setup intercepts all keys
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		if a.form != nil {
			if key == "esc" {
				a.closeForm()
				a.setFlash("Cancelled.", false)
				return a, nil
			}
			return a.updateForm(msg)
		}

		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		return a.handleKey(key)

	case AdviceMsg:
		a.advising = false
		a.advice = ""
		a.adviceErr = nil
		var failure *budget.AdviceFailure
		switch {
		case msg.Err == nil:
			a.advice = msg.Text
		case errors.As(msg.Err, &failure):
			a.adviceErr = failure
		default:
			a.setFlash(msg.Err.Error(), true)
		}
		return a, nil

	case spinner.TickMsg:
		if a.advising {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the active form (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.form != nil {
		return a.updateForm(msg)
	}
	return a, nil
}

func (a App) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return a, tea.Quit
	case "?":
		a.showHelp = true
		return a, nil
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}
	if len(key) == 1 {
		if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
			a.activeTab = idx
			return a, nil
		}
	}

	switch a.sess.Step() {
	case budget.StepCollectIncome:
		if key == "i" || key == "enter" {
			cmd := a.openForm(formIncome)
			return a, cmd
		}

	case budget.StepCollectExpenses:
		switch key {
		case "n", "enter":
			cmd := a.openForm(formExpenseCategory)
			return a, cmd
		case "m":
			cmd := a.openForm(formEditSuggested)
			return a, cmd
		case "x":
			cmd := a.openForm(formRemoveSuggested)
			return a, cmd
		case "d":
			cmd := a.finish()
			return a, cmd
		}

	case budget.StepFinalSummary:
		switch key {
		case "u":
			if a.advising {
				a.setFlash("Wait for the advice request to finish.", true)
				return a, nil
			}
			if err := a.sess.Reopen(); err != nil {
				a.setFlash(err.Error(), true)
				return a, nil
			}
			a.activeTab = tabExpenses
			a.setFlash("Back to expenses. Press d when done.", false)
			return a, nil
		case "r":
			cmd := a.startAdvice()
			return a, cmd
		}
	}
	return a, nil
}

// finish completes expense collection and starts the advice request.
func (a *App) finish() tea.Cmd {
	err := a.sess.Complete()
	switch {
	case errors.Is(err, budget.ErrNoExpenses):
		a.setFlash("No extra expenses added.", true)
		return nil
	case err != nil:
		a.setFlash(err.Error(), true)
		return nil
	}
	a.activeTab = tabAdvice
	a.setFlash("", false)
	return a.startAdvice()
}

func (a *App) startAdvice() tea.Cmd {
	if a.advisor == nil {
		a.setFlash("Advice is turned off.", false)
		return nil
	}
	if a.advising {
		return nil
	}
	a.advising = true
	a.advice = ""
	a.adviceErr = nil
	return tea.Batch(a.spinner.Tick, fetchAdviceCmd(a.ctx, a.sess, a.advisor))
}

// fetchAdviceCmd asks the advisor on a background goroutine. The session is
// not touched elsewhere while a request is in flight.
func fetchAdviceCmd(ctx context.Context, sess *budget.Session, advisor budget.Advisor) tea.Cmd {
	return func() tea.Msg {
		text, err := sess.RequestAdvice(ctx, advisor)
		return AdviceMsg{Text: text, Err: err}
	}
}

// ─── Forms ──────────────────────────────────────────────────────

// openForm builds and shows the form for kind.
func (a *App) openForm(kind formKind) tea.Cmd {
	if kind != formExpenseDetail {
		a.vals.reset()
	}

	var f *huh.Form
	switch kind {
	case formIncome:
		f = newIncomeForm(a.vals)
	case formExpenseCategory:
		f = newExpenseCategoryForm(a.vals)
	case formExpenseDetail:
		f = newExpenseDetailForm(a.vals, a.sess.Currency())
	case formEditSuggested, formRemoveSuggested:
		cats := a.sess.Suggested().Categories()
		if len(cats) == 0 {
			a.setFlash("No budget categories left.", true)
			return nil
		}
		if kind == formEditSuggested {
			f = newEditSuggestedForm(a.vals, cats)
		} else {
			f = newRemoveSuggestedForm(a.vals, cats)
		}
	default:
		return nil
	}

	a.form = f
	a.formKind = kind
	if a.width > 0 {
		a.form = a.form.WithWidth(a.formWidth())
	}
	return a.form.Init()
}

func (a *App) closeForm() {
	a.form = nil
	a.formKind = formNone
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		return a.completeForm()
	case huh.StateAborted:
		a.closeForm()
		return a, nil
	}
	return a, cmd
}

// completeForm applies the answers of the finished form.
func (a App) completeForm() (App, tea.Cmd) {
	kind := a.formKind
	a.closeForm()
	v := a.vals

	switch kind {
	case formIncome:
		a.submitIncome(v.income)
		if a.sess.Step() == budget.StepCollectIncome {
			cmd := a.openForm(formIncome)
			return a, cmd
		}
	case formExpenseCategory:
		v.category = strings.TrimSpace(v.category)
		if budget.IsDone(v.category) {
			cmd := a.finish()
			return a, cmd
		}
		v.exists = a.sess.Expenses().Has(v.category)
		cmd := a.openForm(formExpenseDetail)
		return a, cmd
	case formExpenseDetail:
		a.submitExpense(v.category, v.mode, v.amount)
	case formEditSuggested:
		a.submitEdit(v.category, v.amount)
	case formRemoveSuggested:
		if v.confirm {
			a.submitRemove(v.category)
		}
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		cfg := a.saveSetupConfig()
		if a.advisorFor != nil {
			a.advisor = a.advisorFor(cfg)
		}
		if a.setupVals.saveErr != nil {
			a.setFlash("Could not save config: "+a.setupVals.saveErr.Error(), true)
		} else {
			a.setFlash("Saved to "+config.Path(), false)
		}
		a.setupForm = nil
		cmd := a.afterSetup()
		return a, cmd
	case huh.StateAborted:
		a.setupForm = nil
		cmd := a.afterSetup()
		return a, cmd
	}
	return a, cmd
}

func (a *App) afterSetup() tea.Cmd {
	if a.sess.Step() == budget.StepCollectIncome {
		return a.openForm(formIncome)
	}
	return nil
}

// ─── Session actions ────────────────────────────────────────────

func (a *App) submitIncome(raw string) {
	income, err := cli.ParseAmount(raw)
	if err == nil {
		err = a.sess.SubmitIncome(income)
	}
	if err != nil {
		a.setFlash("Income must be a positive number. Please try again.", true)
		return
	}
	a.activeTab = tabPlan
	a.setFlash("Suggested budget plan based on your income is ready.", false)
}

func (a *App) submitExpense(category string, mode budget.Mode, raw string) {
	cur := a.sess.Currency()
	amount := decimal.Zero
	if mode != budget.ModeRemove {
		var err error
		if amount, err = cli.ParseAmount(raw); err != nil {
			a.setFlash("Please enter a number.", true)
			return
		}
	}

	out, err := a.sess.ApplyExpense(category, amount, mode)
	switch {
	case err == nil:
	case errors.Is(err, budget.ErrInvalidInput) && mode == budget.ModeIncrement:
		a.setFlash("Amount to add must not be negative.", true)
		return
	case errors.Is(err, budget.ErrInvalidInput):
		a.setFlash("Expense amount must be greater than zero.", true)
		return
	default:
		a.setFlash(err.Error(), true)
		return
	}

	a.activeTab = tabExpenses
	var msg string
	switch mode {
	case budget.ModeAdd:
		msg = fmt.Sprintf("Added %s: %s", category, cli.FormatAmount(cur, amount))
	case budget.ModeRemove:
		msg = fmt.Sprintf("Removed expense %s.", category)
	default:
		msg = fmt.Sprintf("%s is now %s", category, cli.FormatAmount(cur, a.sess.Expenses().Amount(category)))
	}
	if out.Rebased {
		msg += ". Suggested budget updated from your remaining income."
	}
	if n := len(out.Warnings); n > 0 {
		a.setFlash(fmt.Sprintf("%s (%d over budget)", msg, n), true)
		return
	}
	a.setFlash(msg, false)
}

func (a *App) submitEdit(category, raw string) {
	cur := a.sess.Currency()
	amount, err := cli.ParseAmount(raw)
	if err != nil {
		a.setFlash("Please enter a number.", true)
		return
	}

	res, err := a.sess.EditSuggested(category, amount)
	var insufficient *budget.InsufficientFundsError
	switch {
	case err == nil:
	case errors.As(err, &insufficient):
		a.setFlash(fmt.Sprintf("Insufficient funds! Can't update %s to %s. Please adjust your expenses.",
			category, cli.FormatAmount(cur, amount)), true)
		return
	default:
		a.setFlash(err.Error(), true)
		return
	}

	a.activeTab = tabPlan
	msg := fmt.Sprintf("Updated %s: %s", category, cli.FormatAmount(cur, amount))
	if res.Budget.Has(budget.Savings) {
		msg += fmt.Sprintf(". New Savings: %s", cli.FormatAmount(cur, res.Savings))
	}
	a.setFlash(msg, false)
}

func (a *App) submitRemove(category string) {
	res, err := a.sess.RemoveSuggested(category)
	if err != nil {
		a.setFlash(err.Error(), true)
		return
	}
	a.activeTab = tabPlan
	if res.Transferred {
		a.setFlash(fmt.Sprintf("Removed %s. Added %s to Savings.",
			category, cli.FormatAmount(a.sess.Currency(), res.Removed)), false)
		return
	}
	a.setFlash(fmt.Sprintf("Removed %s.", category), false)
}

func (a *App) setFlash(msg string, isErr bool) {
	a.flash = msg
	a.flashErr = isErr
}

// ─── View ───────────────────────────────────────────────────────

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) formWidth() int {
	return components.CardInnerWidth(a.contentWidth())
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  cbudget needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		name     string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"p e a", "Jump to tab"},
			{"← →", "Previous / Next tab"},
		}},
		{"Budget", []struct{ key, desc string }{
			{"n", "Add or change an expense"},
			{"m", "Modify a suggested category"},
			{"x", "Remove a suggested category"},
			{"d", "Done: show summary and advice"},
			{"u", "Update expenses (from summary)"},
			{"r", "Retry advice"},
		}},
		{"General", []struct{ key, desc string }{
			{"Esc", "Cancel form"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(s.name))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-6s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	header := titleStyle.Render(" Budget Planner") + "\n" +
		components.RenderTabBar(a.activeTab, w)

	flash := ""
	if a.flash != "" {
		style := lipgloss.NewStyle().Foreground(t.Green)
		if a.flashErr {
			style = lipgloss.NewStyle().Foreground(t.Orange)
		}
		flash = style.Width(w).Render(" " + a.flash)
	}

	statusBar := components.RenderStatusBar(w, a.hints(), a.status())

	headerH := lipgloss.Height(header)
	footerH := lipgloss.Height(statusBar)
	if flash != "" {
		footerH += lipgloss.Height(flash)
	}
	contentH := max(a.height-headerH-footerH, minContentHeight)

	var content string
	if a.form != nil {
		content = components.ContentCard(a.formTitle(), a.form.View(), cw, true) + "\n"
	}
	switch a.activeTab {
	case tabPlan:
		content += a.renderPlanTab(cw)
	case tabExpenses:
		content += a.renderExpensesTab(cw)
	case tabAdvice:
		content += a.renderAdviceTab(cw)
	}
	content = padHeight(truncateHeight(content, contentH), contentH)

	parts := []string{header, content}
	if flash != "" {
		parts = append(parts, flash)
	}
	parts = append(parts, statusBar)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a App) formTitle() string {
	switch a.formKind {
	case formIncome:
		return "Income"
	case formExpenseCategory, formExpenseDetail:
		return "Expense"
	case formEditSuggested:
		return "Edit suggested budget"
	case formRemoveSuggested:
		return "Remove suggested category"
	}
	return ""
}

func (a App) hints() string {
	if a.form != nil {
		return "[enter]next  [esc]cancel"
	}
	switch a.sess.Step() {
	case budget.StepCollectIncome:
		return "[i]ncome  [?]help  [q]uit"
	case budget.StepCollectExpenses:
		return "[n]ew expense  [m]odify  [x]remove  [d]one  [?]help  [q]uit"
	default:
		return "[u]pdate expenses  [r]etry advice  [?]help  [q]uit"
	}
}

func (a App) status() string {
	id := a.sess.ID()
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%s · %s", a.sess.Step(), id)
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}
