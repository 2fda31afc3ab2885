// Package chat is a line-oriented budgeting conversation over a reader and
// a writer. It works on a terminal, in a pipe and in tests.
package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/theirongolddev/cbudget/internal/budget"
	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/logging"

	"github.com/shopspring/decimal"
)

// Title is printed once at startup.
const Title = "Budget Planner Chatbot"

// Greeting is printed under the title.
const Greeting = "Hello! I'm your budget planning chatbot. Let's get started with your budget planning."

// Commands available while collecting expenses. Anything else is taken as
// an expense category.
const (
	cmdView   = "/view"
	cmdEdit   = "/edit"
	cmdRemove = "/remove"
	cmdHelp   = "/help"
	cmdQuit   = "/quit"
)

// Options tune a Shell.
type Options struct {
	// Income, when positive, answers the income question up front.
	Income decimal.Decimal
	// Quiet skips the title and greeting.
	Quiet bool
	// Log receives diagnostics; nil discards them.
	Log *logging.Logger
}

// Shell drives one budget.Session from line input.
type Shell struct {
	in      *bufio.Reader
	out     io.Writer
	sess    *budget.Session
	advisor budget.Advisor // nil skips advice
	opts    Options
	log     *logging.Logger
}

// New creates a shell. advisor may be nil to run without advice.
func New(in io.Reader, out io.Writer, sess *budget.Session, advisor budget.Advisor, opts Options) *Shell {
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}
	return &Shell{
		in:      bufio.NewReader(in),
		out:     out,
		sess:    sess,
		advisor: advisor,
		opts:    opts,
		log:     log,
	}
}

// errQuit ends the conversation without an error.
var errQuit = errors.New("quit")

// Run converses until the user quits, input ends or ctx is cancelled.
func (s *Shell) Run(ctx context.Context) error {
	if !s.opts.Quiet {
		s.println(cli.RenderTitle(Title))
		s.println(Greeting)
		s.println()
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		switch s.sess.Step() {
		case budget.StepCollectIncome:
			err = s.collectIncome()
		case budget.StepCollectExpenses:
			err = s.collectExpense()
		case budget.StepFinalSummary:
			err = s.finalSummary(ctx)
		}

		switch {
		case err == nil:
		case errors.Is(err, io.EOF), errors.Is(err, errQuit):
			s.log.Debug("conversation ended", "step", s.sess.Step().String())
			s.println("Goodbye!")
			return nil
		default:
			return err
		}
	}
}

func (s *Shell) collectIncome() error {
	income := s.opts.Income
	s.opts.Income = decimal.Zero

	if !income.IsPositive() {
		line, err := s.ask("Enter your monthly income: ")
		if err != nil {
			return err
		}
		if isQuit(line) {
			return errQuit
		}
		income, err = cli.ParseAmount(line)
		if err != nil {
			s.println("Income must be a positive number. Please try again.")
			return nil
		}
	}

	if err := s.sess.SubmitIncome(income); err != nil {
		if errors.Is(err, budget.ErrInvalidInput) {
			s.println("Income must be a positive number. Please try again.")
			return nil
		}
		return err
	}

	s.println()
	s.println("Suggested budget plan based on your income:")
	s.print(cli.RenderPlan(s.sess.Currency(), s.sess.Suggested()))
	s.println()
	s.printHelp()
	return nil
}

func (s *Shell) collectExpense() error {
	line, err := s.ask("Enter an expense category (or type 'done' to finish): ")
	if err != nil {
		return err
	}
	line = strings.TrimSpace(line)

	switch {
	case line == "":
		return nil
	case budget.IsDone(line):
		return s.finish()
	case isQuit(line):
		return errQuit
	case strings.EqualFold(line, cmdView):
		s.showBudget()
		return nil
	case strings.EqualFold(line, cmdEdit):
		return s.editSuggested()
	case strings.EqualFold(line, cmdRemove):
		return s.removeSuggested()
	case strings.EqualFold(line, cmdHelp):
		s.printHelp()
		return nil
	}
	return s.changeExpense(line)
}

func (s *Shell) finish() error {
	err := s.sess.Complete()
	if errors.Is(err, budget.ErrNoExpenses) {
		s.println("No extra expenses added.")
		return nil
	}
	return err
}

func (s *Shell) changeExpense(category string) error {
	cur := s.sess.Currency()
	mode := budget.ModeAdd

	if s.sess.Expenses().Has(category) {
		line, err := s.ask(fmt.Sprintf("'%s' already exists. Choose an action (update, increment, remove): ", category))
		if err != nil {
			return err
		}
		mode, err = parseAction(line)
		if err != nil {
			s.println("Please choose update, increment or remove.")
			return nil
		}
	}

	amount := decimal.Zero
	if mode != budget.ModeRemove {
		line, err := s.ask(fmt.Sprintf("Enter the amount for %s (in %s): ", category, cur))
		if err != nil {
			return err
		}
		amount, err = cli.ParseAmount(line)
		if err != nil {
			s.println("Please enter a number.")
			return nil
		}
	}

	outcome, err := s.sess.ApplyExpense(category, amount, mode)
	switch {
	case err == nil:
	case errors.Is(err, budget.ErrInvalidInput):
		if mode == budget.ModeIncrement {
			s.println("Amount to add must not be negative.")
		} else {
			s.println("Expense amount must be greater than zero.")
		}
		return nil
	case errors.Is(err, budget.ErrDuplicateCategory), errors.Is(err, budget.ErrUnknownCategory):
		s.printf("Could not %s %s: %v\n", mode, category, err)
		return nil
	default:
		return err
	}

	switch mode {
	case budget.ModeAdd:
		s.printf("Added %s: %s\n", category, cli.FormatAmount(cur, amount))
	case budget.ModeRemove:
		s.printf("Removed expense %s.\n", category)
	default:
		got, _ := s.sess.Expenses().Get(category)
		s.printf("%s is now %s\n", category, cli.FormatAmount(cur, got))
	}
	s.println()
	s.print(cli.RenderExpenses(cur, s.sess.Expenses()))
	s.print(cli.RenderTotals(cur, outcome.Totals))
	if outcome.Rebased {
		s.println()
		s.println("Suggested budget updated from your remaining income:")
		s.print(cli.RenderPlan(cur, s.sess.Suggested()))
	}
	s.print(cli.RenderWarnings(cur, outcome.Warnings))
	s.println()
	return nil
}

func (s *Shell) editSuggested() error {
	cur := s.sess.Currency()
	category, err := s.askCategory("Which suggested category do you want to edit? ")
	if err != nil || category == "" {
		return err
	}

	line, err := s.ask(fmt.Sprintf("Enter new amount for %s: ", category))
	if err != nil {
		return err
	}
	amount, err := cli.ParseAmount(line)
	if err != nil {
		s.println("Please enter a number.")
		return nil
	}

	res, err := s.sess.EditSuggested(category, amount)
	var insufficient *budget.InsufficientFundsError
	switch {
	case err == nil:
	case errors.As(err, &insufficient):
		s.printf("Insufficient funds! Can't update %s to %s. Please adjust your expenses.\n",
			category, cli.FormatAmount(cur, amount))
		return nil
	case errors.Is(err, budget.ErrInvalidInput):
		s.println("Amount must not be negative.")
		return nil
	default:
		return err
	}

	s.printf("Updated %s: %s\n", category, cli.FormatAmount(cur, amount))
	if res.Budget.Has(budget.Savings) {
		s.printf("New Savings: %s\n", cli.FormatAmount(cur, res.Savings))
	}
	s.println()
	return nil
}

func (s *Shell) removeSuggested() error {
	cur := s.sess.Currency()
	category, err := s.askCategory("Which suggested category do you want to remove? ")
	if err != nil || category == "" {
		return err
	}

	res, err := s.sess.RemoveSuggested(category)
	if err != nil {
		return err
	}
	if res.Transferred {
		s.printf("Removed %s. Added %s to Savings.\n", category, cli.FormatAmount(cur, res.Removed))
	} else {
		s.printf("Removed %s.\n", category)
	}
	s.println()
	return nil
}

// askCategory reads a suggested-budget category name. It returns "" after
// telling the user when the name is unknown.
func (s *Shell) askCategory(prompt string) (string, error) {
	suggested := s.sess.Suggested()
	if suggested.Len() == 0 {
		s.println("No budget categories left.")
		return "", nil
	}
	s.printf("Categories: %s\n", strings.Join(suggested.Categories(), ", "))
	line, err := s.ask(prompt)
	if err != nil {
		return "", err
	}
	category := matchCategory(suggested, line)
	if category == "" {
		s.printf("No suggested category named %q.\n", strings.TrimSpace(line))
	}
	return category, nil
}

func (s *Shell) finalSummary(ctx context.Context) error {
	s.showBudget()

	if s.advisor != nil {
		s.println("Fetching budgeting advice...")
		text, err := s.sess.RequestAdvice(ctx, s.advisor)
		var failure *budget.AdviceFailure
		switch {
		case err == nil:
			s.println("Budgeting Advice: " + text)
		case errors.As(err, &failure):
			s.println(failure.Message())
			s.printf("  (%s)\n", failure.Detail())
		default:
			return err
		}
		s.println()
	}

	for {
		line, err := s.ask("Type 'update' to change your expenses or 'quit' to exit: ")
		if err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "update", "u":
			return s.sess.Reopen()
		case "quit", "q", "exit", cmdQuit:
			return errQuit
		}
	}
}

func (s *Shell) showBudget() {
	snap := s.sess.Snapshot()
	cur := snap.Currency
	s.println()
	s.printf("Your Monthly Income: %s\n", cli.FormatAmount(cur, snap.Totals.Income))
	s.print(cli.RenderPlan(cur, snap.Suggested))
	s.print(cli.RenderExpenses(cur, snap.Expenses))
	s.print(cli.RenderTotals(cur, snap.Totals))
	s.print(cli.RenderWarnings(cur, snap.Warnings))
	s.println()
}

func (s *Shell) printHelp() {
	s.println("Type an expense category to record spending, 'done' when finished.")
	s.printf("Other commands: %s (updated budget), %s / %s (suggested budget), %s, %s\n",
		cmdView, cmdEdit, cmdRemove, cmdHelp, cmdQuit)
	s.println()
}

func (s *Shell) ask(prompt string) (string, error) {
	s.print(prompt)
	line, err := s.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading input: %w", err)
		}
		// A final line without a newline still counts.
		if line == "" {
			s.println()
			return "", io.EOF
		}
	}
	return strings.TrimSpace(line), nil
}

func (s *Shell) print(a ...any)                 { fmt.Fprint(s.out, a...) }
func (s *Shell) println(a ...any)               { fmt.Fprintln(s.out, a...) }
func (s *Shell) printf(format string, a ...any) { fmt.Fprintf(s.out, format, a...) }

func isQuit(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), cmdQuit)
}

// parseAction accepts a mode name, its first letter or the wording used
// in the prompt.
func parseAction(line string) (budget.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "u":
		return budget.ModeUpdate, nil
	case "i", "add", "add to existing":
		return budget.ModeIncrement, nil
	case "r":
		return budget.ModeRemove, nil
	}
	m, err := budget.ParseMode(line)
	if err != nil || m == budget.ModeAdd {
		return 0, fmt.Errorf("%w: action %q", budget.ErrInvalidInput, line)
	}
	return m, nil
}

// matchCategory finds a category by case-insensitive name.
func matchCategory(a budget.Amounts, name string) string {
	name = strings.TrimSpace(name)
	if a.Has(name) {
		return name
	}
	for _, c := range a.Categories() {
		if strings.EqualFold(c, name) {
			return c
		}
	}
	return ""
}
