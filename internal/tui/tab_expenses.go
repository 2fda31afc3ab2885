package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cbudget/internal/budget"
	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/tui/components"
	"github.com/theirongolddev/cbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderExpensesTab(cw int) string {
	t := theme.Active
	snap := a.sess.Snapshot()
	cur := snap.Currency
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)

	if snap.Step == budget.StepCollectIncome {
		return components.ContentCard("Extra Expenses You Added", muted.Render("Enter your monthly income first."), cw)
	}

	remainingColor := t.Green
	if snap.Totals.RemainingIncome.IsNegative() {
		remainingColor = t.Red
	}
	used := components.Ratio(snap.Totals.TotalExpenses, snap.Totals.Income)

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Monthly Income", Value: cli.FormatAmount(cur, snap.Totals.Income)},
		{Label: "Total Expenses", Value: cli.FormatAmount(cur, snap.Totals.TotalExpenses), Color: components.ColorForPct(used)},
		{Label: "Remaining Income", Value: cli.FormatAmount(cur, snap.Totals.RemainingIncome), Color: remainingColor},
	}, cw))
	b.WriteString("\n")

	var body string
	if snap.Expenses.Len() == 0 {
		body = muted.Render("No additional expenses recorded.")
	} else {
		nameW := 0
		for _, c := range snap.Expenses.Categories() {
			nameW = max(nameW, lipgloss.Width(c))
		}
		var rows []string
		for category, amount := range snap.Expenses.All() {
			rows = append(rows, fmt.Sprintf("%-*s  %14s", nameW, category, cli.FormatAmount(cur, amount)))
		}
		body = strings.Join(rows, "\n")
	}
	b.WriteString(components.ContentCard("Extra Expenses You Added", body, cw))

	if len(snap.Warnings) > 0 {
		warn := lipgloss.NewStyle().Foreground(t.Orange)
		var lines []string
		for _, w := range snap.Warnings {
			lines = append(lines, warn.Render(cli.WarningText(cur, w)))
		}
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Over Budget", strings.Join(lines, "\n"), cw))
	}
	return b.String()
}
