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

func (a App) renderPlanTab(cw int) string {
	t := theme.Active
	snap := a.sess.Snapshot()
	cur := snap.Currency

	if snap.Step == budget.StepCollectIncome {
		return components.ContentCard("Suggested Budget Plan",
			lipgloss.NewStyle().Foreground(t.TextMuted).Render("Enter your monthly income to get a suggested plan."), cw)
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Monthly Income", Value: cli.FormatAmount(cur, snap.Totals.Income)},
		{Label: "Planned", Value: cli.FormatAmount(cur, snap.Suggested.Total())},
		{Label: budget.Savings, Value: cli.FormatAmount(cur, snap.Suggested.Amount(budget.Savings)), Color: t.Green},
	}, cw))
	b.WriteString("\n")

	if snap.Suggested.Len() == 0 {
		b.WriteString(components.ContentCard("Suggested Budget Plan",
			lipgloss.NewStyle().Foreground(t.TextMuted).Render("No budget categories left."), cw))
		return b.String()
	}

	inner := components.CardInnerWidth(cw)
	labelW := 0
	for _, c := range snap.Suggested.Categories() {
		labelW = max(labelW, lipgloss.Width(c))
	}

	amountStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	var rows []string
	for category, amount := range snap.Suggested.All() {
		spent := snap.Expenses.Amount(category)
		amt := amountStyle.Render(fmt.Sprintf("%14s", cli.FormatAmount(cur, amount)))
		barW := inner - labelW - lipgloss.Width(amt) - 9
		rows = append(rows, components.CategoryBar(category, components.Ratio(spent, amount), labelW, barW)+" "+amt)
	}

	b.WriteString(components.ContentCard("Suggested Budget Plan (spent vs. suggested)", strings.Join(rows, "\n"), cw))
	return b.String()
}
