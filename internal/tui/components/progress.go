package components

import (
	"fmt"

	"github.com/theirongolddev/cbudget/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Ratio returns spent/limit as a float. A zero limit with any spending
// counts as fully used.
func Ratio(spent, limit decimal.Decimal) float64 {
	if !limit.IsPositive() {
		if spent.IsPositive() {
			return 1
		}
		return 0
	}
	return spent.Div(limit).InexactFloat64()
}

// ColorForPct returns green/yellow/orange/red based on utilization level.
func ColorForPct(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct > 1:
		return t.Red
	case pct >= 0.9:
		return t.Orange
	case pct >= 0.7:
		return t.Yellow
	default:
		return t.Green
	}
}

// CategoryBar renders a labeled bar of how much of a category's suggested
// amount has been spent. The percentage is shown unclamped.
func CategoryBar(label string, pct float64, labelW, barWidth int) string {
	t := theme.Active

	color := ColorForPct(pct)
	fill := min(max(pct, 0), 1)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(max(barWidth, 4)),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	pctStyle := lipgloss.NewStyle().Foreground(color).Bold(true)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		" " +
		bar.ViewAs(fill) +
		" " +
		pctStyle.Render(fmt.Sprintf("%4.0f%%", pct*100))
}
