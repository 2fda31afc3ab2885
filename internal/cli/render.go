package cli

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cbudget/internal/budget"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	moneyStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	negativeStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	// Widths are measured in cells so currency symbols do not skew columns.
	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			widths[i] = max(widths[i], lipgloss.Width(h))
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols {
					widths[i] = max(widths[i], lipgloss.Width(cell))
				}
			}
		}
	}

	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	rule := func(left, mid, right string) {
		b.WriteString(dimStyle.Render(left))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render(mid))
			}
		}
		b.WriteString(dimStyle.Render(right))
		b.WriteString("\n")
	}

	rule("╭", "┬", "╮")

	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(" " + padRight(h, widths[i]) + " "))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
		rule("├", "┼", "┤")
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			rule("├", "┼", "┤")
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}

			// Right-align numeric columns (all except first)
			var padded string
			if i == 0 {
				padded = " " + padRight(cell, widths[i]) + " "
			} else {
				padded = " " + padLeft(cell, widths[i]) + " "
			}
			b.WriteString(valueStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	rule("╰", "┴", "╯")

	return b.String()
}

func padRight(s string, w int) string {
	if n := w - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func padLeft(s string, w int) string {
	if n := w - lipgloss.Width(s); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}

// AmountsTable builds a two-column table of categories and amounts.
func AmountsTable(title, currency string, a budget.Amounts) Table {
	t := Table{Title: title, Headers: []string{"Category", "Amount"}}
	for category, amount := range a.All() {
		t.Rows = append(t.Rows, []string{category, FormatAmount(currency, amount)})
	}
	if a.Len() > 1 {
		t.Rows = append(t.Rows, []string{"---"}, []string{"Total", FormatAmount(currency, a.Total())})
	}
	return t
}

// RenderPlan renders the suggested budget plan.
func RenderPlan(currency string, suggested budget.Amounts) string {
	if suggested.Len() == 0 {
		return mutedStyle.Render("  No budget categories left.") + "\n"
	}
	return RenderTable(AmountsTable("Suggested Budget Plan", currency, suggested))
}

// RenderExpenses renders recorded expenses, or a note when there are none.
func RenderExpenses(currency string, expenses budget.Amounts) string {
	if expenses.Len() == 0 {
		return "  " + headerStyle.Render("Extra Expenses You Added") + "\n" +
			mutedStyle.Render("  No additional expenses recorded.") + "\n"
	}
	return RenderTable(AmountsTable("Extra Expenses You Added", currency, expenses))
}

// RenderTotals renders income, total expenses and remaining income.
func RenderTotals(currency string, t budget.Totals) string {
	remaining := moneyStyle
	if t.RemainingIncome.IsNegative() {
		remaining = negativeStyle
	}
	var b strings.Builder
	fmt.Fprintf(&b, "  %s %s\n", mutedStyle.Render("Monthly Income:  "), moneyStyle.Render(FormatAmount(currency, t.Income)))
	fmt.Fprintf(&b, "  %s %s\n", mutedStyle.Render("Total Expenses:  "), valueStyle.Render(FormatAmount(currency, t.TotalExpenses)))
	fmt.Fprintf(&b, "  %s %s\n", mutedStyle.Render("Remaining Income:"), remaining.Render(FormatAmount(currency, t.RemainingIncome)))
	if bar := RenderUsageBar(t.TotalExpenses, t.Income, usageBarWidth); bar != "" {
		fmt.Fprintf(&b, "  %s %s\n", mutedStyle.Render("Income Spent:    "), bar)
	}
	return b.String()
}

// WarningText is the plain text of an overspend warning.
func WarningText(currency string, w budget.Warning) string {
	return fmt.Sprintf("Warning: You have exceeded the budget for %s! Suggested: %s, Actual: %s",
		w.Category, FormatAmount(currency, w.Suggested), FormatAmount(currency, w.Actual))
}

// RenderWarnings renders one line per overspent category.
func RenderWarnings(currency string, warnings []budget.Warning) string {
	var b strings.Builder
	for _, w := range warnings {
		b.WriteString("  ")
		b.WriteString(warnStyle.Render(WarningText(currency, w)))
		b.WriteString("\n")
	}
	return b.String()
}

const usageBarWidth = 20

// RenderUsageBar renders how much of income has been spent.
func RenderUsageBar(spent, income decimal.Decimal, width int) string {
	if !income.IsPositive() || width <= 0 {
		return ""
	}

	pct := spent.Div(income)
	clamped := decimal.Min(decimal.Max(pct, decimal.Zero), decimal.NewFromInt(1))
	filled := int(clamped.Mul(decimal.NewFromInt(int64(width))).IntPart())

	style := mutedStyle
	if pct.GreaterThan(decimal.NewFromInt(1)) {
		style = negativeStyle
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", style.Render(bar), FormatPercent(pct))
}
