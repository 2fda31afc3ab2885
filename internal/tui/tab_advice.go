package tui

import (
	"github.com/theirongolddev/cbudget/internal/budget"
	"github.com/theirongolddev/cbudget/internal/tui/components"
	"github.com/theirongolddev/cbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderAdviceTab(cw int) string {
	t := theme.Active
	inner := components.CardInnerWidth(cw)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Width(inner)

	var body string
	switch {
	case a.sess.Step() != budget.StepFinalSummary:
		body = muted.Render("Advice is available once you finish adding expenses (press d).")
	case a.advisor == nil:
		body = muted.Render("Advice is turned off.")
	case a.advising:
		body = a.spinner.View() + muted.Render(" Fetching budgeting advice...")
	case a.adviceErr != nil:
		errStyle := lipgloss.NewStyle().Foreground(t.Red).Bold(true)
		detail := lipgloss.NewStyle().Foreground(t.TextDim).Width(inner)
		body = errStyle.Render(a.adviceErr.Message()) + "\n" +
			detail.Render(a.adviceErr.Detail()) + "\n\n" +
			muted.Render("Press r to try again.")
	case a.advice == "":
		body = muted.Render("Press r to ask for advice.")
	default:
		body = text.Render(a.advice)
	}

	return components.ContentCard("Budgeting Advice", body, cw, a.advising)
}
