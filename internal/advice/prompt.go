// Package advice asks an external text-generation service for budgeting
// recommendations.
package advice

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cbudget/internal/budget"
)

// promptTemplate takes the currency-formatted income, the expense list and
// the remaining income.
const promptTemplate = "User's income is %s, current expenses: %s, remaining income: %s. " +
	"Provide personalized budgeting advice, suggest adjustments for saving, and reducing unnecessary expenses."

// RenderPrompt turns a request into the prompt sent to the model.
func RenderPrompt(req budget.AdviceRequest) string {
	cur := req.Currency
	var parts []string
	for category, amount := range req.Expenses.All() {
		parts = append(parts, fmt.Sprintf("%s: %s%s", category, cur, amount.StringFixed(2)))
	}
	expenses := "none"
	if len(parts) > 0 {
		expenses = "{" + strings.Join(parts, ", ") + "}"
	}
	return fmt.Sprintf(promptTemplate,
		cur+req.Income.StringFixed(2),
		expenses,
		cur+req.RemainingIncome.StringFixed(2),
	)
}
