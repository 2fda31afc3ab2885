package budget

import (
	"fmt"
	"strings"
)

// Step is the position of a session in the income → expenses → summary flow.
type Step int

const (
	StepCollectIncome Step = iota
	StepCollectExpenses
	StepFinalSummary
)

func (s Step) String() string {
	switch s {
	case StepCollectIncome:
		return "collect-income"
	case StepCollectExpenses:
		return "collect-expenses"
	case StepFinalSummary:
		return "final-summary"
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// DoneToken ends expense collection when typed as a category.
const DoneToken = "done"

// IsDone reports whether input is the completion token, ignoring case and
// surrounding space.
func IsDone(input string) bool {
	return strings.EqualFold(strings.TrimSpace(input), DoneToken)
}
