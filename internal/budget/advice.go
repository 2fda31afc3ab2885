package budget

import (
	"context"

	"github.com/shopspring/decimal"
)

// AdviceRequest is what the advice collaborator needs to write a
// recommendation.
type AdviceRequest struct {
	Income          decimal.Decimal
	Expenses        Amounts
	RemainingIncome decimal.Decimal
	Currency        string
}

// Advisor produces free-text budgeting advice. Implementations resolve their
// own credentials.
type Advisor interface {
	Advise(ctx context.Context, req AdviceRequest) (string, error)
}

// AdvisorFunc adapts a function to Advisor.
type AdvisorFunc func(ctx context.Context, req AdviceRequest) (string, error)

// Advise calls f.
func (f AdvisorFunc) Advise(ctx context.Context, req AdviceRequest) (string, error) {
	return f(ctx, req)
}
