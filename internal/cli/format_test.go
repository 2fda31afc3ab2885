package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/theirongolddev/cbudget/internal/budget"

	"github.com/shopspring/decimal"
)

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "₹0.00"},
		{"250", "₹250.00"},
		{"1234.5", "₹1,234.50"},
		{"1234567.891", "₹1,234,567.89"},
		{"-200", "-₹200.00"},
	}
	for _, tc := range cases {
		if got := FormatAmount("₹", decimal.RequireFromString(tc.in)); got != tc.want {
			t.Fatalf("FormatAmount(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	cases := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
	}
	for in, want := range cases {
		if got := FormatNumber(in); got != want {
			t.Fatalf("FormatNumber(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(decimal.RequireFromString("0.3")); got != "30%" {
		t.Fatalf("FormatPercent(0.3) = %q, want 30%%", got)
	}
}

func TestParseAmount(t *testing.T) {
	ok := map[string]string{
		"1000":      "1000",
		" 250.75 ":  "250.75",
		"1,234.50":  "1234.5",
		"₹500":      "500",
		"$ 12":      "12",
		"-5":        "-5",
		"0":         "0",
		"1,000,000": "1000000",
	}
	for in, want := range ok {
		got, err := ParseAmount(in)
		if err != nil {
			t.Fatalf("ParseAmount(%q): %v", in, err)
		}
		if !got.Equal(decimal.RequireFromString(want)) {
			t.Fatalf("ParseAmount(%q) = %s, want %s", in, got, want)
		}
	}

	for _, in := range []string{"", "  ", "abc", "12abc", "1.2.3", "NaN", "Inf", "1e3"} {
		if _, err := ParseAmount(in); !errors.Is(err, ErrNotANumber) {
			t.Fatalf("ParseAmount(%q) err = %v, want ErrNotANumber", in, err)
		}
	}
}

func TestRenderPlanAndTotals(t *testing.T) {
	plan := budget.Derive(decimal.NewFromInt(1000))
	out := RenderPlan("₹", plan)
	for _, want := range []string{"Suggested Budget Plan", "Rent", "₹300.00", "Savings", "Total", "₹900.00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("RenderPlan missing %q:\n%s", want, out)
		}
	}

	totals := budget.Totals{
		Income:          decimal.NewFromInt(1000),
		TotalExpenses:   decimal.NewFromInt(1200),
		RemainingIncome: decimal.NewFromInt(-200),
	}
	out = RenderTotals("₹", totals)
	for _, want := range []string{"₹1,000.00", "₹1,200.00", "-₹200.00", "Income Spent:", strings.Repeat("█", usageBarWidth), "120%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("RenderTotals missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTotalsWithoutIncomeHasNoBar(t *testing.T) {
	out := RenderTotals("₹", budget.Totals{})
	if strings.Contains(out, "Income Spent:") {
		t.Fatalf("RenderTotals(zero income) drew a usage bar:\n%s", out)
	}
}

func TestRenderExpensesEmpty(t *testing.T) {
	out := RenderExpenses("₹", budget.Amounts{})
	if !strings.Contains(out, "No additional expenses recorded.") {
		t.Fatalf("RenderExpenses(empty) = %q", out)
	}
}

func TestWarningText(t *testing.T) {
	w := budget.Warning{Category: "Food", Suggested: decimal.NewFromInt(200), Actual: decimal.NewFromInt(250)}
	want := "Warning: You have exceeded the budget for Food! Suggested: ₹200.00, Actual: ₹250.00"
	if got := WarningText("₹", w); got != want {
		t.Fatalf("WarningText = %q, want %q", got, want)
	}
}

func TestRenderTableAlignsWideRunes(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Category", "Amount"},
		Rows:    [][]string{{"Rent", "₹300.00"}, {"Entertainment", "₹1,000.00"}},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	width := -1
	for _, l := range lines {
		w := len([]rune(l))
		if width == -1 {
			width = w
		}
		if w != width {
			t.Fatalf("ragged table, line %q has width %d, want %d\n%s", l, w, width, out)
		}
	}
}

func TestRenderUsageBar(t *testing.T) {
	if got := RenderUsageBar(decimal.NewFromInt(1), decimal.Zero, 10); got != "" {
		t.Fatalf("zero income bar = %q, want empty", got)
	}
	got := RenderUsageBar(decimal.NewFromInt(500), decimal.NewFromInt(1000), 10)
	if !strings.Contains(got, "█████░░░░░") || !strings.Contains(got, "50%") {
		t.Fatalf("half bar = %q", got)
	}
	got = RenderUsageBar(decimal.NewFromInt(1500), decimal.NewFromInt(1000), 4)
	if !strings.Contains(got, "████") || !strings.Contains(got, "150%") {
		t.Fatalf("overspent bar = %q", got)
	}
}
