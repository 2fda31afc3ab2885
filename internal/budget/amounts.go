// Package budget holds the budgeting core: the suggested allocation, the
// recorded expenses and the rules that keep them consistent.
package budget

import (
	"iter"
	"slices"

	"github.com/shopspring/decimal"
)

// Entry is a single category and its amount.
type Entry struct {
	Category string
	Amount   decimal.Decimal
}

// Amounts is an insertion-ordered mapping of category name to amount.
// The zero value is an empty mapping. Amounts shares storage when copied by
// value; use Clone before mutating a mapping someone else holds.
type Amounts struct {
	order  []string
	values map[string]decimal.Decimal
}

// NewAmounts builds a mapping from entries. A repeated category keeps its
// first position and its last amount.
func NewAmounts(entries ...Entry) Amounts {
	var a Amounts
	for _, e := range entries {
		a.Set(e.Category, e.Amount)
	}
	return a
}

// Len returns the number of categories.
func (a Amounts) Len() int {
	return len(a.order)
}

// Has reports whether category is present.
func (a Amounts) Has(category string) bool {
	_, ok := a.values[category]
	return ok
}

// Get returns the amount for category.
func (a Amounts) Get(category string) (decimal.Decimal, bool) {
	v, ok := a.values[category]
	return v, ok
}

// Amount returns the amount for category, or zero when absent.
func (a Amounts) Amount(category string) decimal.Decimal {
	return a.values[category]
}

// Total sums every amount.
func (a Amounts) Total() decimal.Decimal {
	total := decimal.Zero
	for _, c := range a.order {
		total = total.Add(a.values[c])
	}
	return total
}

// Categories returns the category names in insertion order.
func (a Amounts) Categories() []string {
	return slices.Clone(a.order)
}

// Entries returns a copy of the mapping as an ordered slice.
func (a Amounts) Entries() []Entry {
	out := make([]Entry, 0, len(a.order))
	for _, c := range a.order {
		out = append(out, Entry{Category: c, Amount: a.values[c]})
	}
	return out
}

// All iterates categories and amounts in insertion order.
func (a Amounts) All() iter.Seq2[string, decimal.Decimal] {
	return func(yield func(string, decimal.Decimal) bool) {
		for _, c := range a.order {
			if !yield(c, a.values[c]) {
				return
			}
		}
	}
}

// Clone returns an independent copy.
func (a Amounts) Clone() Amounts {
	out := Amounts{
		order:  slices.Clone(a.order),
		values: make(map[string]decimal.Decimal, len(a.values)),
	}
	for k, v := range a.values {
		out.values[k] = v
	}
	return out
}

// Equal reports whether both mappings hold the same categories with equal
// amounts. Order is ignored.
func (a Amounts) Equal(b Amounts) bool {
	if a.Len() != b.Len() {
		return false
	}
	for c, v := range a.values {
		w, ok := b.values[c]
		if !ok || !v.Equal(w) {
			return false
		}
	}
	return true
}

// Set stores amount under category, appending new categories at the end.
func (a *Amounts) Set(category string, amount decimal.Decimal) {
	if a.values == nil {
		a.values = make(map[string]decimal.Decimal)
	}
	if _, ok := a.values[category]; !ok {
		a.order = append(a.order, category)
	}
	a.values[category] = amount
}

// Delete removes category if present.
func (a *Amounts) Delete(category string) {
	if _, ok := a.values[category]; !ok {
		return
	}
	delete(a.values, category)
	a.order = slices.DeleteFunc(a.order, func(c string) bool { return c == category })
}
