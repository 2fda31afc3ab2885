package budget

import (
	"slices"
	"testing"
)

func TestAmountsKeepsInsertionOrder(t *testing.T) {
	a := NewAmounts(Entry{"b", d("1")}, Entry{"a", d("2")}, Entry{"c", d("3")})
	a.Set("a", d("5"))
	a.Delete("b")
	a.Set("b", d("1"))

	if got := a.Categories(); !slices.Equal(got, []string{"a", "c", "b"}) {
		t.Fatalf("Categories = %v, want [a c b]", got)
	}
	if !a.Total().Equal(d("9")) {
		t.Fatalf("Total = %s, want 9", a.Total())
	}
}

func TestAmountsCloneIsIndependent(t *testing.T) {
	a := NewAmounts(Entry{"x", d("1")})
	b := a.Clone()
	b.Set("x", d("2"))
	b.Set("y", d("3"))

	if v := a.Amount("x"); !v.Equal(d("1")) || a.Has("y") {
		t.Fatalf("original changed: %v", a.Entries())
	}
	if a.Equal(b) {
		t.Fatal("Equal = true for different mappings")
	}
	if !b.Equal(NewAmounts(Entry{"y", d("3")}, Entry{"x", d("2")})) {
		t.Fatal("Equal should ignore order")
	}
}

func TestAmountsZeroValue(t *testing.T) {
	var a Amounts
	if a.Len() != 0 || a.Has("x") || !a.Total().IsZero() {
		t.Fatal("zero value not empty")
	}
	a.Delete("x")
	a.Set("x", d("1"))
	if a.Len() != 1 {
		t.Fatalf("Len = %d, want 1", a.Len())
	}
}
