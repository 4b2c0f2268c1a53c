package cart

import "testing"

func TestAggregateDerivesAllTotals(t *testing.T) {
	items := []Item{priced("a", 10, 2), priced("b", 5, 1)}

	totals := Aggregate(items)
	if totals.TotalItems != 3 {
		t.Fatalf("expected 3 total items, got %d", totals.TotalItems)
	}
	if totals.TotalUniqueItems != 2 {
		t.Fatalf("expected 2 unique items, got %d", totals.TotalUniqueItems)
	}
	if totals.CartTotal != 25 {
		t.Fatalf("expected cart total 25, got %v", totals.CartTotal)
	}
	if totals.IsEmpty {
		t.Fatalf("expected non-empty totals")
	}
}

func TestAggregateEmptyList(t *testing.T) {
	totals := Aggregate(nil)
	if !totals.IsEmpty || totals.TotalItems != 0 || totals.CartTotal != 0 {
		t.Fatalf("unexpected totals for empty list: %+v", totals)
	}
}

func TestAggregateMissingPriceCountsAsZero(t *testing.T) {
	items := []Item{{ID: "free", Quantity: 4}, priced("b", 2.5, 2)}
	totals := Aggregate(items)
	if totals.CartTotal != 5 {
		t.Fatalf("expected cart total 5, got %v", totals.CartTotal)
	}
	if totals.TotalItems != 6 {
		t.Fatalf("expected 6 total items, got %d", totals.TotalItems)
	}
}

func TestWithItemTotalsDoesNotMutateInput(t *testing.T) {
	items := []Item{priced("a", 10, 2), priced("b", 5, 1)}

	out := WithItemTotals(items)
	if out[0].ItemTotal != 20 || out[1].ItemTotal != 5 {
		t.Fatalf("unexpected item totals: %v %v", out[0].ItemTotal, out[1].ItemTotal)
	}
	if items[0].ItemTotal != 0 {
		t.Fatalf("expected input left untouched, got %v", items[0].ItemTotal)
	}
}

func TestWithItemTotalsOverwritesStaleValues(t *testing.T) {
	stale := priced("a", 3, 3)
	stale.ItemTotal = 1000
	out := WithItemTotals([]Item{stale})
	if out[0].ItemTotal != 9 {
		t.Fatalf("expected recomputed item total 9, got %v", out[0].ItemTotal)
	}
}
