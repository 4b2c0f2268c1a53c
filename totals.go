package cart

// Totals holds the aggregate values derived from a list of items.
type Totals struct {
	TotalItems       int
	TotalUniqueItems int
	CartTotal        float64
	IsEmpty          bool
}

// WithItemTotals returns a copy of items with ItemTotal recomputed. The input
// slice is not modified.
func WithItemTotals(items []Item) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		item.ItemTotal = item.UnitPrice() * float64(item.Quantity)
		out[i] = item
	}
	return out
}

// Aggregate derives all cart totals in a single pass. Negative or zero
// quantities are not rejected here.
func Aggregate(items []Item) Totals {
	var totals Totals
	for _, item := range items {
		totals.TotalItems += item.Quantity
		totals.CartTotal += item.UnitPrice() * float64(item.Quantity)
	}
	totals.TotalUniqueItems = len(items)
	totals.IsEmpty = totals.TotalUniqueItems == 0
	return totals
}

// derive replaces the items of s and recomputes every derived field.
func derive(s State, items []Item) State {
	s.Items = WithItemTotals(items)
	totals := Aggregate(s.Items)
	s.TotalItems = totals.TotalItems
	s.TotalUniqueItems = totals.TotalUniqueItems
	s.CartTotal = totals.CartTotal
	s.IsEmpty = totals.IsEmpty
	return s
}
