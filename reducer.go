package cart

import "maps"

// Reduce applies event to s and returns the next state. The second result is
// false when the event is not handled in the current state, in which case s is
// returned unchanged. Reduce never mutates s.
//
// Metadata events, UPDATE_ITEM, REMOVE_ITEM and EMPTY_CART are handled in every
// state. SET_ITEMS is handled only while empty. ADD_ITEM moves empty, filled
// and adding carts to adding, and SETTLE resolves adding to filled or empty.
func Reduce(s State, event Event) (State, bool) {
	switch ev := event.(type) {
	case nil:
		return s, false
	case ClearCartMetaEvent:
		next := s
		next.Metadata = map[string]any{}
		return next, true
	case SetCartMetaEvent:
		next := s
		next.Metadata = maps.Clone(ev.Metadata)
		if next.Metadata == nil {
			next.Metadata = map[string]any{}
		}
		return next, true
	case UpdateCartMetaEvent:
		next := s
		merged := make(map[string]any, len(s.Metadata)+len(ev.Metadata))
		maps.Copy(merged, s.Metadata)
		maps.Copy(merged, ev.Metadata)
		next.Metadata = merged
		return next, true
	case UpdateItemEvent:
		return reduceUpdate(s, ev)
	case RemoveItemEvent:
		return reduceRemove(s, ev)
	case EmptyCartEvent:
		next := derive(s, nil)
		next.Items = []Item{}
		next.Metadata = map[string]any{}
		next.Tag = TagEmpty
		return next, true
	}

	switch s.Tag {
	case TagEmpty:
		switch ev := event.(type) {
		case SetItemsEvent:
			next := derive(s, normalizeItems(ev.Items))
			next.Tag = settledTag(next.IsEmpty)
			return next, true
		case AddItemEvent:
			return reduceAdd(s, ev)
		}
	case TagFilled, TagAdding:
		if ev, ok := event.(AddItemEvent); ok {
			return reduceAdd(s, ev)
		}
		if _, ok := event.(SettleEvent); ok && s.Tag == TagAdding {
			next := s
			next.Tag = settledTag(s.IsEmpty)
			return next, true
		}
	}
	return s, false
}

func reduceAdd(s State, ev AddItemEvent) (State, bool) {
	if ev.Item.ID == "" {
		return s, false
	}
	item := ev.Item.clone()
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	items := make([]Item, len(s.Items), len(s.Items)+1)
	copy(items, s.Items)
	if idx := s.indexOf(item.ID); idx >= 0 {
		items[idx] = item
	} else {
		items = append(items, item)
	}
	next := derive(s, items)
	next.Tag = TagAdding
	return next, true
}

func reduceUpdate(s State, ev UpdateItemEvent) (State, bool) {
	idx := s.indexOf(ev.ID)
	if idx < 0 || ev.Patch.IsZero() {
		return s, false
	}
	items := make([]Item, len(s.Items))
	copy(items, s.Items)
	items[idx] = ev.Patch.apply(items[idx])
	return derive(s, items), true
}

func reduceRemove(s State, ev RemoveItemEvent) (State, bool) {
	idx := s.indexOf(ev.ID)
	if idx < 0 {
		return s, false
	}
	items := make([]Item, 0, len(s.Items)-1)
	items = append(items, s.Items[:idx]...)
	items = append(items, s.Items[idx+1:]...)
	next := derive(s, items)
	if s.Tag == TagFilled && next.IsEmpty {
		next.Tag = TagEmpty
	}
	return next, true
}

// normalizeItems drops items without an ID, defaults a zero quantity to one
// and collapses duplicate IDs: the first position wins, the last value wins.
func normalizeItems(items []Item) []Item {
	out := make([]Item, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		item = item.clone()
		if item.Quantity == 0 {
			item.Quantity = 1
		}
		if idx, ok := index[item.ID]; ok {
			out[idx] = item
			continue
		}
		index[item.ID] = len(out)
		out = append(out, item)
	}
	return out
}
