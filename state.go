package cart

import "maps"

// StateTag names the machine state a cart is in.
type StateTag string

const (
	TagEmpty  StateTag = "empty"
	TagAdding StateTag = "adding"
	TagFilled StateTag = "filled"
	// TagCheckingOut is reserved; no event transitions into it.
	TagCheckingOut StateTag = "checkingOut"
)

func (t StateTag) String() string {
	return string(t)
}

// Transient reports whether the tag resolves on its own after a delay.
func (t StateTag) Transient() bool {
	return t == TagAdding
}

// Valid reports whether t is one of the known tags.
func (t StateTag) Valid() bool {
	switch t {
	case TagEmpty, TagAdding, TagFilled, TagCheckingOut:
		return true
	default:
		return false
	}
}

func settledTag(isEmpty bool) StateTag {
	if isEmpty {
		return TagEmpty
	}
	return TagFilled
}

// State is a full cart snapshot. Values returned by Cart are detached copies
// and safe to retain or serialize.
type State struct {
	ID               string         `json:"id"`
	Items            []Item         `json:"items"`
	IsEmpty          bool           `json:"isEmpty"`
	TotalItems       int            `json:"totalItems"`
	TotalUniqueItems int            `json:"totalUniqueItems"`
	CartTotal        float64        `json:"cartTotal"`
	Metadata         map[string]any `json:"metadata"`
	Tag              StateTag       `json:"state"`
}

// NewState returns the initial empty state for id.
func NewState(id string) State {
	return State{
		ID:       id,
		Items:    []Item{},
		IsEmpty:  true,
		Metadata: map[string]any{},
		Tag:      TagEmpty,
	}
}

// Clone returns a deep copy of the item list and a shallow copy of metadata.
func (s State) Clone() State {
	out := s
	out.Items = make([]Item, len(s.Items))
	for i, item := range s.Items {
		out.Items[i] = item.clone()
	}
	out.Metadata = maps.Clone(s.Metadata)
	if out.Metadata == nil {
		out.Metadata = map[string]any{}
	}
	return out
}

// Item returns the item with id.
func (s State) Item(id string) (Item, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Item{}, false
	}
	return s.Items[idx].clone(), true
}

func (s State) indexOf(id string) int {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Map renders the snapshot as plain maps and slices, the shape rule
// evaluators bind as variables.
func (s State) Map() map[string]any {
	items := make([]any, len(s.Items))
	for i, item := range s.Items {
		entry := make(map[string]any, len(item.Fields)+4)
		for key, value := range item.Fields {
			entry[key] = value
		}
		entry["id"] = item.ID
		entry["price"] = item.UnitPrice()
		entry["quantity"] = item.Quantity
		entry["itemTotal"] = item.ItemTotal
		items[i] = entry
	}
	metadata := maps.Clone(s.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}
	return map[string]any{
		"id":               s.ID,
		"items":            items,
		"isEmpty":          s.IsEmpty,
		"totalItems":       s.TotalItems,
		"totalUniqueItems": s.TotalUniqueItems,
		"cartTotal":        s.CartTotal,
		"metadata":         metadata,
		"state":            string(s.Tag),
	}
}
