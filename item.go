package cart

import (
	"bytes"
	"encoding/json"
	"maps"
)

// Item is one cart line. ID is the identity key; Price and Quantity feed the
// totals, ItemTotal is derived, and Fields carries opaque extension data.
type Item struct {
	ID        string
	Price     *float64
	Quantity  int
	ItemTotal float64
	Fields    map[string]any
}

// Price returns a pointer to v for use in Item literals.
func Price(v float64) *float64 {
	return &v
}

// UnitPrice returns the item price, treating a missing price as zero.
func (i Item) UnitPrice() float64 {
	if i.Price == nil {
		return 0
	}
	return *i.Price
}

// Field returns an extension field value.
func (i Item) Field(key string) (any, bool) {
	value, ok := i.Fields[key]
	return value, ok
}

func (i Item) clone() Item {
	out := i
	if i.Price != nil {
		out.Price = Price(*i.Price)
	}
	out.Fields = cloneFields(i.Fields)
	return out
}

var reservedItemKeys = map[string]struct{}{
	"id":        {},
	"price":     {},
	"quantity":  {},
	"itemTotal": {},
}

// MarshalJSON flattens Fields next to the known keys so persisted items keep a
// single flat object shape.
func (i Item) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(i.Fields)+4)
	for key, value := range i.Fields {
		if _, reserved := reservedItemKeys[key]; reserved {
			continue
		}
		out[key] = value
	}
	out["id"] = i.ID
	if i.Price != nil {
		out["price"] = *i.Price
	}
	out["quantity"] = i.Quantity
	out["itemTotal"] = i.ItemTotal
	return json.Marshal(out)
}

// UnmarshalJSON reads the known keys and collects everything else in Fields.
func (i *Item) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out Item
	if value, ok := raw["id"]; ok {
		if err := json.Unmarshal(value, &out.ID); err != nil {
			return err
		}
	}
	if value, ok := raw["price"]; ok && string(value) != "null" {
		var price float64
		if err := json.Unmarshal(value, &price); err != nil {
			return err
		}
		out.Price = &price
	}
	if value, ok := raw["quantity"]; ok {
		if err := json.Unmarshal(value, &out.Quantity); err != nil {
			return err
		}
	}
	if value, ok := raw["itemTotal"]; ok {
		if err := json.Unmarshal(value, &out.ItemTotal); err != nil {
			return err
		}
	}
	for key, value := range raw {
		if _, reserved := reservedItemKeys[key]; reserved {
			continue
		}
		decoder := json.NewDecoder(bytes.NewReader(value))
		decoder.UseNumber()
		var decoded any
		if err := decoder.Decode(&decoded); err != nil {
			return err
		}
		if out.Fields == nil {
			out.Fields = map[string]any{}
		}
		out.Fields[key] = restoreNumbers(decoded)
	}
	*i = out
	return nil
}

// ItemPatch is a shallow update for an existing item. Nil fields are left
// untouched; Fields entries are merged key by key. The item ID cannot change.
type ItemPatch struct {
	Price    *float64
	Quantity *int
	Fields   map[string]any
}

// Quantity returns a pointer to n for use in ItemPatch literals.
func Quantity(n int) *int {
	return &n
}

// IsZero reports whether the patch carries no changes.
func (p ItemPatch) IsZero() bool {
	return p.Price == nil && p.Quantity == nil && len(p.Fields) == 0
}

func (p ItemPatch) apply(item Item) Item {
	out := item
	if p.Price != nil {
		out.Price = Price(*p.Price)
	}
	if p.Quantity != nil {
		out.Quantity = *p.Quantity
	}
	if len(p.Fields) > 0 {
		merged := make(map[string]any, len(item.Fields)+len(p.Fields))
		maps.Copy(merged, item.Fields)
		maps.Copy(merged, p.Fields)
		out.Fields = merged
	}
	return out
}

func cloneFields(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	return maps.Clone(src)
}
