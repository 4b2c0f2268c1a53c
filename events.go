package cart

// EventType identifies an Event variant.
type EventType string

const (
	EventSetItems       EventType = "SET_ITEMS"
	EventAddItem        EventType = "ADD_ITEM"
	EventRemoveItem     EventType = "REMOVE_ITEM"
	EventUpdateItem     EventType = "UPDATE_ITEM"
	EventEmptyCart      EventType = "EMPTY_CART"
	EventClearCartMeta  EventType = "CLEAR_CART_META"
	EventSetCartMeta    EventType = "SET_CART_META"
	EventUpdateCartMeta EventType = "UPDATE_CART_META"
	EventSettle         EventType = "SETTLE"
)

// Event is a request to transition the cart. The concrete types below are the
// only implementations.
type Event interface {
	Type() EventType
}

// SetItemsEvent replaces the item list wholesale.
type SetItemsEvent struct {
	Items []Item
}

// AddItemEvent appends an item.
type AddItemEvent struct {
	Item Item
}

// RemoveItemEvent drops the item with ID.
type RemoveItemEvent struct {
	ID string
}

// UpdateItemEvent merges Patch into the item with ID.
type UpdateItemEvent struct {
	ID    string
	Patch ItemPatch
}

// EmptyCartEvent resets items and metadata.
type EmptyCartEvent struct{}

// ClearCartMetaEvent resets metadata to an empty mapping.
type ClearCartMetaEvent struct{}

// SetCartMetaEvent replaces metadata.
type SetCartMetaEvent struct {
	Metadata map[string]any
}

// UpdateCartMetaEvent shallow-merges into metadata.
type UpdateCartMetaEvent struct {
	Metadata map[string]any
}

// SettleEvent resolves the transient adding state. The cart dispatches it from
// its settle timer.
type SettleEvent struct{}

func (SetItemsEvent) Type() EventType       { return EventSetItems }
func (AddItemEvent) Type() EventType        { return EventAddItem }
func (RemoveItemEvent) Type() EventType     { return EventRemoveItem }
func (UpdateItemEvent) Type() EventType     { return EventUpdateItem }
func (EmptyCartEvent) Type() EventType      { return EventEmptyCart }
func (ClearCartMetaEvent) Type() EventType  { return EventClearCartMeta }
func (SetCartMetaEvent) Type() EventType    { return EventSetCartMeta }
func (UpdateCartMetaEvent) Type() EventType { return EventUpdateCartMeta }
func (SettleEvent) Type() EventType         { return EventSettle }
