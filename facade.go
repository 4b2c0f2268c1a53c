package cart

import (
	"context"
	"maps"
	"time"

	"github.com/goliatone/go-cart/pkg/activity"
)

// AddItem adds quantity units of item. When an item with the same ID is already
// present its quantity is incremented and the other fields of item are merged
// into it. A quantity of zero or less is ignored.
func (c *Cart) AddItem(item Item, quantity int) error {
	if item.ID == "" {
		return &ValidationError{Op: "add", Field: "id", Message: "is required"}
	}
	if quantity <= 0 {
		return nil
	}

	c.mu.Lock()
	if current, ok := c.state.Item(item.ID); ok {
		patch := ItemPatch{
			Price:    item.Price,
			Quantity: Quantity(current.Quantity + quantity),
			Fields:   item.Fields,
		}
		c.updateLocked(item.ID, patch)
		c.mu.Unlock()
		c.drain()
		return nil
	}
	if item.Price == nil {
		c.mu.Unlock()
		return &ValidationError{Op: "add", Field: "price", Message: "is required for new items"}
	}

	added := item.clone()
	added.Quantity = quantity
	if next, ok := c.apply(AddItemEvent{Item: added}); ok {
		committed, _ := next.Item(added.ID)
		if fn := c.cfg.onItemAdd; fn != nil {
			c.enqueue(func() { fn(committed) })
		}
		c.emit(activity.BuildItemAddedEvent, next, committed.ID, committed.Quantity, nil)
	}
	c.mu.Unlock()
	c.drain()
	return nil
}

// UpdateItem merges patch into the item with id. Unknown IDs and empty patches
// are ignored.
func (c *Cart) UpdateItem(id string, patch ItemPatch) {
	if id == "" || patch.IsZero() {
		return
	}
	c.mu.Lock()
	c.updateLocked(id, patch)
	c.mu.Unlock()
	c.drain()
}

// UpdateItemQuantity sets the quantity of the item with id. A quantity of zero
// or less removes the item; a positive quantity for an unknown or empty id
// returns a NotFoundError.
func (c *Cart) UpdateItemQuantity(id string, quantity int) error {
	if quantity <= 0 {
		c.RemoveItem(id)
		return nil
	}

	c.mu.Lock()
	if c.state.indexOf(id) < 0 {
		c.mu.Unlock()
		return &NotFoundError{Op: "update quantity", ID: id}
	}
	c.updateLocked(id, ItemPatch{Quantity: Quantity(quantity)})
	c.mu.Unlock()
	c.drain()
	return nil
}

// RemoveItem drops the item with id. Unknown IDs are ignored.
func (c *Cart) RemoveItem(id string) {
	if id == "" {
		return
	}
	c.mu.Lock()
	if next, ok := c.apply(RemoveItemEvent{ID: id}); ok {
		if fn := c.cfg.onItemRemove; fn != nil {
			c.enqueue(func() { fn(id) })
		}
		c.emit(activity.BuildItemRemovedEvent, next, id, 0, nil)
	}
	c.mu.Unlock()
	c.drain()
}

// SetItems replaces the item list. It is only accepted while the cart is
// empty; otherwise the call is ignored.
func (c *Cart) SetItems(items []Item) {
	c.mu.Lock()
	if next, ok := c.apply(SetItemsEvent{Items: items}); ok {
		committed := next.Clone().Items
		if fn := c.cfg.onSetItems; fn != nil {
			c.enqueue(func() { fn(committed) })
		}
		c.emit(activity.BuildItemsSetEvent, next, "", 0, nil)
	}
	c.mu.Unlock()
	c.drain()
}

// EmptyCart removes every item and resets metadata.
func (c *Cart) EmptyCart() {
	c.mu.Lock()
	if next, ok := c.apply(EmptyCartEvent{}); ok {
		c.emit(activity.BuildCartEmptiedEvent, next, "", 0, nil)
	}
	c.mu.Unlock()
	c.drain()
}

// GetItem returns a copy of the item with id.
func (c *Cart) GetItem(id string) (Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Item(id)
}

// InCart reports whether an item with id is present.
func (c *Cart) InCart(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.indexOf(id) >= 0
}

// ClearCartMetadata resets metadata to an empty mapping.
func (c *Cart) ClearCartMetadata() {
	c.metadataEvent(ClearCartMetaEvent{})
}

// SetCartMetadata replaces metadata. A nil map is ignored; an empty map clears.
func (c *Cart) SetCartMetadata(metadata map[string]any) {
	if metadata == nil {
		return
	}
	c.metadataEvent(SetCartMetaEvent{Metadata: metadata})
}

// UpdateCartMetadata shallow-merges metadata into the current mapping. A nil
// map is ignored.
func (c *Cart) UpdateCartMetadata(metadata map[string]any) {
	if metadata == nil {
		return
	}
	c.metadataEvent(UpdateCartMetaEvent{Metadata: metadata})
}

func (c *Cart) metadataEvent(event Event) {
	c.mu.Lock()
	if next, ok := c.apply(event); ok {
		c.emit(activity.BuildMetadataChangedEvent, next, "", 0, map[string]any{
			"metadata": maps.Clone(next.Metadata),
		})
	}
	c.mu.Unlock()
	c.drain()
}

// updateLocked applies an UPDATE_ITEM and queues its callbacks. Callers hold
// c.mu.
func (c *Cart) updateLocked(id string, patch ItemPatch) {
	next, ok := c.apply(UpdateItemEvent{ID: id, Patch: patch})
	if !ok {
		return
	}
	committed, _ := next.Item(id)
	if fn := c.cfg.onItemUpdate; fn != nil {
		c.enqueue(func() { fn(committed) })
	}
	c.emit(activity.BuildItemUpdatedEvent, next, id, committed.Quantity, nil)
}

// emit queues an activity event built from the committed state. Callers hold
// c.mu.
func (c *Cart) emit(build func(activity.CartEventInput) activity.Event, state State, itemID string, quantity int, extra map[string]any) {
	if !c.emitter.Enabled() {
		return
	}
	event := build(activity.CartEventInput{
		CartID:           state.ID,
		ItemID:           itemID,
		Quantity:         quantity,
		CartTotal:        state.CartTotal,
		TotalItems:       state.TotalItems,
		TotalUniqueItems: state.TotalUniqueItems,
		Metadata:         extra,
		OccurredAt:       time.Now(),
	})
	emitter, logger, cartID := c.emitter, c.cfg.logger, state.ID
	c.enqueue(func() {
		if err := emitter.Emit(context.Background(), event); err != nil {
			logger.Log(LogEvent{Kind: LogKindHook, CartID: cartID, Err: err})
		}
	})
}
