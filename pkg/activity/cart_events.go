package activity

import (
	"strings"
	"time"
)

const (
	VerbItemAdded       = "cart.item.added"
	VerbItemUpdated     = "cart.item.updated"
	VerbItemRemoved     = "cart.item.removed"
	VerbItemsSet        = "cart.items.set"
	VerbCartEmptied     = "cart.emptied"
	VerbMetadataChanged = "cart.metadata.changed"

	ObjectTypeCart = "cart"
	ObjectTypeItem = "cart.item"
)

// CartEventInput describes the common fields for cart lifecycle events.
type CartEventInput struct {
	CartID           string
	ItemID           string
	Quantity         int
	CartTotal        float64
	TotalItems       int
	TotalUniqueItems int
	Metadata         map[string]any
	OccurredAt       time.Time
}

// BuildItemAddedEvent constructs an activity event for a newly added line item.
func BuildItemAddedEvent(input CartEventInput) Event {
	return buildItemEvent(VerbItemAdded, input)
}

// BuildItemUpdatedEvent constructs an activity event for a line item change.
func BuildItemUpdatedEvent(input CartEventInput) Event {
	return buildItemEvent(VerbItemUpdated, input)
}

// BuildItemRemovedEvent constructs an activity event for a removed line item.
func BuildItemRemovedEvent(input CartEventInput) Event {
	return buildItemEvent(VerbItemRemoved, input)
}

// BuildItemsSetEvent constructs an activity event for a bulk item replacement.
func BuildItemsSetEvent(input CartEventInput) Event {
	return buildCartEvent(VerbItemsSet, input)
}

// BuildCartEmptiedEvent constructs an activity event for an emptied cart.
func BuildCartEmptiedEvent(input CartEventInput) Event {
	return buildCartEvent(VerbCartEmptied, input)
}

// BuildMetadataChangedEvent constructs an activity event for metadata changes.
func BuildMetadataChangedEvent(input CartEventInput) Event {
	return buildCartEvent(VerbMetadataChanged, input)
}

func buildItemEvent(verb string, input CartEventInput) Event {
	event := buildCartEvent(verb, input)
	itemID := strings.TrimSpace(input.ItemID)
	if itemID == "" {
		return event
	}
	event.ObjectType = ObjectTypeItem
	event.ObjectID = itemID
	if input.Quantity != 0 {
		event.Metadata["quantity"] = input.Quantity
	}
	return event
}

func buildCartEvent(verb string, input CartEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}
	cartID := strings.TrimSpace(input.CartID)
	metadata["cart_id"] = cartID
	metadata["cart_total"] = input.CartTotal
	metadata["total_items"] = input.TotalItems
	metadata["total_unique_items"] = input.TotalUniqueItems

	objectID := cartID
	if objectID == "" {
		objectID = ObjectTypeCart
	}

	return Event{
		Verb:       verb,
		ObjectType: ObjectTypeCart,
		ObjectID:   objectID,
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}
