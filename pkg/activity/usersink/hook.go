package usersink

import (
	"context"
	"strings"

	"github.com/goliatone/go-cart/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Data keys written on every record. Caller supplied metadata is kept
// alongside them under its own keys.
const (
	DataCartID           = "cart_id"
	DataItemID           = "item_id"
	DataCartTotal        = "cart_total"
	DataTotalItems       = "total_items"
	DataTotalUniqueItems = "total_unique_items"
	DataQuantity         = "quantity"
)

// Hook records cart activity in a go-users ActivitySink.
type Hook struct {
	Sink usertypes.ActivitySink
}

// Notify validates the cart event and logs it as an ActivityRecord. Invalid
// events are returned as activity.ErrInvalidEvent without reaching the sink.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}

	normalized := activity.NormalizeEvent(event)
	if err := normalized.Validate(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	return h.Sink.Log(ctx, usertypes.ActivityRecord{
		ActorID:    parseUUID(normalized.ActorID),
		UserID:     parseUUID(normalized.UserID),
		TenantID:   parseUUID(normalized.TenantID),
		Verb:       normalized.Verb,
		ObjectType: normalized.ObjectType,
		ObjectID:   normalized.ObjectID,
		Channel:    normalized.Channel,
		Data:       recordData(normalized),
		OccurredAt: normalized.OccurredAt,
	})
}

// recordData lays out the cart snapshot carried by an event. Totals default to
// zero so every record has the same shape.
func recordData(event activity.Event) map[string]any {
	data := make(map[string]any, len(event.Metadata)+6)
	for key, value := range event.Metadata {
		data[key] = value
	}
	data[DataCartID] = event.CartID()
	data[DataCartTotal] = floatValue(event.Metadata[DataCartTotal])
	data[DataTotalItems] = intValue(event.Metadata[DataTotalItems])
	data[DataTotalUniqueItems] = intValue(event.Metadata[DataTotalUniqueItems])
	if itemID := event.ItemID(); itemID != "" {
		data[DataItemID] = itemID
		data[DataQuantity] = intValue(event.Metadata[DataQuantity])
	}
	return data
}

func floatValue(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func intValue(value any) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func parseUUID(input string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return uuid.Nil
	}
	return id
}
