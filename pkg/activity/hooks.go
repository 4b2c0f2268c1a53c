package activity

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"
)

// VerbPrefix namespaces every verb this package emits.
const VerbPrefix = "cart."

// ErrInvalidEvent is returned when an event cannot describe a cart change.
var ErrInvalidEvent = errors.New("activity: invalid cart event")

// Event is a single cart change as seen by activity hooks. The cart totals
// after the change travel in Metadata under cart_id, cart_total, total_items
// and total_unique_items.
type Event struct {
	Verb       string
	ActorID    string
	UserID     string
	TenantID   string
	ObjectType string
	ObjectID   string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// Validate reports whether the event names a cart verb and a cart or line item
// object. Failures wrap ErrInvalidEvent.
func (e Event) Validate() error {
	switch {
	case !strings.HasPrefix(e.Verb, VerbPrefix) || len(e.Verb) == len(VerbPrefix):
		return fmt.Errorf("%w: verb %q", ErrInvalidEvent, e.Verb)
	case e.ObjectType != ObjectTypeCart && e.ObjectType != ObjectTypeItem:
		return fmt.Errorf("%w: object type %q", ErrInvalidEvent, e.ObjectType)
	case e.ObjectID == "":
		return fmt.Errorf("%w: %s without object id", ErrInvalidEvent, e.Verb)
	}
	return nil
}

// CartID returns the cart the event belongs to. Item events carry it only in
// metadata; cart events fall back to ObjectID.
func (e Event) CartID() string {
	if id, ok := e.Metadata["cart_id"].(string); ok && id != "" {
		return id
	}
	if e.ObjectType == ObjectTypeCart && e.ObjectID != ObjectTypeCart {
		return e.ObjectID
	}
	return ""
}

// ItemID returns the line item an item event targets.
func (e Event) ItemID() string {
	if e.ObjectType != ObjectTypeItem {
		return ""
	}
	return e.ObjectID
}

// ActivityHook receives normalized cart events.
type ActivityHook interface {
	Notify(ctx context.Context, event Event) error
}

// HookFunc allows plain functions to satisfy ActivityHook.
type HookFunc func(ctx context.Context, event Event) error

// Notify dispatches to the underlying function.
func (fn HookFunc) Notify(ctx context.Context, event Event) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, event)
}

// Hooks fans out events to zero or more hooks.
type Hooks []ActivityHook

// Enabled reports whether there are any hooks to notify.
func (h Hooks) Enabled() bool {
	return len(h) > 0
}

// Notify normalizes the event and forwards it to every hook. Events that fail
// Validate reach no hook and the validation error is returned. Hook failures
// are joined.
func (h Hooks) Notify(ctx context.Context, event Event) error {
	if len(h) == 0 {
		return nil
	}

	normalized := NormalizeEvent(event)
	if err := normalized.Validate(); err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var errs []error
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, normalized); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NormalizeEvent trims identifiers, lowercases the verb, defaults the channel
// to DefaultChannel and stamps OccurredAt. Metadata is copied so hooks cannot
// mutate the emitter's map.
func NormalizeEvent(event Event) Event {
	normalized := event
	normalized.Verb = strings.ToLower(strings.TrimSpace(event.Verb))
	normalized.ActorID = strings.TrimSpace(event.ActorID)
	normalized.UserID = strings.TrimSpace(event.UserID)
	normalized.TenantID = strings.TrimSpace(event.TenantID)
	normalized.ObjectType = strings.TrimSpace(event.ObjectType)
	normalized.ObjectID = strings.TrimSpace(event.ObjectID)
	normalized.Channel = strings.TrimSpace(event.Channel)
	if normalized.Channel == "" {
		normalized.Channel = DefaultChannel
	}
	normalized.Metadata = cloneMap(event.Metadata)
	if normalized.OccurredAt.IsZero() {
		normalized.OccurredAt = time.Now()
	}
	return normalized
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	return maps.Clone(src)
}
