package usersink_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/goliatone/go-cart/pkg/activity"
	"github.com/goliatone/go-cart/pkg/activity/usersink"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookNotifyMapsCartEvent(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	actorID := uuid.New()
	userID := uuid.New()

	event := activity.BuildItemAddedEvent(activity.CartEventInput{
		CartID:     "c1",
		ItemID:     "sku-1",
		Quantity:   2,
		CartTotal:  20,
		OccurredAt: now,
	})
	event.ActorID = actorID.String()
	event.UserID = userID.String()
	event.TenantID = "not-a-uuid"
	event.Channel = "cart"

	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.ActorID != actorID || record.UserID != userID {
		t.Fatalf("unexpected identity fields: %+v", record)
	}
	if record.TenantID != uuid.Nil {
		t.Fatalf("expected invalid tenant to map to uuid.Nil, got %s", record.TenantID)
	}
	if record.Verb != activity.VerbItemAdded || record.ObjectType != activity.ObjectTypeItem || record.ObjectID != "sku-1" {
		t.Fatalf("unexpected record payload: %+v", record)
	}
	if record.Channel != "cart" {
		t.Fatalf("expected channel cart got %q", record.Channel)
	}
	if !record.OccurredAt.Equal(now) {
		t.Fatalf("expected occurred_at %v got %v", now, record.OccurredAt)
	}
	want := map[string]any{
		usersink.DataCartID:           "c1",
		usersink.DataItemID:           "sku-1",
		usersink.DataQuantity:         2,
		usersink.DataCartTotal:        20.0,
		usersink.DataTotalItems:       0,
		usersink.DataTotalUniqueItems: 0,
	}
	if !reflect.DeepEqual(want, record.Data) {
		t.Fatalf("unexpected record data:\nwant: %+v\n got: %+v", want, record.Data)
	}
}

func TestHookNotifyCartEventOmitsItemKeys(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	event := activity.BuildMetadataChangedEvent(activity.CartEventInput{
		CartID:           "c1",
		CartTotal:        12.5,
		TotalItems:       3,
		TotalUniqueItems: 2,
		Metadata:         map[string]any{"coupon": "SPRING"},
	})
	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}

	data := sink.records[0].Data
	if data[usersink.DataCartTotal] != 12.5 || data[usersink.DataTotalItems] != 3 || data[usersink.DataTotalUniqueItems] != 2 {
		t.Fatalf("expected cart totals in data, got %+v", data)
	}
	if data["coupon"] != "SPRING" {
		t.Fatalf("expected caller metadata kept, got %+v", data)
	}
	if _, ok := data[usersink.DataItemID]; ok {
		t.Fatalf("expected no item id on cart event, got %+v", data)
	}
	if _, ok := data[usersink.DataQuantity]; ok {
		t.Fatalf("expected no quantity on cart event, got %+v", data)
	}
	if sink.records[0].Channel != activity.DefaultChannel {
		t.Fatalf("expected default channel, got %q", sink.records[0].Channel)
	}
}

func TestHookNotifyRejectsNonCartEvents(t *testing.T) {
	tests := []struct {
		name  string
		event activity.Event
	}{
		{"empty", activity.Event{}},
		{"foreign verb", activity.Event{Verb: "user.login", ObjectType: activity.ObjectTypeCart, ObjectID: "c1"}},
		{"foreign object", activity.Event{Verb: activity.VerbCartEmptied, ObjectType: "order", ObjectID: "o1"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sink := &recordingSink{}
			hook := usersink.Hook{Sink: sink}

			err := hook.Notify(context.Background(), tc.event)
			if !errors.Is(err, activity.ErrInvalidEvent) {
				t.Fatalf("expected ErrInvalidEvent, got %v", err)
			}
			if len(sink.records) != 0 {
				t.Fatalf("expected no records, got %d", len(sink.records))
			}
		})
	}
}

func TestHookNotifyReturnsSinkError(t *testing.T) {
	boom := errors.New("sink down")
	sink := &recordingSink{err: boom}
	hook := usersink.Hook{Sink: sink}

	err := hook.Notify(context.Background(), activity.BuildCartEmptiedEvent(activity.CartEventInput{CartID: "c1"}))
	if !errors.Is(err, boom) {
		t.Fatalf("expected sink error, got %v", err)
	}
	if sink.records[0].OccurredAt.IsZero() {
		t.Fatalf("expected occurred_at to be defaulted")
	}
}

func TestHookWithoutSinkIsNoop(t *testing.T) {
	hook := usersink.Hook{}
	if err := hook.Notify(context.Background(), activity.BuildCartEmptiedEvent(activity.CartEventInput{})); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
