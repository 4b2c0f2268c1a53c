package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-cart/pkg/storage"
)

func TestMemoryStoreSaveThenLoad(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	if _, ok, err := store.Load(ctx, "cart-a"); err != nil || ok {
		t.Fatalf("expected miss on empty store, got ok=%t err=%v", ok, err)
	}

	if err := store.Save(ctx, "cart-a", `{"id":"a"}`); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, "cart-a", `{"id":"a","items":[]}`); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := store.Load(ctx, "cart-a")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if got != `{"id":"a","items":[]}` {
		t.Fatalf("expected last write to win, got %q", got)
	}
	if store.Saves() != 2 {
		t.Fatalf("expected 2 saves, got %d", store.Saves())
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 key, got %d", store.Len())
	}
}

func TestMemoryStoreRejectsEmptyKey(t *testing.T) {
	store := storage.NewMemoryStore()
	if err := store.Save(context.Background(), " ", "x"); !errors.Is(err, storage.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	if _, _, err := store.Load(context.Background(), ""); !errors.Is(err, storage.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestMemoryStorePutDoesNotCountAsSave(t *testing.T) {
	store := storage.NewMemoryStore()
	store.Put("cart", "seed")
	if store.Saves() != 0 {
		t.Fatalf("expected Put to bypass save counter")
	}
	got, ok, _ := store.Load(context.Background(), "cart")
	if !ok || got != "seed" {
		t.Fatalf("expected seeded value, got %q ok=%t", got, ok)
	}
}

func TestStoreFuncsDefaults(t *testing.T) {
	var funcs storage.StoreFuncs
	if _, ok, err := funcs.Load(context.Background(), "k"); ok || err != nil {
		t.Fatalf("expected nil LoadFunc to miss, got ok=%t err=%v", ok, err)
	}
	if err := funcs.Save(context.Background(), "k", "v"); err != nil {
		t.Fatalf("expected nil SaveFunc to discard, got %v", err)
	}

	boom := errors.New("boom")
	funcs.SaveFunc = func(context.Context, string, string) error { return boom }
	if err := funcs.Save(context.Background(), "k", "v"); !errors.Is(err, boom) {
		t.Fatalf("expected SaveFunc error, got %v", err)
	}
}
