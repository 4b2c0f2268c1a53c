package storage

import (
	"context"
	"errors"
	"strings"
)

// ErrInvalidKey is returned when a key is empty or cannot be stored.
var ErrInvalidKey = errors.New("storage: invalid key")

// Store loads/saves one serialized value for a single key.
type Store interface {
	Load(ctx context.Context, key string) (value string, ok bool, err error)
	Save(ctx context.Context, key string, value string) error
}

// StoreFuncs adapts plain functions to Store.
type StoreFuncs struct {
	LoadFunc func(ctx context.Context, key string) (string, bool, error)
	SaveFunc func(ctx context.Context, key string, value string) error
}

// Load dispatches to LoadFunc, reporting a miss when it is nil.
func (f StoreFuncs) Load(ctx context.Context, key string) (string, bool, error) {
	if f.LoadFunc == nil {
		return "", false, nil
	}
	return f.LoadFunc(ctx, key)
}

// Save dispatches to SaveFunc, discarding the value when it is nil.
func (f StoreFuncs) Save(ctx context.Context, key string, value string) error {
	if f.SaveFunc == nil {
		return nil
	}
	return f.SaveFunc(ctx, key, value)
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	return nil
}
