package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Context carries identifiers tied to a persisted payload.
type Context struct {
	Key    string
	CartID string
}

// PreHook lets callers migrate or normalise the raw payload before decoding.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook lets callers repair or validate the decoded value.
type PostHook[T any] func(Context, *T) error

// DecoderOption configures a Decoder instance.
type DecoderOption[T any] func(*Decoder[T])

// Decoder converts persisted JSON strings into strongly typed snapshots.
type Decoder[T any] struct {
	preHooks     []PreHook
	postHooks    []PostHook[T]
	configureDec []func(*json.Decoder)
}

// WithPreHook applies hook prior to decoding.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithPostHook applies hook after decoding completes.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.postHooks = append(d.postHooks, hook)
	}
}

// WithUseNumber enables json.Decoder.UseNumber during decoding.
func WithUseNumber[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.configureDec = append(d.configureDec, func(dec *json.Decoder) {
			dec.UseNumber()
		})
	}
}

func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode parses payload into T applying configured hooks. Blank payloads and
// payloads that are not JSON objects are rejected.
func (d *Decoder[T]) Decode(ctx Context, payload string) (T, error) {
	var zero T

	if strings.TrimSpace(payload) == "" {
		return zero, fmt.Errorf("hydrate: payload is empty for key %q", ctx.Key)
	}

	var current map[string]any
	if err := d.newJSONDecoder([]byte(payload)).Decode(&current); err != nil {
		return zero, fmt.Errorf("hydrate: parse key %q: %w", ctx.Key, err)
	}
	if current == nil {
		return zero, fmt.Errorf("hydrate: payload for key %q is not an object", ctx.Key)
	}

	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: pre-hook for key %q failed: %w", ctx.Key, err)
		}
		if next != nil {
			current = next
		}
	}

	buffer, err := json.Marshal(current)
	if err != nil {
		return zero, fmt.Errorf("hydrate: marshal payload for key %q: %w", ctx.Key, err)
	}
	var result T
	if err := d.newJSONDecoder(buffer).Decode(&result); err != nil {
		return zero, fmt.Errorf("hydrate: decode key %q: %w", ctx.Key, err)
	}

	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, &result); err != nil {
			return zero, fmt.Errorf("hydrate: post-hook for key %q failed: %w", ctx.Key, err)
		}
	}

	return result, nil
}

// newJSONDecoder applies the configured decoder options, so the raw payload
// seen by pre-hooks and the final value are parsed the same way.
func (d *Decoder[T]) newJSONDecoder(data []byte) *json.Decoder {
	decoder := json.NewDecoder(bytes.NewReader(data))
	for _, configure := range d.configureDec {
		if configure != nil {
			configure(decoder)
		}
	}
	return decoder
}
