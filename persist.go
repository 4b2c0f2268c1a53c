package cart

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/goliatone/go-cart/internal/hydrate"
	"github.com/goliatone/go-cart/pkg/storage"
)

// writer saves snapshots on a background goroutine. Only the latest pending
// snapshot is kept, so bursts of transitions collapse into one save.
type writer struct {
	store  storage.Store
	key    string
	cartID string
	logger Logger

	mu      sync.Mutex
	pending *State
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func newWriter(store storage.Store, key, cartID string, logger Logger) *writer {
	w := &writer{
		store:  store,
		key:    key,
		cartID: cartID,
		logger: logger,
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go w.loop()
	return w
}

func (w *writer) enqueue(state State) {
	if w == nil {
		return
	}
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.pending = &state
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *writer) loop() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.flush()
		case <-w.stop:
			w.flush()
			return
		}
	}
}

func (w *writer) flush() {
	w.mu.Lock()
	state := w.pending
	w.pending = nil
	w.mu.Unlock()
	if state == nil {
		return
	}

	start := time.Now()
	payload, err := json.Marshal(state)
	if err == nil {
		err = w.store.Save(context.Background(), w.key, string(payload))
	}
	w.logger.Log(LogEvent{
		Kind:     LogKindPersist,
		CartID:   w.cartID,
		Key:      w.key,
		Duration: time.Since(start),
		Err:      err,
	})
}

// close stops accepting snapshots, writes the last pending one and waits for
// the goroutine to exit.
func (w *writer) close() {
	if w == nil {
		return
	}
	w.once.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		close(w.stop)
		<-w.done
	})
}

// loadState restores a persisted snapshot. The boolean is false when nothing
// usable was stored; failures are logged and never returned.
func loadState(ctx context.Context, cfg config, key, id string) (State, bool) {
	payload, ok, err := cfg.store.Load(ctx, key)
	if err != nil {
		cfg.logger.Log(LogEvent{Kind: LogKindLoad, CartID: id, Key: key, Err: err})
		return State{}, false
	}
	if !ok {
		return State{}, false
	}

	decoder := hydrate.NewDecoder(
		hydrate.WithUseNumber[State](),
		hydrate.WithPreHook[State](liftMachineSnapshot),
		hydrate.WithPostHook[State](repairState),
	)
	state, err := decoder.Decode(hydrate.Context{Key: key, CartID: id}, payload)
	if err != nil {
		cfg.logger.Log(LogEvent{Kind: LogKindLoad, CartID: id, Key: key, Err: err})
		return State{}, false
	}
	cfg.logger.Log(LogEvent{Kind: LogKindLoad, CartID: id, Key: key})
	return state, true
}

// liftMachineSnapshot accepts the older persisted layout where the cart lived
// under "context" and the state name under "value".
func liftMachineSnapshot(_ hydrate.Context, payload map[string]any) (map[string]any, error) {
	nested, ok := payload["context"].(map[string]any)
	if !ok {
		return payload, nil
	}
	lifted := make(map[string]any, len(nested)+1)
	for key, value := range nested {
		lifted[key] = value
	}
	if tag, ok := payload["value"].(string); ok {
		lifted["state"] = tag
	}
	return lifted, nil
}

// repairState re-derives every computed field and resolves tags that cannot
// survive a restart.
func repairState(ctx hydrate.Context, state *State) error {
	if ctx.CartID != "" {
		state.ID = ctx.CartID
	}
	*state = derive(*state, normalizeItems(state.Items))
	if state.Metadata == nil {
		state.Metadata = map[string]any{}
	}
	restoreNumbers(state.Metadata)
	if state.Tag != TagCheckingOut || state.IsEmpty {
		state.Tag = settledTag(state.IsEmpty)
	}
	return nil
}
