package cart

import (
	"maps"
	"strings"
	"time"

	"github.com/goliatone/go-cart/pkg/activity"
	"github.com/goliatone/go-cart/pkg/storage"
	"github.com/goliatone/go-cart/rules"
	"github.com/google/uuid"
)

// DefaultKeyPrefix is the storage key used for carts without an explicit ID.
const DefaultKeyPrefix = "cart"

// Option configures a Cart.
type Option func(*config)

type config struct {
	id           string
	keyPrefix    string
	defaultItems []Item
	metadata     map[string]any
	store        storage.Store
	logger       Logger
	settleDelay  time.Duration
	scheduler    Scheduler
	idGenerator  func() string

	onItemAdd    func(Item)
	onItemUpdate func(Item)
	onItemRemove func(string)
	onSetItems   func([]Item)

	activityHooks  activity.Hooks
	activityConfig *activity.Config

	evaluator  rules.Evaluator
	ruleEngine rules.Engine
	cache      rules.ProgramCache
	registry   *rules.FunctionRegistry
}

func defaultConfig() config {
	return config{
		keyPrefix:   DefaultKeyPrefix,
		logger:      noopLogger{},
		settleDelay: DefaultSettleDelay,
		scheduler:   clockScheduler{},
		idGenerator: uuid.NewString,
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithID sets an explicit cart ID. The ID is also folded into the storage key
// so carts with different IDs do not share persisted state.
func WithID(id string) Option {
	return func(cfg *config) {
		cfg.id = strings.TrimSpace(id)
	}
}

// WithKeyPrefix overrides the storage key prefix.
func WithKeyPrefix(prefix string) Option {
	return func(cfg *config) {
		if prefix = strings.TrimSpace(prefix); prefix != "" {
			cfg.keyPrefix = prefix
		}
	}
}

// WithDefaultItems seeds the cart through SET_ITEMS when no persisted state is
// found.
func WithDefaultItems(items []Item) Option {
	return func(cfg *config) {
		cfg.defaultItems = append([]Item(nil), items...)
	}
}

// WithMetadata sets the initial metadata.
func WithMetadata(metadata map[string]any) Option {
	return func(cfg *config) {
		cfg.metadata = maps.Clone(metadata)
	}
}

// WithStore enables persistence. Snapshots are loaded once at construction and
// saved asynchronously after every accepted transition.
func WithStore(store storage.Store) Option {
	return func(cfg *config) {
		cfg.store = store
	}
}

// WithLogger attaches a logger. A nil logger disables logging.
func WithLogger(logger Logger) Option {
	return func(cfg *config) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

// WithSettleDelay sets how long the cart stays in the adding state. A value of
// zero or less settles immediately.
func WithSettleDelay(d time.Duration) Option {
	return func(cfg *config) {
		cfg.settleDelay = d
	}
}

// WithScheduler replaces the wall clock used for the settle timer.
func WithScheduler(scheduler Scheduler) Option {
	return func(cfg *config) {
		if scheduler != nil {
			cfg.scheduler = scheduler
		}
	}
}

// WithIDGenerator replaces the generator used when no ID is configured or
// restored.
func WithIDGenerator(fn func() string) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.idGenerator = fn
		}
	}
}

// WithOnItemAdd registers a callback invoked with the committed item after a
// new item is added.
func WithOnItemAdd(fn func(Item)) Option {
	return func(cfg *config) {
		cfg.onItemAdd = fn
	}
}

// WithOnItemUpdate registers a callback invoked with the committed item after
// an update.
func WithOnItemUpdate(fn func(Item)) Option {
	return func(cfg *config) {
		cfg.onItemUpdate = fn
	}
}

// WithOnItemRemove registers a callback invoked with the removed item ID.
func WithOnItemRemove(fn func(string)) Option {
	return func(cfg *config) {
		cfg.onItemRemove = fn
	}
}

// WithOnSetItems registers a callback invoked with the committed item list
// after SetItems.
func WithOnSetItems(fn func([]Item)) Option {
	return func(cfg *config) {
		cfg.onSetItems = fn
	}
}

// WithActivityHooks registers activity hooks. Emission is enabled unless
// WithActivityConfig says otherwise.
func WithActivityHooks(hooks ...activity.ActivityHook) Option {
	return func(cfg *config) {
		cfg.activityHooks = append(cfg.activityHooks, hooks...)
	}
}

// WithActivityConfig sets channel and identity defaults for activity events.
func WithActivityConfig(activityCfg activity.Config) Option {
	return func(cfg *config) {
		copied := activityCfg
		cfg.activityConfig = &copied
	}
}

// WithEvaluator replaces the rule evaluator used by Evaluate.
func WithEvaluator(e rules.Evaluator) Option {
	return func(cfg *config) {
		cfg.evaluator = e
	}
}

// WithRuleEngine selects the expression language of the default evaluator.
// An engine missing from the binary falls back to expr and is logged.
func WithRuleEngine(engine rules.Engine) Option {
	return func(cfg *config) {
		cfg.ruleEngine = engine
	}
}

// WithProgramCache shares a compiled program cache with the default evaluator.
func WithProgramCache(cache rules.ProgramCache) Option {
	return func(cfg *config) {
		cfg.cache = cache
	}
}

// WithFunctionRegistry exposes custom functions to the default evaluator.
func WithFunctionRegistry(registry *rules.FunctionRegistry) Option {
	return func(cfg *config) {
		cfg.registry = registry
	}
}

func (cfg config) emitter() *activity.Emitter {
	activityCfg := activity.Config{Enabled: true}
	if cfg.activityConfig != nil {
		activityCfg = *cfg.activityConfig
	}
	return activity.NewEmitter(cfg.activityHooks, activityCfg)
}

// ruleEvaluator builds the default evaluator. The cart helpers of
// rules.NewCartFunctionRegistry are always present; a caller registry adds to
// them and wins on name clashes.
func (cfg config) ruleEvaluator() rules.Evaluator {
	if cfg.evaluator != nil {
		return cfg.evaluator
	}
	registry := rules.NewCartFunctionRegistry()
	registry.Merge(cfg.registry)
	opts := rules.EngineOptions{Cache: cfg.cache, Registry: registry}

	evaluator, err := rules.NewEvaluator(cfg.ruleEngine, opts)
	if err != nil {
		cfg.logger.Log(LogEvent{Kind: LogKindEvaluate, CartID: cfg.id, Engine: string(cfg.ruleEngine), Err: err})
		evaluator, _ = rules.NewEvaluator(rules.EngineExpr, opts)
	}
	return evaluator
}

// StorageKey returns the persistence key for a cart. Carts with an explicit
// ID get "<prefix>-<id>", all others share "<prefix>".
func StorageKey(prefix, id string) string {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if id == "" {
		return prefix
	}
	return prefix + "-" + id
}
