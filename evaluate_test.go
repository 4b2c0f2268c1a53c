package cart

import (
	"errors"
	"testing"

	"github.com/goliatone/go-cart/rules"
)

func TestEvaluateAgainstSnapshot(t *testing.T) {
	logger := &recordingLogger{}
	c, _ := newTestCart(WithLogger(logger))
	mustAdd(t, c, priced("a", 60, 0), 1)
	mustAdd(t, c, priced("b", 50, 0), 1)
	c.UpdateCartMetadata(map[string]any{"coupon": "SPRING"})

	tests := []struct {
		expr   string
		expect any
	}{
		{"cartTotal > 100", true},
		{"totalUniqueItems == 2 && metadata.coupon == 'SPRING'", true},
		{"len(items) > 2", false},
		{"state == 'adding'", true},
	}
	for _, tc := range tests {
		got, err := c.Evaluate(tc.expr)
		if err != nil {
			t.Fatalf("evaluate %q: %v", tc.expr, err)
		}
		if got != tc.expect {
			t.Fatalf("evaluate %q = %v, want %v", tc.expr, got, tc.expect)
		}
	}

	events := logger.byKind(LogKindEvaluate)
	if len(events) != len(tests) || events[0].Engine != "expr" {
		t.Fatalf("expected one evaluate log per call, got %+v", events)
	}
}

func TestEvaluateErrors(t *testing.T) {
	c, _ := newTestCart()

	_, err := c.Evaluate("  ")
	if !errors.Is(err, rules.ErrEmptyExpression) {
		t.Fatalf("expected empty expression error, got %v", err)
	}

	_, err = c.Evaluate("cartTotal >")
	var evalErr *rules.EvaluationError
	if !errors.As(err, &evalErr) || evalErr.Expr != "cartTotal >" || evalErr.Engine != "expr" {
		t.Fatalf("expected evaluation error with metadata, got %v", err)
	}
}

func TestEvaluateWithCELAndRegistry(t *testing.T) {
	registry := rules.NewFunctionRegistry()
	if err := registry.Register("freeShipping", func(args ...any) (any, error) {
		total, _ := args[0].(float64)
		return total >= 50, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	c, _ := newTestCart(WithEvaluator(rules.NewCELEvaluator(rules.CELWithFunctionRegistry(registry))))
	mustAdd(t, c, priced("a", 75, 0), 1)

	got, err := c.Evaluate(`call("freeShipping", [cartTotal])`)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != true {
		t.Fatalf("expected free shipping, got %v", got)
	}
}

func TestEvaluateWithCallerContext(t *testing.T) {
	c, _ := newTestCart()
	got, err := c.EvaluateWith(rules.RuleContext{
		Snapshot: map[string]any{"cartTotal": 5.0},
		Args:     map[string]any{"threshold": 3},
	}, "cartTotal > args.threshold")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != true {
		t.Fatalf("expected true, got %v", got)
	}
}

func TestEvaluateSharedProgramCache(t *testing.T) {
	cache := rules.NewMapCache()
	a, _ := newTestCart(WithProgramCache(cache))
	b, _ := newTestCart(WithProgramCache(cache))

	if _, err := a.Evaluate("isEmpty"); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if _, ok := cache.Get("isEmpty"); !ok {
		t.Fatalf("expected program cached under its expression")
	}
	got, err := b.Evaluate("isEmpty")
	if err != nil || got != true {
		t.Fatalf("expected cached program to evaluate, got %v %v", got, err)
	}
}

func TestEvaluateCartHelpers(t *testing.T) {
	c, _ := newTestCart()
	mustAdd(t, c, Item{ID: "a", Price: Price(10), Fields: map[string]any{"weight": 1.5}}, 2)
	mustAdd(t, c, Item{ID: "b", Price: Price(4), Fields: map[string]any{"weight": 2.0}}, 1)

	tests := []struct {
		expr   string
		expect any
	}{
		{`hasitem(items, "a")`, true},
		{`hasitem(items, "z")`, false},
		{`quantityof(items, "a") == 2`, true},
		{`quantityof(items, "z") == 0`, true},
		{`fieldsum(items, "weight")`, 5.0},
	}
	for _, tc := range tests {
		got, err := c.Evaluate(tc.expr)
		if err != nil {
			t.Fatalf("evaluate %q: %v", tc.expr, err)
		}
		if got != tc.expect {
			t.Fatalf("evaluate %q = %v, want %v", tc.expr, got, tc.expect)
		}
	}
}

func TestEvaluateCallerRegistryOverridesHelpers(t *testing.T) {
	registry := rules.NewFunctionRegistry()
	if err := registry.Register("hasItem", func(...any) (any, error) { return "custom", nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	c, _ := newTestCart(WithFunctionRegistry(registry))

	got, err := c.Evaluate(`hasitem(items, "a")`)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != "custom" {
		t.Fatalf("expected caller helper to win, got %v", got)
	}
	got, err = c.Evaluate(`quantityof(items, "a")`)
	if err != nil || got != 0 {
		t.Fatalf("expected built-in helpers kept, got %v %v", got, err)
	}
}

func TestWithRuleEngine(t *testing.T) {
	logger := &recordingLogger{}
	c, _ := newTestCart(WithLogger(logger), WithRuleEngine(rules.EngineCEL))
	mustAdd(t, c, priced("a", 3, 0), 1)

	got, err := c.Evaluate("cartTotal > 1.0")
	if err != nil || got != true {
		t.Fatalf("expected cel evaluation, got %v %v", got, err)
	}
	events := logger.byKind(LogKindEvaluate)
	if len(events) != 1 || events[0].Engine != "cel" {
		t.Fatalf("expected cel engine in log, got %+v", events)
	}

	if rules.JSAvailable() {
		return
	}
	logger = &recordingLogger{}
	c, _ = newTestCart(WithLogger(logger), WithRuleEngine(rules.EngineJS))
	events = logger.byKind(LogKindEvaluate)
	if len(events) != 1 || !errors.Is(events[0].Err, rules.ErrEngineUnavailable) {
		t.Fatalf("expected unavailable engine to be logged, got %+v", events)
	}
	if got, err := c.Evaluate("isEmpty"); err != nil || got != true {
		t.Fatalf("expected expr fallback, got %v %v", got, err)
	}
}
