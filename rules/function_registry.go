package rules

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Function is a helper callable from rule expressions.
type Function func(args ...any) (any, error)

// FunctionRegistry holds rule helpers by case-insensitive name. expr exposes
// each helper under its lowercased name; CEL and JS reach them through
// call(name, [args]).
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry returns an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{functions: map[string]Function{}}
}

// NewCartFunctionRegistry returns a registry preloaded with helpers over the
// items list of a cart snapshot:
//
//	hasItem(items, id)          true when a line with id is present
//	quantityOf(items, id)       quantity of the line with id, 0 when absent
//	fieldSum(items, field)      sum of field times quantity across lines
func NewCartFunctionRegistry() *FunctionRegistry {
	r := NewFunctionRegistry()
	r.functions["hasitem"] = hasItem
	r.functions["quantityof"] = quantityOf
	r.functions["fieldsum"] = fieldSum
	return r
}

// Register adds fn under name. Names are matched case-insensitively and may
// not shadow now, args or call.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	key := strings.ToLower(strings.TrimSpace(name))
	switch {
	case key == "":
		return fmt.Errorf("rules: function name must not be empty")
	case fn == nil:
		return fmt.Errorf("rules: function %q is nil", name)
	case isReserved(key):
		return fmt.Errorf("rules: function name %q is reserved", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = map[string]Function{}
	}
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("rules: function %q already registered", name)
	}
	r.functions[key] = fn
	return nil
}

// Merge copies every function of other into r, replacing helpers that share a
// name. A nil other is ignored.
func (r *FunctionRegistry) Merge(other *FunctionRegistry) {
	if other == nil || other == r {
		return
	}
	other.mu.RLock()
	incoming := maps.Clone(other.functions)
	other.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = map[string]Function{}
	}
	maps.Copy(r.functions, incoming)
}

// Clone returns a detached copy; evaluators clone so later registrations do
// not change compiled programs.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	functions := maps.Clone(r.functions)
	if functions == nil {
		functions = map[string]Function{}
	}
	return &FunctionRegistry{functions: functions}
}

// Call runs the helper registered under name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("rules: function registry is nil")
	}
	r.mu.RLock()
	fn := r.functions[strings.ToLower(name)]
	r.mu.RUnlock()
	if fn == nil {
		return nil, fmt.Errorf("rules: function %q not registered", name)
	}
	return fn(args...)
}

// Names returns the lowercased helper names in sorted order.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.functions))
}

func hasItem(args ...any) (any, error) {
	line, err := findLine("hasItem", args)
	if err != nil {
		return nil, err
	}
	return line != nil, nil
}

func quantityOf(args ...any) (any, error) {
	line, err := findLine("quantityOf", args)
	if err != nil || line == nil {
		return 0, err
	}
	quantity, _ := number(line["quantity"])
	return int(quantity), nil
}

func fieldSum(args ...any) (any, error) {
	lines, field, err := itemsAndKey("fieldSum", args)
	if err != nil {
		return nil, err
	}
	var sum float64
	for _, line := range lines {
		value, ok := number(line[field])
		if !ok {
			continue
		}
		quantity, _ := number(line["quantity"])
		sum += value * quantity
	}
	return sum, nil
}

func findLine(helper string, args []any) (map[string]any, error) {
	lines, id, err := itemsAndKey(helper, args)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if line["id"] == id {
			return line, nil
		}
	}
	return nil, nil
}

// itemsAndKey unpacks the (items, string) arguments shared by the cart helpers.
func itemsAndKey(helper string, args []any) ([]map[string]any, string, error) {
	if len(args) != 2 {
		return nil, "", fmt.Errorf("rules: %s expects (items, key), got %d arguments", helper, len(args))
	}
	key, ok := args[1].(string)
	if !ok {
		return nil, "", fmt.Errorf("rules: %s key must be a string, got %T", helper, args[1])
	}
	var lines []map[string]any
	switch items := args[0].(type) {
	case nil:
	case []map[string]any:
		lines = items
	case []any:
		lines = make([]map[string]any, 0, len(items))
		for _, entry := range items {
			line, ok := entry.(map[string]any)
			if !ok {
				return nil, "", fmt.Errorf("rules: %s items must be objects, got %T", helper, entry)
			}
			lines = append(lines, line)
		}
	default:
		return nil, "", fmt.Errorf("rules: %s items must be a list, got %T", helper, args[0])
	}
	return lines, key, nil
}

func number(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	}
	return 0, false
}
