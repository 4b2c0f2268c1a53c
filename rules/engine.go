package rules

import (
	"errors"
	"fmt"
	"strings"
)

// Engine names a rule expression language.
type Engine string

const (
	EngineExpr Engine = "expr"
	EngineCEL  Engine = "cel"
	EngineJS   Engine = "js"
)

// ErrEngineUnavailable is returned for engines not compiled into the binary.
var ErrEngineUnavailable = errors.New("rules: engine unavailable")

// ParseEngine maps a configured name onto an Engine. Blank selects expr.
func ParseEngine(name string) (Engine, error) {
	switch engine := Engine(strings.ToLower(strings.TrimSpace(name))); engine {
	case "":
		return EngineExpr, nil
	case EngineExpr, EngineCEL, EngineJS:
		return engine, nil
	default:
		return "", fmt.Errorf("rules: unknown engine %q", name)
	}
}

// EngineOptions carries the settings every engine accepts.
type EngineOptions struct {
	Cache    ProgramCache
	Registry *FunctionRegistry
}

// JSEvaluatorOption configures the goja evaluator.
type JSEvaluatorOption func(*EngineOptions)

// JSWithProgramCache shares compiled goja programs through cache.
func JSWithProgramCache(cache ProgramCache) JSEvaluatorOption {
	return func(opts *EngineOptions) {
		opts.Cache = cache
	}
}

// JSWithFunctionRegistry exposes registry helpers as globals and via call().
func JSWithFunctionRegistry(registry *FunctionRegistry) JSEvaluatorOption {
	return func(opts *EngineOptions) {
		opts.Registry = registry.Clone()
	}
}

func applyJSEvaluatorOptions(opts []JSEvaluatorOption) EngineOptions {
	var out EngineOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&out)
		}
	}
	return out
}

// NewEvaluator builds the evaluator for engine. Selecting js in a binary built
// without the js_eval tag returns ErrEngineUnavailable.
func NewEvaluator(engine Engine, opts EngineOptions) (Evaluator, error) {
	switch engine {
	case "", EngineExpr:
		return NewExprEvaluator(ExprWithProgramCache(opts.Cache), ExprWithFunctionRegistry(opts.Registry)), nil
	case EngineCEL:
		return NewCELEvaluator(CELWithProgramCache(opts.Cache), CELWithFunctionRegistry(opts.Registry)), nil
	case EngineJS:
		if !JSAvailable() {
			return nil, fmt.Errorf("%w: %s requires the js_eval build tag", ErrEngineUnavailable, engine)
		}
		return NewJSEvaluator(JSWithProgramCache(opts.Cache), JSWithFunctionRegistry(opts.Registry)), nil
	default:
		return nil, fmt.Errorf("rules: unknown engine %q", engine)
	}
}
