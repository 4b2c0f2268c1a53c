package cart

import (
	"strings"
	"time"

	"github.com/goliatone/go-cart/rules"
)

// Evaluate runs expr against the current snapshot with the configured
// evaluator. Snapshot fields are bound as variables: id, items, isEmpty,
// totalItems, totalUniqueItems, cartTotal, metadata and state.
func (c *Cart) Evaluate(expr string) (any, error) {
	return c.EvaluateWith(rules.RuleContext{}, expr)
}

// EvaluateWith runs expr with a caller supplied context. A nil Snapshot is
// filled from the current cart state.
func (c *Cart) EvaluateWith(ctx rules.RuleContext, expr string) (any, error) {
	engine := rules.EngineName(c.evaluator)
	if strings.TrimSpace(expr) == "" {
		return nil, rules.WrapEvaluationError(engine, expr, rules.ErrEmptyExpression)
	}
	snapshot := c.Snapshot()
	if ctx.Snapshot == nil {
		ctx.Snapshot = snapshot.Map()
	}

	start := time.Now()
	value, err := c.evaluator.Evaluate(ctx, expr)
	err = rules.WrapEvaluationError(engine, expr, err)
	c.cfg.logger.Log(LogEvent{
		Kind:     LogKindEvaluate,
		CartID:   snapshot.ID,
		Engine:   engine,
		Expr:     expr,
		Duration: time.Since(start),
		Err:      err,
	})
	return value, err
}
