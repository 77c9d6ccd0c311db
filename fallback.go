package settings

import "fmt"

// Fallback produces a secondary value for a node path when the external
// store has no entry. Returning (nil, nil) means "no opinion" and the lens
// falls through to the next tier.
type Fallback func(Path) (any, error)

// DefaultTable turns a nested plain value into a Fallback that walks the
// seed one path segment at a time. Any absent segment fails with
// ErrMissingKey naming the offending path prefix: a fallback table that
// does not match the schema shape is a programming error, unlike the
// external store where absence is an expected runtime state.
func DefaultTable(seed map[string]any) Fallback {
	return func(path Path) (any, error) {
		current := any(seed)
		for i, segment := range path {
			table, ok := current.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: %q is not a table", ErrMissingKey, path[:i].Key())
			}
			value, ok := table[segment]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrMissingKey, path[:i+1].Key())
			}
			current = value
		}
		return current, nil
	}
}

// RuleFallback adapts a rule expression into a Fallback. The expression is
// evaluated with the node path bound as "path" (segments) and "key" (the
// joined form); evaluation errors propagate out of lens reads. A nil
// evaluator defaults to the expr engine.
func RuleFallback(evaluator Evaluator, expression string) Fallback {
	if evaluator == nil {
		evaluator = NewExprEvaluator()
	}
	return func(path Path) (any, error) {
		return evaluator.Evaluate(RuleContext{Path: path.clone()}, expression)
	}
}
