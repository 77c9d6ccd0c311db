package settings

import (
	"testing"
	"time"
)

func TestExprEvaluateSnapshotAndArgs(t *testing.T) {
	evaluator := NewExprEvaluator()
	ctx := RuleContext{
		Snapshot: map[string]any{"volume": 0.5},
		Args:     map[string]any{"boost": 2.0},
	}

	value, err := evaluator.Evaluate(ctx, "volume * args.boost")
	if err != nil {
		t.Fatalf("unexpected error from Evaluate: %v", err)
	}
	if value != 1.0 {
		t.Fatalf("expected 1.0, got %v", value)
	}
}

func TestExprEvaluateBindsPathAndKey(t *testing.T) {
	evaluator := NewExprEvaluator()
	ctx := RuleContext{Path: Path{"Root", "Stuff", "Gubbin"}}

	value, err := evaluator.Evaluate(ctx, `key`)
	if err != nil {
		t.Fatalf("unexpected error from Evaluate: %v", err)
	}
	if value != "Root/Stuff/Gubbin" {
		t.Fatalf("expected the joined key binding, got %v", value)
	}

	value, err = evaluator.Evaluate(ctx, `path[2]`)
	if err != nil {
		t.Fatalf("unexpected error from Evaluate: %v", err)
	}
	if value != "Gubbin" {
		t.Fatalf("expected the path segment binding, got %v", value)
	}
}

func TestExprEvaluateDefaultsNow(t *testing.T) {
	evaluator := NewExprEvaluator()
	before := time.Now().Add(-time.Second)

	value, err := evaluator.Evaluate(RuleContext{}, "now")
	if err != nil {
		t.Fatalf("unexpected error from Evaluate: %v", err)
	}
	ts, ok := value.(time.Time)
	if !ok || ts.Before(before) {
		t.Fatalf("expected a defaulted current timestamp, got %v", value)
	}
}

func TestExprEvaluateRejectsEmptyExpression(t *testing.T) {
	if _, err := NewExprEvaluator().Evaluate(RuleContext{}, ""); err == nil {
		t.Fatalf("expected an error for empty expression")
	}
}

func TestExprRegistryFunctions(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("triple", func(args ...any) (any, error) {
		return args[0].(int) * 3, nil
	}); err != nil {
		t.Fatalf("unexpected error from Register: %v", err)
	}

	evaluator := NewExprEvaluator(ExprWithFunctionRegistry(registry))
	value, err := evaluator.Evaluate(RuleContext{}, "triple(7)")
	if err != nil {
		t.Fatalf("unexpected error from Evaluate: %v", err)
	}
	if value != 21 {
		t.Fatalf("expected 21, got %v", value)
	}

	value, err = evaluator.Evaluate(RuleContext{}, `call("triple", 2)`)
	if err != nil {
		t.Fatalf("unexpected error from Evaluate: %v", err)
	}
	if value != 6 {
		t.Fatalf("expected 6 via the call binding, got %v", value)
	}
}

func TestExprCompileReusesProgram(t *testing.T) {
	evaluator := NewExprEvaluator()
	rule, err := evaluator.Compile("volume > 0.5")
	if err != nil {
		t.Fatalf("unexpected error from Compile: %v", err)
	}

	value, err := rule.Evaluate(RuleContext{Snapshot: map[string]any{"volume": 0.8}})
	if err != nil {
		t.Fatalf("unexpected error from compiled Evaluate: %v", err)
	}
	if value != true {
		t.Fatalf("expected true, got %v", value)
	}

	value, err = rule.Evaluate(RuleContext{Snapshot: map[string]any{"volume": 0.2}})
	if err != nil {
		t.Fatalf("unexpected error from compiled Evaluate: %v", err)
	}
	if value != false {
		t.Fatalf("expected false, got %v", value)
	}
}

func TestExprCompileCachesProgram(t *testing.T) {
	cache := &recordingCache{values: map[string]any{}}
	evaluator := NewExprEvaluator(ExprWithProgramCache(cache))

	if _, err := evaluator.Compile("1 + 1"); err != nil {
		t.Fatalf("unexpected error from Compile: %v", err)
	}
	if _, err := evaluator.Compile("1 + 1"); err != nil {
		t.Fatalf("unexpected error from Compile: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected a single cache write, got %d", cache.sets)
	}
	if cache.hits != 1 {
		t.Fatalf("expected the second compile to hit the cache, got %d", cache.hits)
	}
}
