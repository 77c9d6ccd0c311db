package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-settings/internal/hydrate"
	"github.com/goliatone/go-settings/pkg/activity"
)

var ErrNoEvaluator = errors.New("settings: evaluator not configured")

// Finalize builds the tree and wraps the snapshot in a Document carrying
// evaluator and schema configuration. The live node graph remains valid and
// lens-addressable; the document owns an independent copy.
//
// Hooks supplied via WithActivityHooks are notified with a
// settings.tree.built event and bound into the tree's settings so later
// lens writes emit settings.value.set events.
func (t *Tree) Finalize(opts ...Option) *Document {
	value, collectionID := t.Build()
	cfg := applyOptions(opts)
	if cfg.activityHooks.Enabled() {
		t.bindActivityHooks(cfg.activityHooks)
		_ = cfg.activityHooks.Notify(context.Background(), activity.BuildTreeBuiltEvent(activity.NodeEventInput{
			Path:         t.path.Key(),
			CollectionID: collectionID,
		}))
	}
	return &Document{
		Value:        value,
		CollectionID: collectionID,
		cfg:          cfg,
	}
}

// Evaluate executes expr against the snapshot using the configured
// evaluator and wraps the result.
func (d *Document) Evaluate(expr string) (Response[any], error) {
	return d.EvaluateWith(RuleContext{}, expr)
}

// EvaluateWith executes expr using ctx, falling back to the document
// snapshot when ctx.Snapshot is nil.
func (d *Document) EvaluateWith(ctx RuleContext, expr string) (Response[any], error) {
	if expr == "" {
		return Response[any]{}, fmt.Errorf("expression must not be empty")
	}
	evaluator, err := d.resolveEvaluator()
	if err != nil {
		return Response[any]{}, err
	}
	if ctx.Snapshot == nil {
		ctx.Snapshot = d.Value
	}
	ctx = ctx.withDefaults()
	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, expr)
	duration := time.Since(start)
	evalErr = wrapEvaluationError("", expr, ctx.pathLabel(), evalErr)
	d.evaluatorLogger().LogEvaluation(EvaluatorLogEvent{
		Engine:   engine,
		Expr:     expr,
		Path:     ctx.pathLabel(),
		Duration: duration,
		Err:      evalErr,
	})
	if evalErr != nil {
		return Response[any]{}, evalErr
	}
	return Response[any]{Value: value}, nil
}

// Schema generates a schema document for the snapshot using the configured
// generator, defaulting to the descriptor generator.
func (d *Document) Schema() (SchemaDocument, error) {
	return d.schemaGenerator().Generate(d.Value)
}

// Hydrate decodes the document snapshot into a caller-typed value.
func Hydrate[T any](d *Document) (T, error) {
	var zero T
	if d == nil {
		return zero, fmt.Errorf("settings: document is nil")
	}
	decoder := hydrate.NewDecoder[T]()
	return decoder.Decode(hydrate.Context{
		TreeID:       documentTreeID(d),
		CollectionID: d.CollectionID,
	}, d.Value)
}

func documentTreeID(d *Document) string {
	if d == nil || d.Value == nil {
		return ""
	}
	if id, ok := d.Value["id"].(string); ok {
		return id
	}
	return ""
}

func (d *Document) resolveEvaluator() (Evaluator, error) {
	evaluator := d.evaluator()
	if evaluator != nil {
		return evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if cache := d.programCache(); cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cache))
	}
	if registry := d.functionRegistry(); registry != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(registry))
	}
	defaultEvaluator := NewExprEvaluator(exprOpts...)
	if defaultEvaluator == nil {
		return nil, ErrNoEvaluator
	}
	d.withEvaluator(defaultEvaluator)
	return defaultEvaluator, nil
}

// WithEvaluator configures an evaluator on the document.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *documentConfig) {
		cfg.evaluator = e
	}
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*settings.exprEvaluator":
		return "expr"
	case "*settings.celEvaluator":
		return "cel"
	case "*settings.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
