package settings

import (
	"time"

	"github.com/goliatone/go-settings/pkg/activity"
)

// Document is the long-lived artifact produced by finalizing a tree: the
// plain snapshot value, the optional external attachment target, and the
// evaluator configuration used when running rules against the snapshot.
type Document struct {
	Value        map[string]any
	CollectionID string

	cfg documentConfig
}

// SchemaFormat identifies the representation a schema document encodes.
type SchemaFormat string

const (
	// SchemaFormatDescriptors represents the flattened field descriptors.
	SchemaFormatDescriptors SchemaFormat = "descriptors"
	// SchemaFormatOpenAPI represents OpenAPI-compatible JSON Schema documents.
	SchemaFormatOpenAPI SchemaFormat = "openapi"
)

// SchemaDocument encapsulates a generated schema output alongside its
// format identifier. Implementations must ensure Document is
// JSON-serialisable.
type SchemaDocument struct {
	Format   SchemaFormat
	Document any
}

// SchemaGenerator transforms a built snapshot into a schema document. All
// implementations MUST be safe for concurrent use and handle nil inputs by
// returning an empty schema document.
type SchemaGenerator interface {
	Generate(value any) (SchemaDocument, error)
}

// Response stores a typed result produced by an evaluator.
type Response[T any] struct {
	Value T
}

// RuleContext carries inputs needed when evaluating an expression.
type RuleContext struct {
	Snapshot any
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
	Path     Path
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RuleContext) withDefaultMaps() RuleContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) withDefaults() RuleContext {
	return ctx.withDefaultNow().withDefaultMaps()
}

func (ctx RuleContext) pathLabel() string {
	if len(ctx.Path) == 0 {
		return "unknown"
	}
	return ctx.Path.Key()
}

func (ctx RuleContext) pathBinding() []string {
	if len(ctx.Path) == 0 {
		return nil
	}
	return []string(ctx.Path.clone())
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// Option configures a Document produced by Finalize.
type Option func(*documentConfig)

type documentConfig struct {
	evaluator       Evaluator
	programCache    ProgramCache
	functions       *FunctionRegistry
	logger          EvaluatorLogger
	schemaGenerator SchemaGenerator
	activityHooks   activity.Hooks
}

func applyOptions(opts []Option) documentConfig {
	cfg := documentConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func (d *Document) evaluator() Evaluator {
	return d.cfg.evaluator
}

func (d *Document) withEvaluator(e Evaluator) {
	d.cfg.evaluator = e
}

func (d *Document) programCache() ProgramCache {
	return d.cfg.programCache
}

func (d *Document) functionRegistry() *FunctionRegistry {
	return d.cfg.functions
}

func (d *Document) evaluatorLogger() EvaluatorLogger {
	if d.cfg.logger != nil {
		return d.cfg.logger
	}
	return noopEvaluatorLogger{}
}

// WithSchemaGenerator configures a custom schema generator implementation.
func WithSchemaGenerator(generator SchemaGenerator) Option {
	return func(cfg *documentConfig) {
		cfg.schemaGenerator = generator
	}
}

func (d *Document) schemaGenerator() SchemaGenerator {
	if d == nil {
		return DefaultSchemaGenerator()
	}
	if d.cfg.schemaGenerator != nil {
		return d.cfg.schemaGenerator
	}
	return DefaultSchemaGenerator()
}
