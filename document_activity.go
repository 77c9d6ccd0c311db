package settings

import (
	"context"

	"github.com/goliatone/go-settings/pkg/activity"
)

// WithActivityHooks attaches activity hooks to the document configuration.
// Hooks are cloned and nil entries dropped to preserve immutability.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *documentConfig) {
		cfg.activityHooks = normalized
	}
}

// ActivityHooks returns a cloned slice of activity hooks configured on the
// document. The returned slice can be safely mutated by the caller.
func (d *Document) ActivityHooks() activity.Hooks {
	if d == nil {
		return nil
	}
	return cloneActivityHooks(d.cfg.activityHooks)
}

// BindActivityHooks walks the tree and binds hooks to every attached setting
// that does not already have hooks bound, mirroring BindStore. Bound settings
// emit a settings.value.set event on every store write. Finalize binds the
// document's hooks automatically; use this for trees that are never
// finalized.
func (t *Tree) BindActivityHooks(hooks activity.Hooks) {
	t.bindActivityHooks(hooks)
}

func (t *Tree) bindActivityHooks(hooks activity.Hooks) {
	if len(hooks) == 0 {
		return
	}
	for _, child := range t.children {
		child.bindActivityHooks(hooks)
	}
}

func (p *Page) bindActivityHooks(hooks activity.Hooks) {
	if len(hooks) == 0 {
		return
	}
	for _, setting := range p.settings {
		setting.bindActivityHooks(hooks)
	}
}

func (s *Setting) bindActivityHooks(hooks activity.Hooks) {
	if s.hooks == nil {
		s.hooks = hooks
	}
}

func (s *Setting) notifyValueSet(previous, value any) {
	if !s.hooks.Enabled() {
		return
	}
	_ = s.hooks.Notify(context.Background(), activity.BuildValueSetEvent(activity.NodeEventInput{
		Path:     s.Key(),
		OldValue: previous,
		NewValue: value,
	}))
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}
