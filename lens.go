package settings

// Store is the minimal external key-value capability the lens resolves
// against. Implementations decide persistence; the lens only requires
// synchronous get/set keyed by joined paths. pkg/kv ships ready-made
// implementations.
type Store interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

const (
	sourceStore    = "store"
	sourceFallback = "fallback"
	sourceDefault  = "default"
)

// Key returns the canonical external-store key for the setting: its path
// joined with "/". Stable for a given path.
func (s *Setting) Key() string {
	return s.path.Key()
}

// Get resolves the setting value through the three-tier chain: the external
// store, the supplied fallbacks in order, then the static default. Ordinary
// absence at any tier falls through silently; only a failing fallback (a
// default table raising ErrMissingKey, or a rule fallback whose evaluation
// fails) propagates to the caller.
func (s *Setting) Get(fallbacks ...Fallback) (any, error) {
	value, _, _, err := s.resolve(fallbacks)
	return value, err
}

// Set writes value into the external store under Key and notifies any bound
// activity hooks with a settings.value.set event carrying the previous and
// new values. It is a no-op, not an error, when no store is bound; nothing
// is written and no event fires.
func (s *Setting) Set(value any) {
	if s.store == nil {
		return
	}
	previous, _ := s.store.Get(s.Key())
	s.store.Set(s.Key(), value)
	s.notifyValueSet(previous, value)
}

// BindStore walks the tree and injects store into every attached setting
// that does not already have one. Stores injected at construction via
// WithStore win over tree-wide binds. Settings attached after the bind are
// not covered; bind again or construct them with WithStore.
func (t *Tree) BindStore(store Store) {
	t.bindStore(store)
}

func (t *Tree) bindStore(store Store) {
	if store == nil {
		return
	}
	for _, child := range t.children {
		child.bindStore(store)
	}
}

func (p *Page) bindStore(store Store) {
	if store == nil {
		return
	}
	for _, setting := range p.settings {
		setting.bindStore(store)
	}
}

func (s *Setting) bindStore(store Store) {
	if s.store == nil {
		s.store = store
	}
}

func (s *Setting) resolve(fallbacks []Fallback) (any, string, []Provenance, error) {
	var tiers []Provenance
	if s.store != nil {
		value, ok := s.store.Get(s.Key())
		found := ok && value != nil
		tiers = append(tiers, Provenance{Source: sourceStore, Found: found, Value: value})
		if found {
			return value, sourceStore, tiers, nil
		}
	}
	for _, fallback := range fallbacks {
		if fallback == nil {
			continue
		}
		value, err := fallback(s.Path())
		if err != nil {
			return nil, sourceFallback, tiers, err
		}
		found := value != nil
		tiers = append(tiers, Provenance{Source: sourceFallback, Found: found, Value: value})
		if found {
			return value, sourceFallback, tiers, nil
		}
	}
	tiers = append(tiers, Provenance{Source: sourceDefault, Found: true, Value: s.def})
	return s.def, sourceDefault, tiers, nil
}
