package settings

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-settings/pkg/activity"
)

// Path is the ordered identifier sequence from an owning root to a node,
// inclusive. Paths are computed once, at attachment time, and never
// recomputed afterwards.
type Path []string

// Key joins the path with the canonical "/" delimiter. The result is the
// stable external-store key for the node. Segments are not escaped, so ids
// containing "/" will collide with nested keys.
func (p Path) Key() string {
	return strings.Join(p, "/")
}

// clone returns a detached copy so a child path never aliases its parent's
// backing array.
func (p Path) clone() Path {
	if len(p) == 0 {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

func (p Path) child(id string) Path {
	return append(p.clone(), id)
}

// Node is implemented by every schema element participating in the
// hierarchy: Tree, Page, and Setting.
type Node interface {
	ID() string
	Path() Path
}

// treeChild is the contract Tree keeps with its composite children.
type treeChild interface {
	Node
	setPath(Path)
	bindStore(Store)
	bindActivityHooks(activity.Hooks)
	snapshot() map[string]any
}

// Tree is a composite node that nests sub-trees and pages. Independent
// modules receive a *Tree reference and attach their own children to it;
// the tree records attachment order and derives child paths as it goes.
type Tree struct {
	id           string
	path         Path
	collectionID string
	children     []treeChild
}

// NewTree constructs a root-capable tree whose path starts as [id].
func NewTree(id string) (*Tree, error) {
	if err := validateID(id); err != nil {
		return nil, fmt.Errorf("%w: tree id", err)
	}
	return &Tree{
		id:   id,
		path: Path{id},
	}, nil
}

func (t *Tree) ID() string { return t.id }

// Path returns a detached copy of the tree's path.
func (t *Tree) Path() Path { return t.path.clone() }

// CollectionID reports the external attachment target, empty when the tree
// registers as a new root.
func (t *Tree) CollectionID() string { return t.collectionID }

// AttachTo marks the tree to be spliced beneath an existing external root
// named collectionID at build time instead of registering a new root. It has
// no effect on path derivation.
func (t *Tree) AttachTo(collectionID string) error {
	if err := validateID(collectionID); err != nil {
		return ErrInvalidCollectionID
	}
	t.collectionID = collectionID
	return nil
}

// Children returns the attached sub-trees and pages in attachment order.
func (t *Tree) Children() []Node {
	if len(t.children) == 0 {
		return nil
	}
	out := make([]Node, len(t.children))
	for i, child := range t.children {
		out[i] = child
	}
	return out
}

func (t *Tree) setPath(path Path) {
	t.path = path
}

// Page is a composite node that holds settings.
type Page struct {
	id       string
	path     Path
	settings []*Setting
}

// NewPage constructs an unattached page. Its path is assigned by the tree
// that attaches it.
func NewPage(id string) (*Page, error) {
	if err := validateID(id); err != nil {
		return nil, fmt.Errorf("%w: page id", err)
	}
	return &Page{id: id}, nil
}

func (p *Page) ID() string { return p.id }

// Path returns a detached copy of the page's path. It is empty until the
// page is attached to a tree.
func (p *Page) Path() Path { return p.path.clone() }

// Children returns the attached settings in attachment order.
func (p *Page) Children() []Node {
	if len(p.settings) == 0 {
		return nil
	}
	out := make([]Node, len(p.settings))
	for i, setting := range p.settings {
		out[i] = setting
	}
	return out
}

func (p *Page) setPath(path Path) {
	p.path = path
}

// Setting is the leaf node. It carries a static default and the lens
// capability: Get/Set against an external store keyed by the joined path.
type Setting struct {
	id    string
	path  Path
	def   any
	store Store
	hooks activity.Hooks
}

// SettingOption configures a setting at construction time.
type SettingOption func(*Setting)

// WithDefault sets the static default returned when neither the store nor a
// fallback produces a value.
func WithDefault(value any) SettingOption {
	return func(s *Setting) {
		s.def = value
	}
}

// WithStore injects the external store capability the lens resolves
// against. Settings without a store treat every read as a store miss and
// every write as a no-op.
func WithStore(store Store) SettingOption {
	return func(s *Setting) {
		s.store = store
	}
}

// NewSetting constructs an unattached setting. Its path is assigned by the
// page that attaches it.
func NewSetting(id string, opts ...SettingOption) (*Setting, error) {
	if err := validateID(id); err != nil {
		return nil, fmt.Errorf("%w: setting id", err)
	}
	setting := &Setting{id: id}
	for _, opt := range opts {
		if opt != nil {
			opt(setting)
		}
	}
	return setting, nil
}

func (s *Setting) ID() string { return s.id }

// Path returns a detached copy of the setting's path. It is empty until the
// setting is attached to a page.
func (s *Setting) Path() Path { return s.path.clone() }

// Default returns the static default configured at construction.
func (s *Setting) Default() any { return s.def }

func (s *Setting) setPath(path Path) {
	s.path = path
}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidID
	}
	return nil
}
