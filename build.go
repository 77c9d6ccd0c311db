package settings

// Build projects the live node graph into a plain, builder-free value tree
// and returns it alongside the tree's collection id ("" when the tree
// registers as a new root rather than splicing under an existing one).
//
// Build is a pure projection: it never mutates the graph, settings remain
// lens-addressable afterwards, and repeated calls yield structurally equal
// snapshots. Nested trees, pages, and settings are serialized recursively
// and the recursive results are spliced into the parent snapshot, so the
// output contains no live node references. Lens bindings and other internal
// bookkeeping never appear in the output.
func (t *Tree) Build() (map[string]any, string) {
	return t.snapshot(), t.collectionID
}

func (t *Tree) snapshot() map[string]any {
	children := make([]any, len(t.children))
	for i, child := range t.children {
		children[i] = child.snapshot()
	}
	out := map[string]any{
		"id":       t.id,
		"path":     []string(t.path.clone()),
		"children": children,
	}
	if t.collectionID != "" {
		out["collection_id"] = t.collectionID
	}
	return out
}

func (p *Page) snapshot() map[string]any {
	settings := make([]any, len(p.settings))
	for i, setting := range p.settings {
		settings[i] = setting.snapshot()
	}
	return map[string]any{
		"id":       p.id,
		"path":     []string(p.path.clone()),
		"settings": settings,
	}
}

func (s *Setting) snapshot() map[string]any {
	return map[string]any{
		"id":      s.id,
		"path":    []string(s.path.clone()),
		"default": CloneSnapshot(s.def),
	}
}
