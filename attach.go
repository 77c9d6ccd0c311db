package settings

import "fmt"

// Pages attaches the supplied pages to the tree in call order and assigns
// each page its path. The same handles are returned in input order so call
// sites can destructure positionally. A nil entry fails with ErrNilChild
// naming its 1-based position and nothing is attached. Duplicate ids are
// not checked; sibling uniqueness is the caller's responsibility.
func (t *Tree) Pages(pages ...*Page) ([]*Page, error) {
	for i, page := range pages {
		if page == nil {
			return nil, fmt.Errorf("%w: page at position %d", ErrNilChild, i+1)
		}
	}
	for _, page := range pages {
		t.attach(page)
	}
	return pages, nil
}

// Subtrees attaches the supplied trees to the tree in call order, replacing
// each subtree's root path with the derived one. Children already attached
// to a subtree keep the paths they were assigned at their own attachment
// time, so attachment order matters. Contract otherwise matches Pages.
func (t *Tree) Subtrees(trees ...*Tree) ([]*Tree, error) {
	for i, subtree := range trees {
		if subtree == nil {
			return nil, fmt.Errorf("%w: subtree at position %d", ErrNilChild, i+1)
		}
	}
	for _, subtree := range trees {
		t.attach(subtree)
	}
	return trees, nil
}

// Settings attaches the supplied settings to the page in call order and
// assigns each setting its path. Contract matches Tree.Pages.
func (p *Page) Settings(settings ...*Setting) ([]*Setting, error) {
	for i, setting := range settings {
		if setting == nil {
			return nil, fmt.Errorf("%w: setting at position %d", ErrNilChild, i+1)
		}
	}
	for _, setting := range settings {
		setting.setPath(p.path.child(setting.id))
		p.settings = append(p.settings, setting)
	}
	return settings, nil
}

func (t *Tree) attach(child treeChild) {
	child.setPath(t.path.child(child.ID()))
	t.children = append(t.children, child)
}
