package tree

// Clone deep-copies the subtree at id within the same tree, assigning fresh
// IDs throughout. The copy is detached and shares no state with the source.
func (t *Tree) Clone(id NodeID) (NodeID, error) {
	if _, err := t.node(id); err != nil {
		return 0, err
	}
	return t.cloneSubtree(id), nil
}

func (t *Tree) cloneSubtree(id NodeID) NodeID {
	dst := t.alloc(t.nodes[id].kind)
	// alloc may grow the backing array; index t.nodes fresh on every access
	t.nodes[dst].name = t.nodes[id].name
	t.nodes[dst].text = t.nodes[id].text
	t.nodes[dst].target = t.nodes[id].target
	if n := len(t.nodes[id].attrs); n > 0 {
		attrs := make([]Attr, n)
		copy(attrs, t.nodes[id].attrs)
		t.nodes[dst].attrs = attrs
	}
	if n := len(t.nodes[id].ns); n > 0 {
		ns := make([]NSDecl, n)
		copy(ns, t.nodes[id].ns)
		t.nodes[dst].ns = ns
	}
	for c := t.nodes[id].firstChild; c != 0; c = t.nodes[c].nextSib {
		t.linkLast(dst, t.cloneSubtree(c))
	}
	return dst
}
