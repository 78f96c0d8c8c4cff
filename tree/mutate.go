package tree

import "fmt"

// isAncestor reports whether a is an ancestor of b (or a == b).
func (t *Tree) isAncestor(a, b NodeID) bool {
	for cur := b; cur != 0; cur = t.nodes[cur].parent {
		if cur == a {
			return true
		}
	}
	return false
}

// canAttach validates every rule for placing child under parent. exclude is
// a node ignored for the single-document-element rule (used by Replace).
// The tree is not modified.
func (t *Tree) canAttach(parent, child NodeID, exclude NodeID) error {
	p, err := t.node(parent)
	if err != nil {
		return err
	}
	c, err := t.node(child)
	if err != nil {
		return err
	}
	if !p.kind.IsContainer() {
		return fmt.Errorf("%w: %s node cannot have children", ErrNotAllowedChild, p.kind)
	}
	if c.kind == DocumentKind {
		return fmt.Errorf("%w: document node cannot be a child", ErrNotAllowedChild)
	}
	if t.isAncestor(child, parent) {
		return fmt.Errorf("%w: node %d is an ancestor of node %d", ErrCycle, child, parent)
	}
	if p.kind == DocumentKind && !t.fragment {
		switch c.kind {
		case TextKind:
			return fmt.Errorf("%w: text under a document", ErrNotAllowedChild)
		case ElementKind:
			for e := p.firstChild; e != 0; e = t.nodes[e].nextSib {
				if e == child || e == exclude {
					continue
				}
				if t.nodes[e].kind == ElementKind {
					return fmt.Errorf("%w: document already has an element", ErrNotAllowedChild)
				}
			}
		}
	}
	return nil
}

// unlink removes id from its parent's child list, leaving its subtree
// intact. Link maintenance only; callers bump the generation.
func (t *Tree) unlink(id NodeID) {
	n := t.checked(id)
	if n.parent == 0 {
		return
	}
	p := t.checked(n.parent)
	if n.prevSib != 0 {
		t.nodes[n.prevSib].nextSib = n.nextSib
	} else {
		p.firstChild = n.nextSib
	}
	if n.nextSib != 0 {
		t.nodes[n.nextSib].prevSib = n.prevSib
	} else {
		p.lastChild = n.prevSib
	}
	n.parent, n.prevSib, n.nextSib = 0, 0, 0
}

func (t *Tree) linkLast(parent, id NodeID) {
	p := t.checked(parent)
	n := t.checked(id)
	n.parent = parent
	n.prevSib = p.lastChild
	if p.lastChild != 0 {
		t.nodes[p.lastChild].nextSib = id
	} else {
		p.firstChild = id
	}
	p.lastChild = id
}

func (t *Tree) linkBefore(ref, id NodeID) {
	r := t.checked(ref)
	n := t.checked(id)
	n.parent = r.parent
	n.prevSib = r.prevSib
	n.nextSib = ref
	if r.prevSib != 0 {
		t.nodes[r.prevSib].nextSib = id
	} else {
		t.checked(r.parent).firstChild = id
	}
	r.prevSib = id
}

// AppendChild places node as the last child of parent, detaching it from
// any prior parent first. The call fails without touching the tree when the
// parent is a leaf kind, the placement violates the document-element rule,
// or node is an ancestor of parent.
func (t *Tree) AppendChild(parent, node NodeID) error {
	if err := t.canAttach(parent, node, 0); err != nil {
		return err
	}
	t.unlink(node)
	t.linkLast(parent, node)
	t.gen++
	return nil
}

// InsertBefore places node immediately before ref under ref's parent, with
// AppendChild's checks and move semantics.
func (t *Tree) InsertBefore(ref, node NodeID) error {
	r, err := t.node(ref)
	if err != nil {
		return err
	}
	if r.parent == 0 {
		return fmt.Errorf("%w: reference node %d has no parent", ErrNotAllowedChild, ref)
	}
	if err := t.canAttach(r.parent, node, 0); err != nil {
		return err
	}
	if ref == node {
		return nil
	}
	t.unlink(node)
	t.linkBefore(ref, node)
	t.gen++
	return nil
}

// InsertAfter places node immediately after ref under ref's parent, with
// AppendChild's checks and move semantics.
func (t *Tree) InsertAfter(ref, node NodeID) error {
	r, err := t.node(ref)
	if err != nil {
		return err
	}
	if r.parent == 0 {
		return fmt.Errorf("%w: reference node %d has no parent", ErrNotAllowedChild, ref)
	}
	if err := t.canAttach(r.parent, node, 0); err != nil {
		return err
	}
	if ref == node {
		return nil
	}
	t.unlink(node)
	if next := t.nodes[ref].nextSib; next != 0 {
		t.linkBefore(next, node)
	} else {
		t.linkLast(t.nodes[ref].parent, node)
	}
	t.gen++
	return nil
}

// Detach unlinks node from its parent without destroying it. The subtree
// stays intact and independently re-attachable. Detaching an already
// detached node is a no-op.
func (t *Tree) Detach(node NodeID) error {
	n, err := t.node(node)
	if err != nil {
		return err
	}
	if n.parent == 0 {
		return nil
	}
	t.unlink(node)
	t.gen++
	return nil
}

// Remove detaches node and permanently destroys its subtree. Every ID in
// the subtree becomes invalid; later access fails with ErrNotFound.
func (t *Tree) Remove(node NodeID) error {
	if _, err := t.node(node); err != nil {
		return err
	}
	if node == t.root {
		return fmt.Errorf("%w: cannot remove the root container", ErrNotAllowedChild)
	}
	t.unlink(node)
	t.kill(node)
	t.gen++
	return nil
}

func (t *Tree) kill(id NodeID) {
	n := t.checked(id)
	for c := n.firstChild; c != 0; {
		next := t.nodes[c].nextSib
		t.kill(c)
		c = next
	}
	*n = node{}
}

// Replace swaps new into old's position and detaches old, atomically:
// either both happen or the tree is untouched. Old stays alive and
// detached; remove it separately if it is no longer wanted.
func (t *Tree) Replace(old, new NodeID) error {
	o, err := t.node(old)
	if err != nil {
		return err
	}
	if _, err := t.node(new); err != nil {
		return err
	}
	if o.parent == 0 {
		return fmt.Errorf("%w: node %d has no parent to replace under", ErrNotAllowedChild, old)
	}
	if old == new {
		return nil
	}
	parent := o.parent
	if err := t.canAttach(parent, new, old); err != nil {
		return err
	}
	// anchor is the first following sibling that keeps its place
	anchor := o.nextSib
	if anchor == new {
		anchor = t.nodes[new].nextSib
	}
	t.unlink(old)
	t.unlink(new)
	if anchor != 0 {
		t.linkBefore(anchor, new)
	} else {
		t.linkLast(parent, new)
	}
	t.gen++
	return nil
}
