package tree

import "iter"

// Traversal sequences are lazy: they walk the arena links one step at a
// time without materializing lists. Each sequence captures the tree's
// generation when iteration starts; if a structural mutation happens while
// iterating, the sequence stops instead of walking possibly re-linked
// nodes. Callers that must distinguish "finished" from "interrupted"
// compare Generation before and after.

// Children iterates id's children in document order.
func (t *Tree) Children(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		gen := t.gen
		c := t.FirstChild(id)
		for c != 0 && t.gen == gen {
			next := t.nodes[c].nextSib
			if !yield(c) {
				return
			}
			c = next
		}
	}
}

// Descendants iterates the subtree under id in pre-order, excluding id
// itself.
func (t *Tree) Descendants(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		gen := t.gen
		if !t.Valid(id) {
			return
		}
		cur := t.nodes[id].firstChild
		for cur != 0 && t.gen == gen {
			if !yield(cur) {
				return
			}
			if t.gen != gen {
				return
			}
			switch {
			case t.nodes[cur].firstChild != 0:
				cur = t.nodes[cur].firstChild
			case t.nodes[cur].nextSib != 0:
				cur = t.nodes[cur].nextSib
			default:
				for cur != 0 && cur != id && t.nodes[cur].nextSib == 0 {
					cur = t.nodes[cur].parent
				}
				if cur == 0 || cur == id {
					return
				}
				cur = t.nodes[cur].nextSib
			}
		}
	}
}

// Ancestors iterates from id's parent up to the root container.
func (t *Tree) Ancestors(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		gen := t.gen
		c := t.Parent(id)
		for c != 0 && t.gen == gen {
			next := t.nodes[c].parent
			if !yield(c) {
				return
			}
			c = next
		}
	}
}

// FollowingSiblings iterates the siblings after id, nearest first.
func (t *Tree) FollowingSiblings(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		gen := t.gen
		c := t.NextSibling(id)
		for c != 0 && t.gen == gen {
			next := t.nodes[c].nextSib
			if !yield(c) {
				return
			}
			c = next
		}
	}
}

// PrecedingSiblings iterates the siblings before id, nearest first.
func (t *Tree) PrecedingSiblings(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		gen := t.gen
		c := t.PrevSibling(id)
		for c != 0 && t.gen == gen {
			next := t.nodes[c].prevSib
			if !yield(c) {
				return
			}
			c = next
		}
	}
}

// Visit walks the subtree at id depth-first, calling f before and after
// each node's children; dive=false on the pre call skips the children.
// Unlike the Seq forms, which stop silently, Visit fails with
// ErrConcurrentModification if the tree is structurally mutated during
// the walk.
func (t *Tree) Visit(id NodeID, f func(id NodeID, isPost bool) (bool, error)) error {
	if _, err := t.node(id); err != nil {
		return err
	}
	return t.visit(id, t.gen, f)
}

func (t *Tree) visit(id NodeID, gen uint64, f func(NodeID, bool) (bool, error)) error {
	dive, err := f(id, false)
	if err != nil {
		return err
	}
	if t.gen != gen {
		return ErrConcurrentModification
	}
	if dive {
		for c := t.nodes[id].firstChild; c != 0; c = t.nodes[c].nextSib {
			if err := t.visit(c, gen, f); err != nil {
				return err
			}
		}
	}
	if _, err := f(id, true); err != nil {
		return err
	}
	if t.gen != gen {
		return ErrConcurrentModification
	}
	return nil
}

// ChildElements collects id's element children. Unlike the Seq forms this
// materializes, for callers that mutate while visiting.
func (t *Tree) ChildElements(id NodeID) []NodeID {
	var res []NodeID
	for c := t.FirstChild(id); c != 0; c = t.NextSibling(c) {
		if t.nodes[c].kind == ElementKind {
			res = append(res, c)
		}
	}
	return res
}
