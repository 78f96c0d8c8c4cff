package tree

import "fmt"

func (t *Tree) element(id NodeID) (*node, error) {
	n, err := t.node(id)
	if err != nil {
		return nil, err
	}
	if n.kind != ElementKind {
		return nil, fmt.Errorf("%w: %s node", ErrNotElement, n.kind)
	}
	return n, nil
}

// Attr returns the value of the named attribute and whether it exists.
func (t *Tree) Attr(el NodeID, name Name) (string, bool) {
	n, err := t.element(el)
	if err != nil {
		return "", false
	}
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			return n.attrs[i].Value, true
		}
	}
	return "", false
}

// Attrs returns the element's attributes in declaration order. The slice is
// a copy.
func (t *Tree) Attrs(el NodeID) ([]Attr, error) {
	n, err := t.element(el)
	if err != nil {
		return nil, err
	}
	res := make([]Attr, len(n.attrs))
	copy(res, n.attrs)
	return res, nil
}

// SetAttr sets the named attribute. An existing attribute keeps its
// position in declaration order and gets the new value; otherwise the
// attribute is appended.
func (t *Tree) SetAttr(el NodeID, name Name, value string) error {
	n, err := t.element(el)
	if err != nil {
		return err
	}
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs[i].Value = value
			return nil
		}
	}
	n.attrs = append(n.attrs, Attr{Name: name, Value: value})
	return nil
}

// RemoveAttr deletes the named attribute; absent names are a no-op. The
// element's namespace declarations are never touched, even when the removed
// attribute was the last user of a prefix: prefix liveness is decided at
// serialization time.
func (t *Tree) RemoveAttr(el NodeID, name Name) error {
	n, err := t.element(el)
	if err != nil {
		return err
	}
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return nil
		}
	}
	return nil
}
