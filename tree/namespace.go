package tree

import "fmt"

// Namespace URIs with fixed, always-bound prefixes.
const (
	XMLNamespace   = "http://www.w3.org/XML/1998/namespace"
	XMLNSNamespace = "http://www.w3.org/2000/xmlns/"
)

// Namespaces returns the element's own declaration set in declaration
// order. The slice is a copy; ancestors' declarations are not included.
func (t *Tree) Namespaces(el NodeID) ([]NSDecl, error) {
	n, err := t.element(el)
	if err != nil {
		return nil, err
	}
	res := make([]NSDecl, len(n.ns))
	copy(res, n.ns)
	return res, nil
}

// AddNamespace declares prefix→uri on the element. Declaring a prefix the
// element already binds to a different URI overrides it last-declared-wins
// and records a Warning, or fails with ErrNSConflict in strict mode.
// Descendants' resolved bindings change only through normal ancestor-scope
// lookup.
func (t *Tree) AddNamespace(el NodeID, prefix, uri string) error {
	n, err := t.element(el)
	if err != nil {
		return err
	}
	for i := range n.ns {
		if n.ns[i].Prefix != prefix {
			continue
		}
		if n.ns[i].URI == uri {
			return nil
		}
		if t.strictNS {
			return fmt.Errorf("%w: prefix %q bound to %q and %q on node %d",
				ErrNSConflict, prefix, n.ns[i].URI, uri, el)
		}
		t.warnings = append(t.warnings, Warning{
			Node:   el,
			Prefix: prefix,
			Msg:    fmt.Sprintf("prefix %q rebound from %q to %q", prefix, n.ns[i].URI, uri),
		})
		n.ns[i].URI = uri
		return nil
	}
	n.ns = append(n.ns, NSDecl{Prefix: prefix, URI: uri})
	return nil
}

// RemoveNamespace deletes the element's own declaration for prefix; absent
// prefixes are a no-op.
func (t *Tree) RemoveNamespace(el NodeID, prefix string) error {
	n, err := t.element(el)
	if err != nil {
		return err
	}
	for i := range n.ns {
		if n.ns[i].Prefix == prefix {
			n.ns = append(n.ns[:i], n.ns[i+1:]...)
			return nil
		}
	}
	return nil
}

// LookupURI resolves prefix at scope by walking from scope up through its
// ancestors and returning the nearest declaration. The xml and xmlns
// prefixes are always bound. An undeclared default namespace (empty
// prefix) resolves to "" (no namespace); an undeclared explicit prefix
// fails with ErrUnresolvedPrefix.
func (t *Tree) LookupURI(scope NodeID, prefix string) (string, error) {
	switch prefix {
	case "xml":
		return XMLNamespace, nil
	case "xmlns":
		return XMLNSNamespace, nil
	}
	if _, err := t.node(scope); err != nil {
		return "", err
	}
	for cur := scope; cur != 0; cur = t.nodes[cur].parent {
		n := &t.nodes[cur]
		if n.kind != ElementKind {
			continue
		}
		// last declared wins within one element
		for i := len(n.ns) - 1; i >= 0; i-- {
			if n.ns[i].Prefix == prefix {
				return n.ns[i].URI, nil
			}
		}
	}
	if prefix == "" {
		return "", nil
	}
	return "", fmt.Errorf("%w: %q at node %d", ErrUnresolvedPrefix, prefix, scope)
}

// LookupPrefix returns a prefix bound to uri and visible at scope, if any.
// A binding is visible only when no nearer declaration shadows its prefix.
func (t *Tree) LookupPrefix(scope NodeID, uri string) (string, bool) {
	switch uri {
	case XMLNamespace:
		return "xml", true
	case XMLNSNamespace:
		return "xmlns", true
	}
	if _, err := t.node(scope); err != nil {
		return "", false
	}
	for cur := scope; cur != 0; cur = t.nodes[cur].parent {
		n := &t.nodes[cur]
		if n.kind != ElementKind {
			continue
		}
		for i := len(n.ns) - 1; i >= 0; i-- {
			if n.ns[i].URI != uri {
				continue
			}
			got, err := t.LookupURI(scope, n.ns[i].Prefix)
			if err == nil && got == uri {
				return n.ns[i].Prefix, true
			}
		}
	}
	return "", false
}
