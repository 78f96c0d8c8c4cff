package tree

// Equal reports structural equality of two subtrees: same kinds, names,
// attributes and own namespace declarations in order, and text content,
// over the same child sequences. Node identity and tree membership are
// ignored, so subtrees of different trees compare fine.
func Equal(a *Tree, aID NodeID, b *Tree, bID NodeID) bool {
	return EqualNorm(a, aID, b, bID, nil)
}

// EqualNorm is Equal with text and attribute values passed through norm
// before comparison. Names, prefixes and namespace URIs are compared
// verbatim. A nil norm compares values verbatim too.
func EqualNorm(a *Tree, aID NodeID, b *Tree, bID NodeID, norm func(string) string) bool {
	an, errA := a.node(aID)
	bn, errB := b.node(bID)
	if errA != nil || errB != nil {
		return errA != nil && errB != nil
	}
	if an.kind != bn.kind {
		return false
	}
	if norm == nil {
		norm = func(s string) string { return s }
	}
	if an.name != bn.name || norm(an.text) != norm(bn.text) || an.target != bn.target {
		return false
	}
	if len(an.attrs) != len(bn.attrs) || len(an.ns) != len(bn.ns) {
		return false
	}
	for i := range an.attrs {
		if an.attrs[i].Name != bn.attrs[i].Name {
			return false
		}
		if norm(an.attrs[i].Value) != norm(bn.attrs[i].Value) {
			return false
		}
	}
	for i := range an.ns {
		if an.ns[i] != bn.ns[i] {
			return false
		}
	}
	ac, bc := an.firstChild, bn.firstChild
	for ac != 0 && bc != 0 {
		if !EqualNorm(a, ac, b, bc, norm) {
			return false
		}
		ac = a.nodes[ac].nextSib
		bc = b.nodes[bc].nextSib
	}
	return ac == 0 && bc == 0
}
