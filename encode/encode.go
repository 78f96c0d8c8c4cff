// Package encode serializes trees back to XML text. Output is
// well-formed: content is escaped, and every namespace in use is in
// scope, with prefixes synthesized where the tree declares none.
package encode

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/domtree/go-domtree/tree"
)

type EncState struct {
	indent int
	decl   bool
	nextNS int

	Color func(tree.Kind, ColorAttr, string) string
}

// Encode writes the subtree rooted at id to w. Encoding a document node
// writes the whole document; any other node writes just that subtree.
func Encode(t *tree.Tree, id tree.NodeID, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{}
	for _, opt := range opts {
		opt(es)
	}
	if !t.Valid(id) {
		return fmt.Errorf("%w: invalid node", ErrEncoding)
	}
	if err := es.node(t, id, w, nil, 0); err != nil {
		return err
	}
	if es.indent > 0 {
		return writeString(w, "\n")
	}
	return nil
}

// String encodes to a string.
func String(t *tree.Tree, id tree.NodeID, opts ...EncodeOption) (string, error) {
	var buf bytes.Buffer
	if err := Encode(t, id, &buf, opts...); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// MustString is String for trees known to be encodable; it panics on
// error.
func MustString(t *tree.Tree, id tree.NodeID, opts ...EncodeOption) string {
	s, err := String(t, id, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// nsScope is a chain of in-scope namespace declarations, innermost
// first.
type nsScope struct {
	parent *nsScope
	decls  []tree.NSDecl
}

func (s *nsScope) uri(prefix string) (string, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		for i := len(sc.decls) - 1; i >= 0; i-- {
			if sc.decls[i].Prefix == prefix {
				return sc.decls[i].URI, true
			}
		}
	}
	return "", false
}

// prefixFor finds an in-scope, unshadowed prefix bound to uri. The
// default prefix only qualifies for element names.
func (s *nsScope) prefixFor(uri string, allowDefault bool) (string, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		for i := len(sc.decls) - 1; i >= 0; i-- {
			d := sc.decls[i]
			if d.URI != uri {
				continue
			}
			if d.Prefix == "" && !allowDefault {
				continue
			}
			if u, ok := s.uri(d.Prefix); ok && u == uri {
				return d.Prefix, true
			}
		}
	}
	return "", false
}

func (es *EncState) node(t *tree.Tree, id tree.NodeID, w io.Writer, scope *nsScope, depth int) error {
	switch t.Kind(id) {
	case tree.DocumentKind:
		return es.document(t, id, w)
	case tree.ElementKind:
		return es.element(t, id, w, scope, depth)
	case tree.TextKind:
		text, err := t.Text(id)
		if err != nil {
			return err
		}
		return writeString(w, es.colored(tree.TextKind, ValueColor, escapeText(text)))
	case tree.CommentKind:
		return es.comment(t, id, w)
	case tree.ProcInstKind:
		return es.procInst(t, id, w)
	}
	return fmt.Errorf("%w: invalid node", ErrEncoding)
}

func (es *EncState) document(t *tree.Tree, id tree.NodeID, w io.Writer) error {
	if es.decl {
		decl := `<?xml version="1.0" encoding="UTF-8"?>`
		if err := writeString(w, es.colored(tree.ProcInstKind, TagColor, decl)); err != nil {
			return err
		}
		if err := writeString(w, "\n"); err != nil {
			return err
		}
	}
	first := true
	for child := range t.Children(id) {
		if !first && es.indent > 0 {
			if err := writeString(w, "\n"); err != nil {
				return err
			}
		}
		first = false
		if err := es.node(t, child, w, nil, 0); err != nil {
			return err
		}
	}
	return nil
}

func (es *EncState) comment(t *tree.Tree, id tree.NodeID, w io.Writer) error {
	text, err := t.Text(id)
	if err != nil {
		return err
	}
	if strings.Contains(text, "--") || strings.HasSuffix(text, "-") {
		return fmt.Errorf("%w: comment content %q", ErrEncoding, text)
	}
	return writeString(w, es.colored(tree.CommentKind, ValueColor, "<!--"+text+"-->"))
}

func (es *EncState) procInst(t *tree.Tree, id tree.NodeID, w io.Writer) error {
	target, err := t.Target(id)
	if err != nil {
		return err
	}
	data, err := t.Text(id)
	if err != nil {
		return err
	}
	if strings.Contains(data, "?>") {
		return fmt.Errorf("%w: processing instruction content %q", ErrEncoding, data)
	}
	if err := writeString(w, "<?"+es.colored(tree.ProcInstKind, TagColor, target)); err != nil {
		return err
	}
	if data != "" {
		if err := writeString(w, " "+es.colored(tree.ProcInstKind, ValueColor, data)); err != nil {
			return err
		}
	}
	return writeString(w, "?>")
}

func (es *EncState) element(t *tree.Tree, el tree.NodeID, w io.Writer, scope *nsScope, depth int) error {
	own, err := t.Namespaces(el)
	if err != nil {
		return err
	}
	scope = &nsScope{parent: scope, decls: append([]tree.NSDecl(nil), own...)}
	emit := append([]tree.NSDecl(nil), own...)

	name, err := t.Name(el)
	if err != nil {
		return err
	}
	prefix, err := es.qualify(t, el, scope, &emit, name.Space, true)
	if err != nil {
		return err
	}
	tag := name.Local
	if prefix != "" {
		tag = prefix + ":" + tag
	}

	attrs, err := t.Attrs(el)
	if err != nil {
		return err
	}
	type encAttr struct{ qn, val string }
	encAttrs := make([]encAttr, 0, len(attrs))
	for _, a := range attrs {
		qn := a.Name.Local
		if a.Name.Space != "" {
			p, err := es.qualify(t, el, scope, &emit, a.Name.Space, false)
			if err != nil {
				return err
			}
			qn = p + ":" + qn
		}
		encAttrs = append(encAttrs, encAttr{qn: qn, val: a.Value})
	}

	if err := writeString(w, "<"+es.colored(tree.ElementKind, TagColor, tag)); err != nil {
		return err
	}
	for _, d := range emit {
		qn := "xmlns"
		if d.Prefix != "" {
			qn = "xmlns:" + d.Prefix
		}
		s := " " + es.colored(tree.ElementKind, FieldColor, qn) +
			`="` + es.colored(tree.ElementKind, ValueColor, escapeAttr(d.URI)) + `"`
		if err := writeString(w, s); err != nil {
			return err
		}
	}
	for _, a := range encAttrs {
		s := " " + es.colored(tree.ElementKind, FieldColor, a.qn) +
			`="` + es.colored(tree.ElementKind, ValueColor, escapeAttr(a.val)) + `"`
		if err := writeString(w, s); err != nil {
			return err
		}
	}

	if t.FirstChild(el) == 0 {
		return writeString(w, "/>")
	}
	if err := writeString(w, ">"); err != nil {
		return err
	}
	if err := es.children(t, el, w, scope, depth); err != nil {
		return err
	}
	return writeString(w, "</"+es.colored(tree.ElementKind, TagColor, tag)+">")
}

func (es *EncState) children(t *tree.Tree, el tree.NodeID, w io.Writer, scope *nsScope, depth int) error {
	// mixed content stays inline so text round-trips byte for byte
	pretty := es.indent > 0
	if pretty {
		for child := range t.Children(el) {
			if t.Kind(child) == tree.TextKind {
				pretty = false
				break
			}
		}
	}
	for child := range t.Children(el) {
		if pretty {
			pad := strings.Repeat(" ", es.indent*(depth+1))
			if err := writeString(w, "\n"+pad); err != nil {
				return err
			}
		}
		if err := es.node(t, child, w, scope, depth+1); err != nil {
			return err
		}
	}
	if pretty {
		pad := strings.Repeat(" ", es.indent*depth)
		if err := writeString(w, "\n"+pad); err != nil {
			return err
		}
	}
	return nil
}

// qualify returns the prefix to use for space in el's output scope,
// declaring one when nothing in scope covers it. emit grows with every
// declaration added here.
func (es *EncState) qualify(t *tree.Tree, el tree.NodeID, scope *nsScope, emit *[]tree.NSDecl, space string, isElement bool) (string, error) {
	if space == "" {
		if !isElement {
			return "", nil
		}
		// an inherited default namespace would capture this name
		if u, ok := scope.uri(""); ok && u != "" {
			addDecl(scope, emit, tree.NSDecl{Prefix: "", URI: ""})
		}
		return "", nil
	}
	if space == tree.XMLNamespace {
		return "xml", nil
	}
	if p, ok := scope.prefixFor(space, isElement); ok {
		return p, nil
	}
	// prefer the prefix the tree itself binds for this namespace
	if p, ok := t.LookupPrefix(el, space); ok && (p != "" || isElement) {
		if _, bound := scope.uri(p); !bound {
			addDecl(scope, emit, tree.NSDecl{Prefix: p, URI: space})
			return p, nil
		}
	}
	for {
		p := fmt.Sprintf("ns%d", es.nextNS)
		es.nextNS++
		if _, bound := scope.uri(p); bound {
			continue
		}
		addDecl(scope, emit, tree.NSDecl{Prefix: p, URI: space})
		return p, nil
	}
}

// addDecl records d in the current scope and the emit list, replacing
// any earlier declaration of the same prefix on this element.
func addDecl(scope *nsScope, emit *[]tree.NSDecl, d tree.NSDecl) {
	for i := range *emit {
		if (*emit)[i].Prefix == d.Prefix {
			(*emit)[i] = d
			replaceDecl(scope, d)
			return
		}
	}
	*emit = append(*emit, d)
	scope.decls = append(scope.decls, d)
}

func replaceDecl(scope *nsScope, d tree.NSDecl) {
	for i := range scope.decls {
		if scope.decls[i].Prefix == d.Prefix {
			scope.decls[i] = d
			return
		}
	}
	scope.decls = append(scope.decls, d)
}

func (es *EncState) colored(k tree.Kind, a ColorAttr, s string) string {
	if es.Color == nil {
		return s
	}
	return es.Color(k, a, s)
}

func writeString(w io.Writer, s string) error {
	_, err := w.Write([]byte(s))
	return err
}

var (
	textEsc = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\r", "&#13;")
	attrEsc = strings.NewReplacer(
		"&", "&amp;", "<", "&lt;", `"`, "&quot;",
		"\t", "&#9;", "\n", "&#10;", "\r", "&#13;",
	)
)

func escapeText(s string) string {
	return textEsc.Replace(s)
}

func escapeAttr(s string) string {
	return attrEsc.Replace(s)
}
