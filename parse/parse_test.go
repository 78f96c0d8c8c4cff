package parse

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/domtree/go-domtree/token"
	"github.com/domtree/go-domtree/tree"
)

func mustParse(t *testing.T, d string, opts ...Option) *tree.Tree {
	t.Helper()
	tr, err := Parse([]byte(d), opts...)
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func kinds(t *tree.Tree, parent tree.NodeID) []tree.Kind {
	var res []tree.Kind
	for id := range t.Children(parent) {
		res = append(res, t.Kind(id))
	}
	return res
}

func TestParseSimple(t *testing.T) {
	tr := mustParse(t, `<root><child attr="1"/>text</root>`)
	root := tr.DocumentElement()
	if root == 0 {
		t.Fatal("no document element")
	}
	name, err := tr.Name(root)
	if err != nil {
		t.Fatal(err)
	}
	if name != (tree.Name{Local: "root"}) {
		t.Fatalf("got name %v", name)
	}
	want := []tree.Kind{tree.ElementKind, tree.TextKind}
	if d := cmp.Diff(want, kinds(tr, root)); d != "" {
		t.Fatal(d)
	}
	child := tr.FirstChild(root)
	if v, ok := tr.Attr(child, tree.Name{Local: "attr"}); !ok || v != "1" {
		t.Errorf("got attr %q %v", v, ok)
	}
}

func TestParseNamespaces(t *testing.T) {
	tr := mustParse(t, `<root xmlns="urn:d" xmlns:x="urn:a"><x:child x:attr="1" plain="2"/></root>`)
	root := tr.DocumentElement()
	name, _ := tr.Name(root)
	if name.Space != "urn:d" {
		t.Errorf("root space %q", name.Space)
	}
	child := tr.FirstChild(root)
	name, _ = tr.Name(child)
	if name != (tree.Name{Space: "urn:a", Local: "child"}) {
		t.Errorf("child name %v", name)
	}
	if v, ok := tr.Attr(child, tree.Name{Space: "urn:a", Local: "attr"}); !ok || v != "1" {
		t.Errorf("prefixed attr %q %v", v, ok)
	}
	// unprefixed attributes never take the default namespace
	if _, ok := tr.Attr(child, tree.Name{Space: "urn:d", Local: "plain"}); ok {
		t.Error("plain attr picked up default namespace")
	}
	if v, ok := tr.Attr(child, tree.Name{Local: "plain"}); !ok || v != "2" {
		t.Errorf("plain attr %q %v", v, ok)
	}
}

func TestParseNamespaceScope(t *testing.T) {
	tr := mustParse(t, `<root xmlns:x="urn:a"><mid xmlns:x="urn:b"><x:leaf/></mid><x:leaf/></root>`)
	root := tr.DocumentElement()
	mid := tr.FirstChild(root)
	inner := tr.FirstChild(mid)
	name, _ := tr.Name(inner)
	if name.Space != "urn:b" {
		t.Errorf("inner leaf space %q", name.Space)
	}
	outer := tr.NextSibling(mid)
	name, _ = tr.Name(outer)
	if name.Space != "urn:a" {
		t.Errorf("outer leaf space %q", name.Space)
	}
}

func TestParseUnboundPrefix(t *testing.T) {
	_, err := Parse([]byte(`<root><x:child/></root>`))
	if !errors.Is(err, tree.ErrUnresolvedPrefix) {
		t.Fatalf("got %v", err)
	}
}

func TestParseMismatchedTag(t *testing.T) {
	for _, in := range []string{
		`<a><b></a>`,
		`<a></b>`,
		`</a>`,
	} {
		if _, err := Parse([]byte(in)); !errors.Is(err, ErrMismatchedTag) {
			t.Errorf("%s: got %v", in, err)
		}
	}
}

func TestParseUnclosed(t *testing.T) {
	for _, in := range []string{`<a><b>`, ``, `<!-- only -->`} {
		if _, err := Parse([]byte(in)); !errors.Is(err, ErrUnclosedElement) {
			t.Errorf("%q: got %v", in, err)
		}
	}
}

func TestParseSecondRoot(t *testing.T) {
	if _, err := Parse([]byte(`<a/><b/>`)); !errors.Is(err, tree.ErrNotAllowedChild) {
		t.Fatalf("got %v", err)
	}
	if _, err := Parse([]byte(`<a/>stray`)); !errors.Is(err, tree.ErrNotAllowedChild) {
		t.Fatalf("got %v", err)
	}
}

func TestParseFragment(t *testing.T) {
	tr, err := ParseFragment([]byte(`leading<a/>between<b/>`))
	if err != nil {
		t.Fatal(err)
	}
	want := []tree.Kind{tree.TextKind, tree.ElementKind, tree.TextKind, tree.ElementKind}
	if d := cmp.Diff(want, kinds(tr, tr.Root())); d != "" {
		t.Fatal(d)
	}
}

func TestParseWhitespace(t *testing.T) {
	doc := "<a>\n  <b/>\n</a>"
	tr := mustParse(t, doc)
	root := tr.DocumentElement()
	if got := kinds(tr, root); len(got) != 1 || got[0] != tree.ElementKind {
		t.Fatalf("got children %v", got)
	}
	tr = mustParse(t, doc, KeepWhitespace())
	want := []tree.Kind{tree.TextKind, tree.ElementKind, tree.TextKind}
	if d := cmp.Diff(want, kinds(tr, tr.DocumentElement())); d != "" {
		t.Fatal(d)
	}
}

func TestParseTextMerging(t *testing.T) {
	tr := mustParse(t, `<a>one&amp;<![CDATA[two]]>three</a>`)
	root := tr.DocumentElement()
	if got := kinds(tr, root); len(got) != 1 {
		t.Fatalf("got children %v", got)
	}
	text, err := tr.Text(tr.FirstChild(root))
	if err != nil {
		t.Fatal(err)
	}
	if text != "one&twothree" {
		t.Errorf("got %q", text)
	}
}

func TestParseMisc(t *testing.T) {
	tr := mustParse(t, `<?xml version="1.0"?><!DOCTYPE a><?pi data?><!--c--><a/>`)
	want := []tree.Kind{tree.ProcInstKind, tree.CommentKind, tree.ElementKind}
	if d := cmp.Diff(want, kinds(tr, tr.Root())); d != "" {
		t.Fatal(d)
	}
	pi := tr.FirstChild(tr.Root())
	target, err := tr.Target(pi)
	if err != nil {
		t.Fatal(err)
	}
	if target != "pi" {
		t.Errorf("got target %q", target)
	}
}

func TestParseDuplicateNSDecl(t *testing.T) {
	doc := `<a xmlns:x="urn:a" xmlns:x="urn:b"/>`
	// identical prefixes in one tag are caught as duplicate attributes
	if _, err := Parse([]byte(doc)); !errors.Is(err, token.ErrDuplicateAttribute) {
		t.Fatalf("got %v", err)
	}
}

func TestParseDuplicateResolvedAttr(t *testing.T) {
	// distinct source names colliding after prefix resolution
	doc := `<r xmlns:a="urn:x" xmlns:b="urn:x" a:id="1" b:id="2"/>`
	_, err := Parse([]byte(doc))
	if !errors.Is(err, tree.ErrDuplicateAttribute) {
		t.Fatalf("got %v", err)
	}
	var perr *ParseErr
	if !errors.As(err, &perr) || perr.Pos == nil {
		t.Fatalf("no position on %v", err)
	}
}

func TestParsePositions(t *testing.T) {
	positions := map[tree.NodeID]*token.Pos{}
	tr := mustParse(t, "<a>\n<b/></a>", WithPositions(positions))
	b := tr.FirstChild(tr.DocumentElement())
	pos, ok := positions[b]
	if !ok {
		t.Fatal("no position recorded")
	}
	if pos.Line() != 1 {
		t.Errorf("got line %d", pos.Line())
	}
}

func TestParseEncoded(t *testing.T) {
	// UTF-16LE with BOM
	var d []byte
	d = append(d, 0xff, 0xfe)
	for _, r := range "<a x='é'/>" {
		d = append(d, byte(r), byte(r>>8))
	}
	tr, err := Parse(d)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := tr.Attr(tr.DocumentElement(), tree.Name{Local: "x"}); v != "é" {
		t.Errorf("got %q", v)
	}
}
