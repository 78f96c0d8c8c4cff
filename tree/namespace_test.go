package tree

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func nsTree(t *testing.T) (*Tree, NodeID, NodeID, NodeID) {
	t.Helper()
	tr := New()
	root := tr.NewElement(Name{Local: "root"})
	mid := tr.NewElement(Name{Local: "mid"})
	leaf := tr.NewElement(Name{Local: "leaf"})
	if err := tr.AppendChild(tr.Root(), root); err != nil {
		t.Fatal(err)
	}
	if err := tr.AppendChild(root, mid); err != nil {
		t.Fatal(err)
	}
	if err := tr.AppendChild(mid, leaf); err != nil {
		t.Fatal(err)
	}
	return tr, root, mid, leaf
}

func TestLookupURIScoping(t *testing.T) {
	tr, root, mid, leaf := nsTree(t)
	if err := tr.AddNamespace(root, "x", "urn:outer"); err != nil {
		t.Fatal(err)
	}
	if err := tr.AddNamespace(mid, "x", "urn:inner"); err != nil {
		t.Fatal(err)
	}

	for _, tc := range []struct {
		scope NodeID
		want  string
	}{
		{root, "urn:outer"},
		{mid, "urn:inner"},
		{leaf, "urn:inner"},
	} {
		got, err := tr.LookupURI(tc.scope, "x")
		if err != nil || got != tc.want {
			t.Errorf("scope %d: got %q %v, want %q", tc.scope, got, err, tc.want)
		}
	}
}

func TestLookupURIBuiltins(t *testing.T) {
	tr, root, _, _ := nsTree(t)
	if uri, err := tr.LookupURI(root, "xml"); err != nil || uri != XMLNamespace {
		t.Errorf("xml: %q %v", uri, err)
	}
	if uri, err := tr.LookupURI(root, "xmlns"); err != nil || uri != XMLNSNamespace {
		t.Errorf("xmlns: %q %v", uri, err)
	}
	// undeclared default namespace is no namespace
	if uri, err := tr.LookupURI(root, ""); err != nil || uri != "" {
		t.Errorf("default: %q %v", uri, err)
	}
	if _, err := tr.LookupURI(root, "nope"); !errors.Is(err, ErrUnresolvedPrefix) {
		t.Errorf("got %v", err)
	}
}

func TestAddNamespaceConflict(t *testing.T) {
	tr, root, _, _ := nsTree(t)
	if err := tr.AddNamespace(root, "x", "urn:a"); err != nil {
		t.Fatal(err)
	}
	// same binding again is a no-op
	if err := tr.AddNamespace(root, "x", "urn:a"); err != nil {
		t.Fatal(err)
	}
	if len(tr.Warnings()) != 0 {
		t.Fatalf("warnings after no-op: %v", tr.Warnings())
	}
	// conflicting rebind warns and overrides
	if err := tr.AddNamespace(root, "x", "urn:b"); err != nil {
		t.Fatal(err)
	}
	if uri, _ := tr.LookupURI(root, "x"); uri != "urn:b" {
		t.Errorf("got %q", uri)
	}
	w := tr.Warnings()
	if len(w) != 1 || w[0].Node != root || w[0].Prefix != "x" {
		t.Fatalf("got warnings %v", w)
	}
	decls, _ := tr.Namespaces(root)
	if d := cmp.Diff([]NSDecl{{Prefix: "x", URI: "urn:b"}}, decls); d != "" {
		t.Fatal(d)
	}
}

func TestAddNamespaceStrict(t *testing.T) {
	tr, root, _, _ := nsTree(t)
	tr.SetStrictNS(true)
	if err := tr.AddNamespace(root, "x", "urn:a"); err != nil {
		t.Fatal(err)
	}
	if err := tr.AddNamespace(root, "x", "urn:b"); !errors.Is(err, ErrNSConflict) {
		t.Fatalf("got %v", err)
	}
	// binding unchanged after the failure
	if uri, _ := tr.LookupURI(root, "x"); uri != "urn:a" {
		t.Errorf("got %q", uri)
	}
}

func TestRemoveNamespace(t *testing.T) {
	tr, root, mid, leaf := nsTree(t)
	if err := tr.AddNamespace(root, "x", "urn:outer"); err != nil {
		t.Fatal(err)
	}
	if err := tr.AddNamespace(mid, "x", "urn:inner"); err != nil {
		t.Fatal(err)
	}
	if err := tr.RemoveNamespace(mid, "x"); err != nil {
		t.Fatal(err)
	}
	// outer binding shows through again
	if uri, _ := tr.LookupURI(leaf, "x"); uri != "urn:outer" {
		t.Errorf("got %q", uri)
	}
	// removing an absent prefix is fine
	if err := tr.RemoveNamespace(mid, "nope"); err != nil {
		t.Fatal(err)
	}
}

func TestLookupPrefix(t *testing.T) {
	tr, root, mid, leaf := nsTree(t)
	if err := tr.AddNamespace(root, "x", "urn:a"); err != nil {
		t.Fatal(err)
	}
	if p, ok := tr.LookupPrefix(leaf, "urn:a"); !ok || p != "x" {
		t.Errorf("got %q %v", p, ok)
	}
	if _, ok := tr.LookupPrefix(leaf, "urn:unknown"); ok {
		t.Error("found prefix for unknown uri")
	}
	// a nearer rebinding of x shadows the outer one
	if err := tr.AddNamespace(mid, "x", "urn:b"); err != nil {
		t.Fatal(err)
	}
	if _, ok := tr.LookupPrefix(leaf, "urn:a"); ok {
		t.Error("shadowed binding still visible")
	}
	if p, ok := tr.LookupPrefix(leaf, XMLNamespace); !ok || p != "xml" {
		t.Errorf("got %q %v", p, ok)
	}
}

func TestNamespacesOnNonElement(t *testing.T) {
	tr := New()
	text := tr.NewText("x")
	if _, err := tr.Namespaces(text); !errors.Is(err, ErrNotElement) {
		t.Errorf("got %v", err)
	}
	if err := tr.AddNamespace(text, "x", "urn:a"); !errors.Is(err, ErrNotElement) {
		t.Errorf("got %v", err)
	}
}
