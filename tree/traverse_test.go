package tree

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// buildDeep returns a small document:
//
//	root
//	├── a
//	│   ├── a1
//	│   └── a2
//	└── b
func buildDeep(t *testing.T) (*Tree, map[string]NodeID) {
	t.Helper()
	tr := New()
	ids := map[string]NodeID{}
	mk := func(name string, parent NodeID) NodeID {
		id := tr.NewElement(Name{Local: name})
		if err := tr.AppendChild(parent, id); err != nil {
			t.Fatal(err)
		}
		ids[name] = id
		return id
	}
	root := mk("root", tr.Root())
	a := mk("a", root)
	mk("a1", a)
	mk("a2", a)
	mk("b", root)
	return tr, ids
}

func names(t *Tree, seq func(func(NodeID) bool)) []string {
	var res []string
	for id := range seq {
		if name, err := t.Name(id); err == nil {
			res = append(res, name.Local)
		}
	}
	return res
}

func TestChildren(t *testing.T) {
	tr, ids := buildDeep(t)
	got := names(tr, tr.Children(ids["root"]))
	if d := cmp.Diff([]string{"a", "b"}, got); d != "" {
		t.Fatal(d)
	}
}

func TestDescendants(t *testing.T) {
	tr, ids := buildDeep(t)
	got := names(tr, tr.Descendants(ids["root"]))
	if d := cmp.Diff([]string{"a", "a1", "a2", "b"}, got); d != "" {
		t.Fatal(d)
	}
	// from the document node the whole tree shows up
	got = names(tr, tr.Descendants(tr.Root()))
	if d := cmp.Diff([]string{"root", "a", "a1", "a2", "b"}, got); d != "" {
		t.Fatal(d)
	}
	if got := names(tr, tr.Descendants(ids["b"])); got != nil {
		t.Fatalf("leaf descendants: %v", got)
	}
}

func TestAncestors(t *testing.T) {
	tr, ids := buildDeep(t)
	got := names(tr, tr.Ancestors(ids["a1"]))
	if d := cmp.Diff([]string{"a", "root"}, got); d != "" {
		t.Fatal(d)
	}
}

func TestSiblingAxes(t *testing.T) {
	tr, ids := buildDeep(t)
	tr2 := tr.NewElement(Name{Local: "a3"})
	if err := tr.AppendChild(ids["a"], tr2); err != nil {
		t.Fatal(err)
	}
	got := names(tr, tr.FollowingSiblings(ids["a1"]))
	if d := cmp.Diff([]string{"a2", "a3"}, got); d != "" {
		t.Fatal(d)
	}
	got = names(tr, tr.PrecedingSiblings(tr2))
	if d := cmp.Diff([]string{"a2", "a1"}, got); d != "" {
		t.Fatal(d)
	}
}

func TestIterationStopsOnMutation(t *testing.T) {
	tr, ids := buildDeep(t)
	var visited []string
	for id := range tr.Descendants(ids["root"]) {
		name, _ := tr.Name(id)
		visited = append(visited, name.Local)
		if name.Local == "a1" {
			// structural change invalidates the walk
			if err := tr.Detach(ids["b"]); err != nil {
				t.Fatal(err)
			}
		}
	}
	if d := cmp.Diff([]string{"a", "a1"}, visited); d != "" {
		t.Fatal(d)
	}
}

func TestIterationUnaffectedByPayloadEdits(t *testing.T) {
	tr, ids := buildDeep(t)
	var visited []string
	for id := range tr.Children(ids["a"]) {
		name, _ := tr.Name(id)
		visited = append(visited, name.Local)
		if err := tr.SetAttr(id, Name{Local: "seen"}, "y"); err != nil {
			t.Fatal(err)
		}
	}
	if d := cmp.Diff([]string{"a1", "a2"}, visited); d != "" {
		t.Fatal(d)
	}
}

func TestVisit(t *testing.T) {
	tr, ids := buildDeep(t)
	var pre, post []string
	err := tr.Visit(ids["root"], func(id NodeID, isPost bool) (bool, error) {
		name, err := tr.Name(id)
		if err != nil {
			return false, err
		}
		if isPost {
			post = append(post, name.Local)
		} else {
			pre = append(pre, name.Local)
		}
		return name.Local != "a", nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]string{"root", "a", "b"}, pre); d != "" {
		t.Fatal(d)
	}
	if d := cmp.Diff([]string{"a", "b", "root"}, post); d != "" {
		t.Fatal(d)
	}
}

func TestVisitConcurrentModification(t *testing.T) {
	tr, ids := buildDeep(t)
	err := tr.Visit(ids["root"], func(id NodeID, isPost bool) (bool, error) {
		name, _ := tr.Name(id)
		if !isPost && name.Local == "a1" {
			if err := tr.Detach(ids["b"]); err != nil {
				return false, err
			}
		}
		return true, nil
	})
	if !errors.Is(err, ErrConcurrentModification) {
		t.Fatalf("got %v", err)
	}
}

func TestChildElements(t *testing.T) {
	tr, ids := buildDeep(t)
	if err := tr.AppendChild(ids["root"], tr.NewComment("c")); err != nil {
		t.Fatal(err)
	}
	els := tr.ChildElements(ids["root"])
	if len(els) != 2 {
		t.Fatalf("got %d elements", len(els))
	}
	// safe to mutate while visiting the materialized list
	for _, el := range els {
		if err := tr.Detach(el); err != nil {
			t.Fatal(err)
		}
	}
	if tr.FirstChild(ids["root"]) == 0 {
		t.Error("comment should remain")
	}
}

func TestClone(t *testing.T) {
	tr, ids := buildDeep(t)
	if err := tr.SetAttr(ids["a"], Name{Local: "k"}, "v"); err != nil {
		t.Fatal(err)
	}
	if err := tr.AddNamespace(ids["a"], "x", "urn:a"); err != nil {
		t.Fatal(err)
	}
	dup, err := tr.Clone(ids["a"])
	if err != nil {
		t.Fatal(err)
	}
	if dup == ids["a"] {
		t.Fatal("clone returned the original")
	}
	if tr.Parent(dup) != 0 {
		t.Error("clone not detached")
	}
	if !Equal(tr, ids["a"], tr, dup) {
		t.Error("clone differs from original")
	}
	// deep copy: editing the clone leaves the original alone
	if err := tr.SetAttr(dup, Name{Local: "k"}, "changed"); err != nil {
		t.Fatal(err)
	}
	if v, _ := tr.Attr(ids["a"], Name{Local: "k"}); v != "v" {
		t.Errorf("original changed: %q", v)
	}
}

func TestEqual(t *testing.T) {
	a, _ := buildDeep(t)
	b, _ := buildDeep(t)
	if !Equal(a, a.Root(), b, b.Root()) {
		t.Fatal("identical builds not equal")
	}
	// a payload difference breaks equality
	el := b.DocumentElement()
	if err := b.SetAttr(el, Name{Local: "extra"}, "1"); err != nil {
		t.Fatal(err)
	}
	if Equal(a, a.Root(), b, b.Root()) {
		t.Fatal("attr difference not detected")
	}
}

func TestEqualOrderMatters(t *testing.T) {
	mk := func(first, second string) *Tree {
		tr := NewFragment()
		for _, n := range []string{first, second} {
			if err := tr.AppendChild(tr.Root(), tr.NewElement(Name{Local: n})); err != nil {
				t.Fatal(err)
			}
		}
		return tr
	}
	x := mk("a", "b")
	y := mk("b", "a")
	if Equal(x, x.Root(), y, y.Root()) {
		t.Fatal("child order ignored")
	}
}
