package tree

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAttrs(t *testing.T) {
	tr := New()
	el := tr.NewElement(Name{Local: "e"})
	if err := tr.SetAttr(el, Name{Local: "a"}, "1"); err != nil {
		t.Fatal(err)
	}
	if err := tr.SetAttr(el, Name{Local: "b"}, "2"); err != nil {
		t.Fatal(err)
	}
	if v, ok := tr.Attr(el, Name{Local: "a"}); !ok || v != "1" {
		t.Errorf("got %q %v", v, ok)
	}
	if _, ok := tr.Attr(el, Name{Local: "missing"}); ok {
		t.Error("missing attribute found")
	}
	attrs, err := tr.Attrs(el)
	if err != nil {
		t.Fatal(err)
	}
	want := []Attr{
		{Name: Name{Local: "a"}, Value: "1"},
		{Name: Name{Local: "b"}, Value: "2"},
	}
	if d := cmp.Diff(want, attrs); d != "" {
		t.Fatal(d)
	}
}

func TestSetAttrKeepsPosition(t *testing.T) {
	tr := New()
	el := tr.NewElement(Name{Local: "e"})
	for _, a := range []string{"a", "b", "c"} {
		if err := tr.SetAttr(el, Name{Local: a}, a); err != nil {
			t.Fatal(err)
		}
	}
	if err := tr.SetAttr(el, Name{Local: "a"}, "updated"); err != nil {
		t.Fatal(err)
	}
	attrs, _ := tr.Attrs(el)
	want := []Attr{
		{Name: Name{Local: "a"}, Value: "updated"},
		{Name: Name{Local: "b"}, Value: "b"},
		{Name: Name{Local: "c"}, Value: "c"},
	}
	if d := cmp.Diff(want, attrs); d != "" {
		t.Fatal(d)
	}
}

func TestAttrNamespacedNames(t *testing.T) {
	tr := New()
	el := tr.NewElement(Name{Local: "e"})
	// same local name in two namespaces stays two attributes
	if err := tr.SetAttr(el, Name{Space: "urn:a", Local: "id"}, "1"); err != nil {
		t.Fatal(err)
	}
	if err := tr.SetAttr(el, Name{Space: "urn:b", Local: "id"}, "2"); err != nil {
		t.Fatal(err)
	}
	attrs, _ := tr.Attrs(el)
	if len(attrs) != 2 {
		t.Fatalf("got %d attrs", len(attrs))
	}
	if v, _ := tr.Attr(el, Name{Space: "urn:b", Local: "id"}); v != "2" {
		t.Errorf("got %q", v)
	}
}

func TestRemoveAttr(t *testing.T) {
	tr := New()
	el := tr.NewElement(Name{Local: "e"})
	if err := tr.AddNamespace(el, "x", "urn:a"); err != nil {
		t.Fatal(err)
	}
	if err := tr.SetAttr(el, Name{Space: "urn:a", Local: "a"}, "1"); err != nil {
		t.Fatal(err)
	}
	if err := tr.RemoveAttr(el, Name{Space: "urn:a", Local: "a"}); err != nil {
		t.Fatal(err)
	}
	if _, ok := tr.Attr(el, Name{Space: "urn:a", Local: "a"}); ok {
		t.Error("attribute survived removal")
	}
	// declarations are untouched by attribute removal
	decls, _ := tr.Namespaces(el)
	if len(decls) != 1 {
		t.Fatalf("got decls %v", decls)
	}
	// removing again is a no-op
	if err := tr.RemoveAttr(el, Name{Space: "urn:a", Local: "a"}); err != nil {
		t.Fatal(err)
	}
}

func TestAttrOnNonElement(t *testing.T) {
	tr := New()
	text := tr.NewText("x")
	if err := tr.SetAttr(text, Name{Local: "a"}, "1"); !errors.Is(err, ErrNotElement) {
		t.Errorf("got %v", err)
	}
	if _, err := tr.Attrs(text); !errors.Is(err, ErrNotElement) {
		t.Errorf("got %v", err)
	}
}
