package token

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func tokTypes(toks []Token) []TokenType {
	res := make([]TokenType, len(toks))
	for i := range toks {
		res[i] = toks[i].Type
	}
	return res
}

func TestTokenizeBasic(t *testing.T) {
	toks, err := Tokenize(nil, []byte(`<?xml version="1.0"?><a id="1"><b/>hi<!--c--><![CDATA[<raw>]]></a>`))
	if err != nil {
		t.Fatal(err)
	}
	want := []TokenType{TProcInst, TStartTag, TStartTag, TText, TComment, TCData, TEndTag}
	if d := cmp.Diff(want, tokTypes(toks)); d != "" {
		t.Fatal(d)
	}
	if got := string(toks[1].Bytes); got != "a" {
		t.Errorf("got tag %q", got)
	}
	if !toks[2].SelfClosing {
		t.Error("expected self-closing")
	}
	if got := string(toks[5].Bytes); got != "<raw>" {
		t.Errorf("got cdata %q", got)
	}
}

func TestTokenizeAttrs(t *testing.T) {
	toks, err := Tokenize(nil, []byte("<a x=\"1\"  y='a&amp;b'\tz=\"p\nq\"/>"))
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]string{}
	for _, a := range toks[0].Attrs {
		got[string(a.Name)] = string(a.Value)
	}
	want := map[string]string{"x": "1", "y": "a&b", "z": "p q"}
	if d := cmp.Diff(want, got); d != "" {
		t.Fatal(d)
	}
}

func TestTokenizeRefs(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"<a>&lt;&gt;&amp;&apos;&quot;</a>", `<>&'"`},
		{"<a>&#65;&#x42;</a>", "AB"},
		{"<a>plain</a>", "plain"},
	} {
		toks, err := Tokenize(nil, []byte(tc.in))
		if err != nil {
			t.Fatalf("%s: %v", tc.in, err)
		}
		if got := string(toks[1].Bytes); got != tc.want {
			t.Errorf("%s: got %q want %q", tc.in, got, tc.want)
		}
	}
}

func TestTokenizeErrors(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want error
	}{
		{"<a x='1' x='2'/>", ErrDuplicateAttribute},
		{"<a>&nosuch;</a>", ErrUndefinedEntity},
		{"<a", ErrUnterminated},
		{"<!-- no end", ErrUnterminated},
		{"<![CDATA[ no end", ErrUnterminated},
		{"<a x='unclosed/>", ErrUnterminated},
		{"<a><!-- a--b --></a>", ErrParse},
		{"<a x=1/>", ErrParse},
	} {
		_, err := Tokenize(nil, []byte(tc.in))
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.in, err, tc.want)
		}
		var te *TokenizeErr
		if !errors.As(err, &te) {
			t.Errorf("%s: error carries no position", tc.in)
		}
	}
}

func TestTokenizePermissive(t *testing.T) {
	toks, err := Tokenize(nil, []byte("<a>&nosuch; &broken</a>"), Permissive())
	if err != nil {
		t.Fatal(err)
	}
	if got := string(toks[1].Bytes); got != "&nosuch; &broken" {
		t.Errorf("got %q", got)
	}
}

func TestTokenizeDirective(t *testing.T) {
	toks, err := Tokenize(nil, []byte(`<!DOCTYPE doc [<!ENTITY x "y">]><doc/>`))
	if err != nil {
		t.Fatal(err)
	}
	want := []TokenType{TDirective, TStartTag}
	if d := cmp.Diff(want, tokTypes(toks)); d != "" {
		t.Fatal(d)
	}
}

func TestTokenizePositions(t *testing.T) {
	toks, err := Tokenize(nil, []byte("<a>\n  <b/>\n</a>"))
	if err != nil {
		t.Fatal(err)
	}
	// second start tag sits on the second line (0-based line 1)
	var b *Token
	for i := range toks {
		if toks[i].Type == TStartTag && string(toks[i].Bytes) == "b" {
			b = &toks[i]
		}
	}
	if b == nil {
		t.Fatal("no b tag")
	}
	if line, col := b.Pos.LineCol(); line != 1 || col != 2 {
		t.Errorf("got line=%d col=%d", line, col)
	}
}
