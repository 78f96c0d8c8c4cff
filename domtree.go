// Package domtree is an in-memory XML document model: an arena-backed
// tree with a mutation API, namespace support, and a parse/serialize
// pipeline. This package bundles the common entry points; the
// subpackages tree, parse and encode carry the full API.
package domtree

import (
	"golang.org/x/text/unicode/norm"

	"github.com/domtree/go-domtree/encode"
	"github.com/domtree/go-domtree/parse"
	"github.com/domtree/go-domtree/tree"
)

// Parse builds a document tree from XML bytes.
func Parse(d []byte, opts ...parse.Option) (*tree.Tree, error) {
	return parse.Parse(d, opts...)
}

// ParseFragment builds a tree from XML content without the
// single-document-element rule.
func ParseFragment(d []byte, opts ...parse.Option) (*tree.Tree, error) {
	return parse.ParseFragment(d, opts...)
}

// String serializes the whole document.
func String(t *tree.Tree, opts ...encode.EncodeOption) (string, error) {
	return encode.String(t, t.Root(), opts...)
}

// MustString is String for documents known to be encodable.
func MustString(t *tree.Tree, opts ...encode.EncodeOption) string {
	return encode.MustString(t, t.Root(), opts...)
}

// Equal reports whether two documents have the same structure and
// content. Node identities and arena layout do not matter.
func Equal(a, b *tree.Tree) bool {
	return tree.Equal(a, a.Root(), b, b.Root())
}

// EqualNFC is Equal with text and attribute values compared in Unicode
// normalization form C, so decomposed and precomposed spellings of the
// same characters match.
func EqualNFC(a, b *tree.Tree) bool {
	return tree.EqualNorm(a, a.Root(), b, b.Root(), norm.NFC.String)
}
