// Package htmlshim builds document trees from HTML using the lenient
// HTML5 parsing algorithm. Elements land in the XHTML namespace, with
// MathML and SVG content in theirs, so the result serializes as
// well-formed XML.
package htmlshim

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html"

	"github.com/domtree/go-domtree/tree"
)

const (
	HTMLNamespace   = "http://www.w3.org/1999/xhtml"
	MathMLNamespace = "http://www.w3.org/1998/Math/MathML"
	SVGNamespace    = "http://www.w3.org/2000/svg"
	XLinkNamespace  = "http://www.w3.org/1999/xlink"
)

// element namespaces as reported by the HTML parser
var elemSpaces = map[string]string{
	"":     HTMLNamespace,
	"svg":  SVGNamespace,
	"math": MathMLNamespace,
}

// attribute namespaces for the adjusted foreign attributes
var attrSpaces = map[string]string{
	"":      "",
	"xlink": XLinkNamespace,
	"xml":   tree.XMLNamespace,
	"xmlns": tree.XMLNSNamespace,
}

// Parse reads HTML from r into a document tree. Parse errors do not
// happen for syntactically broken input; the HTML5 algorithm recovers
// instead.
func Parse(r io.Reader) (*tree.Tree, error) {
	n, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return Convert(n)
}

// ParseBytes is Parse over a byte slice.
func ParseBytes(d []byte) (*tree.Tree, error) {
	return Parse(bytes.NewReader(d))
}

// Convert turns a parsed HTML document node into a document tree.
// Doctypes are dropped, adjacent text runs merge into one node.
func Convert(doc *html.Node) (*tree.Tree, error) {
	if doc.Type != html.DocumentNode {
		return nil, fmt.Errorf("conversion needs a document node, got type %d", doc.Type)
	}
	t := tree.New()
	c := &converter{t: t}
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if err := c.node(n, t.Root()); err != nil {
			return nil, err
		}
	}
	if err := c.declare(); err != nil {
		return nil, err
	}
	return t, nil
}

type converter struct {
	t *tree.Tree

	// foreign namespaces seen, declared on the document element at the
	// end so serialization keeps the conventional prefixes
	sawSVG    bool
	sawMathML bool
	sawXLink  bool
}

func (c *converter) node(n *html.Node, parent tree.NodeID) error {
	t := c.t
	switch n.Type {
	case html.DoctypeNode:
		return nil
	case html.TextNode:
		// merge with a preceding text node
		if last := t.LastChild(parent); last != 0 && t.Kind(last) == tree.TextKind {
			prev, err := t.Text(last)
			if err != nil {
				return err
			}
			return t.SetText(last, prev+n.Data)
		}
		if t.Kind(parent) == tree.DocumentKind {
			// the algorithm only leaves whitespace here
			return nil
		}
		return t.AppendChild(parent, t.NewText(n.Data))
	case html.CommentNode:
		return t.AppendChild(parent, t.NewComment(n.Data))
	case html.ElementNode:
		return c.element(n, parent)
	case html.RawNode:
		return t.AppendChild(parent, t.NewText(n.Data))
	}
	return nil
}

func (c *converter) element(n *html.Node, parent tree.NodeID) error {
	t := c.t
	space, ok := elemSpaces[n.Namespace]
	if !ok {
		space = n.Namespace
	}
	c.note(space)
	el := t.NewElement(tree.Name{Space: space, Local: n.Data})
	if err := t.AppendChild(parent, el); err != nil {
		return err
	}
	for _, a := range n.Attr {
		as, ok := attrSpaces[a.Namespace]
		if !ok {
			as = a.Namespace
		}
		if as == tree.XMLNSNamespace {
			continue
		}
		c.note(as)
		if err := t.SetAttr(el, tree.Name{Space: as, Local: a.Key}, a.Val); err != nil {
			return err
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if err := c.node(child, el); err != nil {
			return err
		}
	}
	return nil
}

func (c *converter) note(space string) {
	switch space {
	case SVGNamespace:
		c.sawSVG = true
	case MathMLNamespace:
		c.sawMathML = true
	case XLinkNamespace:
		c.sawXLink = true
	}
}

func (c *converter) declare() error {
	root := c.t.DocumentElement()
	if root == 0 {
		return nil
	}
	if err := c.t.AddNamespace(root, "", HTMLNamespace); err != nil {
		return err
	}
	if c.sawSVG {
		if err := c.t.AddNamespace(root, "svg", SVGNamespace); err != nil {
			return err
		}
	}
	if c.sawMathML {
		if err := c.t.AddNamespace(root, "math", MathMLNamespace); err != nil {
			return err
		}
	}
	if c.sawXLink {
		if err := c.t.AddNamespace(root, "xlink", XLinkNamespace); err != nil {
			return err
		}
	}
	return nil
}
