// Package parse builds documents from raw bytes: decode to UTF-8,
// tokenize, then assemble a tree with namespaces resolved. A failed
// parse returns no tree at all, never a partial one.
package parse

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/domtree/go-domtree/charset"
	"github.com/domtree/go-domtree/debug"
	"github.com/domtree/go-domtree/token"
	"github.com/domtree/go-domtree/tree"
)

type parseOpts struct {
	charsetOpts []charset.Option
	tokenOpts   []token.TokenOpt
	keepWS      bool
	strictNS    bool
	positions   map[tree.NodeID]*token.Pos
}

type Option func(*parseOpts)

// WithEncoding forces the document encoding instead of detecting it.
func WithEncoding(label string) Option {
	return func(o *parseOpts) {
		o.charsetOpts = append(o.charsetOpts, charset.WithEncoding(label))
	}
}

// WithDecoder substitutes the encoding-label resolver used for decoding.
func WithDecoder(d charset.Decoder) Option {
	return func(o *parseOpts) {
		o.charsetOpts = append(o.charsetOpts, charset.WithDecoder(d))
	}
}

// Lossy replaces undecodable byte sequences with U+FFFD instead of
// failing the parse.
func Lossy() Option {
	return func(o *parseOpts) {
		o.charsetOpts = append(o.charsetOpts, charset.Lossy())
	}
}

// Permissive lets unknown entities pass through as literal text.
func Permissive() Option {
	return func(o *parseOpts) {
		o.tokenOpts = append(o.tokenOpts, token.Permissive())
	}
}

// StrictNS makes conflicting namespace declarations fail the parse
// instead of producing warnings.
func StrictNS() Option {
	return func(o *parseOpts) { o.strictNS = true }
}

// KeepWhitespace keeps whitespace-only text nodes, which are dropped by
// default.
func KeepWhitespace() Option {
	return func(o *parseOpts) { o.keepWS = true }
}

// WithPositions records the source position of every built node into m,
// keyed by node id.
func WithPositions(m map[tree.NodeID]*token.Pos) Option {
	return func(o *parseOpts) { o.positions = m }
}

// Parse builds a document tree from d. The input must hold exactly one
// document element; leading and trailing comments and processing
// instructions are kept as children of the document node.
func Parse(d []byte, opts ...Option) (*tree.Tree, error) {
	return run(d, false, opts)
}

// ParseFragment is Parse with the document rules relaxed: multiple
// top-level elements and top-level text are allowed.
func ParseFragment(d []byte, opts ...Option) (*tree.Tree, error) {
	return run(d, true, opts)
}

func run(d []byte, fragment bool, opts []Option) (*tree.Tree, error) {
	o := &parseOpts{}
	for _, opt := range opts {
		opt(o)
	}
	res, err := charset.Decode(d, o.charsetOpts...)
	if err != nil {
		return nil, err
	}
	toks, err := token.Tokenize(nil, res.Text, o.tokenOpts...)
	if err != nil {
		return nil, err
	}
	if debug.Tokens() {
		for i := range toks {
			debug.Logf("%s\n", toks[i].String())
		}
	}
	var t *tree.Tree
	if fragment {
		t = tree.NewFragment()
	} else {
		t = tree.New()
	}
	t.SetStrictNS(o.strictNS)
	b := &builder{t: t, opt: o}
	b.stack = append(b.stack, frame{id: t.Root()})
	if err := b.build(toks); err != nil {
		return nil, err
	}
	if debug.Parse() {
		debug.Logf("parsed: %s\n", debug.Doc{T: t, ID: t.Root()})
	}
	return t, nil
}

type frame struct {
	id    tree.NodeID
	qname string
	pos   *token.Pos
}

type builder struct {
	t     *tree.Tree
	opt   *parseOpts
	stack []frame

	// pending text run, merged across adjacent text and CDATA tokens
	text    bytes.Buffer
	textPos *token.Pos
	cdata   bool
}

func (b *builder) build(toks []token.Token) error {
	for i := range toks {
		tok := &toks[i]
		switch tok.Type {
		case token.TText:
			if b.text.Len() == 0 {
				b.textPos = tok.Pos
			}
			b.text.Write(tok.Bytes)
		case token.TCData:
			if b.text.Len() == 0 {
				b.textPos = tok.Pos
			}
			b.cdata = true
			b.text.Write(tok.Bytes)
		case token.TComment:
			if err := b.flushText(); err != nil {
				return err
			}
			if err := b.appendLeaf(b.t.NewComment(string(tok.Bytes)), tok.Pos); err != nil {
				return err
			}
		case token.TProcInst:
			if err := b.flushText(); err != nil {
				return err
			}
			// the XML declaration is not part of the document content
			if strings.EqualFold(string(tok.Target), "xml") && len(b.stack) == 1 {
				continue
			}
			pi := b.t.NewProcInst(string(tok.Target), string(tok.Bytes))
			if err := b.appendLeaf(pi, tok.Pos); err != nil {
				return err
			}
		case token.TDirective:
			// DOCTYPE carries no content for the tree
			if err := b.flushText(); err != nil {
				return err
			}
		case token.TStartTag:
			if err := b.flushText(); err != nil {
				return err
			}
			if err := b.startElement(tok); err != nil {
				return err
			}
		case token.TEndTag:
			if err := b.flushText(); err != nil {
				return err
			}
			if err := b.endElement(tok); err != nil {
				return err
			}
		}
	}
	if err := b.flushText(); err != nil {
		return err
	}
	if len(b.stack) > 1 {
		top := b.stack[len(b.stack)-1]
		return errAt(fmt.Errorf("%w: <%s>", ErrUnclosedElement, top.qname), top.pos)
	}
	if !b.t.Fragment() && b.t.DocumentElement() == 0 {
		return fmt.Errorf("%w: no document element", ErrUnclosedElement)
	}
	return nil
}

func (b *builder) top() tree.NodeID {
	return b.stack[len(b.stack)-1].id
}

func (b *builder) appendLeaf(id tree.NodeID, pos *token.Pos) error {
	if err := b.t.AppendChild(b.top(), id); err != nil {
		return errAt(err, pos)
	}
	b.record(id, pos)
	return nil
}

func (b *builder) record(id tree.NodeID, pos *token.Pos) {
	if b.opt.positions != nil {
		b.opt.positions[id] = pos
	}
}

func (b *builder) flushText() error {
	if b.text.Len() == 0 {
		return nil
	}
	s := b.text.String()
	pos := b.textPos
	hadCData := b.cdata
	b.text.Reset()
	b.textPos = nil
	b.cdata = false
	if !hadCData && strings.TrimLeft(s, " \t\r\n") == "" {
		// whitespace outside the document element is never content
		atDocLevel := !b.t.Fragment() && len(b.stack) == 1
		if !b.opt.keepWS || atDocLevel {
			return nil
		}
	}
	return b.appendLeaf(b.t.NewText(s), pos)
}

func (b *builder) startElement(tok *token.Token) error {
	qname := string(tok.Bytes)
	el := b.t.NewElement(tree.Name{Local: qname})
	if err := b.t.AppendChild(b.top(), el); err != nil {
		return errAt(err, tok.Pos)
	}

	// namespace declarations come into scope before any name resolves
	for i := range tok.Attrs {
		a := &tok.Attrs[i]
		name := string(a.Name)
		var prefix string
		switch {
		case name == "xmlns":
			prefix = ""
		case strings.HasPrefix(name, "xmlns:"):
			prefix = name[len("xmlns:"):]
		default:
			continue
		}
		if err := b.t.AddNamespace(el, prefix, string(a.Value)); err != nil {
			return errAt(err, a.Pos)
		}
		if debug.NS() {
			debug.Logf("ns decl %q=%q on <%s>\n", prefix, string(a.Value), qname)
		}
	}

	name, err := b.resolve(el, qname)
	if err != nil {
		return errAt(err, tok.Pos)
	}
	if err := b.t.SetName(el, name); err != nil {
		return errAt(err, tok.Pos)
	}

	for i := range tok.Attrs {
		a := &tok.Attrs[i]
		qn := string(a.Name)
		if qn == "xmlns" || strings.HasPrefix(qn, "xmlns:") {
			continue
		}
		an := tree.Name{Local: qn}
		// unprefixed attributes take no namespace, not the default one
		if prefix, local, ok := splitQName(qn); ok {
			uri, err := b.t.LookupURI(el, prefix)
			if err != nil {
				return errAt(fmt.Errorf("%w: attribute %q", err, qn), a.Pos)
			}
			an = tree.Name{Space: uri, Local: local}
		}
		// two source attributes may resolve to the same name through
		// different prefixes
		if _, dup := b.t.Attr(el, an); dup {
			return errAt(fmt.Errorf("%w: %q", tree.ErrDuplicateAttribute, an), a.Pos)
		}
		if err := b.t.SetAttr(el, an, string(a.Value)); err != nil {
			return errAt(err, a.Pos)
		}
	}

	b.record(el, tok.Pos)
	if !tok.SelfClosing {
		b.stack = append(b.stack, frame{id: el, qname: qname, pos: tok.Pos})
	}
	return nil
}

func (b *builder) endElement(tok *token.Token) error {
	qname := string(tok.Bytes)
	if len(b.stack) == 1 {
		return errAt(fmt.Errorf("%w: </%s> with nothing open", ErrMismatchedTag, qname), tok.Pos)
	}
	top := b.stack[len(b.stack)-1]
	if top.qname != qname {
		return errAt(fmt.Errorf("%w: </%s>, open element is <%s>", ErrMismatchedTag, qname, top.qname), tok.Pos)
	}
	b.stack = b.stack[:len(b.stack)-1]
	return nil
}

// resolve maps a qualified element name to its namespaced form in el's
// scope. Unprefixed element names take the default namespace.
func (b *builder) resolve(el tree.NodeID, qname string) (tree.Name, error) {
	prefix, local, ok := splitQName(qname)
	if !ok {
		prefix, local = "", qname
	}
	uri, err := b.t.LookupURI(el, prefix)
	if err != nil {
		return tree.Name{}, fmt.Errorf("%w: element <%s>", err, qname)
	}
	return tree.Name{Space: uri, Local: local}, nil
}

func splitQName(qn string) (prefix, local string, ok bool) {
	i := strings.IndexByte(qn, ':')
	if i <= 0 || i == len(qn)-1 {
		return "", "", false
	}
	return qn[:i], qn[i+1:], true
}
