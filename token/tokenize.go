package token

import (
	"bytes"
	"fmt"
	"unicode"
	"unicode/utf8"
)

type tokenOpts struct {
	permissive bool
}

type TokenOpt func(*tokenOpts)

// Permissive makes unknown entities and malformed references pass through
// as literal text instead of failing the tokenization.
func Permissive() TokenOpt {
	return func(o *tokenOpts) { o.permissive = true }
}

// Tokenize lexes decoded XML text into tokens appended to dst, in one
// forward pass with no backtracking. Malformed markup fails with a
// positioned *TokenizeErr and no tokens are returned.
func Tokenize(dst []Token, text []byte, opts ...TokenOpt) ([]Token, error) {
	opt := &tokenOpts{}
	for _, o := range opts {
		o(opt)
	}
	tk := &tokenizer{d: text, pd: NewPosDoc(text), opt: opt}
	res, err := tk.run(dst)
	if err != nil {
		return nil, err
	}
	return res, nil
}

type tokenizer struct {
	d   []byte
	pd  *PosDoc
	opt *tokenOpts
}

func (t *tokenizer) run(dst []Token) ([]Token, error) {
	d := t.d
	n := len(d)
	i := 0
	for i < n {
		if d[i] != '<' {
			j := bytes.IndexByte(d[i:], '<')
			if j < 0 {
				j = n - i
			}
			raw := normalizeNewlines(d[i : i+j])
			text, err := expandRefs(raw, i, t.pd, t.opt.permissive)
			if err != nil {
				return nil, err
			}
			dst = append(dst, Token{Type: TText, Pos: t.pd.Pos(i), Bytes: text})
			i += j
			continue
		}
		tok, next, err := t.markup(i)
		if err != nil {
			return nil, err
		}
		dst = append(dst, tok)
		i = next
	}
	return dst, nil
}

// markup lexes one construct starting at the '<' at offset i and returns
// the token plus the offset just past it.
func (t *tokenizer) markup(i int) (Token, int, error) {
	d := t.d
	n := len(d)
	if i+1 >= n {
		return Token{}, 0, NewTokenizeErr(ErrUnterminated, t.pd.Pos(i))
	}
	switch d[i+1] {
	case '!':
		if bytes.HasPrefix(d[i:], []byte("<!--")) {
			return t.comment(i)
		}
		if bytes.HasPrefix(d[i:], []byte("<![CDATA[")) {
			return t.cdata(i)
		}
		return t.directive(i)
	case '?':
		return t.procInst(i)
	case '/':
		return t.endTag(i)
	default:
		return t.startTag(i)
	}
}

func (t *tokenizer) comment(i int) (Token, int, error) {
	start := i + len("<!--")
	end := bytes.Index(t.d[start:], []byte("-->"))
	if end < 0 {
		return Token{}, 0, NewTokenizeErr(fmt.Errorf("%w: comment", ErrUnterminated), t.pd.Pos(i))
	}
	content := t.d[start : start+end]
	if bytes.Contains(content, []byte("--")) {
		return Token{}, 0, NewTokenizeErr(fmt.Errorf("%w: \"--\" inside comment", ErrParse), t.pd.Pos(i))
	}
	tok := Token{Type: TComment, Pos: t.pd.Pos(i), Bytes: normalizeNewlines(content)}
	return tok, start + end + len("-->"), nil
}

func (t *tokenizer) cdata(i int) (Token, int, error) {
	start := i + len("<![CDATA[")
	end := bytes.Index(t.d[start:], []byte("]]>"))
	if end < 0 {
		return Token{}, 0, NewTokenizeErr(fmt.Errorf("%w: CDATA section", ErrUnterminated), t.pd.Pos(i))
	}
	tok := Token{Type: TCData, Pos: t.pd.Pos(i), Bytes: normalizeNewlines(t.d[start : start+end])}
	return tok, start + end + len("]]>"), nil
}

// directive lexes `<!…>` constructs such as DOCTYPE, tracking the bracket
// depth of an internal subset.
func (t *tokenizer) directive(i int) (Token, int, error) {
	d := t.d
	depth := 0
	for j := i + 2; j < len(d); j++ {
		switch d[j] {
		case '[':
			depth++
		case ']':
			depth--
		case '>':
			if depth <= 0 {
				tok := Token{Type: TDirective, Pos: t.pd.Pos(i), Bytes: d[i+2 : j]}
				return tok, j + 1, nil
			}
		}
	}
	return Token{}, 0, NewTokenizeErr(fmt.Errorf("%w: directive", ErrUnterminated), t.pd.Pos(i))
}

func (t *tokenizer) procInst(i int) (Token, int, error) {
	d := t.d
	nameEnd, err := t.name(i + 2)
	if err != nil {
		return Token{}, 0, err
	}
	end := bytes.Index(d[nameEnd:], []byte("?>"))
	if end < 0 {
		return Token{}, 0, NewTokenizeErr(fmt.Errorf("%w: processing instruction", ErrUnterminated), t.pd.Pos(i))
	}
	data := bytes.TrimLeft(d[nameEnd:nameEnd+end], " \t\r\n")
	tok := Token{
		Type:   TProcInst,
		Pos:    t.pd.Pos(i),
		Target: d[i+2 : nameEnd],
		Bytes:  normalizeNewlines(data),
	}
	return tok, nameEnd + end + len("?>"), nil
}

func (t *tokenizer) endTag(i int) (Token, int, error) {
	d := t.d
	nameEnd, err := t.name(i + 2)
	if err != nil {
		return Token{}, 0, err
	}
	j := skipSpace(d, nameEnd)
	if j >= len(d) {
		return Token{}, 0, NewTokenizeErr(fmt.Errorf("%w: end tag", ErrUnterminated), t.pd.Pos(i))
	}
	if d[j] != '>' {
		return Token{}, 0, UnexpectedErr(fmt.Sprintf("%q in end tag", d[j]), t.pd.Pos(j))
	}
	tok := Token{Type: TEndTag, Pos: t.pd.Pos(i), Bytes: d[i+2 : nameEnd]}
	return tok, j + 1, nil
}

func (t *tokenizer) startTag(i int) (Token, int, error) {
	d := t.d
	n := len(d)
	nameEnd, err := t.name(i + 1)
	if err != nil {
		return Token{}, 0, err
	}
	tok := Token{Type: TStartTag, Pos: t.pd.Pos(i), Bytes: d[i+1 : nameEnd]}
	j := nameEnd
	for {
		hadSpace := skipSpace(d, j) != j
		j = skipSpace(d, j)
		if j >= n {
			return Token{}, 0, NewTokenizeErr(fmt.Errorf("%w: tag %q", ErrUnterminated, string(tok.Bytes)), t.pd.Pos(i))
		}
		switch d[j] {
		case '>':
			return tok, j + 1, nil
		case '/':
			if j+1 >= n || d[j+1] != '>' {
				return Token{}, 0, ExpectedErr("\">\" after \"/\"", t.pd.Pos(j))
			}
			tok.SelfClosing = true
			return tok, j + 2, nil
		}
		if !hadSpace {
			return Token{}, 0, ExpectedErr("whitespace before attribute", t.pd.Pos(j))
		}
		attr, next, err := t.attr(j)
		if err != nil {
			return Token{}, 0, err
		}
		for k := range tok.Attrs {
			if bytes.Equal(tok.Attrs[k].Name, attr.Name) {
				return Token{}, 0, NewTokenizeErr(
					fmt.Errorf("%w: %q", ErrDuplicateAttribute, string(attr.Name)), attr.Pos)
			}
		}
		tok.Attrs = append(tok.Attrs, attr)
		j = next
	}
}

func (t *tokenizer) attr(i int) (TagAttr, int, error) {
	d := t.d
	n := len(d)
	nameEnd, err := t.name(i)
	if err != nil {
		return TagAttr{}, 0, err
	}
	j := skipSpace(d, nameEnd)
	if j >= n || d[j] != '=' {
		return TagAttr{}, 0, ExpectedErr("\"=\" after attribute name", t.pd.Pos(min(j, n-1)))
	}
	j = skipSpace(d, j+1)
	if j >= n || (d[j] != '"' && d[j] != '\'') {
		return TagAttr{}, 0, ExpectedErr("quoted attribute value", t.pd.Pos(min(j, n-1)))
	}
	quote := d[j]
	valStart := j + 1
	end := bytes.IndexByte(d[valStart:], quote)
	if end < 0 {
		return TagAttr{}, 0, NewTokenizeErr(fmt.Errorf("%w: attribute value", ErrUnterminated), t.pd.Pos(j))
	}
	raw := d[valStart : valStart+end]
	if k := bytes.IndexByte(raw, '<'); k >= 0 {
		return TagAttr{}, 0, UnexpectedErr("\"<\" in attribute value", t.pd.Pos(valStart+k))
	}
	val, err := expandRefs(normalizeAttrSpace(raw), valStart, t.pd, t.opt.permissive)
	if err != nil {
		return TagAttr{}, 0, err
	}
	attr := TagAttr{Name: d[i:nameEnd], Value: val, Pos: t.pd.Pos(i)}
	return attr, valStart + end + 1, nil
}

// name scans an XML name starting at i and returns the offset past it.
func (t *tokenizer) name(i int) (int, error) {
	d := t.d
	if i >= len(d) {
		return 0, NewTokenizeErr(ErrUnterminated, t.pd.Pos(len(d)-1))
	}
	r, sz := utf8.DecodeRune(d[i:])
	if r == utf8.RuneError && sz <= 1 {
		return 0, UnexpectedErr("bad utf8", t.pd.Pos(i))
	}
	if !isNameStart(r) {
		return 0, UnexpectedErr(fmt.Sprintf("%q at name start", r), t.pd.Pos(i))
	}
	j := i + sz
	for j < len(d) {
		r, sz = utf8.DecodeRune(d[j:])
		if r == utf8.RuneError && sz <= 1 {
			return 0, UnexpectedErr("bad utf8", t.pd.Pos(j))
		}
		if !isNameChar(r) {
			break
		}
		j += sz
	}
	return j, nil
}

func isNameStart(r rune) bool {
	return r == '_' || r == ':' || unicode.IsLetter(r)
}

func isNameChar(r rune) bool {
	return isNameStart(r) || r == '-' || r == '.' || unicode.IsDigit(r)
}

func skipSpace(d []byte, i int) int {
	for i < len(d) {
		switch d[i] {
		case ' ', '\t', '\r', '\n':
			i++
		default:
			return i
		}
	}
	return i
}

// normalizeNewlines folds \r\n and bare \r to \n.
func normalizeNewlines(d []byte) []byte {
	if bytes.IndexByte(d, '\r') < 0 {
		return d
	}
	out := make([]byte, 0, len(d))
	for i := 0; i < len(d); i++ {
		if d[i] == '\r' {
			if i+1 < len(d) && d[i+1] == '\n' {
				i++
			}
			out = append(out, '\n')
			continue
		}
		out = append(out, d[i])
	}
	return out
}

// normalizeAttrSpace replaces literal whitespace in an attribute value
// with spaces; whitespace produced by character references stays as-is
// because expansion runs afterwards.
func normalizeAttrSpace(d []byte) []byte {
	if bytes.IndexAny(d, "\t\r\n") < 0 {
		return d
	}
	out := make([]byte, 0, len(d))
	for i := 0; i < len(d); i++ {
		switch d[i] {
		case '\t', '\n':
			out = append(out, ' ')
		case '\r':
			if i+1 < len(d) && d[i+1] == '\n' {
				i++
			}
			out = append(out, ' ')
		default:
			out = append(out, d[i])
		}
	}
	return out
}
