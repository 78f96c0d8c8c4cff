package token

import "fmt"

type TokenType int

const (
	TStartTag TokenType = iota
	TEndTag
	TText
	TCData
	TComment
	TProcInst
	TDirective
)

func (t TokenType) String() string {
	return map[TokenType]string{
		TStartTag:  "TStartTag",
		TEndTag:    "TEndTag",
		TText:      "TText",
		TCData:     "TCData",
		TComment:   "TComment",
		TProcInst:  "TProcInst",
		TDirective: "TDirective",
	}[t]
}

// TagAttr is one attribute inside a start tag. Name is the source
// qualified name (possibly prefixed); Value is entity-expanded and
// whitespace-normalized.
type TagAttr struct {
	Name  []byte
	Value []byte
	Pos   *Pos
}

// Token is one lexical event. Bytes holds, per type: the tag name for
// TStartTag/TEndTag, expanded content for TText/TCData, raw content for
// TComment/TDirective, and the data part for TProcInst (whose target is in
// Target). Attrs and SelfClosing apply to TStartTag only.
type Token struct {
	Type  TokenType
	Pos   *Pos
	Bytes []byte

	Attrs       []TagAttr
	Target      []byte
	SelfClosing bool
}

func (t *Token) Info() string {
	return fmt.Sprintf("%s %s", t.Type, t.Pos.String())
}

func (t *Token) String() string {
	return string(t.Bytes)
}

// TokenizeErr is a positioned lexical error.
type TokenizeErr struct {
	Err error
	Pos Pos
}

func NewTokenizeErr(e error, p *Pos) *TokenizeErr {
	return &TokenizeErr{Err: e, Pos: *p}
}

func (e *TokenizeErr) Unwrap() error {
	return e.Err
}

func (e *TokenizeErr) Error() string {
	return fmt.Sprintf("%s at %s", e.Err.Error(), e.Pos.String())
}

func ExpectedErr(what string, p *Pos) error {
	return NewTokenizeErr(fmt.Errorf("%w: expected %s", ErrParse, what), p)
}

func UnexpectedErr(what string, p *Pos) error {
	return NewTokenizeErr(fmt.Errorf("%w: unexpected %s", ErrParse, what), p)
}
