package parse

import (
	"errors"
	"fmt"

	"github.com/domtree/go-domtree/token"
)

var (
	// ErrMismatchedTag reports an end tag whose name differs from the
	// innermost open element, or an end tag with no open element at all.
	ErrMismatchedTag = errors.New("mismatched end tag")

	// ErrUnclosedElement reports input ending with elements still open.
	ErrUnclosedElement = errors.New("unclosed element")
)

// ParseErr decorates a build error with the source position it arose at.
type ParseErr struct {
	Err error
	Pos *token.Pos
}

func (e *ParseErr) Unwrap() error {
	return e.Err
}

func (e *ParseErr) Error() string {
	if e.Pos == nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s %s", e.Err.Error(), e.Pos)
}

func errAt(err error, pos *token.Pos) error {
	return &ParseErr{Err: err, Pos: pos}
}
