package token

import "errors"

var (
	// ErrParse is the sentinel wrapped by every malformed-markup error.
	ErrParse = errors.New("parse error")

	// ErrUnterminated reports markup that never closes: a tag, comment,
	// CDATA section, processing instruction or attribute value running
	// into end of input.
	ErrUnterminated = errors.New("unterminated markup")

	// ErrUndefinedEntity reports a named entity reference that is not one
	// of the five predefined entities.
	ErrUndefinedEntity = errors.New("undefined entity")

	// ErrDuplicateAttribute reports the same attribute name twice within
	// one start tag.
	ErrDuplicateAttribute = errors.New("duplicate attribute")
)
