package tree

import "errors"

var (
	errInternal = errors.New("internal tree error")

	// ErrNotFound reports a NodeID that is invalid for this tree: never
	// issued by it, or belonging to a removed subtree.
	ErrNotFound = errors.New("node not found")

	// ErrCycle reports an attempt to move a node under its own subtree.
	ErrCycle = errors.New("move would create a cycle")

	// ErrNotAllowedChild reports an attachment the destination cannot
	// accept: children under a leaf kind, a second element under a
	// non-fragment document, or a document node used as a child.
	ErrNotAllowedChild = errors.New("not an allowed child")

	// ErrNotElement reports an attribute or namespace operation against a
	// node that is not an element.
	ErrNotElement = errors.New("not an element")

	// ErrKindMismatch reports a payload accessor applied to a live node
	// whose kind does not carry that payload.
	ErrKindMismatch = errors.New("wrong node kind")

	// ErrDuplicateAttribute reports two attributes resolving to the same
	// qualified name on one element.
	ErrDuplicateAttribute = errors.New("duplicate attribute")

	// ErrUnresolvedPrefix reports a namespace prefix with no declaration
	// in scope.
	ErrUnresolvedPrefix = errors.New("unresolved namespace prefix")

	// ErrNSConflict reports conflicting declarations for one prefix on
	// one element, in strict mode.
	ErrNSConflict = errors.New("conflicting namespace declaration")

	// ErrConcurrentModification reports a structural mutation observed by
	// a traversal created before it.
	ErrConcurrentModification = errors.New("concurrent modification")
)
