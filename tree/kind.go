package tree

import "fmt"

// Kind identifies what a node is: the container kinds Document and
// Element, or the leaf kinds Text, Comment and ProcInst.
type Kind int

const (
	InvalidKind Kind = iota
	DocumentKind
	ElementKind
	TextKind
	CommentKind
	ProcInstKind
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		DocumentKind: "Document",
		ElementKind:  "Element",
		TextKind:     "Text",
		CommentKind:  "Comment",
		ProcInstKind: "ProcInst",
	}[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

func (k Kind) MarshalText() ([]byte, error) {
	if k <= InvalidKind || k > ProcInstKind {
		return nil, fmt.Errorf("unrecognized kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	kk, ok := map[string]Kind{
		"Document": DocumentKind,
		"Element":  ElementKind,
		"Text":     TextKind,
		"Comment":  CommentKind,
		"ProcInst": ProcInstKind,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized kind %q", d)
	}
	*k = kk
	return nil
}

func Kinds() []Kind {
	return []Kind{
		DocumentKind,
		ElementKind,
		TextKind,
		CommentKind,
		ProcInstKind,
	}
}

// IsContainer reports whether nodes of this kind may own children.
func (k Kind) IsContainer() bool {
	switch k {
	case DocumentKind, ElementKind:
		return true
	default:
		return false
	}
}
