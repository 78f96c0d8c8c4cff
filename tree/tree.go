package tree

import "fmt"

// NodeID is an opaque handle to a node within one Tree. The zero NodeID is
// never a valid node. IDs are stable for the life of the node and are never
// reused after removal.
type NodeID int

// Name is a qualified name: a local name plus the namespace URI it is bound
// to (empty Space means no namespace).
type Name struct {
	Space string
	Local string
}

func (n Name) String() string {
	if n.Space == "" {
		return n.Local
	}
	return "{" + n.Space + "}" + n.Local
}

// Attr is an attribute of an element: qualified name plus string value.
// Attribute order is declaration order and names are unique per element.
type Attr struct {
	Name  Name
	Value string
}

// NSDecl binds a prefix (empty for the default namespace) to a URI on one
// element, scoping the binding to that element and its descendants unless
// overridden below.
type NSDecl struct {
	Prefix string
	URI    string
}

// Warning records a non-fatal namespace conflict observed in default mode.
type Warning struct {
	Node   NodeID
	Prefix string
	Msg    string
}

type node struct {
	kind  Kind
	alive bool

	parent     NodeID
	firstChild NodeID
	lastChild  NodeID
	prevSib    NodeID
	nextSib    NodeID

	name   Name
	attrs  []Attr
	ns     []NSDecl
	text   string // Text and Comment content, ProcInst data
	target string // ProcInst target
}

// Tree is the arena owning all nodes of one document or fragment. The zero
// Tree is not usable; construct with New or NewFragment.
type Tree struct {
	nodes    []node // index 0 is a sentinel, never a node
	root     NodeID
	fragment bool
	strictNS bool
	gen      uint64
	warnings []Warning
}

// New returns a tree holding an empty Document root.
func New() *Tree {
	t := &Tree{nodes: make([]node, 1, 16)}
	t.root = t.alloc(DocumentKind)
	return t
}

// NewFragment returns a tree whose root container accepts any mix of
// top-level children instead of a single document element.
func NewFragment() *Tree {
	t := New()
	t.fragment = true
	return t
}

func (t *Tree) alloc(kind Kind) NodeID {
	t.nodes = append(t.nodes, node{kind: kind, alive: true})
	return NodeID(len(t.nodes) - 1)
}

// NewElement creates a detached element with the given qualified name.
func (t *Tree) NewElement(name Name) NodeID {
	id := t.alloc(ElementKind)
	t.nodes[id].name = name
	return id
}

// NewText creates a detached text node.
func (t *Tree) NewText(text string) NodeID {
	id := t.alloc(TextKind)
	t.nodes[id].text = text
	return id
}

// NewComment creates a detached comment node.
func (t *Tree) NewComment(text string) NodeID {
	id := t.alloc(CommentKind)
	t.nodes[id].text = text
	return id
}

// NewProcInst creates a detached processing instruction node.
func (t *Tree) NewProcInst(target, data string) NodeID {
	id := t.alloc(ProcInstKind)
	t.nodes[id].target = target
	t.nodes[id].text = data
	return id
}

func (t *Tree) node(id NodeID) (*node, error) {
	if id <= 0 || int(id) >= len(t.nodes) || !t.nodes[id].alive {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return &t.nodes[id], nil
}

// checked returns the node for id, panicking on an invalid ID. Only for
// internal paths that validated id already; a failure here is a defect.
func (t *Tree) checked(id NodeID) *node {
	n, err := t.node(id)
	if err != nil {
		panic(fmt.Sprintf("%v: id %d", errInternal, id))
	}
	return n
}

// Valid reports whether id names a live node of this tree.
func (t *Tree) Valid(id NodeID) bool {
	_, err := t.node(id)
	return err == nil
}

// Kind returns the node's kind, or InvalidKind for a dead or foreign ID.
func (t *Tree) Kind(id NodeID) Kind {
	n, err := t.node(id)
	if err != nil {
		return InvalidKind
	}
	return n.kind
}

// NodeData is a snapshot of one node's payload.
type NodeData struct {
	Kind   Kind
	Name   Name   // elements
	Text   string // text, comment; processing instruction data
	Target string // processing instructions
}

// Node returns a snapshot of the node's kind and payload.
func (t *Tree) Node(id NodeID) (NodeData, error) {
	n, err := t.node(id)
	if err != nil {
		return NodeData{}, err
	}
	return NodeData{Kind: n.kind, Name: n.name, Text: n.text, Target: n.target}, nil
}

// Name returns the element's qualified name.
func (t *Tree) Name(id NodeID) (Name, error) {
	n, err := t.node(id)
	if err != nil {
		return Name{}, err
	}
	if n.kind != ElementKind {
		return Name{}, fmt.Errorf("%w: %s node has no name", ErrNotElement, n.kind)
	}
	return n.name, nil
}

// SetName renames an element.
func (t *Tree) SetName(id NodeID, name Name) error {
	n, err := t.node(id)
	if err != nil {
		return err
	}
	if n.kind != ElementKind {
		return fmt.Errorf("%w: cannot rename %s node", ErrNotElement, n.kind)
	}
	n.name = name
	return nil
}

// Text returns the content of a Text or Comment node, or the data of a
// processing instruction.
func (t *Tree) Text(id NodeID) (string, error) {
	n, err := t.node(id)
	if err != nil {
		return "", err
	}
	switch n.kind {
	case TextKind, CommentKind, ProcInstKind:
		return n.text, nil
	}
	return "", fmt.Errorf("%w: %s node has no text", ErrKindMismatch, n.kind)
}

// SetText replaces the content of a Text or Comment node, or the data of a
// processing instruction.
func (t *Tree) SetText(id NodeID, text string) error {
	n, err := t.node(id)
	if err != nil {
		return err
	}
	switch n.kind {
	case TextKind, CommentKind, ProcInstKind:
		n.text = text
		return nil
	}
	return fmt.Errorf("%w: %s node has no text", ErrKindMismatch, n.kind)
}

// Target returns a processing instruction's target.
func (t *Tree) Target(id NodeID) (string, error) {
	n, err := t.node(id)
	if err != nil {
		return "", err
	}
	if n.kind != ProcInstKind {
		return "", fmt.Errorf("%w: %s node has no target", ErrKindMismatch, n.kind)
	}
	return n.target, nil
}

// Root returns the tree's root container node.
func (t *Tree) Root() NodeID {
	return t.root
}

// DocumentElement returns the document element, or zero if the root has no
// element child yet.
func (t *Tree) DocumentElement() NodeID {
	for c := t.FirstChild(t.root); c != 0; c = t.NextSibling(c) {
		if t.Kind(c) == ElementKind {
			return c
		}
	}
	return 0
}

// Parent returns the node's parent, or zero for detached nodes, the root,
// and invalid IDs.
func (t *Tree) Parent(id NodeID) NodeID {
	n, err := t.node(id)
	if err != nil {
		return 0
	}
	return n.parent
}

// FirstChild returns the node's first child, or zero.
func (t *Tree) FirstChild(id NodeID) NodeID {
	n, err := t.node(id)
	if err != nil {
		return 0
	}
	return n.firstChild
}

// LastChild returns the node's last child, or zero.
func (t *Tree) LastChild(id NodeID) NodeID {
	n, err := t.node(id)
	if err != nil {
		return 0
	}
	return n.lastChild
}

// PrevSibling returns the previous sibling, or zero.
func (t *Tree) PrevSibling(id NodeID) NodeID {
	n, err := t.node(id)
	if err != nil {
		return 0
	}
	return n.prevSib
}

// NextSibling returns the next sibling, or zero.
func (t *Tree) NextSibling(id NodeID) NodeID {
	n, err := t.node(id)
	if err != nil {
		return 0
	}
	return n.nextSib
}

// Fragment reports whether the root accepts multiple top-level children.
func (t *Tree) Fragment() bool {
	return t.fragment
}

// Generation returns the structural mutation counter. It increments on
// every insert, detach, remove and replace; traversals created before a
// change observe the bump and stop.
func (t *Tree) Generation() uint64 {
	return t.gen
}

// SetStrictNS switches namespace conflict handling from warn-and-override
// to failing with ErrNSConflict.
func (t *Tree) SetStrictNS(v bool) {
	t.strictNS = v
}

// Warnings returns namespace conflicts recorded in default mode, oldest
// first.
func (t *Tree) Warnings() []Warning {
	return t.warnings
}
