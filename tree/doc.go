// Package tree implements the arena-backed XML document model.
//
// # Overview
//
// A Tree owns every node of one document (or fragment). Nodes are addressed
// by NodeID handles rather than pointers: the arena stores the parent,
// first-child, last-child, previous-sibling and next-sibling links per node,
// which makes structural edits O(1) and reparenting an explicit, checkable
// operation instead of an aliasing hazard.
//
// # Node kinds
//
// A node is one of Document, Element, Text, Comment or ProcInst. Document
// and Element are container kinds and may own children; the rest are leaf
// kinds. A Document accepts at most one Element child (the document
// element) unless the tree was created with NewFragment, in which case any
// mix of top-level children is allowed.
//
// # Identity and lifetime
//
// NodeIDs are allocated monotonically and never reused. Detach unlinks a
// subtree but keeps it alive and re-attachable; Remove destroys a subtree
// permanently, after which every contained ID fails with ErrNotFound.
// Multiple independent Trees may coexist; IDs are only meaningful against
// the Tree that issued them.
//
// # Mutation discipline
//
// Every mutating call is all-or-nothing: a failed call leaves the tree
// exactly as it was. Trees are not safe for concurrent use; one writer at a
// time, and concurrent readers only while no mutation is in flight. The
// tree keeps a generation counter, bumped on each structural mutation,
// which the lazy traversal sequences use to stop deterministically when the
// tree changes under them (see Generation).
//
// # Namespaces
//
// Elements carry their own ordered namespace declaration sets. Resolution
// walks from a scope node through its ancestors and returns the nearest
// binding; the xml and xmlns prefixes are always bound. Conflicting
// declarations on one element resolve last-declared-wins and record a
// Warning, or fail outright when SetStrictNS is enabled.
package tree
