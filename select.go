package domtree

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/domtree/go-domtree/debug"
	"github.com/domtree/go-domtree/tree"
)

// Query is a compiled element predicate. The expression sees one
// element at a time through these variables:
//
//	name    local element name
//	space   namespace URI, "" for none
//	text    concatenated direct text children
//	attr    map of local attribute name to value
//	depth   nesting level below the queried root, 0 for the root itself
//
// Expressions use expr-lang syntax, e.g.
// `name == "item" && attr.id != ""`.
type Query struct {
	src  string
	prog *vm.Program
}

// Compile builds a query from an expression. The expression must yield
// a boolean.
func Compile(src string) (*Query, error) {
	prog, err := expr.Compile(src, expr.Env(map[string]any{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling query %q: %w", src, err)
	}
	return &Query{src: src, prog: prog}, nil
}

// Select returns the elements at or below root matching the query, in
// document order.
func (q *Query) Select(t *tree.Tree, root tree.NodeID) ([]tree.NodeID, error) {
	var res []tree.NodeID
	match := func(el tree.NodeID, depth int) error {
		env, err := elementEnv(t, el, depth)
		if err != nil {
			return err
		}
		out, err := expr.Run(q.prog, env)
		if err != nil {
			return fmt.Errorf("running query %q: %w", q.src, err)
		}
		if out.(bool) {
			res = append(res, el)
		}
		return nil
	}
	if t.Kind(root) == tree.ElementKind {
		if err := match(root, 0); err != nil {
			return nil, err
		}
	}
	for el := range t.Descendants(root) {
		if t.Kind(el) != tree.ElementKind {
			continue
		}
		if err := match(el, elementDepth(t, el, root)); err != nil {
			return nil, err
		}
	}
	if debug.Select() {
		debug.Logf("query %q matched %d elements\n", q.src, len(res))
	}
	return res, nil
}

// Select compiles and runs an element query in one step.
func Select(t *tree.Tree, root tree.NodeID, src string) ([]tree.NodeID, error) {
	q, err := Compile(src)
	if err != nil {
		return nil, err
	}
	return q.Select(t, root)
}

func elementEnv(t *tree.Tree, el tree.NodeID, depth int) (map[string]any, error) {
	name, err := t.Name(el)
	if err != nil {
		return nil, err
	}
	attrs, err := t.Attrs(el)
	if err != nil {
		return nil, err
	}
	am := make(map[string]string, len(attrs))
	for _, a := range attrs {
		am[a.Name.Local] = a.Value
	}
	var text strings.Builder
	for child := range t.Children(el) {
		if t.Kind(child) == tree.TextKind {
			s, err := t.Text(child)
			if err != nil {
				return nil, err
			}
			text.WriteString(s)
		}
	}
	return map[string]any{
		"name":  name.Local,
		"space": name.Space,
		"text":  text.String(),
		"attr":  am,
		"depth": depth,
	}, nil
}

func elementDepth(t *tree.Tree, el, root tree.NodeID) int {
	depth := 0
	for anc := range t.Ancestors(el) {
		depth++
		if anc == root {
			break
		}
	}
	return depth
}
