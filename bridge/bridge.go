// Package bridge converts between document trees and generic Go values
// for data-oriented XML, with JSON and YAML codecs layered on top.
//
// The value form wraps the document element in a single-key map.
// Attributes become "@name" keys, character data becomes "#text", and
// repeated child elements collapse into arrays. Comments and processing
// instructions do not survive the round trip, and element names keep
// only their local part.
package bridge

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/domtree/go-domtree/tree"
)

var (
	// ErrShape reports a value that does not fit the element-as-map
	// convention.
	ErrShape = errors.New("value does not map to a document")

	// ErrNotElement reports conversion rooted at a non-element,
	// non-document node.
	ErrNotElement = errors.New("conversion requires an element")
)

const (
	attrPrefix = "@"
	textKey    = "#text"
)

// ToValue converts the element or document at id into the generic value
// form.
func ToValue(t *tree.Tree, id tree.NodeID) (any, error) {
	switch t.Kind(id) {
	case tree.DocumentKind:
		id = t.DocumentElement()
		if id == 0 {
			return nil, fmt.Errorf("%w: empty document", ErrNotElement)
		}
	case tree.ElementKind:
	default:
		return nil, fmt.Errorf("%w: got %s", ErrNotElement, t.Kind(id))
	}
	name, err := t.Name(id)
	if err != nil {
		return nil, err
	}
	v, err := elementValue(t, id)
	if err != nil {
		return nil, err
	}
	return map[string]any{name.Local: v}, nil
}

// elementValue renders one element: a bare string when it holds nothing
// but text, a map otherwise.
func elementValue(t *tree.Tree, el tree.NodeID) (any, error) {
	attrs, err := t.Attrs(el)
	if err != nil {
		return nil, err
	}
	m := map[string]any{}
	for _, a := range attrs {
		m[attrPrefix+a.Name.Local] = a.Value
	}
	var text strings.Builder
	for child := range t.Children(el) {
		switch t.Kind(child) {
		case tree.TextKind:
			s, err := t.Text(child)
			if err != nil {
				return nil, err
			}
			text.WriteString(s)
		case tree.ElementKind:
			name, err := t.Name(child)
			if err != nil {
				return nil, err
			}
			v, err := elementValue(t, child)
			if err != nil {
				return nil, err
			}
			switch prev := m[name.Local].(type) {
			case nil:
				m[name.Local] = v
			case []any:
				m[name.Local] = append(prev, v)
			default:
				m[name.Local] = []any{prev, v}
			}
		}
	}
	if text.Len() > 0 {
		if len(m) == 0 {
			return text.String(), nil
		}
		m[textKey] = text.String()
	}
	return m, nil
}

// FromValue builds a document tree from the generic value form. v must
// be a map with exactly one key, the document element name.
func FromValue(v any) (*tree.Tree, error) {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return nil, fmt.Errorf("%w: want a single-key map, got %T", ErrShape, v)
	}
	t := tree.New()
	for name, inner := range m {
		el := t.NewElement(tree.Name{Local: name})
		if err := t.AppendChild(t.Root(), el); err != nil {
			return nil, err
		}
		if err := fillElement(t, el, inner); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func fillElement(t *tree.Tree, el tree.NodeID, v any) error {
	switch v := v.(type) {
	case nil:
		return nil
	case map[string]any:
		// deterministic child order
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			inner := v[k]
			switch {
			case strings.HasPrefix(k, attrPrefix):
				s, err := scalarString(inner)
				if err != nil {
					return fmt.Errorf("attribute %s: %w", k, err)
				}
				if err := t.SetAttr(el, tree.Name{Local: k[len(attrPrefix):]}, s); err != nil {
					return err
				}
			case k == textKey:
				s, err := scalarString(inner)
				if err != nil {
					return fmt.Errorf("%s: %w", textKey, err)
				}
				if err := t.AppendChild(el, t.NewText(s)); err != nil {
					return err
				}
			default:
				items := []any{inner}
				if arr, ok := inner.([]any); ok {
					items = arr
				}
				for _, item := range items {
					child := t.NewElement(tree.Name{Local: k})
					if err := t.AppendChild(el, child); err != nil {
						return err
					}
					if err := fillElement(t, child, item); err != nil {
						return err
					}
				}
			}
		}
		return nil
	case []any:
		return fmt.Errorf("%w: array needs an enclosing element name", ErrShape)
	default:
		s, err := scalarString(v)
		if err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		return t.AppendChild(el, t.NewText(s))
	}
}

func scalarString(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", fmt.Errorf("%w: scalar %T", ErrShape, v)
	}
}
