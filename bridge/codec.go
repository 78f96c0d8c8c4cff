package bridge

import (
	"bytes"
	"encoding/json"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/goccy/go-yaml"

	"github.com/domtree/go-domtree/debug"
	"github.com/domtree/go-domtree/tree"
)

// ToJSON renders the element or document at id as JSON.
func ToJSON(t *tree.Tree, id tree.NodeID) ([]byte, error) {
	v, err := ToValue(t, id)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// FromJSON builds a document tree from JSON in the value form. Numbers
// keep their source spelling.
func FromJSON(d []byte) (*tree.Tree, error) {
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return FromValue(v)
}

// ToYAML renders the element or document at id as YAML.
func ToYAML(t *tree.Tree, id tree.NodeID) ([]byte, error) {
	v, err := ToValue(t, id)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(v)
}

// FromYAML builds a document tree from YAML in the value form.
func FromYAML(d []byte) (*tree.Tree, error) {
	var v any
	if err := yaml.Unmarshal(d, &v); err != nil {
		return nil, err
	}
	return FromValue(normalizeYAML(v))
}

// normalizeYAML rewrites the map types yaml decoding produces into the
// map[string]any form the value conversion expects.
func normalizeYAML(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, inner := range v {
			out[k] = normalizeYAML(inner)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, inner := range v {
			if s, ok := k.(string); ok {
				out[s] = normalizeYAML(inner)
			}
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, inner := range v {
			out[i] = normalizeYAML(inner)
		}
		return out
	default:
		return v
	}
}

// ApplyPatch applies an RFC 6902 JSON patch to the document's value
// form and rebuilds the tree from the result. The input tree is left
// untouched.
func ApplyPatch(t *tree.Tree, patch []byte) (*tree.Tree, error) {
	doc, err := ToJSON(t, t.Root())
	if err != nil {
		return nil, err
	}
	p, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, err
	}
	out, err := p.Apply(doc)
	if err != nil {
		return nil, err
	}
	if debug.Patch() {
		debug.Logf("patched: %s -> %s\n", string(doc), string(out))
	}
	return FromJSON(out)
}
