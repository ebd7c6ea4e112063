package ast

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// FprintJSON writes a JSON representation of the tree to w.
func FprintJSON(w io.Writer, e *TypeExpr) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(toMap(e))
}

// FprintYAML writes a YAML representation of the tree to w.
func FprintYAML(w io.Writer, e *TypeExpr) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toMap(e)); err != nil {
		return err
	}
	return enc.Close()
}

// toMap converts a node to nested maps and slices. Every type node
// carries a "kind" key naming its variant.
func toMap(node Node) interface{} {
	switch n := node.(type) {
	case *TypeExpr:
		if n == nil {
			return nil
		}
		m := map[string]interface{}{
			"original": n.Original,
			"type":     toMap(n.Type),
		}
		if n.Reference != "" {
			m["reference"] = n.Reference
		}
		if n.ImplMarker != "" {
			m["impl"] = n.ImplMarker
		}
		if n.AsTarget != nil {
			m["as"] = toMap(n.AsTarget)
		}
		return m

	case *SimpleType:
		return map[string]interface{}{
			"kind": "simple",
			"name": n.Name,
		}

	case *Lifetime:
		return map[string]interface{}{
			"kind": "lifetime",
			"name": n.Name,
		}

	case *Tuple:
		return map[string]interface{}{
			"kind":  "tuple",
			"elems": mapList(n.Elems),
		}

	case *GenericType:
		m := map[string]interface{}{
			"kind": "generic",
			"name": n.Name,
			"args": mapList(n.TypeArgs),
		}
		if n.Turbofish {
			m["turbofish"] = true
		}
		return m

	case *AsType:
		m := map[string]interface{}{
			"kind":   "qualified",
			"source": toMap(n.Source),
			"target": toMap(n.Target),
		}
		if n.Name != "" {
			m["trait"] = n.Name
		}
		if len(n.TypeArgs) > 0 {
			m["args"] = mapList(n.TypeArgs)
		}
		return m

	case *ClosureType:
		m := map[string]interface{}{
			"kind":   "closure",
			"fn":     n.Kind,
			"params": mapList(n.Params),
		}
		if n.Result != nil {
			m["result"] = toMap(n.Result)
		}
		return m

	case *ArrayType:
		if n.Len == "" {
			return map[string]interface{}{
				"kind": "slice",
				"elem": toMap(n.Elem),
			}
		}
		return map[string]interface{}{
			"kind": "array",
			"elem": toMap(n.Elem),
			"len":  n.Len,
		}
	}
	return nil
}

func mapList(list []*TypeExpr) []interface{} {
	out := make([]interface{}, len(list))
	for i, e := range list {
		out[i] = toMap(e)
	}
	return out
}
