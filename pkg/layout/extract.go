package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/layoutdsl/pkg/syntax"
)

// Extract flattens a syntax node's declared fields into a [Properties] map.
//
// Fields whose names start with '_' or equal "parent" are skipped. The
// "properties" field is unwrapped one level: each listed node's own fields
// are merged into the result instead of the list itself. When a nested
// field repeats a name, its value replaces the earlier one but the key
// keeps its first position. Values are copied without validation.
//
// A nil node yields an empty map.
func Extract(node syntax.Node) *Properties {
	out := newProperties()
	if node == nil {
		return out
	}
	for _, f := range node.Fields() {
		if skipField(f.Name) {
			continue
		}
		if f.Name == syntax.PropertiesField {
			if nested, ok := nodeList(f.Value); ok {
				for _, n := range nested {
					mergeFields(out, n)
				}
				continue
			}
		}
		out.set(f.Name, f.Value)
	}
	return out
}

func mergeFields(out *Properties, n syntax.Node) {
	if n == nil {
		return
	}
	for _, f := range n.Fields() {
		if !skipField(f.Name) {
			out.set(f.Name, f.Value)
		}
	}
}

func skipField(name string) bool {
	return strings.HasPrefix(name, "_") || name == "parent"
}

// nodeList reports whether v is a list of nodes and returns it.
func nodeList(v any) ([]syntax.Node, bool) {
	switch list := v.(type) {
	case []*syntax.Property:
		out := make([]syntax.Node, 0, len(list))
		for _, p := range list {
			if p != nil {
				out = append(out, p)
			}
		}
		return out, true
	case []syntax.Node:
		return list, true
	default:
		return nil, false
	}
}

// FormatValue renders a property value for display. Floats always carry a
// fractional part so 10.0 stays distinguishable from the integer 10.
func FormatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		s := strconv.FormatFloat(x, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return s
	default:
		return fmt.Sprint(v)
	}
}
