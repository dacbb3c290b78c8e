// Package node holds the untyped configuration tree
// that describes one message, action or component.
package node

import (
	"strings"

	"github.com/micro/micro/v3/service/errors"
)

// Node is a single configuration node: field name to
// scalar, nested Node or ordered []any of nodes.
type Node map[string]any

// Type returns the `type` discriminator, if any.
func (n Node) Type() string {
	s, _ := n["type"].(string)
	return s
}

// Has reports whether the field is present and not null.
func (n Node) Has(key string) bool {
	v, ok := n[key]
	return ok && v != nil
}

// Object returns nested object at key or nil.
func (n Node) Object(key string) Node {
	obj, _ := AsObject(n[key])
	return obj
}

// Lookup resolves a dotted field path, e.g. "area.x".
// Numeric segments index into lists.
func (n Node) Lookup(path string) (any, bool) {
	var (
		v   any = n
		seg string
	)
	for path != "" {
		seg, path, _ = strings.Cut(path, ".")
		switch e := v.(type) {
		case Node:
			next, ok := e[seg]
			if !ok {
				return nil, false
			}
			v = next
		case []any:
			i, ok := index(seg, len(e))
			if !ok {
				return nil, false
			}
			v = e[i]
		default:
			return nil, false
		}
	}
	return v, true
}

func index(s string, size int) (int, bool) {
	if s == "" {
		return 0, false
	}
	i := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		i = i*10 + int(c-'0')
		if i >= size {
			return 0, false
		}
	}
	return i, true
}

// AsObject converts v into a Node, if it is one.
func AsObject(v any) (Node, bool) {
	switch e := v.(type) {
	case Node:
		return e, true
	case map[string]any:
		return Node(e), true
	}
	return nil, false
}

// AsList converts v into an ordered list of nodes.
// Every element must be an object.
func AsList(v any) ([]Node, error) {
	var src []any
	switch e := v.(type) {
	case nil:
		return nil, nil
	case []any:
		src = e
	case []Node:
		return e, nil
	default:
		return nil, errors.BadRequest(
			"linebot.node.list.invalid",
			"node: list expected; got %T", v,
		)
	}
	list := make([]Node, 0, len(src))
	for i, elem := range src {
		obj, ok := AsObject(elem)
		if !ok {
			return nil, errors.BadRequest(
				"linebot.node.list.invalid",
				"node: [%d] object expected; got %T", i, elem,
			)
		}
		list = append(list, obj)
	}
	return list, nil
}
