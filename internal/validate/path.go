package validate

import (
	"strconv"
	"strings"

	"github.com/jollygene/linemsg/internal/node"
)

// match is one concrete field resolved from a rule path
type match struct {
	path  string
	value any
	ok    bool // present
}

// expand resolves path against n.
// A "*" segment fans out over every list element.
// Nothing is yielded when a parent object or list is missing,
// so nested rules apply only within present parents.
func expand(n node.Node, path string) []match {
	var (
		segs = strings.Split(path, ".")
		list []match
		walk func(v any, i int, prefix string, ok bool)
	)
	walk = func(v any, i int, prefix string, ok bool) {
		if i == len(segs) {
			list = append(list, match{path: prefix, value: v, ok: ok})
			return
		}
		seg := segs[i]
		if seg == "*" {
			elems, _ := v.([]any)
			for j, elem := range elems {
				walk(elem, i+1, join(prefix, strconv.Itoa(j)), true)
			}
			return
		}
		next, found := child(v, seg)
		if !found && i < len(segs)-1 {
			return
		}
		walk(next, i+1, join(prefix, seg), ok && found)
	}
	walk(n, 0, "", true)
	return list
}

func child(v any, seg string) (any, bool) {
	switch e := v.(type) {
	case node.Node:
		next, ok := e[seg]
		return next, ok
	case map[string]any:
		next, ok := e[seg]
		return next, ok
	case []any:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= len(e) {
			return nil, false
		}
		return e[i], true
	}
	return nil, false
}

func join(prefix, seg string) string {
	if prefix == "" {
		return seg
	}
	return prefix + "." + seg
}
