package node

import (
	"fmt"
	"math"

	json "github.com/goccy/go-json"
	"github.com/micro/micro/v3/service/errors"
	"gopkg.in/yaml.v3"
)

// ParseJSON decodes JSON text into a normalized tree.
func ParseJSON(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, errors.BadRequest(
			"linebot.json.invalid",
			"json: %v", err,
		)
	}
	return Normalize(v), nil
}

// ParseYAML decodes YAML text into a normalized tree.
func ParseYAML(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, errors.BadRequest(
			"linebot.yaml.invalid",
			"yaml: %v", err,
		)
	}
	return Normalize(v), nil
}

// Normalize converts a decoded tree into canonical form:
// objects become Node, integral numbers become int64.
func Normalize(v any) any {
	switch e := v.(type) {
	case Node:
		for key, elem := range e {
			e[key] = Normalize(elem)
		}
		return e
	case map[string]any:
		return Normalize(Node(e))
	case map[any]any:
		obj := make(Node, len(e))
		for key, elem := range e {
			obj[fmt.Sprint(key)] = Normalize(elem)
		}
		return obj
	case []any:
		for i, elem := range e {
			e[i] = Normalize(elem)
		}
		return e
	case []map[string]any:
		list := make([]any, len(e))
		for i, elem := range e {
			list[i] = Normalize(Node(elem))
		}
		return list
	case float64:
		if e == math.Trunc(e) && math.Abs(e) < (1<<53) {
			return int64(e)
		}
		return e
	case float32:
		return Normalize(float64(e))
	case int:
		return int64(e)
	case int32:
		return int64(e)
	case uint64:
		if e <= math.MaxInt64 {
			return int64(e)
		}
		return e
	}
	return v
}
