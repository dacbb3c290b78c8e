// Package validate checks configuration nodes against
// flat rule tables of dotted field paths.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"

	"github.com/jollygene/linemsg/internal/node"
)

// Rules maps dotted field path to a comma separated
// list of rule tags, e.g.
//
//	"data":           "required,string,max=300",
//	"actions.*.type": "required,oneof=uri message",
type Rules map[string]string

// Validator checks a node against rules.
// Validate returns nil or all violations combined; see Violations.
type Validator interface {
	Validate(n node.Node, rules Rules) error
}

// Violation of a single field rule
type Violation struct {
	// Field dotted path, e.g. "actions.0.type"
	Field string
	// Rule tag that failed, e.g. "max"
	Rule string
	// Message human-readable
	Message string
}

func (v *Violation) Error() string {
	return v.Field + ": " + v.Message
}

// Violations unpacks err returned by Validator.Validate.
func Violations(err error) []*Violation {
	var list []*Violation
	for _, e := range multierr.Errors(err) {
		if v, ok := e.(*Violation); ok {
			list = append(list, v)
		}
	}
	return list
}

// Engine is the default Validator backed by go-playground/validator.
// Safe for concurrent use.
type Engine struct {
	v *validator.Validate
}

var _ Validator = (*Engine)(nil)

// New returns an Engine with the node type and URL tags registered.
func New() *Engine {
	v := validator.New()
	for tag, fn := range customTags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic("validate: register " + tag + ": " + err.Error())
		}
	}
	return &Engine{v: v}
}

// Validate implements Validator.
func (e *Engine) Validate(n node.Node, rules Rules) error {
	paths := make([]string, 0, len(rules))
	for path := range rules {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var errs error
	for _, path := range paths {
		required, tags := parseTags(rules[path])
		for _, m := range expand(n, path) {
			if !m.ok || m.value == nil {
				if required {
					errs = multierr.Append(errs, violation(m.path, "required", ""))
				}
				continue
			}
			if required && blank(m.value) {
				errs = multierr.Append(errs, violation(m.path, "required", ""))
				continue
			}
			if tags == "" {
				continue
			}
			if v := e.check(m.path, m.value, tags); v != nil {
				errs = multierr.Append(errs, v)
			}
		}
	}
	return errs
}

func (e *Engine) check(path string, value any, tags string) (re *Violation) {
	defer func() {
		// builtin tags panic on kinds they do not support
		if r := recover(); r != nil {
			re = &Violation{
				Field:   path,
				Rule:    "type",
				Message: fmt.Sprintf("has unsupported type %T", value),
			}
		}
	}()
	err := e.v.Var(value, tags)
	if err == nil {
		return nil
	}
	fails, ok := err.(validator.ValidationErrors)
	if !ok || len(fails) == 0 {
		return &Violation{Field: path, Rule: "invalid", Message: err.Error()}
	}
	fail := fails[0]
	return violation(path, fail.Tag(), fail.Param(), fail.Kind().String())
}

func parseTags(spec string) (required bool, tags string) {
	list := strings.Split(spec, ",")
	rest := list[:0]
	for _, tag := range list {
		tag = strings.TrimSpace(tag)
		switch tag {
		case "":
		case "required":
			required = true
		default:
			rest = append(rest, tag)
		}
	}
	return required, strings.Join(rest, ",")
}

func blank(v any) bool {
	switch e := v.(type) {
	case string:
		return strings.TrimSpace(e) == ""
	case []any:
		return len(e) == 0
	case node.Node:
		return len(e) == 0
	case map[string]any:
		return len(e) == 0
	}
	return false
}
