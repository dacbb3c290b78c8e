// Package linebot builds LINE Messaging API objects
// from plain configuration data (decoded JSON or YAML).
//
// Every node is validated against the field rules of its kind
// before the corresponding SDK object is constructed.
// Nested nodes are built recursively; any violation
// aborts the whole build and no partial result is returned.
package linebot

import (
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/micro/micro/v3/service/errors"

	"github.com/jollygene/linemsg/internal/node"
	"github.com/jollygene/linemsg/internal/validate"
)

type (
	// Node is one configuration node.
	Node = node.Node
	// Rules is a field rule table.
	Rules = validate.Rules
	// Validator checks nodes against rule tables.
	Validator = validate.Validator
)

// countTags bound the integers decoded into int32 SDK fields:
// flex weights, line counts, imagemap sizes and areas.
const countTags = "integer,min=0,max=2147483647"

// Option configures builders.
type Option func(*builder)

// WithValidator overrides the default field validator.
func WithValidator(v Validator) Option {
	return func(b *builder) {
		if v != nil {
			b.validator = v
		}
	}
}

// WithLogger sets the debug logger.
func WithLogger(log *slog.Logger) Option {
	return func(b *builder) {
		if log != nil {
			b.log = log
		}
	}
}

// builder is the state shared by all node builders.
// Immutable after construction.
type builder struct {
	validator Validator
	log       *slog.Logger
}

func newBuilder(opts []Option) *builder {
	b := &builder{}
	for _, setup := range opts {
		setup(b)
	}
	if b.validator == nil {
		b.validator = validate.New()
	}
	if b.log == nil {
		b.log = slog.Default()
	}
	return b
}

// check validates n against rules of the given node kind.
func (b *builder) check(kind string, n Node, rules Rules) error {
	err := b.validator.Validate(n, rules)
	if err != nil {
		return errors.BadRequest(
			"linebot."+kind+".invalid",
			"%s: %v", kind, err,
		)
	}
	return nil
}

// decode copies n fields into the options struct pointed to by opts.
func decode(kind string, n Node, opts any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           opts,
		WeaklyTypedInput: true,
		DecodeHook:       int32Range,
	})
	if err == nil {
		err = dec.Decode(map[string]any(n))
	}
	if err != nil {
		return errors.BadRequest(
			"linebot."+kind+".invalid",
			"%s: %v", kind, err,
		)
	}
	return nil
}

// int32Range rejects numbers that would wrap when decoded into int32 fields
func int32Range(_, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Int32 {
		return data, nil
	}
	var fits bool
	switch v := data.(type) {
	case int:
		fits = v >= math.MinInt32 && v <= math.MaxInt32
	case int64:
		fits = v >= math.MinInt32 && v <= math.MaxInt32
	case uint64:
		fits = v <= math.MaxInt32
	case float64:
		fits = v >= math.MinInt32 && v <= math.MaxInt32
	default:
		return data, nil
	}
	if !fits {
		return nil, fmt.Errorf("%v out of int32 range", data)
	}
	return data, nil
}

// discriminator validates the `type` field of a node
func (b *builder) discriminator(kind string, n Node) (string, error) {
	if n == nil {
		return "", errors.BadRequest(
			"linebot."+kind+".invalid",
			"%s: object expected", kind,
		)
	}
	if err := b.check(kind, n, Rules{"type": "required,string"}); err != nil {
		return "", err
	}
	return n.Type(), nil
}

func unknownType[T any](kind, typeOf string, known map[string]T) error {
	names := make([]string, 0, len(known))
	for name := range known {
		names = append(names, name)
	}
	sort.Strings(names)
	return errors.BadRequest(
		"linebot."+kind+".type.invalid",
		"%s: unknown type %q; expect one of [%s]",
		kind, typeOf, strings.Join(names, ", "),
	)
}

// list returns the nodes of the list at key
func list(kind string, n Node, key string) ([]Node, error) {
	nodes, err := node.AsList(n[key])
	if err != nil {
		return nil, errors.BadRequest(
			"linebot."+kind+".invalid",
			"%s: %s: %v", kind, key, errors.FromError(err).Detail,
		)
	}
	return nodes, nil
}

// truncate s to at most n characters
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}

func coalesce(text ...string) string {
	for _, s := range text {
		if s != "" {
			return s
		}
	}
	return ""
}
