// Package catalog resolves named message definitions
// stored as JSON or YAML files under a directory.
//
// Definitions are text templates with $( ) delimiters,
// rendered with per-call data before being parsed and built.
package catalog

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/micro/micro/v3/service/errors"

	"github.com/jollygene/linemsg/internal/node"
	"github.com/jollygene/linemsg/linebot"
	"github.com/jollygene/linemsg/log"
)

// Cache defaults
const (
	DefaultCacheSize = 128
	DefaultCacheTTL  = 5 * time.Minute
)

type options struct {
	size int
	ttl  time.Duration
	log  *slog.Logger
}

// Option configures Catalog.
type Option func(*options)

// CacheSize limits the number of compiled definitions kept.
func CacheSize(n int) Option {
	return func(conf *options) {
		conf.size = n
	}
}

// CacheTTL sets how long a compiled definition is kept.
// Zero or less keeps definitions until evicted by size.
func CacheTTL(d time.Duration) Option {
	return func(conf *options) {
		conf.ttl = d
	}
}

// WithLogger sets the catalog logger.
func WithLogger(log *slog.Logger) Option {
	return func(conf *options) {
		if log != nil {
			conf.log = log
		}
	}
}

// Catalog of named message definitions. Safe for concurrent use.
type Catalog struct {
	dir      string
	messages *linebot.MessageBuilder
	cache    *expirable.LRU[string, *definition]
	log      *slog.Logger
}

// Open returns the Catalog of definitions under dir
// building messages with the given builder.
func Open(dir string, messages *linebot.MessageBuilder, opts ...Option) (*Catalog, error) {
	conf := options{
		size: DefaultCacheSize,
		ttl:  DefaultCacheTTL,
		log:  slog.Default(),
	}
	for _, setup := range opts {
		setup(&conf)
	}
	if err := checkDir(dir); err != nil {
		return nil, err
	}
	if messages == nil {
		messages = linebot.New(linebot.WithLogger(conf.log))
	}
	c := &Catalog{
		dir:      dir,
		messages: messages,
		log:      conf.log.With(slog.String("catalog", dir)),
	}
	c.cache = expirable.NewLRU[string, *definition](conf.size,
		func(name string, _ *definition) {
			c.log.Debug("catalog: evict", slog.String("name", name))
		},
		conf.ttl,
	)
	return c, nil
}

// Dir returns the catalog root directory.
func (c *Catalog) Dir() string {
	return c.dir
}

// Names lists the definitions available, sorted.
func (c *Catalog) Names() ([]string, error) {
	return listNames(c.dir)
}

// Purge drops all compiled definitions.
func (c *Catalog) Purge() {
	c.cache.Purge()
}

func validName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return errors.BadRequest(
			"linebot.catalog.name.invalid",
			"catalog: invalid definition name %q", name,
		)
	}
	return nil
}

// lookup returns the compiled definition of name.
func (c *Catalog) lookup(name string) (*definition, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	if def, ok := c.cache.Get(name); ok {
		return def, nil
	}
	def, err := load(c.dir, name)
	if err != nil {
		return nil, err
	}
	c.cache.Add(name, def)
	c.log.Debug("catalog: load",
		slog.String("name", name),
		slog.String("path", def.path),
	)
	return def, nil
}

// Tree renders the named definition with data
// and parses it: one message object or a list of them.
func (c *Catalog) Tree(name string, data any) (any, error) {
	def, err := c.lookup(name)
	if err != nil {
		return nil, err
	}
	return def.tree(data)
}

// Fingerprint of the named definition rendered with data.
func (c *Catalog) Fingerprint(name string, data any) (string, error) {
	tree, err := c.Tree(name, data)
	if err != nil {
		return "", err
	}
	sum, err := node.Fingerprint(tree)
	if err != nil {
		return "", errors.InternalServerError(
			"linebot.catalog.hash.error",
			"catalog: %s: %v", name, err,
		)
	}
	return formatHash(sum), nil
}

// Messages builds the named definition rendered with data.
// Built fresh on every call.
func (c *Catalog) Messages(name string, data any) ([]messaging_api.MessageInterface, error) {
	tree, err := c.Tree(name, data)
	if err != nil {
		return nil, err
	}
	messages, err := c.build(tree)
	if err != nil {
		return nil, err
	}
	c.log.Debug("catalog: build",
		slog.String("name", name),
		slog.Int("messages", len(messages)),
		slog.Any("hash", log.DeferValue(func() slog.Value {
			return slog.StringValue(node.FingerprintString(tree))
		})),
	)
	return messages, nil
}

// build one message object or a list of them
func (c *Catalog) build(tree any) ([]messaging_api.MessageInterface, error) {
	if obj, ok := node.AsObject(tree); ok {
		msg, err := c.messages.Build(obj)
		if err != nil {
			return nil, err
		}
		return []messaging_api.MessageInterface{msg}, nil
	}
	nodes, err := node.AsList(tree)
	if err != nil {
		return nil, err
	}
	return c.messages.BuildBatch(nodes)
}

// formats of definition files, in lookup order.
// Extensions are case sensitive.
var formats = []string{".json", ".yaml", ".yml"}

func isFormat(ext string) bool {
	return slices.Contains(formats, ext)
}
