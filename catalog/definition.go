package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	tmpl "text/template"

	"github.com/pkg/errors"

	"github.com/jollygene/linemsg/internal/node"
)

var buffers = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(nil)
	},
}

// definition is a compiled definition file
type definition struct {
	path   string
	format string // ".json" or ".yaml"
	root   *tmpl.Template
}

func newTemplate(name string) *tmpl.Template {
	root := tmpl.New(name)
	root.Delims("$(", ")")
	root.Option("missingkey=error")
	return root
}

// load finds and compiles the name definition under dir.
func load(dir, name string) (*definition, error) {
	for _, ext := range formats {
		path := filepath.Join(dir, name+ext)
		text, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, errors.Wrap(err, "catalog: read "+name)
		}
		root, err := newTemplate(name).Parse(string(text))
		if err != nil {
			return nil, errors.Wrap(err, "catalog: parse "+name)
		}
		format := ext
		if ext == ".yml" {
			format = ".yaml"
		}
		return &definition{
			path:   path,
			format: format,
			root:   root,
		}, nil
	}
	return nil, errors.Wrap(errNotFound, name)
}

// render executes the definition template with data.
func (d *definition) render(data any) ([]byte, error) {
	buf := buffers.Get().(*bytes.Buffer)
	defer buffers.Put(buf)
	buf.Reset()

	if err := d.root.Execute(buf, data); err != nil {
		return nil, errors.Wrap(err, "catalog: render "+d.root.Name())
	}
	return bytes.Clone(buf.Bytes()), nil
}

// tree renders and parses the definition.
func (d *definition) tree(data any) (any, error) {
	text, err := d.render(data)
	if err != nil {
		return nil, err
	}
	if d.format == ".json" {
		return node.ParseJSON(text)
	}
	return node.ParseYAML(text)
}

var errNotFound = errors.New("catalog: definition not found")

// IsNotFound reports whether err means an unknown definition name.
func IsNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}

func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return errors.Wrap(err, "catalog: open")
	}
	if !info.IsDir() {
		return errors.Errorf("catalog: open %s: not a directory", dir)
	}
	return nil
}

func listNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "catalog: list")
	}
	seen := make(map[string]bool, len(entries))
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if !isFormat(ext) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ext)
		if seen[name] || strings.HasPrefix(name, ".") {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func formatHash(sum uint64) string {
	return strconv.FormatUint(sum, 16)
}
