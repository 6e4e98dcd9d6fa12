package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed translations
var embedded embed.FS

// format decodes translation files with one of exts.
type format struct {
	exts      []string
	unmarshal func([]byte, any) error
}

var (
	yamlFormat = format{exts: []string{".yaml", ".yml"}, unmarshal: yaml.Unmarshal}
	jsonFormat = format{exts: []string{".json"}, unmarshal: json.Unmarshal}
)

// WithEmbedded loads the bundled consent texts (en, de).
func WithEmbedded() Option {
	return func(c *Catalog) error {
		sub, err := fs.Sub(embedded, "translations")
		if err != nil {
			return err
		}
		return yamlFormat.load(c, sub)
	}
}

// WithJSONDir loads {lang}/{namespace}.json files from fsys.
func WithJSONDir(fsys fs.FS) Option {
	return func(c *Catalog) error { return jsonFormat.load(c, fsys) }
}

// WithYAMLDir loads {lang}/{namespace}.yaml (or .yml) files from fsys.
// Host sites use it to override or extend the bundled texts.
func WithYAMLDir(fsys fs.FS) Option {
	return func(c *Catalog) error { return yamlFormat.load(c, fsys) }
}

func (f format) load(c *Catalog, fsys fs.FS) error {
	return fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ext := strings.ToLower(path.Ext(name))
		if !slices.Contains(f.exts, ext) {
			return nil
		}

		dir := path.Dir(name)
		if dir == "." {
			return fmt.Errorf("%w: %s is not inside a language directory", ErrInvalidFile, name)
		}

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		var tree map[string]any
		if err := f.unmarshal(data, &tree); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidFile, name, err)
		}

		c.add(path.Base(dir), strings.TrimSuffix(path.Base(name), path.Ext(name)), tree)
		return nil
	})
}
