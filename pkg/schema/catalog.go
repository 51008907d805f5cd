package schema

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CatalogEntry maps a schema name to the file that holds it.
type CatalogEntry struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Catalog resolves schema names to file paths.
type Catalog struct {
	dir     string
	entries map[string]string
}

// LoadCatalog reads a catalog file. Relative entry paths resolve against the
// catalog's own directory.
func LoadCatalog(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("schema: open catalog: %w", err)
	}
	defer file.Close()
	return LoadCatalogFromReader(file, filepath.Dir(path))
}

// LoadCatalogFromReader parses a catalog. dir anchors relative entry paths.
func LoadCatalogFromReader(r io.Reader, dir string) (*Catalog, error) {
	var raw struct {
		Schemas []CatalogEntry `yaml:"schemas"`
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("schema: read catalog: %w", err)
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("schema: unmarshal catalog: %w", err)
	}
	c := &Catalog{dir: dir, entries: make(map[string]string, len(raw.Schemas))}
	for i, entry := range raw.Schemas {
		name := strings.TrimSpace(entry.Name)
		path := strings.TrimSpace(entry.Path)
		if name == "" {
			return nil, fmt.Errorf("schema: catalog entry %d missing name", i)
		}
		if path == "" {
			return nil, fmt.Errorf("schema: catalog entry %q missing path", name)
		}
		if _, dup := c.entries[name]; dup {
			return nil, fmt.Errorf("schema: catalog entry %q declared twice", name)
		}
		c.entries[name] = path
	}
	return c, nil
}

// Resolve returns the file path catalogued for name.
func (c *Catalog) Resolve(name string) (string, bool) {
	if c == nil {
		return "", false
	}
	path, ok := c.entries[strings.TrimSpace(name)]
	if !ok {
		return "", false
	}
	if filepath.IsAbs(path) || c.dir == "" {
		return path, true
	}
	return filepath.Join(c.dir, filepath.FromSlash(path)), true
}

// Len reports the number of catalogued schemas.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}
