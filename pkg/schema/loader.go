package schema

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"
)

// ErrLoad is matched by every error returned from Loader.
var ErrLoad = errors.New("schema: load failed")

// Loader reads schema and instance documents from disk. Schema lookups go
// through the catalog when one is configured.
type Loader struct {
	catalog *Catalog
}

// NewLoader returns a loader; catalog may be nil.
func NewLoader(catalog *Catalog) *Loader {
	return &Loader{catalog: catalog}
}

// Load reads a single document. Failures are logged as warnings and returned;
// a nil Document is never paired with a nil error.
func (l *Loader) Load(path string) (*Document, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, l.warn(fmt.Errorf("%w: empty path", ErrLoad))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, l.warn(fmt.Errorf("%w: read %s: %w", ErrLoad, path, err))
	}
	doc, err := ParseDocument(path, data)
	if err != nil {
		return nil, l.warn(fmt.Errorf("%w: decode %s: %w", ErrLoad, path, err))
	}
	return doc, nil
}

// LoadSchema loads the schema called name. A catalog entry for name wins over
// dir/name.
func (l *Loader) LoadSchema(dir, name string) (*Document, error) {
	if l != nil && l.catalog != nil {
		if path, ok := l.catalog.Resolve(name); ok {
			logx.Infof("schema %s resolved through catalog to %s", name, path)
			return l.Load(path)
		}
	}
	return l.Load(filepath.Join(dir, name))
}

func (l *Loader) warn(err error) error {
	logx.Errorf("%v", err)
	return err
}
