package runner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"schemacheck/pkg/confkit"
)

const defaultExtension = "json"

// ErrInvalidPath is returned when a configured directory does not exist.
var ErrInvalidPath = errors.New("runner: invalid path")

// Run pairs one schema with a directory of instances that must validate
// against it.
type Run struct {
	Name       string `yaml:"name"`
	SchemaDir  string `yaml:"schema_dir"`
	SchemaFile string `yaml:"schema_file"`
	TestDir    string `yaml:"test_dir"`
	Extension  string `yaml:"extension"`
	BaseURI    string `yaml:"base_uri"`
}

// Label names the run in log lines.
func (r Run) Label() string {
	if strings.TrimSpace(r.Name) != "" {
		return r.Name
	}
	return r.SchemaFile
}

// Validate checks that required fields are present.
func (r Run) Validate() error {
	if strings.TrimSpace(r.SchemaFile) == "" {
		return errors.New("runner: schema_file is required")
	}
	if strings.TrimSpace(r.TestDir) == "" {
		return fmt.Errorf("runner: %s: test_dir is required", r.SchemaFile)
	}
	if strings.ContainsAny(r.ext(), `/\*?[`) {
		return fmt.Errorf("runner: %s: invalid extension %q", r.SchemaFile, r.Extension)
	}
	return nil
}

// Resolve anchors relative directories at root.
func (r Run) Resolve(root string) Run {
	r.SchemaDir = confkit.Resolve(root, r.SchemaDir)
	if r.SchemaDir == "" {
		r.SchemaDir = root
	}
	if r.SchemaDir == "" {
		r.SchemaDir = "."
	}
	r.TestDir = confkit.Resolve(root, r.TestDir)
	r.Extension = r.ext()
	return r
}

func (r Run) ext() string {
	ext := strings.TrimPrefix(strings.TrimSpace(r.Extension), ".")
	if ext == "" {
		return defaultExtension
	}
	return ext
}

// Discover lists files in dir ending in .ext, sorted by name.
func Discover(dir, ext string) ([]string, error) {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		ext = defaultExtension
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*."+ext))
	if err != nil {
		return nil, fmt.Errorf("runner: glob %s: %w", dir, err)
	}
	files := matches[:0]
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)
	return files, nil
}

func requireDir(path, field string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: please provide valid %s (%s)", ErrInvalidPath, field, path)
	}
	return nil
}
