package schema

import (
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"schemacheck/pkg/schema/metaschema"
)

// Checker confirms that schema documents conform to a meta-schema.
type Checker struct {
	meta *gojsonschema.Schema
}

var (
	defaultChecker     *Checker
	defaultCheckerErr  error
	defaultCheckerOnce sync.Once
)

// NewChecker compiles the draft-04 meta-schema.
func NewChecker() (*Checker, error) {
	return NewCheckerFromMeta(metaschema.Draft04)
}

// NewCheckerFromMeta compiles an arbitrary meta-schema.
func NewCheckerFromMeta(meta []byte) (*Checker, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(meta))
	if err != nil {
		return nil, fmt.Errorf("schema: compile meta-schema: %w", err)
	}
	return &Checker{meta: compiled}, nil
}

// Check returns a *SchemaError listing every meta-schema violation in doc.
func (c *Checker) Check(doc *Document) error {
	if doc == nil {
		return &SchemaError{Issues: []string{"no schema document"}}
	}
	result, err := c.meta.Validate(gojsonschema.NewBytesLoader(doc.Raw))
	if err != nil {
		return &SchemaError{Path: doc.Path, Issues: []string{err.Error()}}
	}
	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, re := range result.Errors() {
			issues = append(issues, re.String())
		}
		return &SchemaError{Path: doc.Path, Issues: issues}
	}
	return nil
}

// CheckSchema checks doc against the draft-04 meta-schema.
func CheckSchema(doc *Document) error {
	defaultCheckerOnce.Do(func() {
		defaultChecker, defaultCheckerErr = NewChecker()
	})
	if defaultCheckerErr != nil {
		return defaultCheckerErr
	}
	return defaultChecker.Check(doc)
}
