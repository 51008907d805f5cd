package schema

import (
	"bytes"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

type validatorOptions struct {
	baseURI string
	draft   *jsonschema.Draft
}

// Option configures NewValidator.
type Option func(*validatorOptions)

// WithBaseURI anchors relative $ref resolution at uri instead of the schema
// file's own location. Use a trailing slash for directories, e.g.
// file:///srv/schemas/.
func WithBaseURI(uri string) Option {
	return func(o *validatorOptions) {
		o.baseURI = strings.TrimSpace(uri)
	}
}

// WithDraft overrides the default draft used when a schema omits $schema.
func WithDraft(d *jsonschema.Draft) Option {
	return func(o *validatorOptions) {
		if d != nil {
			o.draft = d
		}
	}
}

// Validator checks instances against one compiled schema. It holds no
// per-instance state and is safe to reuse.
type Validator struct {
	schema *jsonschema.Schema
	url    string
}

// NewValidator compiles doc. Draft 4 applies unless the schema declares
// otherwise.
func NewValidator(doc *Document, opts ...Option) (*Validator, error) {
	if doc == nil {
		return nil, fmt.Errorf("schema: nil schema document")
	}
	o := validatorOptions{draft: jsonschema.Draft4}
	for _, opt := range opts {
		opt(&o)
	}
	location, err := resourceURL(doc.Path, o.baseURI)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = o.draft
	if declaresDraft4(doc, o.draft) {
		compiler.RegisterExtension("strict-integers", nil, strictIntegers{})
	}
	if err := compiler.AddResource(location, bytes.NewReader(doc.Raw)); err != nil {
		return nil, fmt.Errorf("schema: add %s: %w", location, err)
	}
	compiled, err := compiler.Compile(location)
	if err != nil {
		return nil, fmt.Errorf("schema: compile %s: %w", location, err)
	}
	return &Validator{schema: compiled, url: location}, nil
}

// URL is the location the schema was registered under.
func (v *Validator) URL() string {
	return v.url
}

// IsValid reports whether instance conforms.
func (v *Validator) IsValid(instance any) bool {
	return v.schema.Validate(instance) == nil
}

// Errors returns the top-level validation errors for instance in engine order,
// or nil when it conforms.
func (v *Validator) Errors(instance any) []*ValidationError {
	err := v.schema.Validate(instance)
	if err == nil {
		return nil
	}
	errs := fromEngine(err)
	if len(errs) == 0 {
		errs = []*ValidationError{{Message: err.Error()}}
	}
	return errs
}

// Validate checks instance, reports the outcome on r and returns whether it
// passed.
func (v *Validator) Validate(instance any, r *Reporter) bool {
	return r.Result(v.Errors(instance))
}

func resourceURL(path, baseURI string) (string, error) {
	if baseURI != "" {
		base, err := url.Parse(baseURI)
		if err != nil {
			return "", fmt.Errorf("schema: parse base uri %q: %w", baseURI, err)
		}
		name := filepath.Base(path)
		if path == "" {
			name = "schema.json"
		}
		return base.ResolveReference(&url.URL{Path: name}).String(), nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("schema: resolve %s: %w", path, err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}
