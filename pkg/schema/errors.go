package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaError reports a schema document that does not conform to the
// meta-schema.
type SchemaError struct {
	Path   string
	Issues []string
}

func (e *SchemaError) Error() string {
	if e == nil {
		return "schema error <nil>"
	}
	switch len(e.Issues) {
	case 0:
		return fmt.Sprintf("schema: %s is not a valid JSON schema", e.Path)
	case 1:
		return fmt.Sprintf("schema: %s is not a valid JSON schema: %s", e.Path, e.Issues[0])
	default:
		return fmt.Sprintf("schema: %s is not a valid JSON schema: %s (and %d more)", e.Path, e.Issues[0], len(e.Issues)-1)
	}
}

// AsSchemaError extracts a *SchemaError from err.
func AsSchemaError(err error) (*SchemaError, bool) {
	var se *SchemaError
	if errors.As(err, &se) && se != nil {
		return se, true
	}
	return nil, false
}

// ValidationError is one node of a validation error tree. Context holds the
// failures of the alternative sub-schemas of a composite keyword such as
// anyOf or oneOf.
type ValidationError struct {
	Message      string
	SchemaPath   []string
	InstancePath string
	Context      []*ValidationError
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "validation <nil>"
	}
	loc := e.InstancePath
	if loc == "" {
		loc = "/"
	}
	return fmt.Sprintf("%s: %s", loc, e.Message)
}

// Keyword returns the last schema path segment, e.g. "type" or "anyOf".
func (e *ValidationError) Keyword() string {
	if e == nil || len(e.SchemaPath) == 0 {
		return ""
	}
	return e.SchemaPath[len(e.SchemaPath)-1]
}

// fromEngine converts the engine's error into the top-level error list. The
// engine reports a root node naming the schema with the real failures as
// causes. Wrapper nodes without a message, $ref hops and allOf branches are
// spliced into their parent: their causes already carry the full keyword path.
func fromEngine(err error) []*ValidationError {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []*ValidationError{{Message: err.Error()}}
	}
	if ve.KeywordLocation == "" && len(ve.Causes) > 0 {
		return convertCauses(ve.Causes)
	}
	return convertNode(ve)
}

func convertCauses(causes []*jsonschema.ValidationError) []*ValidationError {
	var out []*ValidationError
	for _, c := range causes {
		out = append(out, convertNode(c)...)
	}
	return out
}

func convertNode(ve *jsonschema.ValidationError) []*ValidationError {
	if ve == nil {
		return nil
	}
	if ve.Message == "" || (isPassThrough(ve.KeywordLocation) && len(ve.Causes) > 0) {
		return convertCauses(ve.Causes)
	}
	return []*ValidationError{{
		Message:      ve.Message,
		SchemaPath:   splitPointer(ve.KeywordLocation),
		InstancePath: ve.InstanceLocation,
		Context:      convertCauses(ve.Causes),
	}}
}

// isPassThrough reports whether the keyword at loc only forwards the failures
// of the schema it applies, as $ref and each allOf branch do.
func isPassThrough(loc string) bool {
	parts := splitPointer(loc)
	n := len(parts)
	if n == 0 {
		return false
	}
	switch parts[n-1] {
	case "$ref", "$recursiveRef", "$dynamicRef":
		return true
	}
	if n < 2 || parts[n-2] != "allOf" {
		return false
	}
	_, err := strconv.Atoi(parts[n-1])
	return err == nil
}

// splitPointer turns a JSON pointer into unescaped segments.
func splitPointer(ptr string) []string {
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return nil
	}
	parts := strings.Split(ptr, "/")
	for i, p := range parts {
		p = strings.ReplaceAll(p, "~1", "/")
		parts[i] = strings.ReplaceAll(p, "~0", "~")
	}
	return parts
}

// FormatPath renders schema path segments as a bracketed, quoted list.
func FormatPath(path []string) string {
	quoted := make([]string, len(path))
	for i, p := range path {
		quoted[i] = strconv.Quote(p)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
