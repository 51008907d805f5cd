package schema

import (
	"strings"

	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const draft4URI = "http://json-schema.org/draft-04/schema"

// strictIntegers rejects number literals written with a fraction or exponent
// where "integer" is the only numeric type allowed. Draft 4 defines integer
// by the literal, so 1.0 is a number but not an integer; the engine compares
// by value and would accept it.
type strictIntegers struct{}

func (strictIntegers) Compile(_ jsonschema.CompilerContext, m map[string]interface{}) (jsonschema.ExtSchema, error) {
	var types []string
	switch t := m["type"].(type) {
	case string:
		types = []string{t}
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok {
				types = append(types, s)
			}
		}
	}
	integer := false
	for _, t := range types {
		switch t {
		case "number":
			return nil, nil
		case "integer":
			integer = true
		}
	}
	if !integer {
		return nil, nil
	}
	return integerLiteral{types: strings.Join(types, " or ")}, nil
}

type integerLiteral struct {
	types string
}

func (s integerLiteral) Validate(ctx jsonschema.ValidationContext, v interface{}) error {
	n, ok := v.(json.Number)
	if !ok || !strings.ContainsAny(n.String(), ".eE") {
		return nil
	}
	return ctx.Error("type", "expected %s, but got number", s.types)
}

// declaresDraft4 reports whether doc is a Draft 4 schema: it names draft-04 in
// $schema, or omits $schema while def is Draft 4.
func declaresDraft4(doc *Document, def *jsonschema.Draft) bool {
	m, ok := doc.Value.(map[string]any)
	if !ok {
		return def == jsonschema.Draft4
	}
	uri, ok := m["$schema"].(string)
	if !ok || uri == "" {
		return def == jsonschema.Draft4
	}
	return strings.TrimSuffix(uri, "#") == draft4URI
}
