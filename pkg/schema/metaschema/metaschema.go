// Package metaschema embeds the JSON Schema meta-schemas used to check that
// schema documents are well-formed.
package metaschema

import _ "embed"

// Draft04 is the draft-04 core meta-schema.
//
//go:embed draft-04.json
var Draft04 []byte
