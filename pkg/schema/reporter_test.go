package schema

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReportKeepsSiblingLevels(t *testing.T) {
	tree := []*ValidationError{
		{
			Message:    "anyOf failed",
			SchemaPath: []string{"anyOf"},
			Context: []*ValidationError{
				{
					Message:    "oneOf failed",
					SchemaPath: []string{"anyOf", "0", "oneOf"},
					Context: []*ValidationError{
						{Message: "a", SchemaPath: []string{"anyOf", "0", "oneOf", "0", "type"}},
					},
				},
				{Message: "b", SchemaPath: []string{"anyOf", "1", "type"}},
			},
		},
		{Message: "c", SchemaPath: []string{"required"}},
	}

	var diag bytes.Buffer
	NewReporter(nil, &diag).Report(tree, 0)

	want := []string{
		" subschema level 0\t/: anyOf failed\tPath to error: [\"anyOf\"]",
		"*** subschema level 1\t/: oneOf failed\tPath to error: [\"anyOf\", \"0\", \"oneOf\"]",
		"****** subschema level 2\t/: a\tPath to error: [\"anyOf\", \"0\", \"oneOf\", \"0\", \"type\"]",
		"*** subschema level 1\t/: b\tPath to error: [\"anyOf\", \"1\", \"type\"]",
		" subschema level 0\t/: c\tPath to error: [\"required\"]",
	}
	require.Equal(t, want, strings.Split(strings.TrimSuffix(diag.String(), "\n"), "\n"))
	require.Equal(t, 5, Count(tree))
}

func TestReportStartingLevel(t *testing.T) {
	var diag bytes.Buffer
	NewReporter(&diag, nil).Report([]*ValidationError{{Message: "x", InstancePath: "/a"}}, 2)
	require.Equal(t, "****** subschema level 2\t/a: x\tPath to error: []\n", diag.String())
}

func TestSplitPointerUnescapes(t *testing.T) {
	require.Nil(t, splitPointer(""))
	require.Equal(t, []string{"properties", "a/b", "c~d"}, splitPointer("/properties/a~1b/c~0d"))
}

func TestIsPassThrough(t *testing.T) {
	for loc, want := range map[string]bool{
		"/items/$ref":            true,
		"/$ref":                  true,
		"/allOf/1":               true,
		"/properties/x/allOf/0":  true,
		"/allOf":                 false,
		"/anyOf/0":               false,
		"/properties/allOf/type": false,
		"":                       false,
	} {
		require.Equal(t, want, isPassThrough(loc), loc)
	}
}
