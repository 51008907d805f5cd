package runner

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/logx"

	"schemacheck/pkg/schema"
)

func TestMain(m *testing.M) {
	logx.Disable()
	os.Exit(m.Run())
}

const ageSchema = `{"type": "object", "properties": {"age": {"type": "integer"}}, "required": ["age"]}`

type fixture struct {
	root   string
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newFixture(t *testing.T, schemaBody string, instances map[string]string) *fixture {
	t.Helper()
	f := &fixture{root: t.TempDir()}
	require.NoError(t, os.MkdirAll(filepath.Join(f.root, "schemas"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(f.root, "examples"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(f.root, "schemas", "age.json"), []byte(schemaBody), 0o600))
	for name, body := range instances {
		require.NoError(t, os.WriteFile(filepath.Join(f.root, "examples", name), []byte(body), 0o600))
	}
	return f
}

func (f *fixture) runner() *Runner {
	return New(Options{Root: f.root, Stdout: &f.stdout, Stderr: &f.stderr})
}

func ageRun() Run {
	return Run{SchemaDir: "schemas", SchemaFile: "age.json", TestDir: "examples"}
}

func TestRunAllPass(t *testing.T) {
	f := newFixture(t, ageSchema, map[string]string{
		"a.json":    `{"age": 1}`,
		"b.json":    `{"age": 2}`,
		"notes.txt": `not json`,
	})
	summary, err := f.runner().Run(ageRun())
	require.NoError(t, err)
	require.False(t, summary.Failed())
	require.Len(t, summary.Outcomes, 2)
	require.Equal(t, 2, summary.PassedCount())
	require.NoError(t, summary.Err())

	out := f.stdout.String()
	assert.Contains(t, out, "age.json is a valid JSON schema")
	assert.Contains(t, out, "Testing: "+filepath.Join(f.root, "examples", "a.json"))
	assert.Equal(t, 2, strings.Count(out, "Validation Passes"))
	assert.Empty(t, f.stderr.String())
}

func TestRunRecordsFailuresAndContinues(t *testing.T) {
	f := newFixture(t, ageSchema, map[string]string{
		"a.json": `{"age": "old"}`,
		"b.json": `{"age": 2}`,
		"c.json": `{"age": `,
	})
	summary, err := f.runner().Run(ageRun())
	require.NoError(t, err)
	require.True(t, summary.Failed())
	require.Len(t, summary.Outcomes, 3)
	require.Equal(t, 2, summary.FailedCount())

	byName := map[string]Outcome{}
	for _, o := range summary.Outcomes {
		byName[filepath.Base(o.Path)] = o
	}
	require.False(t, byName["a.json"].Passed)
	require.Len(t, byName["a.json"].Errors, 1)
	require.True(t, byName["b.json"].Passed)
	require.False(t, byName["c.json"].Passed)
	require.ErrorIs(t, byName["c.json"].Err, schema.ErrLoad)

	agg := summary.Err()
	require.Error(t, agg)
	assert.Contains(t, agg.Error(), "a.json: 1 validation error(s)")
	assert.Contains(t, agg.Error(), "c.json")

	assert.Contains(t, f.stderr.String(), `["properties", "age", "type"]`)
	assert.Equal(t, 2, strings.Count(f.stdout.String(), "Validation Fails"))
}

func TestRunFailureIndependentOfOrder(t *testing.T) {
	instances := map[string]string{
		"0.json": `{"age": 1}`,
		"1.json": `{}`,
		"2.json": `{"age": 3}`,
	}
	for _, rename := range []map[string]string{
		{"0.json": "z.json"},
		{"1.json": "a.json"},
	} {
		renamed := map[string]string{}
		for name, body := range instances {
			if to, ok := rename[name]; ok {
				name = to
			}
			renamed[name] = body
		}
		f := newFixture(t, ageSchema, renamed)
		summary, err := f.runner().Run(ageRun())
		require.NoError(t, err)
		require.True(t, summary.Failed())
		require.Equal(t, 1, summary.FailedCount())
	}
}

func TestRunMissingDirectories(t *testing.T) {
	f := newFixture(t, ageSchema, nil)

	run := ageRun()
	run.SchemaDir = "nope"
	_, err := f.runner().Run(run)
	require.ErrorIs(t, err, ErrInvalidPath)
	require.Contains(t, err.Error(), "please provide valid schema_dir")

	run = ageRun()
	run.TestDir = "nope"
	_, err = f.runner().Run(run)
	require.ErrorIs(t, err, ErrInvalidPath)
	require.Contains(t, err.Error(), "please provide valid test_dir")
}

func TestRunMalformedSchemaIsFatal(t *testing.T) {
	f := newFixture(t, `{"type": 5}`, map[string]string{"a.json": `{}`})
	summary, err := f.runner().Run(ageRun())
	require.Nil(t, summary)
	_, ok := schema.AsSchemaError(err)
	require.True(t, ok)
	require.NotContains(t, f.stdout.String(), "Testing:")
}

func TestRunUnloadableSchemaIsFatal(t *testing.T) {
	f := newFixture(t, ageSchema, nil)
	run := ageRun()
	run.SchemaFile = "missing.json"
	_, err := f.runner().Run(run)
	require.ErrorIs(t, err, schema.ErrLoad)
}

func TestRunAllStopsAtFatalError(t *testing.T) {
	f := newFixture(t, ageSchema, map[string]string{"a.json": `{"age": 1}`})
	bad := ageRun()
	bad.Name = "broken"
	bad.TestDir = "nope"

	summaries, err := f.runner().RunAll([]Run{ageRun(), bad, ageRun()})
	require.Error(t, err)
	require.Contains(t, err.Error(), "run broken")
	require.Len(t, summaries, 1)
	require.False(t, AnyFailed(summaries))
}

func TestRunYAMLInstances(t *testing.T) {
	f := newFixture(t, ageSchema, map[string]string{
		"a.yaml": "age: 4\n",
		"b.yaml": "age: four\n",
		"c.json": `{}`,
	})
	run := ageRun()
	run.Extension = ".yaml"
	summary, err := f.runner().Run(run)
	require.NoError(t, err)
	require.Len(t, summary.Outcomes, 2)
	require.Equal(t, 1, summary.FailedCount())
}

func TestRunWithCatalog(t *testing.T) {
	f := newFixture(t, ageSchema, map[string]string{"a.json": `{"age": 1}`})
	catalogPath := filepath.Join(f.root, "catalog.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte("schemas:\n  - name: general.json\n    path: schemas/age.json\n"), 0o600))
	catalog, err := schema.LoadCatalog(catalogPath)
	require.NoError(t, err)

	r := New(Options{Root: f.root, Catalog: catalog, Stdout: &f.stdout, Stderr: &f.stderr})
	run := ageRun()
	run.SchemaFile = "general.json"
	summary, err := r.Run(run)
	require.NoError(t, err)
	require.False(t, summary.Failed())
}

func TestCheckSchemas(t *testing.T) {
	f := newFixture(t, ageSchema, nil)
	require.NoError(t, os.WriteFile(filepath.Join(f.root, "schemas", "bad.json"), []byte(`{"type": 5}`), 0o600))

	r := f.runner()
	require.NoError(t, r.CheckSchemas([]string{"schemas/age.json"}))
	assert.Contains(t, f.stdout.String(), "is a valid JSON schema")

	err := r.CheckSchemas([]string{"schemas/age.json", "schemas/bad.json", "schemas/missing.json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json is not a valid JSON schema")
	assert.ErrorIs(t, err, schema.ErrLoad)
}

func TestRunValidate(t *testing.T) {
	require.Error(t, Run{TestDir: "x"}.Validate())
	require.Error(t, Run{SchemaFile: "x.json"}.Validate())
	require.Error(t, Run{SchemaFile: "x.json", TestDir: "t", Extension: "*"}.Validate())
	require.NoError(t, Run{SchemaFile: "x.json", TestDir: "t"}.Validate())
}

func TestDiscoverSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte(`{}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(`{}`), 0o600))

	files, err := Discover(dir, "")
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a.json"), filepath.Join(dir, "b.json")}, files)
}
