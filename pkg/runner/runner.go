package runner

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/zeromicro/go-zero/core/logx"

	"schemacheck/pkg/confkit"
	"schemacheck/pkg/schema"
)

// Options configures a Runner.
type Options struct {
	// Root anchors relative paths in runs. Empty means the working directory.
	Root    string
	Catalog *schema.Catalog
	Stdout  io.Writer
	Stderr  io.Writer
}

// Runner validates directories of instances against schemas.
type Runner struct {
	root     string
	loader   *schema.Loader
	reporter *schema.Reporter
}

// New builds a runner. Nil writers default to os.Stdout / os.Stderr.
func New(opts Options) *Runner {
	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Runner{
		root:     opts.Root,
		loader:   schema.NewLoader(opts.Catalog),
		reporter: schema.NewReporter(stdout, stderr),
	}
}

// Run checks the schema of run and validates every matching instance file.
// Invalid directories, unloadable schemas and malformed schemas are returned
// as errors; instance failures are recorded in the summary.
func (r *Runner) Run(run Run) (*Summary, error) {
	if err := run.Validate(); err != nil {
		return nil, err
	}
	run = run.Resolve(r.root)
	if err := requireDir(run.SchemaDir, "schema_dir"); err != nil {
		return nil, err
	}
	if err := requireDir(run.TestDir, "test_dir"); err != nil {
		return nil, err
	}

	validator, err := r.compile(run)
	if err != nil {
		return nil, err
	}

	files, err := Discover(run.TestDir, run.Extension)
	if err != nil {
		return nil, err
	}
	r.reporter.Printf("Found test files: %v in %s\n", files, run.TestDir)
	logx.Infof("run %s: %d instance file(s) in %s", run.Label(), len(files), run.TestDir)

	summary := &Summary{Run: run, Outcomes: make([]Outcome, 0, len(files))}
	for _, path := range files {
		summary.Outcomes = append(summary.Outcomes, r.validateFile(validator, path))
	}
	logx.Infof("run %s complete: %d passed, %d failed", run.Label(), summary.PassedCount(), summary.FailedCount())
	return summary, nil
}

// RunAll executes runs in order, stopping at the first fatal error.
func (r *Runner) RunAll(runs []Run) ([]*Summary, error) {
	summaries := make([]*Summary, 0, len(runs))
	for _, run := range runs {
		s, err := r.Run(run)
		if err != nil {
			return summaries, fmt.Errorf("run %s: %w", run.Label(), err)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// CheckSchemas loads and meta-validates each schema file, reporting every
// failure rather than stopping at the first.
func (r *Runner) CheckSchemas(paths []string) error {
	var errs *multierror.Error
	for _, path := range paths {
		doc, err := r.loader.Load(confkit.Resolve(r.root, path))
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		if err := schema.CheckSchema(doc); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		r.reporter.Printf("%s is a valid JSON schema\n", doc.Path)
	}
	return errs.ErrorOrNil()
}

func (r *Runner) compile(run Run) (*schema.Validator, error) {
	doc, err := r.loader.LoadSchema(run.SchemaDir, run.SchemaFile)
	if err != nil {
		return nil, err
	}
	if err := schema.CheckSchema(doc); err != nil {
		return nil, err
	}
	r.reporter.Printf("%s is a valid JSON schema\n", doc.Path)

	var opts []schema.Option
	if run.BaseURI != "" {
		opts = append(opts, schema.WithBaseURI(run.BaseURI))
	}
	return schema.NewValidator(doc, opts...)
}

func (r *Runner) validateFile(v *schema.Validator, path string) Outcome {
	r.reporter.Printf("Testing: %s\n", path)
	doc, err := r.loader.Load(path)
	if err != nil {
		r.reporter.Printf("Validation Fails\n")
		return Outcome{Path: path, Err: err}
	}
	errs := v.Errors(doc.Value)
	return Outcome{Path: path, Passed: r.reporter.Result(errs), Errors: errs}
}
