package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/logx"

	"schemacheck/internal/config"
	"schemacheck/pkg/runner"
	"schemacheck/pkg/schema"
)

const failureMessage = "Validation Fails"

var errValidationFails = errors.New(failureMessage)

// runError marks failures that happened while running, as opposed to usage
// errors reported by cobra.
type runError struct{ err error }

func (e runError) Error() string { return e.err.Error() }
func (e runError) Unwrap() error { return e.err }

func main() {
	os.Exit(runWithArgs(os.Args[1:], os.Stdout, os.Stderr))
}

func runWithArgs(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return 0
	}
	var re runError
	if !errors.As(err, &re) {
		fmt.Fprintf(stderr, "error: %v\n", err)
		fmt.Fprintln(stderr, root.UsageString())
		return 2
	}
	if errors.Is(err, errValidationFails) {
		fmt.Fprintln(stderr, failureMessage)
		return 1
	}
	fmt.Fprintf(stderr, "error: %v\n", re.err)
	return 1
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:           "schemacheck",
		Short:         "Check JSON schemas and validate instance documents against them",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, error, severe)")

	root.AddCommand(
		newRunCmd(stdout, stderr, &logLevel),
		newValidateCmd(stdout, stderr, &logLevel),
		newCheckCmd(stdout, stderr, &logLevel),
	)
	return root
}

func newRunCmd(stdout, stderr io.Writer, logLevel *string) *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every schema/test-directory pair listed in a config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return runError{err}
			}
			if *logLevel != "" {
				cfg.Log.Level = *logLevel
			}
			if err := cfg.SetUpLogging(); err != nil {
				return runError{err}
			}
			catalog, err := cfg.LoadCatalog()
			if err != nil {
				return runError{err}
			}
			r := runner.New(runner.Options{Root: cfg.Dir(), Catalog: catalog, Stdout: stdout, Stderr: stderr})
			summaries, err := r.RunAll(cfg.Runs)
			if err != nil {
				return runError{err}
			}
			return finish(summaries)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "etc/schemacheck.yaml", "path to the config file")
	return cmd
}

func newValidateCmd(stdout, stderr io.Writer, logLevel *string) *cobra.Command {
	var (
		run         runner.Run
		catalogPath string
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate every instance in a directory against one schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.SetUpLogging(config.LogConfig{Level: *logLevel}); err != nil {
				return runError{err}
			}
			var catalog *schema.Catalog
			if catalogPath != "" {
				c, err := schema.LoadCatalog(catalogPath)
				if err != nil {
					return runError{err}
				}
				catalog = c
			}
			r := runner.New(runner.Options{Catalog: catalog, Stdout: stdout, Stderr: stderr})
			summary, err := r.Run(run)
			if err != nil {
				return runError{err}
			}
			return finish([]*runner.Summary{summary})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&run.SchemaDir, "schema-dir", ".", "directory holding the schema")
	flags.StringVar(&run.SchemaFile, "schema", "", "schema file name")
	flags.StringVar(&run.TestDir, "test-dir", "", "directory of instance documents")
	flags.StringVar(&run.Extension, "ext", "json", "instance file extension")
	flags.StringVar(&run.BaseURI, "base-uri", "", "base URI for resolving relative $ref (e.g. file:///path/to/schemas/)")
	flags.StringVar(&catalogPath, "catalog", "", "schema catalog file")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("test-dir")
	return cmd
}

func newCheckCmd(stdout, stderr io.Writer, logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check SCHEMA...",
		Short: "Check that schema files are valid draft-04 JSON schemas",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SetUpLogging(config.LogConfig{Level: *logLevel}); err != nil {
				return runError{err}
			}
			r := runner.New(runner.Options{Stdout: stdout, Stderr: stderr})
			if err := r.CheckSchemas(args); err != nil {
				return runError{err}
			}
			return nil
		},
	}
}

func finish(summaries []*runner.Summary) error {
	for _, s := range summaries {
		if err := s.Err(); err != nil {
			logx.Errorf("%s: %v", s.Run.Label(), err)
		}
	}
	if runner.AnyFailed(summaries) {
		return runError{errValidationFails}
	}
	return nil
}
