package schema

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

const depthMarker = "***"

// Reporter writes validation outcomes. Status lines go to out, the error tree
// goes to diag.
type Reporter struct {
	out  io.Writer
	diag io.Writer
}

// NewReporter returns a reporter; a nil diag shares out.
func NewReporter(out, diag io.Writer) *Reporter {
	if out == nil {
		out = io.Discard
	}
	if diag == nil {
		diag = out
	}
	return &Reporter{out: out, diag: diag}
}

// Printf writes a status line.
func (r *Reporter) Printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// Result prints the pass/fail status for errs, reporting the error tree first
// on failure. It returns true when errs is empty.
func (r *Reporter) Result(errs []*ValidationError) bool {
	if len(errs) == 0 {
		r.Printf("Validation Passes\n")
		return true
	}
	r.Report(errs, 0)
	r.Printf("Validation Fails\n")
	return false
}

// Report writes one diagnostic line per error, parents before their context
// errors, starting at level.
func (r *Reporter) Report(errs []*ValidationError, level int) {
	Walk(errs, level, func(e *ValidationError, depth int) {
		fmt.Fprintln(r.diag, FormatDiagnostic(e, depth))
	})
}

// FormatDiagnostic renders a single error at the given nesting level.
func FormatDiagnostic(e *ValidationError, level int) string {
	return strings.Join([]string{
		strings.Repeat(depthMarker, level) + " subschema level " + strconv.Itoa(level),
		e.Error(),
		"Path to error: " + FormatPath(e.SchemaPath),
	}, "\t")
}

// Walk visits errs depth-first in pre-order. Context errors are visited at
// level+1 right after their parent.
func Walk(errs []*ValidationError, level int, fn func(e *ValidationError, level int)) {
	for _, e := range errs {
		if e == nil {
			continue
		}
		fn(e, level)
		if len(e.Context) > 0 {
			Walk(e.Context, level+1, fn)
		}
	}
}

// Count returns the number of nodes in the error forest.
func Count(errs []*ValidationError) int {
	n := 0
	Walk(errs, 0, func(*ValidationError, int) { n++ })
	return n
}
