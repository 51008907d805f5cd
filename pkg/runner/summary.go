package runner

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"schemacheck/pkg/schema"
)

// Outcome is the result of checking one instance file. Err is set when the
// file could not be loaded; Errors holds the validation error tree otherwise.
type Outcome struct {
	Path   string
	Passed bool
	Errors []*schema.ValidationError
	Err    error
}

// Summary collects the outcomes of one run.
type Summary struct {
	Run      Run
	Outcomes []Outcome
}

// Failed reports whether any instance failed.
func (s *Summary) Failed() bool {
	return s.FailedCount() > 0
}

// FailedCount returns the number of failed instances.
func (s *Summary) FailedCount() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, o := range s.Outcomes {
		if !o.Passed {
			n++
		}
	}
	return n
}

// PassedCount returns the number of passing instances.
func (s *Summary) PassedCount() int {
	if s == nil {
		return 0
	}
	return len(s.Outcomes) - s.FailedCount()
}

// Err aggregates one error per failed instance, or nil.
func (s *Summary) Err() error {
	if s == nil {
		return nil
	}
	var errs *multierror.Error
	for _, o := range s.Outcomes {
		if o.Passed {
			continue
		}
		switch {
		case o.Err != nil:
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", o.Path, o.Err))
		default:
			errs = multierror.Append(errs, fmt.Errorf("%s: %d validation error(s)", o.Path, schema.Count(o.Errors)))
		}
	}
	return errs.ErrorOrNil()
}

// AnyFailed reports whether any summary recorded a failure.
func AnyFailed(summaries []*Summary) bool {
	for _, s := range summaries {
		if s.Failed() {
			return true
		}
	}
	return false
}
