package planner

import (
	"fmt"
	"strings"
)

// InfeasibleError stops a plan when courses remain but none can be taken.
type InfeasibleError struct {
	Term            int
	RegistrationDay int
	Remaining       []string
	Completed       []string
	// Unknown lists courses blocked by prerequisites outside the catalog.
	Unknown []*UnknownCourseError
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("no feasible courses (term %d, registration day %d): %d remaining: %v",
		e.Term, e.RegistrationDay, len(e.Remaining), strings.Join(e.Remaining, ", "))
}

func (e *InfeasibleError) Unwrap() []error {
	errs := make([]error, 0, len(e.Unknown))
	for _, unknown := range e.Unknown {
		errs = append(errs, unknown)
	}
	return errs
}

// UnknownCourseError reports prerequisites that are neither completed nor in the catalog.
type UnknownCourseError struct {
	Course  string
	Missing []string
}

func (e *UnknownCourseError) Error() string {
	return fmt.Sprintf("%v requires courses outside the catalog: %v", e.Course, strings.Join(e.Missing, ", "))
}
