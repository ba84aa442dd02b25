package availability

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
	"go.uber.org/multierr"
)

// DefaultWindowDays is the length of the Pass 1 registration window.
const DefaultWindowDays = 12

// Calendar maps a course to the Pass 1 day on which its seats run out.
// Courses that are absent never fill during the window.
type Calendar map[string]int

// NewCalendar builds a calendar from optional fill days; nil means the
// course never fills.
func NewCalendar(fillDays map[string]*int) Calendar {
	calendar := make(Calendar, len(fillDays))
	for course, day := range fillDays {
		if day != nil {
			calendar[course] = *day
		}
	}
	return calendar
}

// Available reports whether course still has seats when registering on day.
// A course filling on day d can be taken by anyone registering on day d.
func (c Calendar) Available(course string, day int) bool {
	fill, ok := c[course]
	return !ok || fill >= day
}

func (c Calendar) Validate(windowDays int) error {
	courses := lo.Keys(c)
	slices.Sort(courses)

	var errs error
	for _, course := range courses {
		if day := c[course]; day < 1 || day > windowDays {
			errs = multierr.Append(errs, fmt.Errorf("fill day %d of %v is outside the %d day window", day, course, windowDays))
		}
	}
	return errs
}
