package availability

import (
	"errors"
	"fmt"
)

// Breakpoint assigns registration day Day to students with at least MinUnits units.
type Breakpoint struct {
	MinUnits int `yaml:"min_units" json:"min_units"`
	Day      int `yaml:"day" json:"day"`
}

// Standing is ordered from the highest unit threshold to the lowest.
type Standing []Breakpoint

func DefaultStanding() Standing {
	return Standing{
		{MinUnits: 135, Day: 3},
		{MinUnits: 90, Day: 6},
		{MinUnits: 45, Day: 9},
		{MinUnits: 0, Day: 11},
	}
}

// Day returns the Pass 1 registration day for a student holding units.
func (s Standing) Day(units int) int {
	for _, breakpoint := range s {
		if units >= breakpoint.MinUnits {
			return breakpoint.Day
		}
	}
	if len(s) == 0 {
		return 1
	}
	return s[len(s)-1].Day
}

func (s Standing) Validate(windowDays int) error {
	if len(s) == 0 {
		return errors.New("registration day breakpoints are empty")
	}
	for i, breakpoint := range s {
		if breakpoint.Day < 1 || breakpoint.Day > windowDays {
			return fmt.Errorf("registration day %d is outside the %d day window", breakpoint.Day, windowDays)
		}
		if i == 0 {
			continue
		}
		previous := s[i-1]
		if breakpoint.MinUnits >= previous.MinUnits {
			return fmt.Errorf("breakpoint %d units must be below %d units", breakpoint.MinUnits, previous.MinUnits)
		}
		if breakpoint.Day < previous.Day {
			return fmt.Errorf("breakpoint for %d units registers on day %d, before day %d for %d units", breakpoint.MinUnits, breakpoint.Day, previous.Day, previous.MinUnits)
		}
	}
	if s[len(s)-1].MinUnits != 0 {
		return errors.New("registration day breakpoints need a 0 unit tier")
	}
	return nil
}
