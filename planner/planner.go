package planner

import (
	"errors"
	"fmt"
	"slices"

	"github.com/brequin/brequin/regplan/availability"
	"github.com/brequin/brequin/regplan/requisite"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type PullForward string

const (
	// PullForwardShallow takes the missing prerequisites of a blocked course
	// as long as they have seats, whatever their own prerequisites.
	PullForwardShallow PullForward = "shallow"
	// PullForwardTransitive follows missing prerequisites down their chains
	// and only takes courses whose own prerequisites are met.
	PullForwardTransitive PullForward = "transitive"
)

type Config struct {
	PerTermCap  int
	UnitValue   int
	WindowDays  int
	Standing    availability.Standing
	PullForward PullForward
}

func DefaultConfig() Config {
	return Config{
		PerTermCap:  4,
		UnitValue:   4,
		WindowDays:  availability.DefaultWindowDays,
		Standing:    availability.DefaultStanding(),
		PullForward: PullForwardShallow,
	}
}

func (c Config) Validate() error {
	if c.PerTermCap < 1 {
		return fmt.Errorf("per term cap must be at least 1, got %d", c.PerTermCap)
	}
	if c.UnitValue < 0 {
		return fmt.Errorf("unit value must not be negative, got %d", c.UnitValue)
	}
	if c.WindowDays < 1 {
		return fmt.Errorf("enrollment window must be at least 1 day, got %d", c.WindowDays)
	}
	if c.PullForward != PullForwardShallow && c.PullForward != PullForwardTransitive {
		return fmt.Errorf("unknown pull forward policy %q", c.PullForward)
	}
	return c.Standing.Validate(c.WindowDays)
}

// Request describes one student.
type Request struct {
	StartUnits   int
	Requirements map[string]requisite.Node
	// Completed courses are never scheduled and satisfy prerequisites from term 1.
	Completed []string
	// Courses is the catalog to plan. When empty, every course with
	// requirements and every course they mention is planned.
	Courses []string
}

type Entry struct {
	Term            int      `json:"term" yaml:"term"`
	UnitsBefore     int      `json:"units_before" yaml:"units_before"`
	RegistrationDay int      `json:"registration_day" yaml:"registration_day"`
	Courses         []string `json:"courses" yaml:"courses"`
}

type Planner struct {
	config   Config
	calendar availability.Calendar
	logger   *zap.Logger
}

func New(config Config, calendar availability.Calendar, logger *zap.Logger) (*Planner, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid planner config: %w", err)
	}
	if err := calendar.Validate(config.WindowDays); err != nil {
		return nil, fmt.Errorf("invalid fill days: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{config: config, calendar: calendar, logger: logger}, nil
}

// Schedule plans every course named by requirements for a student starting
// with startUnits and nothing completed.
func (p *Planner) Schedule(startUnits int, requirements map[string]requisite.Node) ([]Entry, error) {
	return p.Plan(Request{StartUnits: startUnits, Requirements: requirements})
}

// Plan schedules terms greedily until no course remains. On an
// *InfeasibleError the entries planned so far are returned with it.
func (p *Planner) Plan(request Request) ([]Entry, error) {
	explicit := len(request.Courses) > 0
	universe := request.Courses
	if !explicit {
		universe = catalogCourses(request.Requirements)
	}

	completed := lo.SliceToMap(request.Completed, func(course string) (string, bool) {
		return course, true
	})
	known := lo.SliceToMap(append(slices.Clone(universe), request.Completed...), func(course string) (string, bool) {
		return course, true
	})
	remaining := lo.SliceToMap(lo.Reject(universe, func(course string, _ int) bool {
		return completed[course]
	}), func(course string) (string, bool) {
		return course, true
	})

	var entries []Entry
	units := request.StartUnits
	for term := 1; len(remaining) > 0; term++ {
		day := p.config.Standing.Day(units)
		candidates := newCandidates()
		var unknown []*UnknownCourseError

		for _, course := range sortedKeys(remaining) {
			if !p.calendar.Available(course, day) {
				continue
			}

			tree, ok := request.Requirements[course]
			if !ok {
				candidates.add(course)
				continue
			}
			missing := requisite.Resolve(tree, completed)
			if len(missing) == 0 {
				candidates.add(course)
				continue
			}

			if explicit {
				outside := lo.Reject(missing, func(m string, _ int) bool {
					return known[m]
				})
				if len(outside) > 0 {
					unknown = append(unknown, &UnknownCourseError{Course: course, Missing: outside})
					continue
				}
			}
			p.pullForward(missing, day, request.Requirements, completed, remaining, candidates, map[string]bool{course: true})
		}

		if len(candidates.courses) == 0 {
			return entries, &InfeasibleError{
				Term:            term,
				RegistrationDay: day,
				Remaining:       sortedKeys(remaining),
				Completed:       sortedKeys(completed),
				Unknown:         unknown,
			}
		}

		taking := candidates.courses[:min(p.config.PerTermCap, len(candidates.courses))]
		entries = append(entries, Entry{
			Term:            term,
			UnitsBefore:     units,
			RegistrationDay: day,
			Courses:         taking,
		})
		p.logger.Debug("Planned term",
			zap.Int("term", term),
			zap.Int("units", units),
			zap.Int("registration_day", day),
			zap.Strings("courses", taking),
		)

		for _, course := range taking {
			completed[course] = true
			delete(remaining, course)
		}
		units += len(taking) * p.config.UnitValue
	}

	return entries, nil
}

func (p *Planner) pullForward(missing []string, day int, requirements map[string]requisite.Node, completed, remaining map[string]bool, candidates *candidates, visited map[string]bool) {
	sorted := slices.Clone(missing)
	slices.Sort(sorted)

	for _, course := range sorted {
		if !remaining[course] || !p.calendar.Available(course, day) {
			continue
		}
		if p.config.PullForward == PullForwardShallow {
			candidates.add(course)
			continue
		}

		if visited[course] {
			continue
		}
		visited[course] = true

		tree, ok := requirements[course]
		if !ok {
			candidates.add(course)
			continue
		}
		if deeper := requisite.Resolve(tree, completed); len(deeper) > 0 {
			p.pullForward(deeper, day, requirements, completed, remaining, candidates, visited)
		} else {
			candidates.add(course)
		}
	}
}

// catalogCourses lists every course with requirements plus every course they name.
func catalogCourses(requirements map[string]requisite.Node) []string {
	courses := lo.Keys(requirements)
	for _, tree := range requirements {
		courses = append(courses, tree.Courses()...)
	}
	return lo.Uniq(courses)
}

func sortedKeys(set map[string]bool) []string {
	keys := lo.Keys(set)
	slices.Sort(keys)
	return keys
}

type candidates struct {
	courses []string
	seen    map[string]bool
}

func newCandidates() *candidates {
	return &candidates{seen: make(map[string]bool)}
}

func (c *candidates) add(course string) {
	if !c.seen[course] {
		c.seen[course] = true
		c.courses = append(c.courses, course)
	}
}

// IsInfeasible reports whether err stopped a plan early.
func IsInfeasible(err error) bool {
	var infeasible *InfeasibleError
	return errors.As(err, &infeasible)
}
