package db

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

type Condition string

const (
	ConditionAnd  Condition = "and"
	ConditionOr   Condition = "or"
	ConditionNone Condition = "N/A"
)

// Placeholder course for groups (or owners) without a direct course row.
const PlaceholderCourse = "NA"

// NoGroup marks a root group in Row.RelatedGroup.
const NoGroup = 0

// Header is the fixed column order of the tabular encoding.
var Header = []string{"group", "condition", "course", "related_group", "prereq", "group_condition"}

type Row struct {
	Group          int
	Condition      Condition
	Course         string
	RelatedGroup   int
	Prereq         string
	GroupCondition Condition
}

type RowStore interface {
	// InsertRows appends rows to the store
	InsertRows(ctx context.Context, rows []Row) error
	// ReplaceRows discards everything stored and writes rows in its place
	ReplaceRows(ctx context.Context, rows []Row) error
	// ListRows returns every stored row in insertion order
	ListRows(ctx context.Context) ([]Row, error)
}

func ParseCondition(s string) (Condition, error) {
	switch Condition(s) {
	case ConditionAnd, ConditionOr, ConditionNone:
		return Condition(s), nil
	}
	return "", fmt.Errorf("unknown condition %q", s)
}

func FormatRelatedGroup(group int) string {
	if group == NoGroup {
		return string(ConditionNone)
	}
	return strconv.Itoa(group)
}

func ParseRelatedGroup(s string) (int, error) {
	if s == string(ConditionNone) || s == "" {
		return NoGroup, nil
	}
	group, err := strconv.Atoi(s)
	if err != nil {
		return NoGroup, fmt.Errorf("invalid related group %q: %w", s, err)
	}
	if group <= 0 {
		return NoGroup, fmt.Errorf("related group must be positive: %d", group)
	}
	return group, nil
}

// Record renders the row in Header order.
func (r Row) Record() []string {
	return []string{
		strconv.Itoa(r.Group),
		string(r.Condition),
		r.Course,
		FormatRelatedGroup(r.RelatedGroup),
		r.Prereq,
		string(r.GroupCondition),
	}
}

func RowFromRecord(record []string) (Row, error) {
	if len(record) != len(Header) {
		return Row{}, fmt.Errorf("expected %d columns, got %d", len(Header), len(record))
	}

	group, err := strconv.Atoi(record[0])
	if err != nil {
		return Row{}, fmt.Errorf("invalid group %q: %w", record[0], err)
	}
	condition, err := ParseCondition(record[1])
	if err != nil {
		return Row{}, err
	}
	relatedGroup, err := ParseRelatedGroup(record[3])
	if err != nil {
		return Row{}, err
	}
	groupCondition, err := ParseCondition(record[5])
	if err != nil {
		return Row{}, err
	}

	return Row{
		Group:          group,
		Condition:      condition,
		Course:         record[2],
		RelatedGroup:   relatedGroup,
		Prereq:         record[4],
		GroupCondition: groupCondition,
	}, nil
}

type TrackerRecord struct {
	Course     string
	FirstSeen  time.Time
	TotalOpen  int
	DaysToZero *int
}
