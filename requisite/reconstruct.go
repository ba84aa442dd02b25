package requisite

import (
	"fmt"
	"slices"

	"github.com/brequin/brequin/regplan/db"
	"github.com/samber/lo"
)

type rowGroup struct {
	id             int
	condition      db.Condition
	relatedGroup   int
	groupCondition db.Condition
	// first is the index of the group's first row
	first    int
	operands []rowOperand
}

// rowOperand is a course or a nested group, placed by the row it starts at.
type rowOperand struct {
	index  int
	course string
	group  int
}

// Reconstruct rebuilds one tree per owner from rows produced by Flatten.
// Rows of different owners may be interleaved. The operands of each group
// keep the order of their rows. Malformed rows fail the whole call with a
// *ReconstructionError.
func Reconstruct(rows []db.Row) (map[string]Node, error) {
	byOwner := lo.GroupBy(rows, func(row db.Row) string {
		return row.Prereq
	})

	owners := lo.Keys(byOwner)
	slices.Sort(owners)

	trees := make(map[string]Node, len(owners))
	for _, owner := range owners {
		tree, err := ReconstructOwner(owner, byOwner[owner])
		if err != nil {
			return nil, err
		}
		trees[owner] = tree
	}
	return trees, nil
}

// ReconstructOwner rebuilds the tree of a single owner.
func ReconstructOwner(owner string, rows []db.Row) (Node, error) {
	fail := func(group int, format string, args ...any) error {
		return &ReconstructionError{Owner: owner, Group: group, Reason: fmt.Sprintf(format, args...)}
	}

	groups := make(map[int]*rowGroup)
	var order []int
	for i, row := range rows {
		if row.Group <= 0 {
			return None(), fail(row.Group, "group ids must be positive")
		}
		if row.Condition != db.ConditionAnd && row.Condition != db.ConditionOr {
			return None(), fail(row.Group, "condition %q is not an operator", row.Condition)
		}
		if row.RelatedGroup == row.Group {
			return None(), fail(row.Group, "group refers to itself")
		}

		group, ok := groups[row.Group]
		if !ok {
			group = &rowGroup{
				id:             row.Group,
				condition:      row.Condition,
				relatedGroup:   row.RelatedGroup,
				groupCondition: row.GroupCondition,
				first:          i,
			}
			groups[row.Group] = group
			order = append(order, row.Group)
		} else if group.condition != row.Condition || group.relatedGroup != row.RelatedGroup || group.groupCondition != row.GroupCondition {
			return None(), fail(row.Group, "rows disagree on condition or parent")
		}

		if row.Course != db.PlaceholderCourse {
			group.operands = append(group.operands, rowOperand{index: i, course: row.Course})
		}
	}
	if len(groups) == 0 {
		return None(), nil
	}
	slices.Sort(order)

	root := db.NoGroup
	for _, id := range order {
		group := groups[id]
		if group.relatedGroup == db.NoGroup {
			if root != db.NoGroup {
				return None(), fail(id, "second root besides group %d", root)
			}
			if group.groupCondition != db.ConditionNone {
				return None(), fail(id, "root group has group condition %q", group.groupCondition)
			}
			root = id
			continue
		}

		parent, ok := groups[group.relatedGroup]
		if !ok {
			return None(), fail(id, "related group %d does not exist", group.relatedGroup)
		}
		if group.groupCondition != parent.condition {
			return None(), fail(id, "group condition %q differs from parent condition %q", group.groupCondition, parent.condition)
		}
		parent.operands = append(parent.operands, rowOperand{index: group.first, group: id})
	}
	if root == db.NoGroup {
		return None(), fail(order[0], "no root group")
	}

	// Every group has one parent, so a group that cannot reach the root sits on a cycle
	for _, id := range order {
		current := id
		for steps := 0; current != root; steps++ {
			if steps > len(groups) {
				return None(), fail(id, "related groups form a cycle")
			}
			current = groups[current].relatedGroup
		}
	}

	return buildGroup(groups, root), nil
}

func buildGroup(groups map[int]*rowGroup, id int) Node {
	group := groups[id]
	slices.SortStableFunc(group.operands, func(a, b rowOperand) int {
		return a.index - b.index
	})

	children := make([]Node, 0, len(group.operands))
	for _, operand := range group.operands {
		if operand.group != db.NoGroup {
			children = append(children, buildGroup(groups, operand.group))
		} else {
			children = append(children, Single(operand.course))
		}
	}

	if group.condition == db.ConditionOr {
		return Or(children...)
	}
	return And(children...)
}
