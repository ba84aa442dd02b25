package requisite

import (
	"github.com/brequin/brequin/regplan/db"
	"github.com/samber/lo"
)

// Flatten encodes the tree of owner as rows. Every AND/OR node becomes a
// group numbered in pre-order from 1. Its direct courses become rows of that
// group; a group without direct courses starts with one placeholder row so
// that it still exists. Nested groups point at their parent through
// RelatedGroup and carry the parent's operator in GroupCondition. Rows follow
// the operand order of the tree, so Reconstruct can restore it.
func Flatten(owner string, node Node) []db.Row {
	switch {
	case node.IsNone():
		return []db.Row{placeholderRow(owner, 1, db.ConditionAnd, db.NoGroup, db.ConditionNone)}
	case node.Type == NodeTypeSingle:
		return []db.Row{{
			Group:          1,
			Condition:      db.ConditionAnd,
			Course:         node.Course,
			RelatedGroup:   db.NoGroup,
			Prereq:         owner,
			GroupCondition: db.ConditionNone,
		}}
	}

	f := flattener{owner: owner}
	f.walk(node, db.NoGroup, db.ConditionNone)
	return f.rows
}

type flattener struct {
	owner string
	next  int
	rows  []db.Row
}

func (f *flattener) walk(node Node, parent int, parentCondition db.Condition) {
	f.next++
	id := f.next
	condition := db.Condition(node.Type)

	direct := lo.CountBy(node.Children, func(child Node) bool {
		return child.Type == NodeTypeSingle
	})
	if direct == 0 {
		f.rows = append(f.rows, placeholderRow(f.owner, id, condition, parent, parentCondition))
	}

	for _, child := range node.Children {
		switch {
		case child.Type == NodeTypeSingle:
			f.rows = append(f.rows, db.Row{
				Group:          id,
				Condition:      condition,
				Course:         child.Course,
				RelatedGroup:   parent,
				Prereq:         f.owner,
				GroupCondition: parentCondition,
			})
		case !child.IsNone():
			f.walk(child, id, condition)
		}
	}
}

func placeholderRow(owner string, group int, condition db.Condition, parent int, parentCondition db.Condition) db.Row {
	return db.Row{
		Group:          group,
		Condition:      condition,
		Course:         db.PlaceholderCourse,
		RelatedGroup:   parent,
		Prereq:         owner,
		GroupCondition: parentCondition,
	}
}

// FlattenAll encodes several trees, owners in the given order.
func FlattenAll(owners []string, trees map[string]Node) []db.Row {
	var rows []db.Row
	for _, owner := range owners {
		rows = append(rows, Flatten(owner, trees[owner])...)
	}
	return rows
}
