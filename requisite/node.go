package requisite

import (
	"strings"
)

type NodeType string

const (
	NodeTypeNone   NodeType = "none"
	NodeTypeSingle NodeType = "single"
	NodeTypeAnd    NodeType = "and"
	NodeTypeOr     NodeType = "or"
)

// Node is a prerequisite tree. Leaves are single courses; None stands for
// "no prerequisites" and is only ever a root.
type Node struct {
	Type     NodeType `json:"type" yaml:"type"`
	Course   string   `json:"course,omitempty" yaml:"course,omitempty"`
	Children []Node   `json:"parts,omitempty" yaml:"parts,omitempty"`
}

func None() Node {
	return Node{Type: NodeTypeNone}
}

func Single(course string) Node {
	return Node{Type: NodeTypeSingle, Course: course}
}

func And(children ...Node) Node {
	return group(NodeTypeAnd, children)
}

func Or(children ...Node) Node {
	return group(NodeTypeOr, children)
}

// group splices same-typed children, drops None operands and collapses
// groups that end up with a single child.
func group(nodeType NodeType, children []Node) Node {
	var spliced []Node
	for _, child := range children {
		switch {
		case child.IsNone():
			continue
		case child.Type == nodeType:
			spliced = append(spliced, child.Children...)
		default:
			spliced = append(spliced, child)
		}
	}

	switch len(spliced) {
	case 0:
		return None()
	case 1:
		return spliced[0]
	}
	return Node{Type: nodeType, Children: spliced}
}

func (n Node) IsNone() bool {
	return n.Type == NodeTypeNone || n.Type == ""
}

// Courses lists every course named in the tree, in encounter order, without duplicates.
func (n Node) Courses() []string {
	seen := make(map[string]bool)
	var courses []string

	var walk func(node Node)
	walk = func(node Node) {
		if node.Type == NodeTypeSingle {
			if !seen[node.Course] {
				seen[node.Course] = true
				courses = append(courses, node.Course)
			}
			return
		}
		for _, child := range node.Children {
			walk(child)
		}
	}
	walk(n)

	return courses
}

func (n Node) String() string {
	switch n.Type {
	case NodeTypeSingle:
		return n.Course
	case NodeTypeAnd, NodeTypeOr:
		separator := ", "
		if n.Type == NodeTypeOr {
			separator = " or "
		}
		parts := make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if len(child.Children) > 0 {
				parts = append(parts, "("+child.String()+")")
			} else {
				parts = append(parts, child.String())
			}
		}
		return strings.Join(parts, separator)
	}
	return ""
}
