package requisite

import (
	"github.com/samber/lo"
)

// Resolve returns the courses still needed to satisfy node given the
// completed set. AND needs every part; OR takes the cheapest alternative and
// the first one on ties. An empty result means node is satisfied.
func Resolve(node Node, completed map[string]bool) []string {
	switch node.Type {
	case NodeTypeSingle:
		if completed[node.Course] {
			return nil
		}
		return []string{node.Course}
	case NodeTypeAnd:
		var missing []string
		for _, child := range node.Children {
			missing = lo.Union(missing, Resolve(child, completed))
		}
		if len(missing) == 0 {
			return nil
		}
		return missing
	case NodeTypeOr:
		var best []string
		for i, child := range node.Children {
			missing := Resolve(child, completed)
			if len(missing) == 0 {
				return nil
			}
			if i == 0 || len(missing) < len(best) {
				best = missing
			}
		}
		return best
	}
	return nil
}

func Satisfied(node Node, completed map[string]bool) bool {
	return len(Resolve(node, completed)) == 0
}
