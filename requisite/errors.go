package requisite

import (
	"fmt"
)

// ParseError reports prerequisite text that cannot be turned into a tree.
// Position is the index of the offending token.
type ParseError struct {
	Course   string
	Position int
	Token    string
	Reason   string
}

func (e *ParseError) Error() string {
	where := fmt.Sprintf("token %d", e.Position)
	if e.Token != "" {
		where = fmt.Sprintf("token %d (%q)", e.Position, e.Token)
	}
	if e.Course == "" {
		return fmt.Sprintf("cannot parse prerequisites: %v at %v", e.Reason, where)
	}
	return fmt.Sprintf("cannot parse prerequisites of %v: %v at %v", e.Course, e.Reason, where)
}

// ReconstructionError reports stored rows that do not describe a single tree.
type ReconstructionError struct {
	Owner  string
	Group  int
	Reason string
}

func (e *ReconstructionError) Error() string {
	return fmt.Sprintf("cannot rebuild prerequisites of %v (group %d): %v", e.Owner, e.Group, e.Reason)
}
