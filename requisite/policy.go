package requisite

import (
	"fmt"
)

// CommaPolicy groups the operands of one clause. separators[i] holds the
// separator tokens found between operands[i] and operands[i+1].
type CommaPolicy interface {
	Name() string
	Group(operands []Node, separators [][]TokenType) Node
}

const (
	CatalogPolicyName = "catalog"
	UniformPolicyName = "uniform"
)

func PolicyByName(name string) (CommaPolicy, error) {
	switch name {
	case CatalogPolicyName, "":
		return CatalogPolicy{}, nil
	case UniformPolicyName:
		return UniformPolicy{}, nil
	}
	return nil, fmt.Errorf("unknown comma policy %q", name)
}

// CatalogPolicy reads commas the way catalog copy uses them. A run joined by
// "or" becomes an OR group as soon as a comma follows it, and the remaining
// operands are ANDed with it:
//
//	A or B, C        -> (A or B), C
//	A, B, or C       -> A or B or C
//	A or B, or C     -> A or B or C
//	A or B, C or D   -> (A or B), (C or D)
type CatalogPolicy struct{}

func (CatalogPolicy) Name() string {
	return CatalogPolicyName
}

func (CatalogPolicy) Group(operands []Node, separators [][]TokenType) Node {
	var groups []Node
	var current []Node
	or := false
	reopen := false

	for i, operand := range operands {
		if i > 0 {
			for _, separator := range separators[i-1] {
				if separator == TokenOr {
					// "A or B, or C" continues the OR that the comma closed
					if len(current) == 0 && reopen {
						current = groups[len(groups)-1].Children
						groups = groups[:len(groups)-1]
					}
					or = true
					continue
				}

				if or && len(current) > 1 {
					groups = append(groups, Or(current...))
					current = nil
					reopen = true
				}
				or = false
			}
		}

		current = append(current, operand)
		reopen = false
	}

	if or && len(current) > 1 {
		groups = append(groups, Or(current...))
	} else {
		groups = append(groups, current...)
	}
	return And(groups...)
}

// UniformPolicy makes a clause an OR group when it contains "or" anywhere
// and an AND group otherwise.
type UniformPolicy struct{}

func (UniformPolicy) Name() string {
	return UniformPolicyName
}

func (UniformPolicy) Group(operands []Node, separators [][]TokenType) Node {
	for _, run := range separators {
		for _, separator := range run {
			if separator == TokenOr {
				return Or(operands...)
			}
		}
	}
	return And(operands...)
}
