package requisite

import (
	"fmt"
)

// Parser builds a Node from a token stream. Clauses separated by ";" are
// combined with AND; inside a clause the CommaPolicy decides how commas and
// "or" group their operands. Parenthesised groups recurse.
type Parser struct {
	tokens []Token
	pos    int
	policy CommaPolicy
}

func NewParser(tokens []Token, policy CommaPolicy) *Parser {
	if policy == nil {
		policy = CatalogPolicy{}
	}
	return &Parser{tokens: tokens, policy: policy}
}

// Parse consumes every token. Text without any course yields None.
func (p *Parser) Parse() (Node, error) {
	node, err := p.expression(0)
	if err != nil {
		return None(), err
	}
	if p.pos < len(p.tokens) {
		return None(), p.errorf("unmatched %q", p.tokens[p.pos].Value)
	}
	return node, nil
}

func (p *Parser) expression(depth int) (Node, error) {
	var clauses []Node
	for {
		clause, err := p.clause(depth)
		if err != nil {
			return None(), err
		}
		clauses = append(clauses, clause)

		if _, err := p.eat(TokenSemicolon); err != nil {
			break
		}
	}
	return And(clauses...), nil
}

func (p *Parser) clause(depth int) (Node, error) {
	var operands []Node
	var separators [][]TokenType
	var pending []TokenType

	for p.pos < len(p.tokens) {
		start := p.pos
		token := p.tokens[start]

		var operand Node
		switch token.Type {
		case TokenSemicolon:
			return p.policy.Group(operands, separators), nil
		case TokenRParen:
			if depth == 0 {
				return None(), p.errorf("unmatched %q", token.Value)
			}
			return p.policy.Group(operands, separators), nil
		case TokenComma, TokenOr, TokenAnd:
			pending = append(pending, token.Type)
			p.pos++
			continue
		case TokenCourse:
			p.pos++
			operand = Single(token.Value)
		case TokenLParen:
			p.pos++
			inner, err := p.expression(depth + 1)
			if err != nil {
				return None(), err
			}
			if _, err := p.eat(TokenRParen); err != nil {
				p.pos = start
				return None(), p.errorf("unclosed %q", token.Value)
			}
			if inner.IsNone() {
				continue
			}
			operand = inner
		}

		if len(operands) > 0 {
			if len(pending) == 0 {
				p.pos = start
				return None(), p.errorf("missing separator before %q", token.Value)
			}
			separators = append(separators, pending)
		}
		operands = append(operands, operand)
		pending = nil
	}

	return p.policy.Group(operands, separators), nil
}

func (p *Parser) eat(tokenType TokenType) (string, error) {
	if p.pos >= len(p.tokens) {
		return "", fmt.Errorf("no token to eat")
	}
	if p.tokens[p.pos].Type != tokenType {
		return "", fmt.Errorf("expected %v, got %q", tokenType, p.tokens[p.pos].Value)
	}

	token := p.tokens[p.pos]
	p.pos++
	return token.Value, nil
}

func (p *Parser) errorf(format string, args ...any) *ParseError {
	token := ""
	if p.pos < len(p.tokens) {
		token = p.tokens[p.pos].Value
	}
	return &ParseError{Position: p.pos, Token: token, Reason: fmt.Sprintf(format, args...)}
}
