package requisite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tokenValues(tokens []Token) []string {
	var values []string
	for _, token := range tokens {
		values = append(values, token.Value)
	}
	return values
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "course identifiers are joined",
			text: "STA 013 or STA 013Y",
			want: []string{"STA 013", "or", "STA 013Y"},
		},
		{
			name: "label and grade qualifiers are dropped",
			text: "Prerequisite(s): MAT 021A C- or better; MAT 021B B or better.",
			want: []string{"MAT 021A", ";", "MAT 021B"},
		},
		{
			name: "parenthesised grade leaves nothing behind",
			text: "ECS 036A (C- or better), ECS 050",
			want: []string{"ECS 036A", ",", "ECS 050"},
		},
		{
			name: "concurrency note and braces are removed",
			text: "MAT 022A (can be concurrent) {may not be repeated} or MAT 027A",
			want: []string{"MAT 022A", "or", "MAT 027A"},
		},
		{
			name: "prose words are noise",
			text: "Consent of instructor; or upper division standing",
			want: []string{";", "or"},
		},
		{
			name: "and is kept as a keyword",
			text: "(PHY 009A and PHY 009B)",
			want: []string{"(", "PHY 009A", "and", "PHY 009B", ")"},
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Act
			tokens := Tokenize(test.text)

			// Assert
			assert.Equal(t, test.want, tokenValues(tokens))
		})
	}
}

func TestTokenizeTypes(t *testing.T) {
	// Act
	tokens := Tokenize("(ENG 003, UWP 001); or STA 100")

	// Assert
	var types []TokenType
	for _, token := range tokens {
		types = append(types, token.Type)
	}
	assert.Equal(t, []TokenType{
		TokenLParen, TokenCourse, TokenComma, TokenCourse, TokenRParen,
		TokenSemicolon, TokenOr, TokenCourse,
	}, types)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	texts := []string{
		"MAT 021A C- or better, MAT 021B (can be concurrent)",
		"(STA 013 or STA 013Y); MAT 016A {repeatable}",
		"ECS 020, or MAT 108.",
	}

	for _, text := range texts {
		// Act
		once := Normalize(text)
		twice := Normalize(once)

		// Assert
		assert.Equal(t, once, twice, text)
	}
}

func TestNormalizeCleanText(t *testing.T) {
	// Act
	normalized := Normalize("(MAT 016A, MAT 016B) or MAT 021A")

	// Assert
	assert.Equal(t, "( MAT 016A , MAT 016B ) or MAT 021A", normalized)
}
