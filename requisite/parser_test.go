package requisite

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, text string, policy CommaPolicy) Node {
	t.Helper()
	node, err := NewParser(Tokenize(text), policy).Parse()
	require.NoError(t, err, text)
	return node
}

func TestParseCatalogPolicy(t *testing.T) {
	tests := []struct {
		text string
		want Node
	}{
		{"STA 013 or STA 013Y", Or(Single("STA 013"), Single("STA 013Y"))},
		{"", None()},
		{"Consent of instructor.", None()},
		{"MAT 021A", Single("MAT 021A")},
		{"MAT 021A, MAT 021B", And(Single("MAT 021A"), Single("MAT 021B"))},
		{"MAT 021A; MAT 021B", And(Single("MAT 021A"), Single("MAT 021B"))},
		{"MAT 021A and MAT 021B", And(Single("MAT 021A"), Single("MAT 021B"))},
		{
			"(MAT 016A, MAT 016B) or MAT 021A",
			Or(And(Single("MAT 016A"), Single("MAT 016B")), Single("MAT 021A")),
		},
		{
			"STA 013 or STA 032, MAT 016A",
			And(Or(Single("STA 013"), Single("STA 032")), Single("MAT 016A")),
		},
		{
			"STA 013, STA 032, or STA 100",
			Or(Single("STA 013"), Single("STA 032"), Single("STA 100")),
		},
		{
			"STA 013 or STA 032, or STA 100",
			Or(Single("STA 013"), Single("STA 032"), Single("STA 100")),
		},
		{
			"ECS 020 or MAT 108, ECS 032B or ECS 036B",
			And(Or(Single("ECS 020"), Single("MAT 108")), Or(Single("ECS 032B"), Single("ECS 036B"))),
		},
		{
			"(STA 013 or STA 013Y); MAT 016B or MAT 017B or MAT 021B",
			And(
				Or(Single("STA 013"), Single("STA 013Y")),
				Or(Single("MAT 016B"), Single("MAT 017B"), Single("MAT 021B")),
			),
		},
		{
			"((MAT 021A))",
			Single("MAT 021A"),
		},
		{
			"MAT 021A,, MAT 021B;",
			And(Single("MAT 021A"), Single("MAT 021B")),
		},
	}

	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			// Act
			node := parse(t, test.text, CatalogPolicy{})

			// Assert
			if diff := cmp.Diff(test.want, node); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", test.text, diff)
			}
		})
	}
}

func TestParseUniformPolicy(t *testing.T) {
	// Act
	node := parse(t, "STA 013 or STA 032, MAT 016A", UniformPolicy{})
	plain := parse(t, "STA 013, STA 032", UniformPolicy{})

	// Assert
	assert.Equal(t, Or(Single("STA 013"), Single("STA 032"), Single("MAT 016A")), node)
	assert.Equal(t, And(Single("STA 013"), Single("STA 032")), plain)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		position int
	}{
		{"unclosed parenthesis", "(MAT 021A, MAT 021B", 0},
		{"unmatched parenthesis", "MAT 021A)", 1},
		{"missing separator", "MAT 021A MAT 021B", 1},
		{"missing separator after group", "(MAT 021A) MAT 021B", 3},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Act
			_, err := NewParser(Tokenize(test.text), nil).Parse()

			// Assert
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, test.position, parseErr.Position)
		})
	}
}

func TestPolicyByName(t *testing.T) {
	catalog, err := PolicyByName("catalog")
	require.NoError(t, err)
	assert.Equal(t, CatalogPolicyName, catalog.Name())

	uniform, err := PolicyByName("uniform")
	require.NoError(t, err)
	assert.Equal(t, UniformPolicyName, uniform.Name())

	_, err = PolicyByName("greedy")
	assert.Error(t, err)
}
