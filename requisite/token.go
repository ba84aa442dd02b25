package requisite

import (
	"regexp"
	"strings"
)

type TokenType int

const (
	TokenCourse TokenType = iota
	TokenLParen
	TokenRParen
	TokenComma
	TokenSemicolon
	TokenOr
	TokenAnd
)

type Token struct {
	Type  TokenType
	Value string
}

var (
	labelPattern       = regexp.MustCompile(`(?i)^\s*prerequisite(s|\(s\))?\s*:`)
	concurrentPattern  = regexp.MustCompile(`(?i)\(\s*can be concurrent\s*\)`)
	bracePattern       = regexp.MustCompile(`\{[^}]*\}`)
	gradePattern       = regexp.MustCompile(`(?i)\b[A-DF][+-]?\s*or\s+better\b`)
	orBetterPattern    = regexp.MustCompile(`(?i)\bor\s+better\b`)
	coursePattern      = regexp.MustCompile(`\b([A-Z]{2,4})\s+(\d{1,3}[A-Z]{0,2})\b`)
	punctuationPattern = regexp.MustCompile(`([(),;.])`)
)

// Joins subject and catalog number while the text is split on whitespace.
const courseJoiner = "_"

// Tokenize turns raw prerequisite text into course identifiers, keywords and
// punctuation. Grade qualifiers, concurrency notes, brace annotations and any
// other prose are discarded. Empty text yields no tokens.
func Tokenize(text string) []Token {
	tokens, _ := tokenize(text)
	return tokens
}

// tokenize also returns the prose words that were discarded, in order.
func tokenize(text string) ([]Token, []string) {
	text = labelPattern.ReplaceAllString(text, "")
	text = concurrentPattern.ReplaceAllString(text, "")
	text = bracePattern.ReplaceAllString(text, "")
	text = gradePattern.ReplaceAllString(text, "")
	text = orBetterPattern.ReplaceAllString(text, "")
	text = coursePattern.ReplaceAllString(text, "${1}"+courseJoiner+"${2}")
	text = punctuationPattern.ReplaceAllString(text, " $1 ")

	var tokens []Token
	var dropped []string
	for _, word := range strings.Fields(text) {
		switch lower := strings.ToLower(word); {
		case word == "(":
			tokens = append(tokens, Token{Type: TokenLParen, Value: word})
		case word == ")":
			tokens = append(tokens, Token{Type: TokenRParen, Value: word})
		case word == ",":
			tokens = append(tokens, Token{Type: TokenComma, Value: word})
		case word == ";":
			tokens = append(tokens, Token{Type: TokenSemicolon, Value: word})
		case lower == "or" || lower == "and/or":
			tokens = append(tokens, Token{Type: TokenOr, Value: "or"})
		case lower == "and":
			tokens = append(tokens, Token{Type: TokenAnd, Value: "and"})
		case isCourseWord(word):
			tokens = append(tokens, Token{Type: TokenCourse, Value: strings.Replace(word, courseJoiner, " ", 1)})
		case word != ".":
			dropped = append(dropped, word)
		}
	}

	return dropEmptyParentheses(tokens), dropped
}

func isCourseWord(word string) bool {
	subject, number, found := strings.Cut(word, courseJoiner)
	return found && subject != "" && number != ""
}

// Grade stripping can leave "( )" behind, e.g. "(C- or better)".
func dropEmptyParentheses(tokens []Token) []Token {
	for {
		kept := tokens[:0:0]
		dropped := false
		for i := 0; i < len(tokens); i++ {
			if tokens[i].Type == TokenLParen && i+1 < len(tokens) && tokens[i+1].Type == TokenRParen {
				i++
				dropped = true
				continue
			}
			kept = append(kept, tokens[i])
		}
		tokens = kept
		if !dropped {
			return tokens
		}
	}
}

// Normalize renders the token stream back to text, one space between tokens.
func Normalize(text string) string {
	tokens := Tokenize(text)
	values := make([]string, 0, len(tokens))
	for _, token := range tokens {
		values = append(values, token.Value)
	}
	return strings.Join(values, " ")
}

func (t TokenType) String() string {
	switch t {
	case TokenCourse:
		return "course"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenComma:
		return ","
	case TokenSemicolon:
		return ";"
	case TokenOr:
		return "or"
	case TokenAnd:
		return "and"
	}
	return "unknown"
}
