package lox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanSingleToken(t *testing.T) {
	testCases := []struct {
		src  string
		toks []*Token
	}{
		{"(", []*Token{{LEFT_PAREN, "(", nil, 1}, tokEOF(1)}},
		{")", []*Token{{RIGHT_PAREN, ")", nil, 1}, tokEOF(1)}},
		{"{", []*Token{{LEFT_BRACE, "{", nil, 1}, tokEOF(1)}},
		{"}", []*Token{{RIGHT_BRACE, "}", nil, 1}, tokEOF(1)}},
		{",", []*Token{{COMMA, ",", nil, 1}, tokEOF(1)}},
		{".", []*Token{{DOT, ".", nil, 1}, tokEOF(1)}},
		{"-", []*Token{{MINUS, "-", nil, 1}, tokEOF(1)}},
		{"+", []*Token{{PLUS, "+", nil, 1}, tokEOF(1)}},
		{";", []*Token{{SEMICOLON, ";", nil, 1}, tokEOF(1)}},
		{"/", []*Token{{SLASH, "/", nil, 1}, tokEOF(1)}},
		{"*", []*Token{{STAR, "*", nil, 1}, tokEOF(1)}},
		{"!", []*Token{{BANG, "!", nil, 1}, tokEOF(1)}},
		{"!=", []*Token{{BANG_EQUAL, "!=", nil, 1}, tokEOF(1)}},
		{"=", []*Token{{EQUAL, "=", nil, 1}, tokEOF(1)}},
		{"==", []*Token{{EQUAL_EQUAL, "==", nil, 1}, tokEOF(1)}},
		{">", []*Token{{GREATER, ">", nil, 1}, tokEOF(1)}},
		{">=", []*Token{{GREATER_EQUAL, ">=", nil, 1}, tokEOF(1)}},
		{"<", []*Token{{LESS, "<", nil, 1}, tokEOF(1)}},
		{"<=", []*Token{{LESS_EQUAL, "<=", nil, 1}, tokEOF(1)}},
		{"a", []*Token{{IDENTIFIER, "a", nil, 1}, tokEOF(1)}},
		{"abc123", []*Token{{IDENTIFIER, "abc123", nil, 1}, tokEOF(1)}},
		{"_123abc", []*Token{{IDENTIFIER, "_123abc", nil, 1}, tokEOF(1)}},
		{`""`, []*Token{{STRING, `""`, "", 1}, tokEOF(1)}},
		{`"123"`, []*Token{{STRING, `"123"`, "123", 1}, tokEOF(1)}},
		{"\"abc\n123\"", []*Token{{STRING, "\"abc\n123\"", "abc\n123", 2}, tokEOF(2)}},
		{"10", []*Token{{NUMBER, "10", 10.0, 1}, tokEOF(1)}},
		{"0.1", []*Token{{NUMBER, "0.1", 0.1, 1}, tokEOF(1)}},
		{"123.456", []*Token{{NUMBER, "123.456", 123.456, 1}, tokEOF(1)}},
		{"and", []*Token{{AND, "and", nil, 1}, tokEOF(1)}},
		{"class", []*Token{{CLASS, "class", nil, 1}, tokEOF(1)}},
		{"super", []*Token{{SUPER, "super", nil, 1}, tokEOF(1)}},
		{"this", []*Token{{THIS, "this", nil, 1}, tokEOF(1)}},
		{"", []*Token{tokEOF(1)}},
	}

	for _, tc := range testCases {
		reporter := newMockReporter()
		scanner := NewScanner([]rune(tc.src), reporter)
		toks := scanner.Scan()

		assert.False(t, reporter.HadError(), tc.src)
		assert.Equal(t, tc.toks, toks, tc.src)
	}
}

func TestScanWhitespaceAndComments(t *testing.T) {
	testCases := []struct {
		src  string
		toks []*Token
	}{
		{"        ", []*Token{tokEOF(1)}},
		{"\n\n\n\n", []*Token{tokEOF(5)}},
		{"// a comment\n", []*Token{tokEOF(2)}},
		{"1 // trailing\n2", []*Token{
			{NUMBER, "1", 1.0, 1},
			{NUMBER, "2", 2.0, 2},
			tokEOF(2),
		}},
	}

	for _, tc := range testCases {
		reporter := newMockReporter()
		scanner := NewScanner([]rune(tc.src), reporter)
		toks := scanner.Scan()

		assert.False(t, reporter.HadError())
		assert.Equal(t, tc.toks, toks)
	}
}

func TestScanUnterminatedString(t *testing.T) {
	reporter := newMockReporter()
	scanner := NewScanner([]rune(`"unterminated`), reporter)
	toks := scanner.Scan()

	assert.True(t, reporter.HadError())
	assert.Equal(t, []error{NewGloxError(1, "Unterminated string.")}, reporter.errors)
	assert.Equal(t, []*Token{tokEOF(1)}, toks)
}

func TestScanUnexpectedCharacter(t *testing.T) {
	reporter := newMockReporter()
	scanner := NewScanner([]rune("@"), reporter)
	toks := scanner.Scan()

	assert.True(t, reporter.HadError())
	assert.Equal(t, []error{NewGloxError(1, "Unexpected character.")}, reporter.errors)
	assert.Equal(t, []*Token{tokEOF(1)}, toks)
}

func TestScanKeywordSequence(t *testing.T) {
	src := strings.Join([]string{
		"and", "class", "else", "false", "fun", "for", "if", "nil", "or",
		"print", "return", "super", "this", "true", "var", "while",
	}, " ")

	reporter := newMockReporter()
	scanner := NewScanner([]rune(src), reporter)
	toks := scanner.Scan()

	assert.False(t, reporter.HadError())
	assert.Len(t, toks, 17) // 16 keywords + EOF
	for i, want := range []TokenType{
		AND, CLASS, ELSE, FALSE, FUN, FOR, IF, NIL, OR,
		PRINT, RETURN, SUPER, THIS, TRUE, VAR, WHILE,
	} {
		assert.Equal(t, want, toks[i].Typ)
	}
}
