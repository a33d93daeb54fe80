// Package bnd parses MaBoSS-style .bnd Boolean network definition files into
// the in-memory model consumed by the analysis engine.
package bnd

import (
	"fmt"
	"strings"
	"unicode"
)

// Token represents a lexical token
type Token struct {
	Type   TokenType
	Value  string
	Line   int
	Column int
}

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Keywords
	TokenNode
	TokenTrue
	TokenFalse

	// Identifiers and literals
	TokenIdentifier
	TokenNumber
	TokenVariable // $rate-style MaBoSS variables

	// Operators
	TokenNot       // !
	TokenAnd       // &, &&
	TokenOr        // |, ||
	TokenEquals    // =
	TokenSemicolon // ;

	// Delimiters
	TokenLeftParen  // (
	TokenRightParen // )
	TokenLeftBrace  // {
	TokenRightBrace // }

	// Anything else inside attribute values we do not interpret
	// (arithmetic in rate expressions, ternaries, commas).
	TokenSymbol
)

var keywords = map[string]TokenType{
	"node":  TokenNode,
	"Node":  TokenNode,
	"TRUE":  TokenTrue,
	"True":  TokenTrue,
	"true":  TokenTrue,
	"FALSE": TokenFalse,
	"False": TokenFalse,
	"false": TokenFalse,
}

// Lexer tokenizes .bnd source text.
type Lexer struct {
	input  string
	pos    int
	line   int
	column int
}

// NewLexer creates a lexer over the given source.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, column: 1}
}

// Next returns the next token, consuming it.
func (l *Lexer) Next() Token {
	l.skipWhitespaceAndComments()

	if l.pos >= len(l.input) {
		return l.token(TokenEOF, "")
	}

	ch := l.input[l.pos]
	switch {
	case ch == '{':
		return l.consume(TokenLeftBrace, 1)
	case ch == '}':
		return l.consume(TokenRightBrace, 1)
	case ch == '(':
		return l.consume(TokenLeftParen, 1)
	case ch == ')':
		return l.consume(TokenRightParen, 1)
	case ch == ';':
		return l.consume(TokenSemicolon, 1)
	case ch == '=':
		return l.consume(TokenEquals, 1)
	case ch == '!':
		return l.consume(TokenNot, 1)
	case ch == '&':
		if l.peekAt(1) == '&' {
			return l.consume(TokenAnd, 2)
		}
		return l.consume(TokenAnd, 1)
	case ch == '|':
		if l.peekAt(1) == '|' {
			return l.consume(TokenOr, 2)
		}
		return l.consume(TokenOr, 1)
	case ch == '$':
		return l.lexVariable()
	case unicode.IsDigit(rune(ch)) || ch == '.':
		return l.lexNumber()
	case unicode.IsLetter(rune(ch)) || ch == '_':
		return l.lexIdentifier()
	default:
		// Rate expressions carry arithmetic we never evaluate.
		return l.consume(TokenSymbol, 1)
	}
}

func (l *Lexer) token(t TokenType, value string) Token {
	return Token{Type: t, Value: value, Line: l.line, Column: l.column}
}

func (l *Lexer) consume(t TokenType, width int) Token {
	tok := l.token(t, l.input[l.pos:l.pos+width])
	l.advance(width)
	return tok
}

func (l *Lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *Lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.input); i++ {
		if l.input[l.pos] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.pos++
	}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance(1)
		case ch == '/' && l.peekAt(1) == '/':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.advance(1)
			}
		case ch == '/' && l.peekAt(1) == '*':
			l.advance(2)
			for l.pos < len(l.input) && !(l.input[l.pos] == '*' && l.peekAt(1) == '/') {
				l.advance(1)
			}
			l.advance(2)
		default:
			return
		}
	}
}

func (l *Lexer) lexIdentifier() Token {
	start := l.pos
	startCol := l.column
	for l.pos < len(l.input) {
		ch := rune(l.input[l.pos])
		if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && ch != '_' {
			break
		}
		l.advance(1)
	}
	value := l.input[start:l.pos]
	tok := Token{Type: TokenIdentifier, Value: value, Line: l.line, Column: startCol}
	if kw, ok := keywords[value]; ok {
		tok.Type = kw
	}
	return tok
}

func (l *Lexer) lexNumber() Token {
	start := l.pos
	startCol := l.column
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if !unicode.IsDigit(rune(ch)) && ch != '.' && ch != 'e' && ch != 'E' && ch != '-' && ch != '+' {
			break
		}
		// Only allow sign characters directly after an exponent marker.
		if (ch == '-' || ch == '+') && l.pos > start {
			prev := l.input[l.pos-1]
			if prev != 'e' && prev != 'E' {
				break
			}
		}
		l.advance(1)
	}
	return Token{Type: TokenNumber, Value: l.input[start:l.pos], Line: l.line, Column: startCol}
}

func (l *Lexer) lexVariable() Token {
	start := l.pos
	startCol := l.column
	l.advance(1) // consume '$'
	for l.pos < len(l.input) {
		ch := rune(l.input[l.pos])
		if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && ch != '_' {
			break
		}
		l.advance(1)
	}
	return Token{Type: TokenVariable, Value: l.input[start:l.pos], Line: l.line, Column: startCol}
}

// Tokenize returns every token in the input, ending with EOF. Used by tests.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}

func (t Token) String() string {
	if t.Value == "" {
		return "EOF"
	}
	return fmt.Sprintf("%q", t.Value)
}

// describe renders a token for error messages.
func describe(t Token) string {
	if t.Type == TokenEOF {
		return "end of file"
	}
	return strings.TrimSpace(t.String())
}
