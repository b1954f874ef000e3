package parser

import (
	"fmt"
	"strings"
)

// TokenType classifies a lexical token.
type TokenType int

const (
	// EOF marks the end of input.
	EOF TokenType = iota
	// KEYWORD is a reserved word, matched case-insensitively.
	KEYWORD
	// IDENTIFIER is a table, column or function name.
	IDENTIFIER
	// NUMBER is an unsigned integer or decimal literal.
	NUMBER
	// STRING is a quoted literal; Text holds the unescaped content.
	STRING
	// COMMA separates list items.
	COMMA
	// DOT separates table and column.
	DOT
	// LPAREN opens an argument or value list.
	LPAREN
	// RPAREN closes an argument or value list.
	RPAREN
	// EQUALS is the only comparison operator.
	EQUALS
	// MINUS negates a number literal.
	MINUS
	// SEMICOLON optionally terminates the statement.
	SEMICOLON
)

var tokenNames = map[TokenType]string{
	EOF:        "end of input",
	KEYWORD:    "keyword",
	IDENTIFIER: "identifier",
	NUMBER:     "number",
	STRING:     "string",
	COMMA:      "','",
	DOT:        "'.'",
	LPAREN:     "'('",
	RPAREN:     "')'",
	EQUALS:     "'='",
	MINUS:      "'-'",
	SEMICOLON:  "';'",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// keywords are reserved words. Identifiers matching one of them (in any
// case) lex as KEYWORD.
var keywords = map[string]bool{
	"SELECT": true,
	"FROM":   true,
	"INNER":  true,
	"LEFT":   true,
	"OUTER":  true,
	"JOIN":   true,
	"ON":     true,
	"WHERE":  true,
	"AND":    true,
	"IN":     true,
	"ORDER":  true,
	"BY":     true,
	"ASC":    true,
	"NULL":   true,
}

// Token is a lexical token with its byte offset in the input.
type Token struct {
	Type TokenType
	Text string
	Pos  int
}

// Is reports whether the token is the given keyword.
func (t Token) Is(keyword string) bool {
	return t.Type == KEYWORD && strings.EqualFold(t.Text, keyword)
}

func (t Token) String() string {
	if t.Type == EOF {
		return t.Type.String()
	}
	return fmt.Sprintf("%s %q", t.Type, t.Text)
}

// Lexer splits query text into tokens.
type Lexer struct {
	input string
	pos   int
}

// NewLexer creates a lexer over input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize lexes the whole input. The returned slice always ends with
// an EOF token.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

// Next returns the next token.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()

	start := l.pos
	if start >= len(l.input) {
		return Token{Type: EOF, Pos: start}, nil
	}

	ch := l.input[start]
	switch ch {
	case ',':
		return l.single(COMMA), nil
	case '.':
		return l.single(DOT), nil
	case '(':
		return l.single(LPAREN), nil
	case ')':
		return l.single(RPAREN), nil
	case '=':
		return l.single(EQUALS), nil
	case '-':
		return l.single(MINUS), nil
	case ';':
		return l.single(SEMICOLON), nil
	case '"', '\'':
		return l.readString(ch)
	}

	switch {
	case isLetter(ch):
		text := l.readIdentifier()
		if keywords[strings.ToUpper(text)] {
			return Token{Type: KEYWORD, Text: text, Pos: start}, nil
		}
		return Token{Type: IDENTIFIER, Text: text, Pos: start}, nil
	case isDigit(ch):
		return l.readNumber()
	default:
		return Token{}, syntaxError(start, "unexpected character %q", rune(ch))
	}
}

func (l *Lexer) single(t TokenType) Token {
	tok := Token{Type: t, Text: l.input[l.pos : l.pos+1], Pos: l.pos}
	l.pos++
	return tok
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for l.pos < len(l.input) && (isLetter(l.input[l.pos]) || isDigit(l.input[l.pos])) {
		l.pos++
	}
	return l.input[start:l.pos]
}

// readNumber reads digits with an optional fraction and exponent.
func (l *Lexer) readNumber() (Token, error) {
	start := l.pos
	l.digits()
	if l.peek() == '.' {
		l.pos++
		if !isDigit(l.peek()) {
			return Token{}, syntaxError(l.pos, "expected digits after decimal point")
		}
		l.digits()
	}
	if c := l.peek(); c == 'e' || c == 'E' {
		l.pos++
		if c := l.peek(); c == '+' || c == '-' {
			l.pos++
		}
		if !isDigit(l.peek()) {
			return Token{}, syntaxError(l.pos, "expected digits in exponent")
		}
		l.digits()
	}
	if isLetter(l.peek()) {
		return Token{}, syntaxError(l.pos, "unexpected character %q after number", rune(l.peek()))
	}
	return Token{Type: NUMBER, Text: l.input[start:l.pos], Pos: start}, nil
}

func (l *Lexer) digits() {
	for isDigit(l.peek()) {
		l.pos++
	}
}

// readString reads a quoted literal. A backslash escapes the next
// character and a doubled quote stands for itself.
func (l *Lexer) readString(quote byte) (Token, error) {
	start := l.pos
	l.pos++

	var sb strings.Builder
	for {
		if l.pos >= len(l.input) {
			return Token{}, syntaxError(start, "unterminated string literal")
		}
		ch := l.input[l.pos]
		switch {
		case ch == '\\':
			if l.pos+1 >= len(l.input) {
				return Token{}, syntaxError(start, "unterminated string literal")
			}
			sb.WriteByte(l.input[l.pos+1])
			l.pos += 2
		case ch == quote && l.pos+1 < len(l.input) && l.input[l.pos+1] == quote:
			sb.WriteByte(quote)
			l.pos += 2
		case ch == quote:
			l.pos++
			return Token{Type: STRING, Text: sb.String(), Pos: start}, nil
		default:
			sb.WriteByte(ch)
			l.pos++
		}
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
