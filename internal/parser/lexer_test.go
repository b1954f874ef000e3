package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/perspective/internal/queryir"
)

func types(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func TestTokenize_Statement(t *testing.T) {
	tokens, err := Tokenize(`select instances.name, ABS(-1.5) from instances where instances.state in ('ACTIVE');`)
	require.NoError(t, err)

	assert.Equal(t, []TokenType{
		KEYWORD, IDENTIFIER, DOT, IDENTIFIER, COMMA,
		IDENTIFIER, LPAREN, MINUS, NUMBER, RPAREN,
		KEYWORD, IDENTIFIER,
		KEYWORD, IDENTIFIER, DOT, IDENTIFIER, KEYWORD, LPAREN, STRING, RPAREN,
		SEMICOLON, EOF,
	}, types(tokens))
	assert.True(t, tokens[0].Is("SELECT"))
	assert.Equal(t, "select", tokens[0].Text, "keyword text keeps its original case")
	assert.Equal(t, 7, tokens[1].Pos)
}

func TestTokenize_Strings(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"demo"`, "demo"},
		{`'demo'`, "demo"},
		{`"say \"hi\""`, `say "hi"`},
		{`'it''s'`, "it's"},
		{`"a\\b"`, `a\b`},
		{`"it's"`, "it's"},
		{`""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			require.NoError(t, err)
			require.Len(t, tokens, 2)
			assert.Equal(t, STRING, tokens[0].Type)
			assert.Equal(t, tt.want, tokens[0].Text)
		})
	}
}

func TestTokenize_Numbers(t *testing.T) {
	for _, input := range []string{"0", "42", "3.14", "1e10", "2.5E-3"} {
		tokens, err := Tokenize(input)
		require.NoError(t, err, input)
		assert.Equal(t, NUMBER, tokens[0].Type, input)
		assert.Equal(t, input, tokens[0].Text)
	}
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated double", `"demo`},
		{"unterminated single", `'demo`},
		{"dangling escape", `"demo\`},
		{"bad character", "instances.name > 3"},
		{"missing fraction", "3."},
		{"missing exponent", "3e"},
		{"letters after number", "3abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			require.Error(t, err)
			assert.Equal(t, queryir.ErrCodeSyntax, queryir.ErrorCodeOf(err))
		})
	}
}

func TestTokenType_String(t *testing.T) {
	assert.Equal(t, "end of input", EOF.String())
	assert.Equal(t, "'('", LPAREN.String())
	assert.Equal(t, "token(99)", TokenType(99).String())
}
