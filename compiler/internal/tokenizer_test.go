package internal

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(tokens []*Token) []TokenType {
	var tps []TokenType
	for _, token := range tokens {
		tps = append(tps, token.tp)
	}
	return tps
}

func TestTokenizer_TrimSpace(t *testing.T) {
	testData := []struct {
		content     string
		expectedPos int
	}{
		{content: "   \thello", expectedPos: 4},
		{content: " \r\n hello", expectedPos: 2},
		{content: "hello", expectedPos: 0},
	}
	tokenizer := &Tokenizer{}
	for _, data := range testData {
		tokenizer.Reset()
		tokenizer.trimSpace([]byte(data.content))
		assert.Equal(t, data.expectedPos, tokenizer.currentPos, data.content)
	}
}

func TestTokenizer_hasRemainCharacters(t *testing.T) {
	tokenizer := &Tokenizer{}
	tokenizer.currentPos = 0
	assert.True(t, tokenizer.hasRemainCharacters([]byte("b")))
	tokenizer.currentPos = 1
	assert.False(t, tokenizer.hasRemainCharacters([]byte("b")))
}

func TestTokenizer_Operators(t *testing.T) {
	testData := []struct {
		content  string
		expected []TokenType
	}{
		{content: "+-=+==", expected: []TokenType{AddTP, MinusTP, AssignTP, AddTP, EqualTP}},
		{content: "* /", expected: []TokenType{MultiplyTP, DivideTP}},
		{content: "> >= < <= == !=", expected: []TokenType{GreaterTP, GreaterEqualTP, LessTP, LessEqualTP, EqualTP, NotEqualTP}},
		{content: "<==", expected: []TokenType{LessEqualTP, AssignTP}},
		{content: "!", expected: []TokenType{InvalidTP}},
		{content: "a\n\nb", expected: []TokenType{IdentifierTP, NewLineTP, NewLineTP, IdentifierTP}},
	}
	for _, data := range testData {
		tokens, err := Lex(data.content)
		require.NoError(t, err, data.content)
		assert.Equal(t, data.expected, tokenTypes(tokens), data.content)
	}
}

func TestTokenizer_LetStatement(t *testing.T) {
	tokens, err := Lex("LET a = 1\n")
	require.NoError(t, err)
	assert.Equal(t, []TokenType{LetTP, IdentifierTP, AssignTP, IntegerTP, NewLineTP}, tokenTypes(tokens))
	assert.Equal(t, "a", tokens[1].Content())
	assert.Equal(t, int32(1), tokens[3].Int())
}

func TestTokenizer_Keywords(t *testing.T) {
	tokens, err := Lex("IF THEN ENDIF WHILE REPEAT ENDWHILE PRINT INPUT LET LABEL GOTO")
	require.NoError(t, err)
	assert.Equal(t, []TokenType{IfTP, ThenTP, EndIfTP, WhileTP, RepeatTP, EndWhileTP, PrintTP, InputTP, LetTP,
		LabelTP, GotoTP}, tokenTypes(tokens))
}

func TestTokenizer_KeywordOrIdentifier(t *testing.T) {
	testData := []struct {
		content  string
		expected []TokenType
		contents []string
	}{
		// An upper case word which is not a keyword is still an identifier.
		{content: "FOO", expected: []TokenType{IdentifierTP}, contents: []string{"FOO"}},
		// Upper case runs stop at the first other character.
		{content: "LETx", expected: []TokenType{LetTP, IdentifierTP}, contents: []string{"LET", "x"}},
		{content: "Ab1", expected: []TokenType{IdentifierTP, IdentifierTP}, contents: []string{"A", "b1"}},
		{content: "abc_1D", expected: []TokenType{IdentifierTP}, contents: []string{"abc_1D"}},
		{content: "let", expected: []TokenType{IdentifierTP}, contents: []string{"let"}},
	}
	for _, data := range testData {
		tokens, err := Lex(data.content)
		require.NoError(t, err, data.content)
		assert.Equal(t, data.expected, tokenTypes(tokens), data.content)
		var contents []string
		for _, token := range tokens {
			contents = append(contents, token.content)
		}
		assert.Equal(t, data.contents, contents, data.content)
	}
}

func TestTokenizer_Numbers(t *testing.T) {
	tokens, err := Lex("12 3.5 1.2.3 99999999999 7.")
	require.NoError(t, err)
	require.Equal(t, []TokenType{IntegerTP, FloatTP, InvalidTP, InvalidTP, FloatTP}, tokenTypes(tokens))
	assert.Equal(t, int32(12), tokens[0].Int())
	assert.Equal(t, float32(3.5), tokens[1].Float())
	assert.Equal(t, "1.2.3", tokens[2].Content())
	assert.Equal(t, "99999999999", tokens[3].Content())
	assert.Equal(t, float32(7), tokens[4].Float())
}

func TestTokenizer_String(t *testing.T) {
	testData := []struct {
		content  string
		expected string
	}{
		{content: `"hello world"`, expected: "hello world"},
		{content: `"say \"hi\""`, expected: `say "hi"`},
		{content: `"back \\ slash"`, expected: `back \ slash`},
		{content: `"keep \n as is"`, expected: `keep \n as is`},
		{content: `""`, expected: ""},
	}
	for _, data := range testData {
		tokens, err := Lex(data.content)
		require.NoError(t, err, data.content)
		require.Len(t, tokens, 1, data.content)
		assert.Equal(t, StringTP, tokens[0].Type())
		assert.Equal(t, data.expected, tokens[0].Content(), data.content)
	}
}

func TestTokenizer_StringSpansLines(t *testing.T) {
	tokens, err := Lex("\"a\nb\"\nLET")
	require.NoError(t, err)
	require.Equal(t, []TokenType{StringTP, NewLineTP, LetTP}, tokenTypes(tokens))
	assert.Equal(t, "a\nb", tokens[0].Content())
	assert.Equal(t, 1, tokens[0].Line())
	assert.Equal(t, 2, tokens[1].Line())
	assert.Equal(t, 3, tokens[2].Line())
}

func TestTokenizer_UnterminatedString(t *testing.T) {
	testData := []string{
		`PRINT "abc`,
		`PRINT "abc\"`,
		"PRINT \"abc\nLET a = 1\n",
		`"`,
	}
	for _, content := range testData {
		tokens, err := Lex(content)
		assert.Nil(t, tokens, content)
		require.Error(t, err, content)
		assert.True(t, errors.Is(err, ErrLex), content)
		kind, ok := KindOf(err)
		assert.True(t, ok)
		assert.Equal(t, ErrUnterminatedString, kind, content)
		assert.Contains(t, err.Error(), "tokenizer error near")
	}
}

func TestTokenizer_InvalidCharacters(t *testing.T) {
	tokens, err := Lex("$a ? é")
	require.NoError(t, err)
	require.Equal(t, []TokenType{InvalidTP, IdentifierTP, InvalidTP, InvalidTP}, tokenTypes(tokens))
	assert.Equal(t, "$", tokens[0].Content())
	assert.Equal(t, "?", tokens[2].Content())
	assert.Equal(t, "é", tokens[3].Content())
}

func TestTokenizer_Positions(t *testing.T) {
	tokens, err := Lex("LET a\n  PRINT b")
	require.NoError(t, err)
	require.Len(t, tokens, 5)
	assert.Equal(t, &Token{content: "a", line: 1, startPos: 4, endPos: 5, tp: IdentifierTP}, tokens[1])
	assert.Equal(t, &Token{content: "PRINT", line: 2, startPos: 2, endPos: 7, tp: PrintTP}, tokens[3])
}

// Operators, newlines and letter runs never make the tokenizer fail.
func TestTokenizer_TotalOnSimpleInput(t *testing.T) {
	alphabet := []string{"+", "-", "*", "/", "=", "\n", "abc", "XYZ", " ", "LET", "q_1"}
	for i := 0; i < len(alphabet); i++ {
		var builder strings.Builder
		for j := 0; j < 40; j++ {
			builder.WriteString(alphabet[(i*7+j*j)%len(alphabet)])
		}
		tokens, err := Lex(builder.String())
		assert.NoError(t, err, builder.String())
		assert.NotEmpty(t, tokens)
		for _, token := range tokens {
			assert.NotEqual(t, InvalidTP, token.tp, builder.String())
		}
	}
}

func TestToken_String(t *testing.T) {
	tokens, err := Lex("LET a = 2\n")
	require.NoError(t, err)
	assert.Equal(t, "LET@1:0", tokens[0].String())
	assert.Equal(t, `IDENT("a")@1:4`, tokens[1].String())
	assert.Equal(t, "INT(2)@1:8", tokens[3].String())
	assert.Equal(t, "NEWLINE@1:9", tokens[4].String())
}
