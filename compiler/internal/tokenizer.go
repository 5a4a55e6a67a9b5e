package internal

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"tinybasic/util"
)

// A simple Tokenizer for tiny basic.

// Tiny basic has those elements:
// * KeyWord: LET, PRINT, IF, THEN, ENDIF, WHILE, REPEAT, ENDWHILE, INPUT, LABEL, GOTO. Keywords are all upper case.
// * Symbol: +, -, *, /, =, ==, !=, >, >=, <, <=.
// * Constant: integer (12), float (1.5), string ("xxx", with \" and \\ escapes).
// * Identifier: starts with a letter, then letters, digits, underscore. An upper case run that is not a keyword is
//   an identifier as well.
// * NewLine: ends a statement, so it is a token. Other white spaces are skipped.

type TokenType int

const (
	AddTP          TokenType = iota // +
	MinusTP                         // -
	MultiplyTP                      // *
	DivideTP                        // /
	AssignTP                        // =
	EqualTP                         // ==
	NotEqualTP                      // !=
	GreaterTP                       // >
	GreaterEqualTP                  // >=
	LessTP                          // <
	LessEqualTP                     // <=
	NewLineTP                       // \n
	LetTP                           // LET
	PrintTP                         // PRINT
	IfTP                            // IF
	ThenTP                          // THEN
	EndIfTP                         // ENDIF
	WhileTP                         // WHILE
	RepeatTP                        // REPEAT
	EndWhileTP                      // ENDWHILE
	InputTP                         // INPUT
	LabelTP                         // LABEL
	GotoTP                          // GOTO
	IntegerTP                       // 1010
	FloatTP                         // 10.5
	StringTP                        // "xxx"
	IdentifierTP                    // varA
	InvalidTP                       // anything else, like $
)

// keyWordTokenTPMap is the mapping from keyword to the corresponding TokenTP.
var keyWordTokenTPMap = map[string]TokenType{
	"LET":      LetTP,
	"PRINT":    PrintTP,
	"IF":       IfTP,
	"THEN":     ThenTP,
	"ENDIF":    EndIfTP,
	"WHILE":    WhileTP,
	"REPEAT":   RepeatTP,
	"ENDWHILE": EndWhileTP,
	"INPUT":    InputTP,
	"LABEL":    LabelTP,
	"GOTO":     GotoTP,
}

// simpleSymbolTokenTPMap holds the symbols that never need a look ahead.
var simpleSymbolTokenTPMap = map[byte]TokenType{
	'+': AddTP,
	'-': MinusTP,
	'*': MultiplyTP,
	'/': DivideTP,
}

var tokenTypeNames = map[TokenType]string{
	AddTP:          "ADD",
	MinusTP:        "SUB",
	MultiplyTP:     "MUL",
	DivideTP:       "DIV",
	AssignTP:       "ASSIGN",
	EqualTP:        "EQ",
	NotEqualTP:     "NOTEQ",
	GreaterTP:      "GT",
	GreaterEqualTP: "GTEQ",
	LessTP:         "LT",
	LessEqualTP:    "LTEQ",
	NewLineTP:      "NEWLINE",
	LetTP:          "LET",
	PrintTP:        "PRINT",
	IfTP:           "IF",
	ThenTP:         "THEN",
	EndIfTP:        "ENDIF",
	WhileTP:        "WHILE",
	RepeatTP:       "REPEAT",
	EndWhileTP:     "ENDWHILE",
	InputTP:        "INPUT",
	LabelTP:        "LABEL",
	GotoTP:         "GOTO",
	IntegerTP:      "INT",
	FloatTP:        "FLOAT",
	StringTP:       "STRING",
	IdentifierTP:   "IDENT",
	InvalidTP:      "INVALID",
}

func (tp TokenType) String() string {
	name, ok := tokenTypeNames[tp]
	if !ok {
		return fmt.Sprintf("TokenType(%d)", int(tp))
	}
	return name
}

type Token struct {
	content    string  // identifier name, unescaped string, invalid text or the raw symbol
	intValue   int32   // only for IntegerTP
	floatValue float32 // only for FloatTP
	line       int
	startPos   int // column of the first byte
	endPos     int // column after the last byte
	tp         TokenType
}

func (t *Token) Type() TokenType {
	return t.tp
}

func (t *Token) Content() string {
	return t.content
}

func (t *Token) Line() int {
	return t.line
}

func (t *Token) Int() int32 {
	return t.intValue
}

func (t *Token) Float() float32 {
	return t.floatValue
}

func (t *Token) String() string {
	switch t.tp {
	case IntegerTP:
		return fmt.Sprintf("%s(%d)@%d:%d", t.tp, t.intValue, t.line, t.startPos)
	case FloatTP, StringTP, IdentifierTP, InvalidTP:
		return fmt.Sprintf("%s(%q)@%d:%d", t.tp, t.content, t.line, t.startPos)
	}
	return fmt.Sprintf("%s@%d:%d", t.tp, t.line, t.startPos)
}

// display is what error messages print for a token.
func (t *Token) display() string {
	switch t.tp {
	case NewLineTP:
		return "newline"
	case StringTP:
		return strconv.Quote(t.content)
	}
	return t.content
}

type Tokenizer struct {
	currentPos  int
	lineStart   int // offset of the first byte of currentLine
	currentLine int
	tokens      []*Token
}

// Lex tokenizes a whole program held in memory.
func Lex(source string) ([]*Token, error) {
	tokenizer := &Tokenizer{}
	return tokenizer.Tokenize(strings.NewReader(source))
}

// getNextToken returns the next token from src, or nil when src is exhausted.
func (tokenizer *Tokenizer) getNextToken(src []byte) (*Token, error) {
	tokenizer.trimSpace(src)
	if !tokenizer.hasRemainCharacters(src) {
		return nil, nil
	}
	c := src[tokenizer.currentPos]
	switch {
	case c == '\n':
		return tokenizer.tokenNewLine(src)
	case c == '+', c == '-', c == '*', c == '/':
		return tokenizer.tokenSimpleSymbol(src)
	case c == '=':
		return tokenizer.tokenAssignOrEqual(src)
	case c == '>', c == '<':
		return tokenizer.tokenRelational(src)
	case c == '!':
		return tokenizer.tokenNotEqual(src)
	case c == '"':
		return tokenizer.tokenString(src)
	case util.IsNumber(c):
		return tokenizer.tokenNumber(src)
	case util.IsUpperLetter(c):
		return tokenizer.toKeywordOrIdentifier(src)
	case util.IsLowerLetter(c):
		return tokenizer.tokenIdentifier(src)
	default:
		return tokenizer.tokenInvalid(src)
	}
}

// trimSpace steps forward through src and skips all continuous blanks, newlines are kept.
func (tokenizer *Tokenizer) trimSpace(src []byte) {
	for tokenizer.currentPos < len(src) && util.IsBlank(src[tokenizer.currentPos]) {
		tokenizer.currentPos++
	}
}

func (tokenizer *Tokenizer) hasRemainCharacters(src []byte) bool {
	return tokenizer.currentPos < len(src)
}

func (tokenizer *Tokenizer) column(pos int) int {
	return pos - tokenizer.lineStart
}

// makeToken builds a token spanning src[startPos:currentPos].
func (tokenizer *Tokenizer) makeToken(src []byte, startPos int, tp TokenType) *Token {
	return &Token{
		content:  string(src[startPos:tokenizer.currentPos]),
		line:     tokenizer.currentLine,
		tp:       tp,
		startPos: tokenizer.column(startPos),
		endPos:   tokenizer.column(tokenizer.currentPos),
	}
}

func (tokenizer *Tokenizer) tokenNewLine(src []byte) (*Token, error) {
	startPos := tokenizer.currentPos
	tokenizer.currentPos++
	token := tokenizer.makeToken(src, startPos, NewLineTP)
	tokenizer.currentLine++
	tokenizer.lineStart = tokenizer.currentPos
	return token, nil
}

func (tokenizer *Tokenizer) tokenSimpleSymbol(src []byte) (*Token, error) {
	startPos := tokenizer.currentPos
	tp := simpleSymbolTokenTPMap[src[startPos]]
	tokenizer.currentPos++
	return tokenizer.makeToken(src, startPos, tp), nil
}

// = is an assignment, == is a comparison.
func (tokenizer *Tokenizer) tokenAssignOrEqual(src []byte) (*Token, error) {
	startPos := tokenizer.currentPos
	tokenizer.currentPos++
	if tokenizer.peekIs(src, '=') {
		tokenizer.currentPos++
		return tokenizer.makeToken(src, startPos, EqualTP), nil
	}
	return tokenizer.makeToken(src, startPos, AssignTP), nil
}

func (tokenizer *Tokenizer) tokenRelational(src []byte) (*Token, error) {
	startPos := tokenizer.currentPos
	tp, tpWithEqual := GreaterTP, GreaterEqualTP
	if src[startPos] == '<' {
		tp, tpWithEqual = LessTP, LessEqualTP
	}
	tokenizer.currentPos++
	if tokenizer.peekIs(src, '=') {
		tokenizer.currentPos++
		tp = tpWithEqual
	}
	return tokenizer.makeToken(src, startPos, tp), nil
}

// != is the only thing ! can start. A bare ! is an invalid token.
func (tokenizer *Tokenizer) tokenNotEqual(src []byte) (*Token, error) {
	startPos := tokenizer.currentPos
	tokenizer.currentPos++
	if tokenizer.peekIs(src, '=') {
		tokenizer.currentPos++
		return tokenizer.makeToken(src, startPos, NotEqualTP), nil
	}
	return tokenizer.makeToken(src, startPos, InvalidTP), nil
}

func (tokenizer *Tokenizer) peekIs(src []byte, b byte) bool {
	return tokenizer.currentPos < len(src) && src[tokenizer.currentPos] == b
}

func (tokenizer *Tokenizer) tokenString(src []byte) (*Token, error) {
	// Looking forward through src to find a closing quote which is not escaped.
	startPos, startLine, startColumn := tokenizer.currentPos, tokenizer.currentLine, tokenizer.column(tokenizer.currentPos)
	tokenizer.currentPos++
	var content strings.Builder
	for tokenizer.currentPos < len(src) {
		c := src[tokenizer.currentPos]
		switch {
		case c == '"':
			tokenizer.currentPos++
			return &Token{
				content:  content.String(),
				line:     startLine,
				tp:       StringTP,
				startPos: startColumn,
				endPos:   tokenizer.column(tokenizer.currentPos),
			}, nil
		case c == '\\' && tokenizer.currentPos+1 < len(src) &&
			(src[tokenizer.currentPos+1] == '"' || src[tokenizer.currentPos+1] == '\\'):
			content.WriteByte(src[tokenizer.currentPos+1])
			tokenizer.currentPos += 2
		case c == '\n':
			content.WriteByte(c)
			tokenizer.currentPos++
			tokenizer.currentLine++
			tokenizer.lineStart = tokenizer.currentPos
		default:
			content.WriteByte(c)
			tokenizer.currentPos++
		}
	}
	// If cannot find a closing quote, the whole rest of the source would be a string.
	return nil, tokenizer.makeError(nearText(src[startPos:]), startLine, ErrUnterminatedString.String())
}

// tokenNumber reads digits and dots. A literal which cannot be parsed doesn't stop tokenizing, it becomes an
// invalid token and the parser reports it.
func (tokenizer *Tokenizer) tokenNumber(src []byte) (*Token, error) {
	startPos := tokenizer.currentPos
	for tokenizer.currentPos < len(src) && util.IsNumberOrDot(src[tokenizer.currentPos]) {
		tokenizer.currentPos++
	}
	text := string(src[startPos:tokenizer.currentPos])
	if strings.Contains(text, ".") {
		v, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return tokenizer.makeToken(src, startPos, InvalidTP), nil
		}
		token := tokenizer.makeToken(src, startPos, FloatTP)
		token.floatValue = float32(v)
		return token, nil
	}
	v, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return tokenizer.makeToken(src, startPos, InvalidTP), nil
	}
	token := tokenizer.makeToken(src, startPos, IntegerTP)
	token.intValue = int32(v)
	return token, nil
}

// toKeywordOrIdentifier reads a run of upper case letters. Keywords are never mixed case, so the run stops at the
// first other character.
func (tokenizer *Tokenizer) toKeywordOrIdentifier(src []byte) (*Token, error) {
	startPos := tokenizer.currentPos
	for tokenizer.currentPos < len(src) && util.IsUpperLetter(src[tokenizer.currentPos]) {
		tokenizer.currentPos++
	}
	keyWordTP, isKeyWord := keyWordTokenTPMap[string(src[startPos:tokenizer.currentPos])]
	if isKeyWord {
		return tokenizer.makeToken(src, startPos, keyWordTP), nil
	}
	return tokenizer.makeToken(src, startPos, IdentifierTP), nil
}

func (tokenizer *Tokenizer) tokenIdentifier(src []byte) (*Token, error) {
	startPos := tokenizer.currentPos
	for tokenizer.currentPos < len(src) && util.IsLetterOrUnderscoreOrNumber(src[tokenizer.currentPos]) {
		tokenizer.currentPos++
	}
	return tokenizer.makeToken(src, startPos, IdentifierTP), nil
}

// tokenInvalid wraps one character, a whole utf8 sequence when it is one.
func (tokenizer *Tokenizer) tokenInvalid(src []byte) (*Token, error) {
	startPos := tokenizer.currentPos
	_, size := utf8.DecodeRune(src[startPos:])
	tokenizer.currentPos += size
	return tokenizer.makeToken(src, startPos, InvalidTP), nil
}

func (tokenizer *Tokenizer) makeError(near string, line int, msg string) error {
	return &CompileError{
		Kind:  ErrUnterminatedString,
		Near:  near,
		Line:  line,
		Msg:   msg,
		stage: ErrLex,
	}
}

// nearText cuts the source to its first line, long enough to find the problem.
func nearText(src []byte) string {
	text := string(src)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if len(text) > 20 {
		text = text[:20] + "..."
	}
	return text
}

// Tokenize accepts a source `rd` and tokenizes its content according to tiny basic rules.
// This method is the main method of this tokenizer.
func (tokenizer *Tokenizer) Tokenize(rd io.Reader) ([]*Token, error) {
	src, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}
	tokenizer.Reset()
	for {
		token, err := tokenizer.getNextToken(src)
		if err != nil {
			return nil, err
		}
		if token == nil {
			return tokenizer.tokens, nil
		}
		tokenizer.tokens = append(tokenizer.tokens, token)
	}
}

func (tokenizer *Tokenizer) Reset() {
	tokenizer.currentPos, tokenizer.lineStart, tokenizer.currentLine = 0, 0, 1
	tokenizer.tokens = nil
}
