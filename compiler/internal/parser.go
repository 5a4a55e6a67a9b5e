package internal

import (
	"fmt"
)

// noSentinel is passed to parseStatements at the top level, where only the end of tokens stops the loop.
const noSentinel TokenType = -1

// Parser is a recursive descent parser with one token of look ahead. A parser owns the symbol table and the label
// table of the program it is parsing, so two parsers never share state.
type Parser struct {
	currentTokenPos int
	currentTokens   []*Token
	symbols         *SymbolTable
	labels          *LabelTable
	forwardLabels   bool
}

type ParserOption func(parser *Parser)

// WithForwardLabels collects every LABEL before parsing, so a GOTO may jump to a label declared below it.
// Without it a label is only visible to the GOTOs after it.
func WithForwardLabels() ParserOption {
	return func(parser *Parser) {
		parser.forwardLabels = true
	}
}

func NewParser(opts ...ParserOption) *Parser {
	parser := &Parser{}
	for _, opt := range opts {
		opt(parser)
	}
	parser.reset()
	return parser
}

// Parse builds the program of tokens with a fresh parser.
func Parse(tokens []*Token, opts ...ParserOption) (*Program, error) {
	return NewParser(opts...).Parse(tokens)
}

// Parse builds the program of tokens. The first error stops parsing, no partial program is returned.
func (parser *Parser) Parse(tokens []*Token) (*Program, error) {
	parser.reset()
	parser.currentTokens = tokens
	if parser.forwardLabels {
		err := parser.collectLabels()
		if err != nil {
			return nil, err
		}
	}
	statements, err := parser.parseStatements(noSentinel)
	if err != nil {
		return nil, err
	}
	return &Program{
		Statements: statements,
		Symbols:    parser.symbols,
		Labels:     parser.labels,
	}, nil
}

func (parser *Parser) reset() {
	parser.currentTokenPos, parser.currentTokens = 0, nil
	parser.symbols, parser.labels = NewSymbolTable(), NewLabelTable()
}

// collectLabels declares every LABEL ident pair up front.
func (parser *Parser) collectLabels() error {
	for i := 0; i+1 < len(parser.currentTokens); i++ {
		token, next := parser.currentTokens[i], parser.currentTokens[i+1]
		if token.tp != LabelTP || next.tp != IdentifierTP {
			continue
		}
		if !parser.labels.declare(next.content, next.line) {
			return parser.makeErrorAt(next, ErrDuplicateLabel, fmt.Sprintf("label %s already declared", next.content))
		}
	}
	return nil
}

// parseStatements parses statements until sentinel, which is consumed, or until tokens end at the top level.
// Blank lines are skipped.
func (parser *Parser) parseStatements(sentinel TokenType) (stms []*StatementAst, err error) {
	for {
		if !parser.hasRemainTokens() {
			if sentinel != noSentinel {
				return nil, parser.makeError(ErrUnexpectedEnd, fmt.Sprintf("expected %s", sentinel))
			}
			return stms, nil
		}
		token, _ := parser.getCurrentToken()
		switch token.tp {
		case sentinel:
			parser.stepForward()
			return stms, nil
		case NewLineTP:
			parser.stepForward()
			continue
		}
		stm, err := parser.parseStatement()
		if err != nil {
			return nil, err
		}
		stms = append(stms, stm)
	}
}

func (parser *Parser) parseStatement() (stm *StatementAst, err error) {
	token, err := parser.getCurrentToken()
	if err != nil {
		return nil, err
	}
	switch token.tp {
	case LetTP:
		stm, err = parser.parseLetStatement()
	case PrintTP:
		stm, err = parser.parsePrintStatement()
	case IfTP:
		stm, err = parser.parseIfStatement()
	case WhileTP:
		stm, err = parser.parseWhileStatement()
	case InputTP:
		stm, err = parser.parseInputStatement()
	case LabelTP:
		stm, err = parser.parseLabelStatement()
	case GotoTP:
		stm, err = parser.parseGotoStatement()
	default:
		err = parser.makeError(ErrStatementNotImplemented, "statement not implemented")
	}
	return
}

// LET a = expression
// The variable is declared after the expression, so LET a = a + 1 needs an earlier declaration of a.
func (parser *Parser) parseLetStatement() (*StatementAst, error) {
	parser.stepForward()
	nameToken, err := parser.parseDeclaredName("LET")
	if err != nil {
		return nil, err
	}
	_, match := parser.expectToken(AssignTP, true)
	if !match {
		return nil, parser.makeError(ErrUnexpectedToken, "expected '=' after LET "+nameToken.content)
	}
	value, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	err = parser.expectNewLine("LET statement")
	if err != nil {
		return nil, err
	}
	parser.symbols.declare(nameToken.content, nameToken.line)
	return &StatementAst{
		StatementTP: LetStatementTP,
		Statement: &LetStatementAst{
			VarName: nameToken.content,
			Value:   value,
		},
	}, nil
}

// PRINT "text" or PRINT expression. Both forms consume their own newline.
func (parser *Parser) parsePrintStatement() (*StatementAst, error) {
	parser.stepForward()
	printAst := &PrintStatementAst{}
	token, match := parser.expectToken(StringTP, true)
	if match {
		printAst.MessageTP, printAst.Text = StringPrintMessageType, token.content
	} else {
		value, err := parser.parseExpression()
		if err != nil {
			return nil, err
		}
		printAst.MessageTP, printAst.Value = ExpressionPrintMessageType, value
	}
	err := parser.expectNewLine("PRINT statement")
	if err != nil {
		return nil, err
	}
	return &StatementAst{StatementTP: PrintStatementTP, Statement: printAst}, nil
}

// IF comparison THEN
//   statements
// ENDIF
func (parser *Parser) parseIfStatement() (*StatementAst, error) {
	parser.stepForward()
	condition, statements, err := parser.parseBlock(ThenTP, EndIfTP)
	if err != nil {
		return nil, err
	}
	return &StatementAst{
		StatementTP: IfStatementTP,
		Statement: &IfStatementAst{
			Condition:  condition,
			Statements: statements,
		},
	}, nil
}

// WHILE comparison REPEAT
//   statements
// ENDWHILE
func (parser *Parser) parseWhileStatement() (*StatementAst, error) {
	parser.stepForward()
	condition, statements, err := parser.parseBlock(RepeatTP, EndWhileTP)
	if err != nil {
		return nil, err
	}
	return &StatementAst{
		StatementTP: WhileStatementTP,
		Statement: &WhileStatementAst{
			Condition:  condition,
			Statements: statements,
		},
	}, nil
}

// parseBlock parses what IF and WHILE share: comparison openTP NEWLINE statements closeTP NEWLINE.
func (parser *Parser) parseBlock(openTP, closeTP TokenType) (*ComparisonAst, []*StatementAst, error) {
	condition, err := parser.parseComparison()
	if err != nil {
		return nil, nil, err
	}
	_, match := parser.expectToken(openTP, true)
	if !match {
		return nil, nil, parser.makeError(ErrUnexpectedToken, fmt.Sprintf("expected %s after comparison", openTP))
	}
	err = parser.expectNewLine(openTP.String())
	if err != nil {
		return nil, nil, err
	}
	statements, err := parser.parseStatements(closeTP)
	if err != nil {
		return nil, nil, err
	}
	err = parser.expectNewLine(closeTP.String())
	if err != nil {
		return nil, nil, err
	}
	return condition, statements, nil
}

// INPUT a declares a.
func (parser *Parser) parseInputStatement() (*StatementAst, error) {
	parser.stepForward()
	nameToken, err := parser.parseDeclaredName("INPUT")
	if err != nil {
		return nil, err
	}
	err = parser.expectNewLine("INPUT statement")
	if err != nil {
		return nil, err
	}
	parser.symbols.declare(nameToken.content, nameToken.line)
	return &StatementAst{
		StatementTP: InputStatementTP,
		Statement:   &InputStatementAst{VarName: nameToken.content},
	}, nil
}

func (parser *Parser) parseLabelStatement() (*StatementAst, error) {
	parser.stepForward()
	nameToken, err := parser.parseDeclaredName("LABEL")
	if err != nil {
		return nil, err
	}
	err = parser.expectNewLine("LABEL statement")
	if err != nil {
		return nil, err
	}
	// With forward labels, collectLabels has declared it already.
	if !parser.forwardLabels && !parser.labels.declare(nameToken.content, nameToken.line) {
		return nil, parser.makeErrorAt(nameToken, ErrDuplicateLabel,
			fmt.Sprintf("label %s already declared", nameToken.content))
	}
	return &StatementAst{
		StatementTP: LabelStatementTP,
		Statement:   &LabelStatementAst{LabelName: nameToken.content},
	}, nil
}

func (parser *Parser) parseGotoStatement() (*StatementAst, error) {
	parser.stepForward()
	nameToken, err := parser.parseIdentifier("GOTO")
	if err != nil {
		return nil, err
	}
	err = parser.expectNewLine("GOTO statement")
	if err != nil {
		return nil, err
	}
	if !parser.labels.IsDeclared(nameToken.content) {
		return nil, parser.makeErrorAt(nameToken, ErrUndeclaredLabel,
			fmt.Sprintf("GOTO to undeclared label %s", nameToken.content))
	}
	parser.labels.reference(nameToken.content, nameToken.line)
	return &StatementAst{
		StatementTP: GotoStatementTP,
		Statement:   &GotoStatementAst{LabelName: nameToken.content},
	}, nil
}

func (parser *Parser) parseIdentifier(after string) (*Token, error) {
	token, match := parser.expectToken(IdentifierTP, true)
	if !match {
		return nil, parser.makeError(ErrUnexpectedToken, "expected identifier after "+after)
	}
	return token, nil
}

// parseDeclaredName parses the name a LET, INPUT or LABEL introduces. It is emitted as is, so it must not clash
// with c.
func (parser *Parser) parseDeclaredName(after string) (*Token, error) {
	token, err := parser.parseIdentifier(after)
	if err != nil {
		return nil, err
	}
	if isReserved(token.content) {
		return nil, parser.makeErrorAt(token, ErrReservedIdentifier, fmt.Sprintf("%s is reserved in c", token.content))
	}
	return token, nil
}

func (parser *Parser) expectNewLine(after string) error {
	_, match := parser.expectToken(NewLineTP, true)
	if !match {
		return parser.makeError(ErrUnexpectedToken, "expected newline after "+after)
	}
	return nil
}

func (parser *Parser) getCurrentToken() (*Token, error) {
	if !parser.hasRemainTokens() {
		return nil, parser.makeError(ErrUnexpectedEnd, "expected a statement")
	}
	return parser.currentTokens[parser.currentTokenPos], nil
}

func (parser *Parser) stepForward() {
	parser.currentTokenPos++
}

func (parser *Parser) hasRemainTokens() bool {
	return parser.currentTokenPos < len(parser.currentTokens)
}

func (parser *Parser) expectToken(expectedTokenTp TokenType, walk bool) (*Token, bool) {
	if parser.currentTokenPos >= len(parser.currentTokens) || parser.currentTokens[parser.currentTokenPos].tp !=
		expectedTokenTp {
		return nil, false
	}
	token := parser.currentTokens[parser.currentTokenPos]
	if walk {
		parser.currentTokenPos++
	}
	return token, true
}

// makeError reports kind at the current token. Running out of tokens is always ErrUnexpectedEnd, and an invalid
// token is always ErrInvalidToken, whatever the rule expected.
func (parser *Parser) makeError(kind ErrorKind, msg string) error {
	if !parser.hasRemainTokens() {
		line := 1
		if len(parser.currentTokens) > 0 {
			line = parser.currentTokens[len(parser.currentTokens)-1].line
		}
		return &CompileError{Kind: ErrUnexpectedEnd, Line: line, Msg: "unexpected token ends, " + msg, stage: ErrParse}
	}
	return parser.makeErrorAt(parser.currentTokens[parser.currentTokenPos], kind, msg)
}

func (parser *Parser) makeErrorAt(token *Token, kind ErrorKind, msg string) error {
	if token.tp == InvalidTP {
		kind, msg = ErrInvalidToken, fmt.Sprintf("invalid token %q", token.content)
	}
	return &CompileError{
		Kind:  kind,
		Token: token,
		Near:  token.display(),
		Line:  token.line,
		Msg:   msg,
		stage: ErrParse,
	}
}
