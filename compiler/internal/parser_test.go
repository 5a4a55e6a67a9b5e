package internal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSource(t *testing.T, content string, opts ...ParserOption) (*Program, error) {
	tokens, err := Lex(content)
	require.NoError(t, err, content)
	return Parse(tokens, opts...)
}

func TestParser_ParseLetStatement(t *testing.T) {
	program, err := parseSource(t, "LET a = 1\n")
	require.NoError(t, err)
	require.Len(t, program.Statements, 1)
	stm := program.Statements[0]
	assert.Equal(t, LetStatementTP, stm.StatementTP)
	let := stm.Statement.(*LetStatementAst)
	assert.Equal(t, "a", let.VarName)
	require.Len(t, let.Value.Terms, 1)
	assert.Equal(t, &PrimaryAst{Type: IntegerConstantPrimaryType, Value: int32(1)}, let.Value.Terms[0].Unary.Primary)
	assert.Equal(t, []string{"a"}, program.Symbols.Names())
}

func TestParser_ParsePrintStatement(t *testing.T) {
	program, err := parseSource(t, "PRINT \"hi\"\nLET x = 2.5\nPRINT x * 2\n")
	require.NoError(t, err)
	require.Len(t, program.Statements, 3)
	printString := program.Statements[0].Statement.(*PrintStatementAst)
	assert.Equal(t, StringPrintMessageType, printString.MessageTP)
	assert.Equal(t, "hi", printString.Text)
	printExpr := program.Statements[2].Statement.(*PrintStatementAst)
	assert.Equal(t, ExpressionPrintMessageType, printExpr.MessageTP)
	require.Len(t, printExpr.Value.Terms, 1)
	require.Len(t, printExpr.Value.Terms[0].Components, 1)
	assert.Equal(t, &MultipleOpAst, printExpr.Value.Terms[0].Components[0].Op)
}

func TestParser_ParseIfStatement(t *testing.T) {
	program, err := parseSource(t, "LET a = 1\nIF a > 0 THEN\nPRINT \"pos\"\nENDIF\n")
	require.NoError(t, err)
	require.Len(t, program.Statements, 2)
	assert.Equal(t, IfStatementTP, program.Statements[1].StatementTP)
	ifStatement := program.Statements[1].Statement.(*IfStatementAst)
	assert.Equal(t, &GreatOpAst, ifStatement.Condition.Op)
	require.Len(t, ifStatement.Statements, 1)
	assert.Equal(t, PrintStatementTP, ifStatement.Statements[0].StatementTP)
	assert.Equal(t, "pos", ifStatement.Statements[0].Statement.(*PrintStatementAst).Text)
}

func TestParser_ParseWhileStatement(t *testing.T) {
	program, err := parseSource(t, "LET a = 3\nWHILE a > 0 REPEAT\nLET a = a - 1\nENDWHILE\n")
	require.NoError(t, err)
	require.Len(t, program.Statements, 2)
	whileStatement := program.Statements[1].Statement.(*WhileStatementAst)
	require.Len(t, whileStatement.Statements, 1)
	let := whileStatement.Statements[0].Statement.(*LetStatementAst)
	require.Len(t, let.Value.Terms, 2)
	assert.Nil(t, let.Value.Terms[0].Unary.Op)
	assert.Equal(t, &NegationOpAst, let.Value.Terms[1].Unary.Op)
	assert.Equal(t, int32(1), let.Value.Terms[1].Unary.Primary.Value)
}

func TestParser_NestedBlocks(t *testing.T) {
	content := `INPUT n
WHILE n > 0 REPEAT
	IF n == 3 THEN
		PRINT "three"
	ENDIF
	LET n = n - 1
ENDWHILE
`
	program, err := parseSource(t, content)
	require.NoError(t, err)
	require.Len(t, program.Statements, 2)
	whileStatement := program.Statements[1].Statement.(*WhileStatementAst)
	require.Len(t, whileStatement.Statements, 2)
	assert.Equal(t, IfStatementTP, whileStatement.Statements[0].StatementTP)
	assert.Equal(t, LetStatementTP, whileStatement.Statements[1].StatementTP)
}

func TestParser_ParseExpression(t *testing.T) {
	program, err := parseSource(t, "LET a = 1 + 2 * 3 - 4 / -5\n")
	require.NoError(t, err)
	terms := program.Statements[0].Statement.(*LetStatementAst).Value.Terms
	require.Len(t, terms, 3)
	assert.Empty(t, terms[0].Components)
	assert.Equal(t, &PositiveOpAst, terms[1].Unary.Op)
	require.Len(t, terms[1].Components, 1)
	assert.Equal(t, &MultipleOpAst, terms[1].Components[0].Op)
	assert.Equal(t, &NegationOpAst, terms[2].Unary.Op)
	require.Len(t, terms[2].Components, 1)
	assert.Equal(t, &DivideOpAst, terms[2].Components[0].Op)
	assert.Equal(t, &NegationOpAst, terms[2].Components[0].Unary.Op)
	assert.Equal(t, int32(5), terms[2].Components[0].Unary.Primary.Value)
}

func TestParser_ComparisonOperators(t *testing.T) {
	testData := []struct {
		op       string
		expected *OpAst
	}{
		{op: "==", expected: &EqualOpAst},
		{op: "!=", expected: &NotEqualOpAst},
		{op: ">", expected: &GreatOpAst},
		{op: ">=", expected: &GreatEqualOpAst},
		{op: "<", expected: &LessOpAst},
		{op: "<=", expected: &LessEqualOpAst},
	}
	for _, data := range testData {
		program, err := parseSource(t, "IF 1 "+data.op+" 2 THEN\nENDIF\n")
		require.NoError(t, err, data.op)
		assert.Equal(t, data.expected, program.Statements[0].Statement.(*IfStatementAst).Condition.Op, data.op)
	}
}

func TestParser_BlankLines(t *testing.T) {
	program, err := parseSource(t, "\n\nLET a = 1\n\n\nPRINT a\n\n")
	require.NoError(t, err)
	assert.Len(t, program.Statements, 2)
}

func TestParser_Redeclaration(t *testing.T) {
	program, err := parseSource(t, "LET a = 1\nINPUT a\nLET a = a + 1\n")
	require.NoError(t, err)
	assert.Len(t, program.Statements, 3)
	assert.Equal(t, []string{"a"}, program.Symbols.Names())
}

func TestParser_Labels(t *testing.T) {
	program, err := parseSource(t, "LABEL done\nGOTO done\n")
	require.NoError(t, err)
	assert.True(t, program.Labels.IsDeclared("done"))
	assert.True(t, program.Labels.IsReferenced("done"))

	_, err = parseSource(t, "GOTO done\nLABEL done\n")
	require.Error(t, err)
	kind, _ := KindOf(err)
	assert.Equal(t, ErrUndeclaredLabel, kind)

	program, err = parseSource(t, "GOTO done\nLABEL done\n", WithForwardLabels())
	require.NoError(t, err)
	assert.True(t, program.Labels.IsReferenced("done"))
	assert.Len(t, program.Statements, 2)
}

func TestParser_Errors(t *testing.T) {
	testData := []struct {
		content string
		kind    ErrorKind
	}{
		{content: "PRINT x\n", kind: ErrUndeclaredIdentifier},
		{content: "LET a = a + 1\n", kind: ErrUndeclaredIdentifier},
		{content: "LET a = \n", kind: ErrExpectedPrimary},
		{content: "LET a = 1\nLET b = a -\n", kind: ErrExpectedPrimary},
		{content: "LET a = 2 *\n", kind: ErrExpectedPrimary},
		{content: "LET a = 1 - -1\n", kind: ErrExpectedPrimary},
		{content: "LET = 1\n", kind: ErrUnexpectedToken},
		{content: "LET a 1\n", kind: ErrUnexpectedToken},
		{content: "PRINT 1 2\n", kind: ErrUnexpectedToken},
		{content: "INPUT 1\n", kind: ErrUnexpectedToken},
		{content: "IF 1 > 0\nENDIF\n", kind: ErrUnexpectedToken},
		{content: "IF 1 > 0 THEN PRINT \"x\"\nENDIF\n", kind: ErrUnexpectedToken},
		{content: "IF 1 > 0 THEN\nENDIF PRINT \"x\"\n", kind: ErrUnexpectedToken},
		{content: "WHILE 1 > 0 THEN\nENDWHILE\n", kind: ErrUnexpectedToken},
		{content: "IF 1 THEN\nENDIF\n", kind: ErrExpectedComparison},
		{content: "IF 1 = 1 THEN\nENDIF\n", kind: ErrExpectedComparison},
		{content: "ENDIF\n", kind: ErrStatementNotImplemented},
		{content: "x = 1\n", kind: ErrStatementNotImplemented},
		{content: "IF 1 > 0 THEN\nENDWHILE\nENDIF\n", kind: ErrStatementNotImplemented},
		{content: "IF 1 > 0 THEN\nPRINT \"x\"\n", kind: ErrUnexpectedEnd},
		{content: "WHILE 1 > 0 REPEAT\n", kind: ErrUnexpectedEnd},
		{content: "LET a = 1", kind: ErrUnexpectedEnd},
		{content: "LET a =", kind: ErrUnexpectedEnd},
		{content: "GOTO nowhere\n", kind: ErrUndeclaredLabel},
		{content: "LABEL a\nLABEL a\n", kind: ErrDuplicateLabel},
		{content: "LET a = 1 $\n", kind: ErrInvalidToken},
		{content: "LET a = 1.2.3\n", kind: ErrInvalidToken},
		{content: "# comment\n", kind: ErrInvalidToken},
		{content: "LET int = 1\n", kind: ErrReservedIdentifier},
		{content: "INPUT printf\n", kind: ErrReservedIdentifier},
		{content: "LABEL while\n", kind: ErrReservedIdentifier},
		{content: "LET EOF = 2\n", kind: ErrReservedIdentifier},
	}
	for _, data := range testData {
		program, err := parseSource(t, data.content)
		assert.Nil(t, program, data.content)
		require.Error(t, err, data.content)
		assert.True(t, errors.Is(err, ErrParse), data.content)
		kind, ok := KindOf(err)
		assert.True(t, ok, data.content)
		assert.Equal(t, data.kind, kind, "%q: %v", data.content, err)
	}
}

func TestParser_ErrorDetails(t *testing.T) {
	_, err := parseSource(t, "LET a = 1\nPRINT b\n")
	var compileErr *CompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, ErrUndeclaredIdentifier, compileErr.Kind)
	assert.Equal(t, 2, compileErr.Line)
	assert.Equal(t, "b", compileErr.Token.Content())
	assert.Equal(t, "syntax error near b at line 2, msg: undeclared identifier b", err.Error())

	_, err = parseSource(t, "LET a = \n")
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, NewLineTP, compileErr.Token.Type())
	assert.Equal(t, "syntax error near newline at line 1, msg: expected primary token", err.Error())

	_, err = parseSource(t, "LET a = 1 ?\n")
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, `invalid token "?"`, compileErr.Msg)
}

func TestParser_ReservedNames(t *testing.T) {
	_, err := parseSource(t, "LET scanf = 1\n")
	assert.Equal(t, "syntax error near scanf at line 1, msg: scanf is reserved in c", err.Error())

	program, err := parseSource(t, "LET printf_count = 1\nINPUT integer\nLABEL done\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"printf_count", "integer"}, program.Symbols.Names())
}

func TestParser_DuplicateForwardLabel(t *testing.T) {
	_, err := parseSource(t, "LABEL a\nGOTO a\nLABEL a\n", WithForwardLabels())
	require.Error(t, err)
	kind, _ := KindOf(err)
	assert.Equal(t, ErrDuplicateLabel, kind)
}

func TestParser_IsIncomplete(t *testing.T) {
	_, err := parseSource(t, "WHILE 1 > 0 REPEAT\nPRINT \"x\"\n")
	assert.True(t, IsIncomplete(err))
	_, err = parseSource(t, "PRINT y\n")
	assert.False(t, IsIncomplete(err))
	assert.False(t, IsIncomplete(nil))
}

// Every parser owns its tables, parsing one program leaves no trace in the next one.
func TestParser_Reentrant(t *testing.T) {
	parser := NewParser()
	tokens, err := Lex("LET a = 1\nLABEL top\n")
	require.NoError(t, err)
	first, err := parser.Parse(tokens)
	require.NoError(t, err)

	tokens, err = Lex("PRINT a\n")
	require.NoError(t, err)
	_, err = parser.Parse(tokens)
	require.Error(t, err)

	tokens, err = Lex("LET b = 2\n")
	require.NoError(t, err)
	second, err := NewParser().Parse(tokens)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, first.Symbols.Names())
	assert.Equal(t, []string{"b"}, second.Symbols.Names())
	assert.True(t, first.Labels.IsDeclared("top"))
	assert.False(t, second.Labels.IsDeclared("top"))
}
