package internal

// The expression grammar has four fixed levels, comparison on top:
//
// comparison: expression op expression, op is one of == != > >= < <=
// expression: term {term}, every term after the first one starts with + or -
// term:       unary {(* | /) unary}
// unary:      [+ | -] primary
//
// Once an operator is consumed, its right side must follow. LET a = b -
// is an error, the dangling - is never dropped.

func (parser *Parser) parseComparison() (*ComparisonAst, error) {
	left, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	op, match := parser.matchOp(comparisonOps)
	if !match {
		return nil, parser.makeError(ErrExpectedComparison, "expected comparison operator")
	}
	parser.stepForward()
	right, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ComparisonAst{Left: left, Op: op, Right: right}, nil
}

// parseExpression: a - b * c is Terms{a, -b * c}. The sign of a continuation term is parsed by its unary.
func (parser *Parser) parseExpression() (*ExpressionAst, error) {
	term, err := parser.parseTerm()
	if err != nil {
		return nil, err
	}
	expr := &ExpressionAst{Terms: []*TermAst{term}}
	for {
		_, match := parser.matchOp(unaryOps)
		if !match {
			return expr, nil
		}
		term, err = parser.parseTerm()
		if err != nil {
			return nil, err
		}
		expr.Terms = append(expr.Terms, term)
	}
}

func (parser *Parser) parseTerm() (*TermAst, error) {
	unary, err := parser.parseUnary()
	if err != nil {
		return nil, err
	}
	term := &TermAst{Unary: unary}
	for {
		op, match := parser.matchOp(multiplicativeOps)
		if !match {
			return term, nil
		}
		parser.stepForward()
		unary, err = parser.parseUnary()
		if err != nil {
			return nil, err
		}
		term.Components = append(term.Components, &TermComponentAst{Op: op, Unary: unary})
	}
}

func (parser *Parser) parseUnary() (*UnaryAst, error) {
	unary := &UnaryAst{}
	op, match := parser.matchOp(unaryOps)
	if match {
		unary.Op = op
		parser.stepForward()
	}
	primary, err := parser.parsePrimary()
	if err != nil {
		return nil, err
	}
	unary.Primary = primary
	return unary, nil
}

// parsePrimary accepts a number or a variable declared before this point.
func (parser *Parser) parsePrimary() (*PrimaryAst, error) {
	if !parser.hasRemainTokens() {
		return nil, parser.makeError(ErrExpectedPrimary, "expected primary token")
	}
	token, _ := parser.getCurrentToken()
	primary := new(PrimaryAst)
	switch token.tp {
	case IntegerTP:
		primary.Type, primary.Value = IntegerConstantPrimaryType, token.Int()
	case FloatTP:
		primary.Type, primary.Value = FloatConstantPrimaryType, token.Float()
	case IdentifierTP:
		if !parser.symbols.Contains(token.content) {
			return nil, parser.makeError(ErrUndeclaredIdentifier, "undeclared identifier "+token.content)
		}
		primary.Type, primary.Value = VarNamePrimaryType, token.content
	default:
		return nil, parser.makeError(ErrExpectedPrimary, "expected primary token")
	}
	parser.stepForward()
	return primary, nil
}

// matchOp looks at the current token without consuming it.
func (parser *Parser) matchOp(ops map[TokenType]*OpAst) (*OpAst, bool) {
	if !parser.hasRemainTokens() {
		return nil, false
	}
	op, ok := ops[parser.currentTokens[parser.currentTokenPos].tp]
	return op, ok
}
