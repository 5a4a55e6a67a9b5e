package internal

// In this file, we defined all ast of tiny basic according to its grammar.
// A tiny basic program is a list of statements, one per line:
//
// program    ::= {statement}
// statement  ::= "PRINT" (expression | string) nl
//              | "IF" comparison "THEN" nl {statement} "ENDIF" nl
//              | "WHILE" comparison "REPEAT" nl {statement} "ENDWHILE" nl
//              | "LABEL" ident nl
//              | "GOTO" ident nl
//              | "LET" ident "=" expression nl
//              | "INPUT" ident nl
// comparison ::= expression ("==" | "!=" | ">" | ">=" | "<" | "<=") expression
// expression ::= term {( "-" | "+" ) term}
// term       ::= unary {( "/" | "*" ) unary}
// unary      ::= ["+" | "-"] primary
// primary    ::= number | ident

// Program is the root of the ast. It owns the statements and the tables the parser filled.
type Program struct {
	Statements []*StatementAst
	Symbols    *SymbolTable
	Labels     *LabelTable
}

type StatementAst struct {
	StatementTP StatementType
	Statement   interface{}
}

type StatementType int

const (
	LetStatementTP StatementType = iota
	PrintStatementTP
	IfStatementTP
	WhileStatementTP
	InputStatementTP
	LabelStatementTP
	GotoStatementTP
)

func (tp StatementType) String() string {
	switch tp {
	case LetStatementTP:
		return "LET"
	case PrintStatementTP:
		return "PRINT"
	case IfStatementTP:
		return "IF"
	case WhileStatementTP:
		return "WHILE"
	case InputStatementTP:
		return "INPUT"
	case LabelStatementTP:
		return "LABEL"
	case GotoStatementTP:
		return "GOTO"
	}
	return ""
}

type LetStatementAst struct {
	VarName string
	Value   *ExpressionAst
}

type PrintMessageType int

const (
	StringPrintMessageType PrintMessageType = iota
	ExpressionPrintMessageType
)

// PrintStatementAst prints either Text or Value, depending on MessageTP.
type PrintStatementAst struct {
	MessageTP PrintMessageType
	Text      string
	Value     *ExpressionAst
}

type IfStatementAst struct {
	Condition  *ComparisonAst
	Statements []*StatementAst
}

type WhileStatementAst struct {
	Condition  *ComparisonAst
	Statements []*StatementAst
}

type InputStatementAst struct {
	VarName string
}

type LabelStatementAst struct {
	LabelName string
}

type GotoStatementAst struct {
	LabelName string
}

// ComparisonAst only appears as the condition of IF and WHILE.
type ComparisonAst struct {
	Left  *ExpressionAst
	Op    *OpAst
	Right *ExpressionAst
}

// ExpressionAst is the additive level. There is no explicit + or - between terms, every term after the first
// one starts with its own sign, so a - b is Terms{a, -b}.
type ExpressionAst struct {
	Terms []*TermAst
}

// TermAst is the multiplicative level.
type TermAst struct {
	Unary      *UnaryAst
	Components []*TermComponentAst
}

type TermComponentAst struct {
	Op    *OpAst
	Unary *UnaryAst
}

type UnaryAst struct {
	Op      *OpAst // nil, &PositiveOpAst or &NegationOpAst
	Primary *PrimaryAst
}

type PrimaryAst struct {
	Type  PrimaryType
	Value interface{}
}

type PrimaryType int

const (
	// For constant value, the value in primary is the value, for example:
	// * For 5, value is int32(5)
	// * For 1.5, value is float32(1.5)
	IntegerConstantPrimaryType PrimaryType = iota
	FloatConstantPrimaryType
	// For varName, value is the name.
	VarNamePrimaryType
)

type OpAst struct {
	Op   OpCode
	Name string
}

var (
	MultipleOpAst   = OpAst{Op: MultipleOpTP, Name: "*"}
	DivideOpAst     = OpAst{Op: DivideOpTP, Name: "/"}
	EqualOpAst      = OpAst{Op: EqualOpTP, Name: "=="}
	NotEqualOpAst   = OpAst{Op: NotEqualOpTP, Name: "!="}
	GreatOpAst      = OpAst{Op: GreaterOpTP, Name: ">"}
	GreatEqualOpAst = OpAst{Op: GreaterEqualOpTP, Name: ">="}
	LessOpAst       = OpAst{Op: LessOpTP, Name: "<"}
	LessEqualOpAst  = OpAst{Op: LessEqualOpTP, Name: "<="}
	PositiveOpAst   = OpAst{Op: AddOpTP, Name: "+"}
	NegationOpAst   = OpAst{Op: MinusOpTP, Name: "-"}
)

// Token to operator tables, one per grammar level.
var (
	comparisonOps = map[TokenType]*OpAst{
		EqualTP:        &EqualOpAst,
		NotEqualTP:     &NotEqualOpAst,
		GreaterTP:      &GreatOpAst,
		GreaterEqualTP: &GreatEqualOpAst,
		LessTP:         &LessOpAst,
		LessEqualTP:    &LessEqualOpAst,
	}
	multiplicativeOps = map[TokenType]*OpAst{
		MultiplyTP: &MultipleOpAst,
		DivideTP:   &DivideOpAst,
	}
	unaryOps = map[TokenType]*OpAst{
		AddTP:   &PositiveOpAst,
		MinusTP: &NegationOpAst,
	}
)

func (op OpAst) String() string {
	return op.Name
}

type OpCode int

const (
	AddOpTP OpCode = iota
	MinusOpTP
	MultipleOpTP
	DivideOpTP
	EqualOpTP
	NotEqualOpTP
	GreaterOpTP
	GreaterEqualOpTP
	LessOpTP
	LessEqualOpTP
)
