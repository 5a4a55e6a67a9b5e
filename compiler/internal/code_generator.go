package internal

import (
	"fmt"
	"strconv"
	"strings"
)

// CodeGenerator turns a program into c source code, one line at a time. The parser has validated the program, so
// generating code never fails. An operator the parser can't produce is a bug and panics.
type CodeGenerator struct {
	output []string
	indent int
}

// Emit returns the c source code of program, ending with a newline.
func Emit(program *Program) string {
	generator := &CodeGenerator{}
	generator.generateProgramCode(program)
	return generator.String()
}

// c code of a program:
// #include <stdio.h>
// int main(void){
//     float var; for every declared variable
//     statements
//     return 0;
// }
func (generator *CodeGenerator) generateProgramCode(program *Program) {
	generator.writeOutput("#include <stdio.h>")
	generator.writeOutput("int main(void){")
	generator.indent++
	if program.Symbols != nil {
		for _, name := range program.Symbols.Names() {
			generator.writeOutput(fmt.Sprintf("float %s;", name))
		}
	}
	generator.generateStatementsCode(program.Statements)
	generator.writeOutput("return 0;")
	generator.indent--
	generator.writeOutput("}")
}

func (generator *CodeGenerator) generateStatementsCode(statements []*StatementAst) {
	for _, stm := range statements {
		generator.generateStatementCode(stm)
	}
}

func (generator *CodeGenerator) generateStatementCode(statement *StatementAst) {
	switch statement.StatementTP {
	case LetStatementTP:
		generator.generateLetStatementCode(statement.Statement.(*LetStatementAst))
	case PrintStatementTP:
		generator.generatePrintStatementCode(statement.Statement.(*PrintStatementAst))
	case IfStatementTP:
		ifStatement := statement.Statement.(*IfStatementAst)
		generator.generateBlockCode("if", ifStatement.Condition, ifStatement.Statements)
	case WhileStatementTP:
		whileStatement := statement.Statement.(*WhileStatementAst)
		generator.generateBlockCode("while", whileStatement.Condition, whileStatement.Statements)
	case InputStatementTP:
		generator.generateInputStatementCode(statement.Statement.(*InputStatementAst))
	case LabelStatementTP:
		// A label must be followed by a statement in c, the empty one will do.
		generator.writeOutput(statement.Statement.(*LabelStatementAst).LabelName + ":;")
	case GotoStatementTP:
		generator.writeOutput(fmt.Sprintf("goto %s;", statement.Statement.(*GotoStatementAst).LabelName))
	default:
		panic("unknown statement tp")
	}
}

func (generator *CodeGenerator) generateLetStatementCode(letStatement *LetStatementAst) {
	generator.writeOutput(fmt.Sprintf("%s = %s;", letStatement.VarName, generator.generateExpressionCode(letStatement.Value)))
}

// Strings are baked into the format, expressions are printed with two decimals.
func (generator *CodeGenerator) generatePrintStatementCode(printStatement *PrintStatementAst) {
	if printStatement.MessageTP == StringPrintMessageType {
		generator.writeOutput(fmt.Sprintf("printf(\"%s\\n\");", escapeFormatString(printStatement.Text)))
		return
	}
	generator.writeOutput(fmt.Sprintf("printf(\"%%.2f\\n\", (float)(%s));", generator.generateExpressionCode(printStatement.Value)))
}

// if(cmp){ or while(cmp){, the body one level deeper, then }.
func (generator *CodeGenerator) generateBlockCode(keyword string, condition *ComparisonAst, statements []*StatementAst) {
	generator.writeOutput(fmt.Sprintf("%s(%s){", keyword, generator.generateComparisonCode(condition)))
	generator.indent++
	generator.generateStatementsCode(statements)
	generator.indent--
	generator.writeOutput("}")
}

// A failed scanf leaves the bad input in stdin, so it is skipped with %*s and the variable becomes 0.
func (generator *CodeGenerator) generateInputStatementCode(inputStatement *InputStatementAst) {
	generator.writeOutput(fmt.Sprintf("if(0 == scanf(\"%%f\", &%s)) {", inputStatement.VarName))
	generator.indent++
	generator.writeOutput(fmt.Sprintf("%s = 0;", inputStatement.VarName))
	generator.writeOutput("scanf(\"%*s\");")
	generator.indent--
	generator.writeOutput("}")
}

func (generator *CodeGenerator) generateComparisonCode(comparison *ComparisonAst) string {
	return fmt.Sprintf("%s %s %s", generator.generateExpressionCode(comparison.Left),
		generator.generateOpCode(comparison.Op), generator.generateExpressionCode(comparison.Right))
}

// generateExpressionCode: the sign of a continuation term is the additive operator, a - b * c is
//
//      Terms
//     /     \
//    a     -b * c
//
// and becomes "a - b * c".
func (generator *CodeGenerator) generateExpressionCode(expr *ExpressionAst) string {
	var builder strings.Builder
	for i, term := range expr.Terms {
		if i > 0 {
			builder.WriteString(" ")
		}
		builder.WriteString(generator.generateTermCode(term, i > 0))
	}
	return builder.String()
}

func (generator *CodeGenerator) generateTermCode(term *TermAst, continuation bool) string {
	var builder strings.Builder
	builder.WriteString(generator.generateUnaryCode(term.Unary, continuation))
	for _, component := range term.Components {
		builder.WriteString(fmt.Sprintf(" %s %s", generator.generateOpCode(component.Op),
			generator.generateUnaryCode(component.Unary, false)))
	}
	return builder.String()
}

// An infix sign is written apart from its operand, a prefix sign is not: "- b" against "-b".
func (generator *CodeGenerator) generateUnaryCode(unary *UnaryAst, infix bool) string {
	primary := generator.generatePrimaryCode(unary.Primary)
	if unary.Op == nil {
		return primary
	}
	if infix {
		return generator.generateOpCode(unary.Op) + " " + primary
	}
	return generator.generateOpCode(unary.Op) + primary
}

func (generator *CodeGenerator) generatePrimaryCode(primary *PrimaryAst) string {
	switch primary.Type {
	case IntegerConstantPrimaryType:
		return strconv.FormatInt(int64(primary.Value.(int32)), 10)
	case FloatConstantPrimaryType:
		return formatFloat(primary.Value.(float32))
	case VarNamePrimaryType:
		return primary.Value.(string)
	}
	panic("unknown primary type")
}

func (generator *CodeGenerator) generateOpCode(op *OpAst) string {
	switch op.Op {
	case AddOpTP:
		return "+"
	case MinusOpTP:
		return "-"
	case MultipleOpTP:
		return "*"
	case DivideOpTP:
		return "/"
	case EqualOpTP:
		return "=="
	case NotEqualOpTP:
		return "!="
	case GreaterOpTP:
		return ">"
	case GreaterEqualOpTP:
		return ">="
	case LessOpTP:
		return "<"
	case LessEqualOpTP:
		return "<="
	}
	panic(fmt.Sprintf("unknown op %d", op.Op))
}

// formatFloat keeps a float literal a float in c: 1.0 is written 1.0, not 1.
func formatFloat(v float32) string {
	text := strconv.FormatFloat(float64(v), 'g', -1, 32)
	if !strings.ContainsAny(text, ".eEnN") {
		text += ".0"
	}
	return text
}

// escapeFormatString makes text safe inside a c string literal used as a printf format. It works on bytes, so a
// string that isn't valid utf8 reaches the program unchanged. Bytes outside printable ascii are written in octal.
func escapeFormatString(text string) string {
	var builder strings.Builder
	for i := 0; i < len(text); i++ {
		b := text[i]
		switch b {
		case '"':
			builder.WriteString(`\"`)
		case '\\':
			builder.WriteString(`\\`)
		case '%':
			builder.WriteString("%%")
		case '\n':
			builder.WriteString(`\n`)
		case '\t':
			builder.WriteString(`\t`)
		default:
			if b < 0x20 || b >= 0x7f {
				builder.WriteString(fmt.Sprintf("\\%03o", b))
				continue
			}
			builder.WriteByte(b)
		}
	}
	return builder.String()
}

func (generator *CodeGenerator) writeOutput(output string) {
	generator.output = append(generator.output, strings.Repeat("\t", generator.indent)+output)
}

// Lines returns the generated lines, without line terminators.
func (generator *CodeGenerator) Lines() []string {
	return generator.output
}

func (generator *CodeGenerator) String() string {
	return strings.Join(generator.output, "\n") + "\n"
}
