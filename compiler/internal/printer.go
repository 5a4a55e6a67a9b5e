package internal

import (
	"fmt"
	"strings"
)

// DumpProgram prints the ast as an indented tree, for example:
//
//	Program
//	  LET a
//	    Expression [1]
//	  IF [a] > [0]
//	    PRINT "pos"
//	Symbols: a (line 1)
//	Labels:
func DumpProgram(program *Program) string {
	var builder strings.Builder
	builder.WriteString("Program\n")
	dumpStatements(&builder, program.Statements, 1)
	symbols := make([]string, 0, program.Symbols.Len())
	for _, desc := range program.Symbols.Symbols() {
		symbols = append(symbols, fmt.Sprintf("%s (line %d)", desc.Name(), desc.Line()))
	}
	dumpNames(&builder, "Symbols:", symbols)
	dumpNames(&builder, "Labels:", program.Labels.Declared())
	return builder.String()
}

func dumpNames(builder *strings.Builder, title string, names []string) {
	builder.WriteString(title)
	if len(names) > 0 {
		builder.WriteString(" " + strings.Join(names, ", "))
	}
	builder.WriteString("\n")
}

func dumpStatements(builder *strings.Builder, statements []*StatementAst, depth int) {
	for _, stm := range statements {
		dumpStatement(builder, stm, depth)
	}
}

func dumpStatement(builder *strings.Builder, stm *StatementAst, depth int) {
	indent := strings.Repeat("  ", depth)
	switch s := stm.Statement.(type) {
	case *LetStatementAst:
		fmt.Fprintf(builder, "%sLET %s\n%s  Expression %s\n", indent, s.VarName, indent, dumpExpression(s.Value))
	case *PrintStatementAst:
		if s.MessageTP == StringPrintMessageType {
			fmt.Fprintf(builder, "%sPRINT %q\n", indent, s.Text)
		} else {
			fmt.Fprintf(builder, "%sPRINT\n%s  Expression %s\n", indent, indent, dumpExpression(s.Value))
		}
	case *IfStatementAst:
		fmt.Fprintf(builder, "%sIF %s\n", indent, dumpComparison(s.Condition))
		dumpStatements(builder, s.Statements, depth+1)
	case *WhileStatementAst:
		fmt.Fprintf(builder, "%sWHILE %s\n", indent, dumpComparison(s.Condition))
		dumpStatements(builder, s.Statements, depth+1)
	case *InputStatementAst:
		fmt.Fprintf(builder, "%sINPUT %s\n", indent, s.VarName)
	case *LabelStatementAst:
		fmt.Fprintf(builder, "%sLABEL %s\n", indent, s.LabelName)
	case *GotoStatementAst:
		fmt.Fprintf(builder, "%sGOTO %s\n", indent, s.LabelName)
	}
}

func dumpComparison(comparison *ComparisonAst) string {
	return fmt.Sprintf("%s %s %s", dumpExpression(comparison.Left), comparison.Op, dumpExpression(comparison.Right))
}

// dumpExpression shows the precedence levels with brackets, a - b * c is [a] [-b * c].
func dumpExpression(expr *ExpressionAst) string {
	terms := make([]string, 0, len(expr.Terms))
	for _, term := range expr.Terms {
		text := dumpUnary(term.Unary)
		for _, component := range term.Components {
			text += fmt.Sprintf(" %s %s", component.Op, dumpUnary(component.Unary))
		}
		terms = append(terms, "["+text+"]")
	}
	return strings.Join(terms, " ")
}

func dumpUnary(unary *UnaryAst) string {
	var value string
	switch unary.Primary.Type {
	case IntegerConstantPrimaryType:
		value = fmt.Sprintf("%d", unary.Primary.Value)
	case FloatConstantPrimaryType:
		value = formatFloat(unary.Primary.Value.(float32))
	default:
		value = fmt.Sprint(unary.Primary.Value)
	}
	if unary.Op == nil {
		return value
	}
	return unary.Op.Name + value
}
