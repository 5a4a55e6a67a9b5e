package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrLex is wrapped by every tokenizer failure.
	ErrLex = errors.New("lex error")

	// ErrParse is wrapped by every parser failure.
	ErrParse = errors.New("parse error")
)

// ErrorKind classifies a compile failure so callers don't have to match on messages.
type ErrorKind int

const (
	ErrUnterminatedString      ErrorKind = iota // "abc<EOF>
	ErrUnexpectedToken                          // a keyword, operator, identifier or newline was expected
	ErrUnexpectedEnd                            // tokens ran out in the middle of a statement or block
	ErrStatementNotImplemented                  // a statement started with a non keyword token
	ErrExpectedPrimary                          // number or variable expected
	ErrExpectedComparison                       // ==, !=, >, >=, <, <= expected
	ErrUndeclaredIdentifier                     // variable used before LET / INPUT
	ErrUndeclaredLabel                          // GOTO to a label that is not declared yet
	ErrDuplicateLabel                           // LABEL declared twice
	ErrInvalidToken                             // a character the tokenizer could not classify
	ErrReservedIdentifier                       // a name the generated c can't declare, like int or printf
)

var errorKindNames = map[ErrorKind]string{
	ErrUnterminatedString:      "unterminated string literal",
	ErrUnexpectedToken:         "unexpected token",
	ErrUnexpectedEnd:           "unexpected end of input",
	ErrStatementNotImplemented: "statement not implemented",
	ErrExpectedPrimary:         "expected primary token",
	ErrExpectedComparison:      "expected comparison operator",
	ErrUndeclaredIdentifier:    "undeclared identifier",
	ErrUndeclaredLabel:         "GOTO to undeclared label",
	ErrDuplicateLabel:          "label already declared",
	ErrInvalidToken:            "invalid token",
	ErrReservedIdentifier:      "reserved identifier",
}

func (kind ErrorKind) String() string {
	name, ok := errorKindNames[kind]
	if !ok {
		return fmt.Sprintf("ErrorKind(%d)", int(kind))
	}
	return name
}

// CompileError is the single error type returned by the tokenizer and the parser.
type CompileError struct {
	Kind  ErrorKind
	Token *Token // offending token, nil when input ended
	Near  string // source text near the failure
	Line  int
	Msg   string

	stage error
}

func (e *CompileError) Error() string {
	prefix := "syntax error"
	if e.stage == ErrLex {
		prefix = "tokenizer error"
	}
	if e.Near == "" {
		return fmt.Sprintf("%s at line %d, msg: %s", prefix, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s near %s at line %d, msg: %s", prefix, e.Near, e.Line, e.Msg)
}

func (e *CompileError) Unwrap() error {
	return e.stage
}

// KindOf returns the kind of a *CompileError anywhere in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var compileErr *CompileError
	if !errors.As(err, &compileErr) {
		return 0, false
	}
	return compileErr.Kind, true
}

// IsIncomplete reports whether err means the source simply stopped too early, for example an IF without ENDIF.
func IsIncomplete(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == ErrUnexpectedEnd
}
