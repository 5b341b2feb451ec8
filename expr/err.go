package expr

import (
	"errors"

	"github.com/ezrec/a832/translate"
)

var f = translate.From

var (
	// Syntax errors
	ErrParenUnbalanced    = errors.New(f("unbalanced parentheses"))
	ErrOperandMissing     = errors.New(f("operand missing"))
	ErrOperatorUnexpected = errors.New(f("operator unexpected"))

	// Evaluation errors
	ErrDivideByZero = errors.New(f("division by zero"))
)

// ErrUndefinedValue is returned when an expression leaf is neither a
// number nor a known equate.
type ErrUndefinedValue string

func (err ErrUndefinedValue) Error() string {
	return f("undefined value '%v'", string(err))
}

// ErrEquateRange is returned when an equate file binds an integer that
// does not fit in 32 bits.
type ErrEquateRange string

func (err ErrEquateRange) Error() string {
	return f("equate %v out of range", string(err))
}

// ErrSyntax locates a parse failure within the expression text.
type ErrSyntax struct {
	Text string
	Pos  int
	Err  error
}

func (err *ErrSyntax) Error() string {
	return f("'%v' column %d %v", err.Text, err.Pos+1, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}
