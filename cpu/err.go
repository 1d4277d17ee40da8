package cpu

import (
	"errors"

	"github.com/ezrec/alu86/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrDivideByZero = errors.New(f("division by zero"))

	// Instruction decode errors
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrOperationInvalid   = errors.New(f("operation invalid"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrOperandMissing     = errors.New(f("operand missing"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
)

// ErrParseNumber is a literal operand that is not a number.
type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

// Is reports ErrParseNumber as a kind of invalid instruction.
func (err ErrParseNumber) Is(target error) bool {
	return target == ErrInstructionInvalid
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}
