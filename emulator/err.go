package emulator

import (
	"errors"

	"github.com/ezrec/alu86/translate"
)

var f = translate.From

var (
	ErrPresetUnknown  = errors.New(f("register preset unknown"))
	ErrProgramUnknown = errors.New(f("program unknown"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Index  int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d (instruction %d) %v", err.LineNo, err.Index, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
