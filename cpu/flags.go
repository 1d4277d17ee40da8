package cpu

import (
	"strings"

	"github.com/ezrec/alu86/word"
)

// Flags is the processor status flag set.
type Flags struct {
	ZF bool // Zero
	CF bool // Carry
	SF bool // Sign
	OF bool // Signed overflow
}

// String returns the flags as letters, upper case when set.
func (fl Flags) String() string {
	s := strings.Builder{}

	letters := []struct {
		set   bool
		label rune
	}{
		{fl.ZF, 'Z'},
		{fl.CF, 'C'},
		{fl.SF, 'S'},
		{fl.OF, 'O'},
	}

	for _, letter := range letters {
		if letter.set {
			s.WriteRune(letter.label)
		} else {
			s.WriteRune(letter.label + ('a' - 'A'))
		}
	}

	return s.String()
}

// ComputeFlags computes the status flags for an operation from its operands
// and its raw result, in a field of size bits. The result is the raw
// result truncated to the field.
//
// The flags depend only on the arguments; no prior flag state is used.
func ComputeFlags(op Operation, operand1, operand2, raw int, size uint) (flags Flags, result int) {
	mask := word.Mask(size)
	sign := word.SignBit(size)

	negative := func(v int) bool { return (v & sign) != 0 }

	result = raw & mask

	flags.ZF = result == 0
	flags.SF = negative(result)

	switch op {
	case OP_ADD:
		flags.CF = raw > mask
		flags.OF = negative(operand1) == negative(operand2) && negative(result) != negative(operand1)
	case OP_SUB:
		flags.CF = (operand1 & mask) < (operand2 & mask)
		flags.OF = negative(operand1) != negative(operand2) && negative(result) != negative(operand1)
	case OP_MUL:
		// Upper half of the product is non-zero.
		flags.CF = (raw &^ mask) != 0
		flags.OF = flags.CF
	default:
		// DIV, and anything else, leaves carry and overflow clear.
	}

	return
}
