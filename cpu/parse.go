package cpu

import (
	"regexp"
	"strings"

	"github.com/ezrec/alu86/word"
)

var (
	// OP dst, src - ADD, SUB and MOV
	reBinary = regexp.MustCompile(`^(ADD|SUB|MOV)\s+([A-D]X),\s*([A-D]X|[0-9A-F]+H?|\d+)$`)
	// OP src - MUL and DIV
	reUnary = regexp.MustCompile(`^(MUL|DIV)\s+([A-D]X)$`)
)

// Parse decodes a single line of instruction text.
//
// The text is trimmed and upper cased before matching. A token of the form
// [A-D]X is always a register reference. Any other second operand is a
// literal: hex if it ends in 'H', decimal otherwise. Literals are clamped
// into [0, 0xffff].
func Parse(text string) (inst Instruction, err error) {
	line := strings.ToUpper(strings.TrimSpace(text))
	if len(line) == 0 {
		err = ErrInstructionInvalid
		return
	}

	if match := reUnary.FindStringSubmatch(line); match != nil {
		src, _ := LookupRegister(match[2])
		inst = MakeRegister(opMap[match[1]], REG_NONE, src)
		return
	}

	match := reBinary.FindStringSubmatch(line)
	if match == nil {
		err = ErrInstructionInvalid
		return
	}

	op := opMap[match[1]]
	dst, _ := LookupRegister(match[2])

	if src, ok := LookupRegister(match[3]); ok {
		inst = MakeRegister(op, dst, src)
		return
	}

	value, err := parseLiteral(match[3])
	if err != nil {
		return
	}

	inst = MakeImmediate(op, dst, value)
	return
}

// parseLiteral parses an upper case literal token, clamping the value.
// Only the leading digits are used, so 12AB is 12. A token with no
// leading digit is not a number.
func parseLiteral(token string) (value int, err error) {
	base := 10
	digits := token
	if hex, ok := strings.CutSuffix(token, "H"); ok {
		base = 16
		digits = hex
	}

	value, ok := word.ParseInt(digits, base)
	if !ok {
		err = ErrParseNumber(token)
	}

	return
}
