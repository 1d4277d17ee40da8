package cpu

import (
	"fmt"
	"strings"

	"github.com/ezrec/alu86/word"
)

// Registers is the general-purpose register bank, indexed by Register.
type Registers [REGISTER_COUNT]uint16

// MakeRegisters creates a register bank, clamping each value.
func MakeRegisters(ax, bx, cx, dx int) (regs Registers) {
	for n, value := range []int{ax, bx, cx, dx} {
		regs[n] = uint16(word.Clamp(value))
	}
	return
}

// Get returns the value of a register.
func (regs Registers) Get(reg Register) int {
	return int(regs[reg])
}

// Set stores a clamped value into a register.
func (regs *Registers) Set(reg Register, value int) {
	regs[reg] = uint16(word.Clamp(value))
}

// String returns all registers in hex.
func (regs Registers) String() string {
	var parts []string
	for n, value := range regs {
		parts = append(parts, fmt.Sprintf("%v=%v", Register(n), word.FormatHex(int(value))))
	}
	return strings.Join(parts, " ")
}
