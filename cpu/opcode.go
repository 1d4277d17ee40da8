package cpu

import (
	"fmt"

	"github.com/ezrec/alu86/word"
)

// Operation is an instruction operation tag.
type Operation int

const (
	OP_NONE = Operation(0) // -
	OP_ADD  = Operation(1) // ADD
	OP_SUB  = Operation(2) // SUB
	OP_MUL  = Operation(3) // MUL
	OP_DIV  = Operation(4) // DIV
	OP_MOV  = Operation(5) // MOV
)

var operationNames = [...]string{"-", "ADD", "SUB", "MUL", "DIV", "MOV"}

// opMap is a map of mnemonics to operations.
var opMap = map[string]Operation{
	"ADD": OP_ADD,
	"SUB": OP_SUB,
	"MUL": OP_MUL,
	"DIV": OP_DIV,
	"MOV": OP_MOV,
}

func (op Operation) String() string {
	if op < 0 || int(op) >= len(operationNames) {
		return fmt.Sprintf("Operation(%d)", int(op))
	}
	return operationNames[op]
}

// Valid returns true for the five executable operations.
func (op Operation) Valid() bool {
	return op >= OP_ADD && op <= OP_MOV
}

// Binary returns true if the operation takes a destination and a second
// operand, rather than a single source acting on AX.
func (op Operation) Binary() bool {
	return op == OP_ADD || op == OP_SUB || op == OP_MOV
}

// AffectsFlags returns true if the operation recomputes the status flags.
func (op Operation) AffectsFlags() bool {
	return op.Valid() && op != OP_MOV
}

// SizeOf returns the field width used for flag computation.
// ADD and SUB are computed as byte operations, everything else as words.
func SizeOf(op Operation) uint {
	if op == OP_ADD || op == OP_SUB {
		return word.SIZE_BYTE
	}
	return word.SIZE_WORD
}

// Register names one of the four general-purpose registers.
type Register int

const (
	REG_NONE = Register(-1) // -
	REG_AX   = Register(0)  // AX
	REG_BX   = Register(1)  // BX
	REG_CX   = Register(2)  // CX
	REG_DX   = Register(3)  // DX

	REGISTER_COUNT = 4
)

var registerNames = [REGISTER_COUNT]string{"AX", "BX", "CX", "DX"}

// regMap is a map of register names to registers.
var regMap = map[string]Register{
	"AX": REG_AX,
	"BX": REG_BX,
	"CX": REG_CX,
	"DX": REG_DX,
}

// LookupRegister finds a register by its upper case name.
func LookupRegister(name string) (reg Register, ok bool) {
	reg, ok = regMap[name]
	if !ok {
		reg = REG_NONE
	}
	return
}

func (reg Register) String() string {
	if !reg.Valid() {
		return "-"
	}
	return registerNames[reg]
}

// Valid returns true for AX through DX.
func (reg Register) Valid() bool {
	return reg >= REG_AX && reg <= REG_DX
}

// Instruction is a decoded instruction.
//
// ADD, SUB and MOV use Destination and exactly one of Source or the
// Immediate. MUL and DIV use only Source, acting on AX.
type Instruction struct {
	Operation    Operation
	Destination  Register
	Source       Register
	Immediate    uint16
	HasImmediate bool
}

// MakeRegister creates a register-to-register or single-operand instruction.
// For MUL and DIV the destination is ignored.
func MakeRegister(op Operation, dst, src Register) Instruction {
	if !op.Binary() {
		dst = REG_NONE
	}
	return Instruction{Operation: op, Destination: dst, Source: src}
}

// MakeImmediate creates an instruction with an immediate second operand.
func MakeImmediate(op Operation, dst Register, value int) Instruction {
	return Instruction{
		Operation:    op,
		Destination:  dst,
		Source:       REG_NONE,
		Immediate:    uint16(word.Clamp(value)),
		HasImmediate: true,
	}
}

// Validate checks the operand combination against the operation.
func (inst Instruction) Validate() (err error) {
	switch {
	case !inst.Operation.Valid():
		err = ErrOperationInvalid
	case inst.Operation.Binary():
		switch {
		case !inst.Destination.Valid():
			err = ErrOperandMissing
		case inst.HasImmediate && inst.Source != REG_NONE:
			err = ErrRegisterInvalid
		case !inst.HasImmediate && !inst.Source.Valid():
			err = ErrOperandMissing
		}
	default:
		if !inst.Source.Valid() {
			err = ErrOperandMissing
		}
	}

	return
}

// Operand returns the display text of the second operand.
func (inst Instruction) Operand() string {
	if inst.HasImmediate {
		return fmt.Sprintf("%d", inst.Immediate)
	}
	return inst.Source.String()
}

// Target returns the register written by the operation result.
func (inst Instruction) Target() Register {
	if inst.Operation.Binary() {
		return inst.Destination
	}
	return REG_AX
}

// String returns the canonical assembly text.
func (inst Instruction) String() string {
	if inst.Operation.Binary() {
		return fmt.Sprintf("%v %v, %v", inst.Operation, inst.Destination, inst.Operand())
	}
	return fmt.Sprintf("%v %v", inst.Operation, inst.Source)
}
