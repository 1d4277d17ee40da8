package cpu

import (
	"fmt"
	"log"

	"github.com/ezrec/alu86/word"
)

// Result is the outcome of applying an instruction to a register bank.
type Result struct {
	Registers     Registers // Register bank after writeback.
	Flags         Flags     // Flags computed by the operation.
	FlagsAffected bool      // Set when Flags replaces the prior flags.
	Raw           int       // Unsaturated result.
	Line          string    // Execution log line.
}

// resolve returns the value of the second operand.
func (inst Instruction) resolve(regs Registers) int {
	if inst.HasImmediate {
		return int(inst.Immediate)
	}
	return regs.Get(inst.Source)
}

// Apply executes an instruction against a register bank, returning the
// updated bank, the new flags and the log line.
//
// On a division by zero, ErrDivideByZero is returned with the registers
// unchanged and FlagsAffected clear; the Line holds the error log entry.
func Apply(regs Registers, inst Instruction) (res Result, err error) {
	err = inst.Validate()
	if err != nil {
		return
	}

	res.Registers = regs

	op := inst.Operation

	var operand1, operand2 int
	var extra string

	switch op {
	case OP_ADD:
		operand1 = regs.Get(inst.Destination)
		operand2 = inst.resolve(regs)
		res.Raw = operand1 + operand2
	case OP_SUB:
		operand1 = regs.Get(inst.Destination)
		operand2 = inst.resolve(regs)
		res.Raw = operand1 - operand2
	case OP_MUL:
		operand1 = regs.Get(REG_AX)
		operand2 = regs.Get(inst.Source)
		res.Raw = operand1 * operand2
		if res.Raw > word.MAX {
			high := res.Raw / (word.MAX + 1)
			res.Registers.Set(REG_DX, high)
			extra = fmt.Sprintf(", DX = %v", word.FormatHex(high))
		}
	case OP_DIV:
		operand1 = regs.Get(REG_AX)
		operand2 = regs.Get(inst.Source)
		if operand2 == 0 {
			res.Line = fmt.Sprintf("%v → ERROR: Division by zero", inst)
			err = ErrDivideByZero
			return
		}
		res.Raw = operand1 / operand2
		remainder := operand1 % operand2
		res.Registers.Set(REG_DX, remainder)
		extra = fmt.Sprintf(", DX = %v", word.FormatHex(remainder))
	case OP_MOV:
		res.Raw = inst.resolve(regs)
	}

	target := inst.Target()
	res.Registers.Set(target, res.Raw)

	if op.AffectsFlags() {
		res.Flags, _ = ComputeFlags(op, operand1, operand2, res.Raw, SizeOf(op))
		res.FlagsAffected = true
	}

	res.Line = fmt.Sprintf("%v → %v = %v%v", inst, target, word.FormatHex(res.Raw), extra)

	return
}

// Cpu is the simulation context for the processor: one live register bank,
// flag set and execution log.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Registers Registers // Register bank.
	Flags     Flags     // Status flags.
	Log       []string  // Execution log, in execution order.
	Stage     Stage     // Current instruction cycle stage.

	OnStage StageFunc // Called on every stage transition, if set.

	Ticks int // Instructions completed since reset.
}

// NewCpu creates a new CPU in the all-zero state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() string {
	return fmt.Sprintf("%v flags=%v stage=%v", cpu.Registers, cpu.Flags, cpu.Stage)
}

// Reset the CPU to the all-zero state, and clear the log.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Registers[:])
	cpu.Flags = Flags{}
	cpu.Log = nil
	cpu.Stage = STAGE_IDLE
	cpu.Ticks = 0
}

// ClearLog empties the execution log.
func (cpu *Cpu) ClearLog() {
	cpu.Log = nil
}

// SetRegisters loads all four registers, clamping each value.
func (cpu *Cpu) SetRegisters(ax, bx, cx, dx int) Registers {
	cpu.Registers = MakeRegisters(ax, bx, cx, dx)

	if cpu.Verbose {
		log.Printf("cpu: set %v", cpu.Registers)
	}

	return cpu.Registers
}

// enter moves to a stage, notifying the stage hook.
func (cpu *Cpu) enter(stage Stage, inst Instruction) {
	cpu.Stage = stage

	if cpu.Verbose {
		log.Printf("cpu: %v: %v", stage, inst)
	}

	if cpu.OnStage != nil {
		cpu.OnStage(stage, inst)
	}
}

// Run parses and executes a line of instruction text. Invalid text is
// rejected before the instruction cycle is entered, and is not logged.
func (cpu *Cpu) Run(text string) (line string, err error) {
	inst, err := Parse(text)
	if err != nil {
		if cpu.Verbose {
			log.Printf("cpu: %q: %v", text, err)
		}
		return
	}

	return cpu.Execute(inst)
}

// Execute takes one instruction through the full instruction cycle and
// appends its log line.
//
// On a division by zero the registers and flags are left untouched, the
// error line is logged, and ErrDivideByZero is returned.
func (cpu *Cpu) Execute(inst Instruction) (line string, err error) {
	err = inst.Validate()
	if err != nil {
		return
	}

	// Writeback completes to idle, and a failed execute aborts to idle.
	defer func() {
		cpu.enter(STAGE_IDLE, inst)
	}()

	for stage := STAGE_FETCH; stage != STAGE_WRITEBACK; stage = stage.Next() {
		cpu.enter(stage, inst)
	}

	res, err := Apply(cpu.Registers, inst)
	line = res.Line
	if err != nil {
		cpu.Log = append(cpu.Log, line)
		if cpu.Verbose {
			log.Printf("cpu: %v: %v", inst, err)
		}
		return
	}

	cpu.enter(cpu.Stage.Next(), inst)

	cpu.Registers = res.Registers
	if res.FlagsAffected {
		cpu.Flags = res.Flags
	}

	cpu.Log = append(cpu.Log, line)
	cpu.Ticks++

	return
}
