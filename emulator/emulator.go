// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"iter"
	"log"
	"strings"
	"time"

	"github.com/ezrec/alu86/cpu"
	"github.com/ezrec/alu86/internal"
	"github.com/ezrec/alu86/trace"
)

// Policy selects how a run reacts to a runtime error.
type Policy int

const (
	POLICY_HALT = Policy(iota) // Stop at the first runtime error.
	POLICY_SKIP                // Record the error and continue.
)

func (p Policy) String() string {
	switch p {
	case POLICY_HALT:
		return "halt"
	case POLICY_SKIP:
		return "skip"
	}
	return "unknown"
}

// Emulator state. CPU + instruction list.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program listing.

	Policy Policy        // Runtime error policy for Run.
	Delay  time.Duration // Pause between instructions during Run.
	Trace  *trace.Trace  // If set, records every executed instruction.

	index    int                     // Index of the last executed instruction.
	programs []internal.Named[string] // User supplied programs.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
		index:   -1,
	}

	return
}

// Load installs a program, and rewinds to its start.
func (emu *Emulator) Load(prog *cpu.Program) {
	if prog == nil {
		prog = &cpu.Program{}
	}

	if emu.Verbose {
		log.Printf("emulator: load %d instructions", prog.Len())
	}

	emu.Program = prog
	emu.Rewind()
}

// Rewind the instruction index to before the first instruction.
func (emu *Emulator) Rewind() {
	emu.index = -1
}

// Reset the CPU to the all-zero state, and rewind the program.
// The loaded program and any trace are kept.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.Rewind()
}

// Index returns the index of the last executed instruction, or -1.
func (emu *Emulator) Index() int {
	return emu.index
}

// Remaining returns the count of instructions not yet executed.
func (emu *Emulator) Remaining() int {
	return emu.Program.Len() - (emu.index + 1)
}

// LineNo returns the source line number for the last executed instruction.
func (emu *Emulator) LineNo() int {
	if emu.index < 0 || emu.index >= emu.Program.Len() {
		return 0
	}

	return emu.Program.Lines[emu.index].LineNo
}

// Tick executes the next instruction to completion.
// done is set when there are no more instructions to execute.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	next := emu.index + 1
	if next >= emu.Program.Len() {
		done = true
		return
	}

	line := emu.Program.Lines[next]
	emu.index = next

	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: line.LineNo, Index: next, Err: err}
			if emu.Verbose {
				log.Printf("emulator: %v", err)
			}
		}
	}()

	var logLine string
	if line.Err != nil {
		// Invalid lines never enter the instruction cycle.
		err = line.Err
	} else {
		logLine, err = emu.Cpu.Execute(line.Instruction)
	}

	if emu.Trace != nil {
		emu.Trace.Record(next, line.Text, emu.Cpu.Registers, emu.Cpu.Flags, logLine, err)
	}

	return
}

// wait pauses for the inter-instruction delay, or until ctx is done.
func (emu *Emulator) wait(ctx context.Context) (err error) {
	if emu.Delay <= 0 {
		err = ctx.Err()
		return
	}

	timer := time.NewTimer(emu.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		err = ctx.Err()
	case <-timer.C:
	}

	return
}

// Run executes every remaining instruction in order. Each instruction
// completes before the next starts, and cancellation of ctx only prevents
// the next instruction from starting.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	var errs []error

	if emu.Verbose {
		log.Printf("emulator: run %d instructions, policy %v", emu.Remaining(), emu.Policy)
	}

	for n := 0; emu.Remaining() > 0; n++ {
		if n == 0 {
			err = ctx.Err()
		} else {
			err = emu.wait(ctx)
		}
		if err != nil {
			errs = append(errs, err)
			break
		}

		_, err = emu.Tick()
		if err != nil {
			errs = append(errs, err)
			if emu.Policy == POLICY_HALT {
				break
			}
		}
	}

	err = errors.Join(errs...)

	return
}

// ApplyPreset loads the named register preset.
func (emu *Emulator) ApplyPreset(name string) (err error) {
	preset, ok := internal.Lookup(Presets(), name)
	if !ok {
		err = ErrPresetUnknown
		return
	}

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.SetRegisters(preset.AX, preset.BX, preset.CX, preset.DX)

	return
}

// Programs iterates over the built-in programs, then the user programs.
func (emu *Emulator) Programs() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(
		internal.IterNamed(_programs),
		internal.IterNamed(emu.programs),
	)
}

// assemble converts program source to a program. Lines that do not
// decode are kept, and fail when they are reached.
func (emu *Emulator) assemble(source string) (prog *cpu.Program, err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose, KeepInvalid: true}
	prog, err = asm.Parse(strings.NewReader(source))
	return
}

// AddProgram adds a user program, after checking that it assembles.
// Undecodable instruction lines are not an assembly error.
func (emu *Emulator) AddProgram(name string, source string) (err error) {
	_, err = emu.assemble(source)
	if err != nil {
		return
	}

	emu.programs = append(emu.programs, internal.Named[string]{Name: name, Value: source})

	return
}

// LoadProgram assembles and loads the named program.
func (emu *Emulator) LoadProgram(name string) (err error) {
	source, ok := internal.Lookup(emu.Programs(), name)
	if !ok {
		err = ErrProgramUnknown
		return
	}

	prog, err := emu.assemble(source)
	if err != nil {
		return
	}

	emu.Load(prog)

	return
}
