// Package repl is an interactive line-oriented front end to the emulator.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ezrec/alu86/cpu"
	"github.com/ezrec/alu86/emulator"
	"github.com/ezrec/alu86/word"
)

const prompt = "alu86> "

// MsgInvalid is printed for input that is neither a command nor a valid
// instruction.
const MsgInvalid = "Invalid instruction format!"

// REPL provides an interactive Read-Eval-Print Loop over an emulator.
type REPL struct {
	emu  *emulator.Emulator
	quit bool
}

// New creates a new REPL instance around an emulator.
// A nil emulator is replaced with a fresh one.
func New(emu *emulator.Emulator) *REPL {
	if emu == nil {
		emu = emulator.NewEmulator()
	}

	return &REPL{
		emu: emu,
	}
}

// Emulator returns the emulator driven by the REPL.
func (r *REPL) Emulator() *emulator.Emulator {
	return r.emu
}

// Start runs the REPL loop until the input ends or a quit command.
func (r *REPL) Start(ctx context.Context, in io.Reader, out io.Writer) (err error) {
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, "ALU86 REPL - 8086 arithmetic unit simulator")
	fmt.Fprintln(out, "Type 'help' for available commands, 'quit' to exit")
	fmt.Fprintln(out)

	r.quit = false
	for !r.quit {
		fmt.Fprint(out, prompt)

		if !scanner.Scan() {
			break
		}

		r.eval(ctx, scanner.Text(), out)
	}

	err = scanner.Err()
	return
}

func (r *REPL) eval(ctx context.Context, line string, out io.Writer) {
	if handled := r.handleCommand(ctx, line, out); handled {
		return
	}

	inst, err := cpu.Parse(strings.TrimSpace(line))
	if err != nil {
		fmt.Fprintln(out, MsgInvalid)
		return
	}

	text, _ := r.emu.Cpu.Execute(inst)
	fmt.Fprintln(out, text)
}

func (r *REPL) handleCommand(ctx context.Context, line string, out io.Writer) bool {
	parts := strings.Fields(line)

	if len(parts) == 0 {
		return true
	}

	args := parts[1:]

	switch strings.ToLower(parts[0]) {
	case "quit", "exit":
		fmt.Fprintln(out, "Goodbye!")
		r.quit = true

	case "help", "?":
		r.printHelp(out)

	case "regs":
		fmt.Fprintln(out, r.emu.Registers)

	case "flags":
		fmt.Fprintln(out, r.emu.Flags)

	case "stage":
		r.stage(args, out)

	case "log":
		if len(r.emu.Log) == 0 {
			fmt.Fprintln(out, "Log is empty")
		}
		for n, entry := range r.emu.Log {
			fmt.Fprintf(out, "%3d: %s\n", n+1, entry)
		}

	case "clear":
		r.emu.ClearLog()
		fmt.Fprintln(out, "Log cleared")

	case "reset":
		r.emu.Reset()
		fmt.Fprintln(out, r.emu.Registers)

	case "set":
		r.set(args, out)

	case "preset":
		if len(args) == 0 {
			for name, preset := range emulator.Presets() {
				fmt.Fprintf(out, "  %-14s %v\n", name, preset.Registers())
			}
			break
		}
		err := r.emu.ApplyPreset(strings.Join(args, " "))
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			break
		}
		fmt.Fprintln(out, r.emu.Registers)

	case "programs":
		for name, source := range r.emu.Programs() {
			fmt.Fprintf(out, "  %s: %s\n", name, strings.ReplaceAll(source, "\n", " / "))
		}

	case "load":
		if len(args) == 0 {
			fmt.Fprintln(out, "Usage: load <program name>")
			break
		}
		name := strings.Join(args, " ")
		err := r.emu.LoadProgram(name)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			break
		}
		fmt.Fprintf(out, "Loaded '%s' (%d instructions)\n", name, r.emu.Program.Len())

	case "step":
		before := len(r.emu.Log)
		done, err := r.emu.Tick()
		if done {
			fmt.Fprintln(out, "No more instructions")
			break
		}
		r.printLog(before, out)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}

	case "run":
		before := len(r.emu.Log)
		err := r.emu.Run(ctx)
		r.printLog(before, out)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}

	default:
		return false
	}

	return true
}

// printLog prints the log entries appended since an earlier log length.
func (r *REPL) printLog(from int, out io.Writer) {
	if from > len(r.emu.Log) {
		from = 0
	}
	for _, entry := range r.emu.Log[from:] {
		fmt.Fprintln(out, entry)
	}
}

func (r *REPL) set(args []string, out io.Writer) {
	if len(args) != 2 {
		fmt.Fprintln(out, "Usage: set <register> <value>")
		return
	}

	reg, ok := cpu.LookupRegister(strings.ToUpper(args[0]))
	if !ok {
		fmt.Fprintf(out, "Error: %v: %s\n", cpu.ErrRegisterInvalid, args[0])
		return
	}

	r.emu.Registers.Set(reg, word.ParseValue(args[1]))
	fmt.Fprintln(out, r.emu.Registers)
}

func (r *REPL) stage(args []string, out io.Writer) {
	if len(args) == 0 {
		fmt.Fprintln(out, r.emu.Stage)
		return
	}

	switch strings.ToLower(args[0]) {
	case "on":
		r.emu.OnStage = func(stage cpu.Stage, inst cpu.Instruction) {
			fmt.Fprintf(out, "  [%v] %v\n", stage, inst)
		}
		fmt.Fprintln(out, "Stage tracing on")
	case "off":
		r.emu.OnStage = nil
		fmt.Fprintln(out, "Stage tracing off")
	default:
		fmt.Fprintln(out, "Usage: stage [on|off]")
	}
}

func (r *REPL) printHelp(out io.Writer) {
	help := `
ALU86 REPL Commands:
  help, ?            Show this help message
  quit, exit         Exit the REPL
  regs               Show the registers
  flags              Show the flags (upper case when set)
  stage [on|off]     Show the pipeline stage, or trace stage changes
  log                Show the execution log
  clear              Clear the execution log
  reset              Reset registers, flags and log to zero
  set <reg> <value>  Set a register (decimal, or hex with H suffix)
  preset [name]      List the register presets, or apply one
  programs           List the sample programs
  load <name>        Load a sample program
  step               Execute the next program instruction
  run                Execute the rest of the program

Instructions:
  ADD AX, BX    SUB CX, 3    MOV DX, 0FFH    MUL BX    DIV CX
`
	fmt.Fprint(out, help)
}
