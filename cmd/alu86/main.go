// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/ezrec/alu86/cpu"
	"github.com/ezrec/alu86/emulator"
	"github.com/ezrec/alu86/repl"
	"github.com/ezrec/alu86/trace"
	"github.com/ezrec/alu86/word"
)

// listFlag collects a repeatable string flag.
type listFlag []string

func (lf *listFlag) String() string {
	return strings.Join(*lf, "; ")
}

func (lf *listFlag) Set(value string) error {
	*lf = append(*lf, value)
	return nil
}

// parseRegisters parses a AX=..,BX=.. register list.
func parseRegisters(text string) (regs map[cpu.Register]int, err error) {
	regs = map[cpu.Register]int{}
	for _, item := range strings.Split(text, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok {
			err = fmt.Errorf("%w: %q", cpu.ErrRegisterInvalid, item)
			return
		}
		reg, ok := cpu.LookupRegister(strings.ToUpper(strings.TrimSpace(name)))
		if !ok {
			err = fmt.Errorf("%w: %q", cpu.ErrRegisterInvalid, name)
			return
		}
		regs[reg] = word.ParseValue(strings.TrimSpace(value))
	}
	return
}

// writeTrace exports the trace to a file.
func writeTrace(ctx context.Context, path string, export func(ctx context.Context, w io.Writer) error) (err error) {
	ouf, err := os.Create(path)
	if err != nil {
		return
	}
	defer func() {
		_err := ouf.Close()
		if err == nil {
			err = _err
		}
	}()

	err = export(ctx, ouf)
	return
}

func main() {
	var compile string
	var program string
	var execute listFlag
	var registers string
	var preset string
	var interactive bool
	var skip bool
	var delay time.Duration
	var csvTrace string
	var jsonTrace string
	var parquetTrace string
	var verbose bool

	flag.StringVar(&compile, "c", "", "Instruction list file to assemble")
	flag.StringVar(&program, "p", "", "Sample program to load")
	flag.Var(&execute, "e", "Instruction to execute (repeatable)")
	flag.StringVar(&registers, "r", "", "Initial registers, as AX=..,BX=..")
	flag.StringVar(&preset, "preset", "", "Register preset to apply")
	flag.BoolVar(&interactive, "i", false, "Interactive mode")
	flag.DurationVar(&delay, "delay", 0, "Delay between instructions")
	flag.BoolVar(&skip, "skip", false, "Skip failing instructions, do not halt")
	flag.StringVar(&csvTrace, "t", "", "CSV trace output")
	flag.StringVar(&jsonTrace, "json", "", "JSON trace output")
	flag.StringVar(&parquetTrace, "parquet", "", "Parquet trace output")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	sources := 0
	for _, set := range []bool{len(compile) != 0, len(program) != 0, len(execute) != 0} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		log.Fatalf("%v: only one of -c, -p or -e may be used", os.Args[0])
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Delay = delay
	if skip {
		emu.Policy = emulator.POLICY_SKIP
	}

	if len(csvTrace) != 0 || len(jsonTrace) != 0 || len(parquetTrace) != 0 {
		emu.Trace = trace.New()
	}

	if len(preset) != 0 {
		err := emu.ApplyPreset(preset)
		if err != nil {
			log.Fatalf("%v: %v", preset, err)
		}
	}

	if len(registers) != 0 {
		regs, err := parseRegisters(registers)
		if err != nil {
			log.Fatalf("%v: %v", registers, err)
		}
		for reg, value := range regs {
			emu.Registers.Set(reg, value)
		}
	}

	// Assemble a new instruction list.
	switch {
	case len(compile) != 0:
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		prog, err := asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		emu.Load(prog)
	case len(program) != 0:
		err := emu.LoadProgram(program)
		if err != nil {
			log.Fatalf("%v: %v", program, err)
		}
	case len(execute) != 0:
		prog, err := cpu.NewProgram(execute...)
		if err != nil {
			log.Fatalf("%v: %v", os.Args[0], err)
		}
		emu.Load(prog)
	}

	var runErr error
	if interactive {
		err := repl.New(emu).Start(ctx, os.Stdin, os.Stdout)
		if err != nil {
			log.Fatalf("%v: %v", os.Args[0], err)
		}
	} else {
		runErr = emu.Run(ctx)
		for _, line := range emu.Log {
			fmt.Println(line)
		}
		fmt.Println(emu.Registers)
		fmt.Println(emu.Flags)
	}

	if emu.Trace != nil {
		if len(csvTrace) != 0 {
			err := writeTrace(context.Background(), csvTrace, emu.Trace.WriteCSV)
			if err != nil {
				log.Fatalf("%v: %v", csvTrace, err)
			}
		}
		if len(jsonTrace) != 0 {
			err := writeTrace(context.Background(), jsonTrace, emu.Trace.WriteJSON)
			if err != nil {
				log.Fatalf("%v: %v", jsonTrace, err)
			}
		}
		if len(parquetTrace) != 0 {
			err := emu.Trace.WriteParquet(context.Background(), parquetTrace)
			if err != nil {
				log.Fatalf("%v: %v", parquetTrace, err)
			}
		}
	}

	if runErr != nil {
		log.Fatalf("%v: %v", os.Args[0], runErr)
	}
}
