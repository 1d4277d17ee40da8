package emulator

import (
	"iter"
	"strings"

	"github.com/ezrec/alu86/cpu"
	"github.com/ezrec/alu86/internal"
)

// Preset is a named set of initial register values.
type Preset struct {
	AX, BX, CX, DX int
}

// Registers returns the preset as a register bank.
func (p Preset) Registers() cpu.Registers {
	return cpu.MakeRegisters(p.AX, p.BX, p.CX, p.DX)
}

var _presets = []internal.Named[Preset]{
	{Name: "All Zero", Value: Preset{0, 0, 0, 0}},
	{Name: "Test Values", Value: Preset{10, 5, 2, 0}},
	{Name: "Large Numbers", Value: Preset{1000, 500, 100, 50}},
	{Name: "Hex Values", Value: Preset{255, 170, 85, 15}},
}

var _programs = []internal.Named[string]{
	{Name: "Basic Arithmetic", Value: strings.Join([]string{
		"MOV AX, 10",
		"MOV BX, 5",
		"ADD AX, BX",
		"SUB AX, 3",
		"MUL BX",
	}, "\n")},
	{Name: "Division Example", Value: strings.Join([]string{
		"MOV AX, 20",
		"MOV BX, 4",
		"DIV BX",
		"MOV CX, AX",
	}, "\n")},
	{Name: "Register Transfer", Value: strings.Join([]string{
		"MOV AX, 255",
		"MOV BX, AX",
		"MOV CX, BX",
		"MOV DX, CX",
	}, "\n")},
}

// Presets returns an iterator over the register presets.
func Presets() iter.Seq2[string, Preset] {
	return internal.IterNamed(_presets)
}
