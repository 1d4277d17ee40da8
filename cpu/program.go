package cpu

import (
	"iter"
	"strings"
)

// Line is a single assembled instruction with its source location.
type Line struct {
	LineNo      int         // Source line number, starting at 1.
	Text        string      // Source text after comment removal and substitution.
	Instruction Instruction // Decoded instruction.
	Err         error       // Decode error, for a kept invalid line.
}

// Program is an ordered instruction list.
type Program struct {
	Lines []Line
	Label map[string]int // Map of labels to line indexes.
}

// NewProgram assembles instruction text lines into a program.
func NewProgram(lines ...string) (prog *Program, err error) {
	asm := &Assembler{}
	return asm.Parse(strings.NewReader(strings.Join(lines, "\n")))
}

// Len returns the number of instructions.
func (prog *Program) Len() int {
	return len(prog.Lines)
}

// Instructions iterates over the program instructions by index.
func (prog *Program) Instructions() iter.Seq2[int, Instruction] {
	return func(yield func(index int, inst Instruction) bool) {
		for n, line := range prog.Lines {
			if !yield(n, line.Instruction) {
				return
			}
		}
	}
}

// Text returns the canonical text of every instruction. Invalid lines
// keep their source text.
func (prog *Program) Text() (text []string) {
	for _, line := range prog.Lines {
		if line.Err != nil {
			text = append(text, line.Text)
			continue
		}
		text = append(text, line.Instruction.String())
	}
	return
}
