package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, prog.Len())

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal("65535", asm.Equate["WORD_MAX"])
	assert.Equal("255", asm.Equate["BYTE_MAX"])
}

func TestAssemblerProgram(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"; Basic arithmetic",
		"",
		"MOV AX, 10     ; AX = 10",
		"  mov bx, 5",
		"start: ADD AX, BX",
		"SUB AX, 3",
		"MUL BX",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if !assert.NoError(err) {
		t.Fatal(err)
	}

	expected := []Line{
		{3, "MOV AX, 10", MakeImmediate(OP_MOV, REG_AX, 10), nil},
		{4, "mov bx, 5", MakeImmediate(OP_MOV, REG_BX, 5), nil},
		{5, "ADD AX, BX", MakeRegister(OP_ADD, REG_AX, REG_BX), nil},
		{6, "SUB AX, 3", MakeImmediate(OP_SUB, REG_AX, 3), nil},
		{7, "MUL BX", MakeRegister(OP_MUL, REG_NONE, REG_BX), nil},
	}

	assert.Equal(expected, prog.Lines)
	assert.Equal(map[string]int{"start": 2}, prog.Label)
	assert.Equal([]string{"MOV AX, 10", "MOV BX, 5", "ADD AX, BX", "SUB AX, 3", "MUL BX"}, prog.Text())

	var indexes []int
	for n, inst := range prog.Instructions() {
		indexes = append(indexes, n)
		assert.Equal(expected[n].Instruction, inst)
	}
	assert.Equal([]int{0, 1, 2, 3, 4}, indexes)
}

func TestAssemblerEquate(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	assert.NoError(asm.Predefine("limit", "0FFH"))

	program := []string{
		".equ COUNT 10",
		".equ SRC cx",
		"MOV AX, COUNT",
		"MOV CX, LIMIT",
		"ADD AX, SRC",
		"MOV DX, $(COUNT * 3 + LIMIT)",
		"MOV BX, $(LINENO)",
		"MOV BX, $(COUNT - 100)",
		"MOV BX, WORD_MAX",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if !assert.NoError(err) {
		t.Fatal(err)
	}

	assert.Equal([]string{
		"MOV AX, 10",
		"MOV CX, 255",
		"ADD AX, CX",
		"MOV DX, 285",
		"MOV BX, 7",
		"MOV BX, 0",
		"MOV BX, 65535",
	}, prog.Text())
	assert.Equal("MOV CX, 0FFH", prog.Lines[1].Text)
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []string
		lineno  int
		err     error
	}){
		{"invalid", []string{"MOV AX, 1", "FOO BAR"}, 2, ErrInstructionInvalid},
		{"number", []string{"MOV AX, FF"}, 1, ErrInstructionInvalid},
		{"equ_syntax", []string{".equ A"}, 1, ErrEquateSyntax},
		{"equ_register", []string{".equ AX 5"}, 1, ErrEquateSyntax},
		{"equ_duplicate", []string{".equ A 1", ".equ a 2"}, 2, ErrEquateDuplicate},
		{"label_duplicate", []string{"x: MOV AX, 1", "x: MOV AX, 2"}, 2, ErrLabelDuplicate},
	}

	for _, entry := range table {
		asm := &Assembler{}
		_, err := asm.Parse(strings.NewReader(strings.Join(entry.program, "\n")))
		assert.ErrorIs(err, entry.err, entry.name)

		var syntax *ErrSyntax
		if assert.True(errors.As(err, &syntax), entry.name) {
			assert.Equal(entry.lineno, syntax.LineNo, entry.name)
		}
	}
}

func TestAssemblerExpressionError(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader("MOV AX, $(1 +)"))

	var expr ErrParseExpression
	assert.True(errors.As(err, &expr))
	assert.Equal(ErrParseExpression("1 +"), expr)

	_, err = asm.Parse(strings.NewReader(`MOV AX, $("text")`))
	assert.True(errors.As(err, &expr))
}

func TestAssemblerReuse(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	_, err := asm.Parse(strings.NewReader(".equ A 1\nl: MOV AX, A"))
	assert.NoError(err)

	// State from the prior parse must not leak.
	prog, err := asm.Parse(strings.NewReader(".equ A 2\nl: MOV AX, A"))
	assert.NoError(err)
	assert.Equal([]string{"MOV AX, 2"}, prog.Text())
}

func TestNewProgram(t *testing.T) {
	assert := assert.New(t)

	prog, err := NewProgram("MOV AX, 20", "MOV BX, 4", "DIV BX", "MOV CX, AX")
	assert.NoError(err)
	assert.Equal(4, prog.Len())

	cpu := NewCpu()
	for _, inst := range prog.Instructions() {
		_, err := cpu.Execute(inst)
		assert.NoError(err)
	}
	assert.Equal(MakeRegisters(5, 4, 5, 0), cpu.Registers)

	_, err = NewProgram("MOV AX, 1", "BAD")
	assert.ErrorIs(err, ErrInstructionInvalid)
}

func TestAssemblerPredefineRegister(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	for _, name := range []string{"AX", "bx", "Cx", "DX"} {
		assert.ErrorIs(asm.Predefine(name, "5"), ErrEquateSyntax, name)
	}

	// Register operands are left alone.
	prog, err := asm.Parse(strings.NewReader("MOV AX, BX\nMUL DX"))
	assert.NoError(err)
	assert.Equal([]string{"MOV AX, BX", "MUL DX"}, prog.Text())
	assert.Equal(MakeRegister(OP_MOV, REG_AX, REG_BX), prog.Lines[0].Instruction)
}

func TestAssemblerKeepInvalid(t *testing.T) {
	assert := assert.New(t)

	source := "MOV AX, 1\nJMP AX ; typo\nMUL AX"

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader(source))
	assert.ErrorIs(err, ErrInstructionInvalid)

	asm = &Assembler{KeepInvalid: true}
	prog, err := asm.Parse(strings.NewReader(source))
	assert.NoError(err)
	assert.Equal(3, prog.Len())
	assert.NoError(prog.Lines[0].Err)
	assert.ErrorIs(prog.Lines[1].Err, ErrInstructionInvalid)
	assert.Equal(2, prog.Lines[1].LineNo)
	assert.Equal("JMP AX", prog.Lines[1].Text)
	assert.Equal([]string{"MOV AX, 1", "JMP AX", "MUL AX"}, prog.Text())

	// Assembly errors still fail the whole list.
	_, err = asm.Parse(strings.NewReader(".equ\nMOV AX, 1"))
	assert.ErrorIs(err, ErrEquateSyntax)
}
