// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/alu86/word"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":   "0",
	"WORD_MAX": fmt.Sprintf("%d", word.MAX),
	"BYTE_MAX": fmt.Sprintf("%d", word.Mask(word.SIZE_BYTE)),
}

// Assembler is a single pass assembler for instruction lists.
type Assembler struct {
	Verbose     bool   // If set, verbosely logs the assembler actions.
	KeepInvalid bool   // If set, lines that fail to decode are kept with their error.
	Lines       []Line // List of assembled lines.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to line indexes.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
// Register names can not be equates.
func (asm *Assembler) Predefine(equ string, value string) (err error) {
	name := strings.ToUpper(equ)
	if _, isReg := LookupRegister(name); isReg {
		err = ErrEquateSyntax
		return
	}

	if asm.predefine == nil {
		asm.predefine = map[string]string{}
	}
	asm.predefine[name] = value

	return
}

// valueOf returns the integer value of an equate or literal word.
func (asm *Assembler) valueOf(text string) (value int, err error) {
	text = strings.ToUpper(text)
	if _, isReg := LookupRegister(text); isReg {
		err = ErrParseNumber(text)
		return
	}
	value, err = parseLiteral(text)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v int
		v, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt(v)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrParseExpression(expr), err)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(max(0, min(st_int64, word.MAX)))
	return
}

var (
	reParen = regexp.MustCompile(`\$\([^\$]*\)`)
	reWord  = regexp.MustCompile(`\b[A-Za-z_][A-Za-z0-9_]*\b`)
)

// parseLine performs expression, label and equate processing on a line.
func (asm *Assembler) parseLine(line string, lineno int) (text string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil && err == nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if strings.EqualFold(words[0], ".equ") {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		name := strings.ToUpper(words[1])
		if _, isReg := LookupRegister(name); isReg {
			err = ErrEquateSyntax
			return
		}
		if _, ok := asm.Equate[name]; ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[name] = words[2]
		return
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if _, ok := asm.Label[label]; ok {
			err = ErrLabelDuplicate
			return
		}
		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = len(asm.Lines)
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	text = strings.Join(words, " ")

	// Substitute equates for whole operand words, leaving the mnemonic alone.
	op, operands, _ := strings.Cut(text, " ")
	operands = reWord.ReplaceAllStringFunc(operands, func(name string) string {
		equate, ok := asm.Equate[strings.ToUpper(name)]
		if ok {
			return equate
		}
		return name
	})
	text = strings.TrimSpace(op + " " + operands)

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Lines = asm.Lines[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("asm: %v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var code string
		code, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}
		if len(code) == 0 {
			continue
		}

		var inst Instruction
		inst, err = Parse(code)
		if err != nil && asm.KeepInvalid {
			if asm.Verbose {
				log.Printf("asm: %v: kept invalid: %v\n", lineno, err)
			}
			asm.Lines = append(asm.Lines, Line{LineNo: lineno, Text: code, Err: err})
			err = nil
			continue
		}
		if err != nil {
			return
		}

		asm.Lines = append(asm.Lines, Line{LineNo: lineno, Text: code, Instruction: inst})
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	prog = &Program{
		Lines: slices.Clone(asm.Lines),
		Label: maps.Clone(asm.Label),
	}

	return
}
