package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/alu86/cpu"
	"github.com/ezrec/alu86/trace"
)

func TestParseRegisters(t *testing.T) {
	assert := assert.New(t)

	regs, err := parseRegisters("AX=10, bx=0FFH,DX=70000")
	assert.NoError(err)
	assert.Equal(map[cpu.Register]int{
		cpu.REG_AX: 10,
		cpu.REG_BX: 255,
		cpu.REG_DX: 65535,
	}, regs)

	for _, text := range []string{"AX", "EX=1", "AX=1,,BX=2"} {
		_, err = parseRegisters(text)
		assert.True(errors.Is(err, cpu.ErrRegisterInvalid), text)
	}
}

func TestListFlag(t *testing.T) {
	assert := assert.New(t)

	var lf listFlag
	assert.NoError(lf.Set("MOV AX, 1"))
	assert.NoError(lf.Set("MUL AX"))
	assert.Equal(listFlag{"MOV AX, 1", "MUL AX"}, lf)
	assert.Equal("MOV AX, 1; MUL AX", lf.String())
}

func TestWriteTrace(t *testing.T) {
	assert := assert.New(t)

	tr := trace.New()
	tr.Record(0, "MOV AX, 1", cpu.MakeRegisters(1, 0, 0, 0), cpu.Flags{}, "MOV AX, 1 → AX = 001H", nil)

	path := filepath.Join(t.TempDir(), "trace.csv")
	err := writeTrace(context.Background(), path, tr.WriteCSV)
	assert.NoError(err)

	data, err := os.ReadFile(path)
	assert.NoError(err)
	assert.True(strings.HasPrefix(string(data), strings.Join(trace.Columns, ",")+"\n"))

	// Export failures are reported.
	errExport := errors.New("export failed")
	err = writeTrace(context.Background(), path, func(ctx context.Context, w io.Writer) error {
		return errExport
	})
	assert.ErrorIs(err, errExport)

	// So are close failures, from a writer closed under the exporter.
	err = writeTrace(context.Background(), path, func(ctx context.Context, w io.Writer) error {
		return w.(*os.File).Close()
	})
	assert.ErrorIs(err, os.ErrClosed)

	err = writeTrace(context.Background(), filepath.Join(t.TempDir(), "missing", "trace.csv"), tr.WriteCSV)
	assert.Error(err)
}
