// Package trace records the processor state after every executed
// instruction as a dataframe, and exports it as CSV, JSON or Parquet.
package trace

import (
	"context"
	"io"

	dataframe "github.com/rocketlaunchr/dataframe-go"
	"github.com/rocketlaunchr/dataframe-go/exports"
	"github.com/xitongsys/parquet-go-source/local"

	"github.com/ezrec/alu86/cpu"
)

// Column names, in frame order.
const (
	COL_STEP        = "step"
	COL_INSTRUCTION = "instruction"
	COL_AX          = "AX"
	COL_BX          = "BX"
	COL_CX          = "CX"
	COL_DX          = "DX"
	COL_ZF          = "ZF"
	COL_CF          = "CF"
	COL_SF          = "SF"
	COL_OF          = "OF"
	COL_LOG         = "log"
	COL_ERROR       = "error"
)

// Columns lists the trace column names in frame order.
var Columns = []string{
	COL_STEP, COL_INSTRUCTION,
	COL_AX, COL_BX, COL_CX, COL_DX,
	COL_ZF, COL_CF, COL_SF, COL_OF,
	COL_LOG, COL_ERROR,
}

// Trace is an execution trace.
type Trace struct {
	frame *dataframe.DataFrame
}

// New creates an empty trace.
func New() (tr *Trace) {
	tr = &Trace{}
	tr.Reset()
	return
}

// Reset discards all recorded rows.
func (tr *Trace) Reset() {
	tr.frame = dataframe.NewDataFrame(
		dataframe.NewSeriesInt64(COL_STEP, nil),
		dataframe.NewSeriesString(COL_INSTRUCTION, nil),
		dataframe.NewSeriesInt64(COL_AX, nil),
		dataframe.NewSeriesInt64(COL_BX, nil),
		dataframe.NewSeriesInt64(COL_CX, nil),
		dataframe.NewSeriesInt64(COL_DX, nil),
		dataframe.NewSeriesInt64(COL_ZF, nil),
		dataframe.NewSeriesInt64(COL_CF, nil),
		dataframe.NewSeriesInt64(COL_SF, nil),
		dataframe.NewSeriesInt64(COL_OF, nil),
		dataframe.NewSeriesString(COL_LOG, nil),
		dataframe.NewSeriesString(COL_ERROR, nil),
	)
}

func bit(set bool) int64 {
	if set {
		return 1
	}
	return 0
}

// Record appends the state after one instruction.
func (tr *Trace) Record(step int, text string, regs cpu.Registers, flags cpu.Flags, line string, err error) {
	var errText string
	if err != nil {
		errText = err.Error()
	}

	tr.frame.Append(nil,
		int64(step),
		text,
		int64(regs.Get(cpu.REG_AX)),
		int64(regs.Get(cpu.REG_BX)),
		int64(regs.Get(cpu.REG_CX)),
		int64(regs.Get(cpu.REG_DX)),
		bit(flags.ZF),
		bit(flags.CF),
		bit(flags.SF),
		bit(flags.OF),
		line,
		errText,
	)
}

// Len returns the number of recorded rows.
func (tr *Trace) Len() int {
	return tr.frame.NRows()
}

// Frame returns the underlying dataframe.
func (tr *Trace) Frame() *dataframe.DataFrame {
	return tr.frame
}

// WriteCSV exports the trace as CSV with a header row.
func (tr *Trace) WriteCSV(ctx context.Context, w io.Writer) error {
	return exports.ExportToCSV(ctx, w, tr.frame)
}

// WriteJSON exports the trace as JSON lines, one object per row.
func (tr *Trace) WriteJSON(ctx context.Context, w io.Writer) error {
	return exports.ExportToJSON(ctx, w, tr.frame)
}

// WriteParquet exports the trace to a Parquet file.
func (tr *Trace) WriteParquet(ctx context.Context, path string) (err error) {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return
	}
	defer func() {
		_err := fw.Close()
		if err == nil {
			err = _err
		}
	}()

	err = exports.ExportToParquet(ctx, fw, tr.frame)
	return
}
