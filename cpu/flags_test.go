package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/alu86/word"
)

func TestComputeFlags(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		op       Operation
		operand1 int
		operand2 int
		raw      int
		size     uint
		flags    Flags
		result   int
	}){
		{"add_carry", OP_ADD, 255, 1, 256, 8, Flags{ZF: true, CF: true}, 0},
		{"add_overflow", OP_ADD, 127, 1, 128, 8, Flags{SF: true, OF: true}, 128},
		{"add_zero", OP_ADD, 0, 0, 0, 8, Flags{ZF: true}, 0},
		{"add_plain", OP_ADD, 10, 5, 15, 8, Flags{}, 15},
		{"add_neg_neg", OP_ADD, 0x80, 0x80, 0x100, 8, Flags{ZF: true, CF: true, OF: true}, 0},
		{"add_word_operands", OP_ADD, 300, 1, 301, 8, Flags{CF: true}, 45},
		{"sub_borrow", OP_SUB, 5, 10, -5, 8, Flags{CF: true, SF: true}, 251},
		{"sub_zero", OP_SUB, 7, 7, 0, 8, Flags{ZF: true}, 0},
		{"sub_overflow", OP_SUB, 0x80, 1, 0x7f, 8, Flags{OF: true}, 0x7f},
		{"sub_pos_neg", OP_SUB, 1, 0x80, -127, 8, Flags{CF: true, SF: true, OF: true}, 0x81},
		{"mul_overflow", OP_MUL, 65535, 2, 131070, 16, Flags{CF: true, SF: true, OF: true}, 0xfffe},
		{"mul_fits", OP_MUL, 250, 2, 500, 16, Flags{}, 500},
		{"mul_zero", OP_MUL, 0, 1234, 0, 16, Flags{ZF: true}, 0},
		{"mul_high_only", OP_MUL, 256, 256, 65536, 16, Flags{ZF: true, CF: true, OF: true}, 0},
		{"div", OP_DIV, 20, 4, 5, 16, Flags{}, 5},
		{"div_zero_quotient", OP_DIV, 3, 4, 0, 16, Flags{ZF: true}, 0},
		{"div_sign", OP_DIV, 0xffff, 1, 0xffff, 16, Flags{SF: true}, 0xffff},
		{"mov", OP_MOV, 0, 0, 0x80, 8, Flags{SF: true}, 0x80},
		{"none", OP_NONE, 1, 1, 0x1ff, 8, Flags{SF: true}, 0xff},
	}

	for _, entry := range table {
		flags, result := ComputeFlags(entry.op, entry.operand1, entry.operand2, entry.raw, entry.size)
		assert.Equal(entry.flags, flags, entry.name)
		assert.Equal(entry.result, result, entry.name)
	}
}

func TestFlagsString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("zcso", Flags{}.String())
	assert.Equal("ZCSO", Flags{ZF: true, CF: true, SF: true, OF: true}.String())
	assert.Equal("ZCso", Flags{ZF: true, CF: true}.String())
	assert.Equal("zcSO", Flags{SF: true, OF: true}.String())
}

func TestSizeOf(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(word.SIZE_BYTE, SizeOf(OP_ADD))
	assert.Equal(word.SIZE_BYTE, SizeOf(OP_SUB))
	assert.Equal(word.SIZE_WORD, SizeOf(OP_MUL))
	assert.Equal(word.SIZE_WORD, SizeOf(OP_DIV))
	assert.Equal(word.SIZE_WORD, SizeOf(OP_MOV))
}

func FuzzComputeFlags(f *testing.F) {
	f.Add(uint16(255), uint16(1), uint8(OP_ADD))
	f.Add(uint16(5), uint16(10), uint8(OP_SUB))
	f.Add(uint16(0xffff), uint16(2), uint8(OP_MUL))
	f.Add(uint16(20), uint16(4), uint8(OP_DIV))

	f.Fuzz(func(t *testing.T, a, b uint16, opByte uint8) {
		assert := assert.New(t)

		op := Operation(opByte%5) + OP_ADD
		size := SizeOf(op)
		mask := word.Mask(size)

		var raw int
		switch op {
		case OP_ADD:
			raw = int(a) + int(b)
		case OP_SUB:
			raw = int(a) - int(b)
		case OP_MUL:
			raw = int(a) * int(b)
		case OP_DIV:
			if b == 0 {
				return
			}
			raw = int(a) / int(b)
		case OP_MOV:
			raw = int(b)
		}

		flags, result := ComputeFlags(op, int(a), int(b), raw, size)
		again, resultAgain := ComputeFlags(op, int(a), int(b), raw, size)
		assert.Equal(flags, again)
		assert.Equal(result, resultAgain)

		assert.GreaterOrEqual(result, 0)
		assert.LessOrEqual(result, mask)
		assert.Equal(result == 0, flags.ZF)
		assert.Equal(result&word.SignBit(size) != 0, flags.SF)

		switch op {
		case OP_ADD:
			assert.Equal(raw > mask, flags.CF)
			// Signed interpretation must disagree with the truncated result on overflow.
			signed := func(v int) int {
				v &= mask
				if v&word.SignBit(size) != 0 {
					v -= mask + 1
				}
				return v
			}
			sum := signed(int(a)) + signed(int(b))
			assert.Equal(sum != signed(result), flags.OF)
		case OP_MUL:
			assert.Equal(flags.CF, flags.OF)
			assert.Equal(raw > mask, flags.CF)
		case OP_DIV, OP_MOV:
			assert.False(flags.CF)
			assert.False(flags.OF)
		}
	})
}
