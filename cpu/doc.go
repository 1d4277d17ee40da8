// Package cpu implements the teaching processor and its assembler.
//
// The processor has four 16-bit general-purpose registers (AX, BX, CX, DX),
// a ZF/CF/SF/OF status flag set, and executes one of five instructions (ADD,
// SUB, MUL, DIV, MOV) at a time through a strictly sequential fetch, decode,
// execute and writeback cycle. Register values saturate into [0, 0xffff];
// status flags are computed from the unsaturated result masked to a field
// width of 8 bits for ADD/SUB and 16 bits for MUL/DIV.
//
// The assembler turns a list of instruction lines, with comments, labels,
// equates and compile-time $(...) expressions, into a Program.
package cpu
