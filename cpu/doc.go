// Package cpu implements the processor and assembler for a subset of the
// RV32I instruction set.
//
// The processor consists of a program counter (PC), thirty-two 32-bit
// general-purpose registers (x0-x31, with x0 hard-wired to zero), and a
// bounded word-addressed data memory. Instructions are fixed 32-bit words in
// one of the R, I, S, B or J formats; the word 0x00000063 is reserved as the
// halt sentinel.
//
// The assembler is a two-pass translator supporting labels, equates, and
// compile-time expression evaluation.
package cpu
