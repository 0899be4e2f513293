package cpu

import (
	"iter"
)

// Opcode is one line of assembled code: its source location and either the
// generated instruction or the reason it could not be generated.
type Opcode struct {
	LineNo int      // Source line, from 0.
	Pc     uint32   // Address, from the instruction index.
	Words  []string // Source tokens.
	Code   Code     // Generated instruction, valid if Err is nil.
	Err    error    // Per-line diagnostic.
}

// Program is an assembled instruction listing.
type Program struct {
	Opcodes []Opcode
}

// NewProgram creates a program from a binary image.
func NewProgram(words []uint32) (prog *Program) {
	prog = &Program{
		Opcodes: make([]Opcode, len(words)),
	}

	for n, word := range words {
		prog.Opcodes[n] = Opcode{LineNo: n, Pc: uint32(n) * 4, Code: Code(word)}
	}

	return
}

type Debug struct {
	*Opcode
}

// Debug finds the opcode loaded at a program counter, or a zero Debug.
func (prog *Program) Debug(pc uint32) (dbg Debug) {
	for addr, op := range prog.Loaded() {
		if addr == pc {
			dbg = Debug{Opcode: op}
			break
		}
	}

	return
}

// Binary returns the instruction words of every successfully assembled line.
func (prog *Program) Binary() (bins []uint32) {
	for _, op := range prog.Loaded() {
		bins = append(bins, uint32(op.Code))
	}

	return
}

// Codes iterates the loaded address and instruction of each good opcode.
func (prog *Program) Codes() iter.Seq2[uint32, Code] {
	return func(yield func(pc uint32, code Code) bool) {
		for pc, op := range prog.Loaded() {
			if !yield(pc, op.Code) {
				return
			}
		}
	}
}

// Loaded iterates the good opcodes by the address they load at. Failed lines
// are skipped and take no address.
func (prog *Program) Loaded() iter.Seq2[uint32, *Opcode] {
	return func(yield func(pc uint32, op *Opcode) bool) {
		var pc uint32
		for n := range prog.Opcodes {
			op := &prog.Opcodes[n]
			if op.Err != nil {
				continue
			}
			if !yield(pc, op) {
				return
			}
			pc += 4
		}
	}
}

// Errors iterates the per-line diagnostics.
func (prog *Program) Errors() iter.Seq[error] {
	return func(yield func(err error) bool) {
		for _, op := range prog.Opcodes {
			if op.Err == nil {
				continue
			}
			if !yield(op.Err) {
				return
			}
		}
	}
}
