package cpu

import (
	"fmt"

	"github.com/ezrec/rv32i/bitfield"
)

// CodeFormat is an instruction encoding format.
type CodeFormat int

//go:generate go tool stringer -linecomment -type=CodeFormat
const (
	FORMAT_R    = CodeFormat(0) // R
	FORMAT_I    = CodeFormat(1) // I
	FORMAT_S    = CodeFormat(2) // S
	FORMAT_B    = CodeFormat(3) // B
	FORMAT_J    = CodeFormat(4) // J
	FORMAT_HALT = CodeFormat(5) // halt
)

// CodeOp is a decoded operation.
type CodeOp int

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	OP_ADD  = CodeOp(0)  // add
	OP_SUB  = CodeOp(1)  // sub
	OP_SLT  = CodeOp(2)  // slt
	OP_SRL  = CodeOp(3)  // srl
	OP_OR   = CodeOp(4)  // or
	OP_AND  = CodeOp(5)  // and
	OP_LW   = CodeOp(6)  // lw
	OP_ADDI = CodeOp(7)  // addi
	OP_JALR = CodeOp(8)  // jalr
	OP_SW   = CodeOp(9)  // sw
	OP_BEQ  = CodeOp(10) // beq
	OP_BNE  = CodeOp(11) // bne
	OP_JAL  = CodeOp(12) // jal
	OP_HALT = CodeOp(13) // halt
)

// Major opcodes, the low 7 bits of every instruction word.
const (
	OPCODE_OP     = uint32(0b0110011) // R-type ALU
	OPCODE_LOAD   = uint32(0b0000011) // lw
	OPCODE_OP_IMM = uint32(0b0010011) // addi
	OPCODE_JALR   = uint32(0b1100111) // jalr
	OPCODE_STORE  = uint32(0b0100011) // sw
	OPCODE_BRANCH = uint32(0b1100011) // beq, bne
	OPCODE_JAL    = uint32(0b1101111) // jal
)

// CODE_HALT is the halt sentinel: a branch opcode with every other field
// zero. It is the same word as 'beq zero, zero, 0' and is recognized by the
// fetch stage before decode.
const CODE_HALT = Code(OPCODE_BRANCH)

// Immediate widths, in bits, as held by the instruction word.
const (
	IMM_I_BITS = 12
	IMM_S_BITS = 12
	IMM_B_BITS = 13 // imm[12:1], bit 0 implied zero
	IMM_J_BITS = 21 // imm[20:1], bit 0 implied zero
)

// opInfo is the encoding of a single operation.
type opInfo struct {
	format CodeFormat
	opcode uint32
	funct3 uint32
	funct7 uint32
}

var opTable = map[CodeOp]opInfo{
	OP_ADD:  {FORMAT_R, OPCODE_OP, 0b000, 0b0000000},
	OP_SUB:  {FORMAT_R, OPCODE_OP, 0b000, 0b0100000},
	OP_SLT:  {FORMAT_R, OPCODE_OP, 0b010, 0b0000000},
	OP_SRL:  {FORMAT_R, OPCODE_OP, 0b101, 0b0000000},
	OP_OR:   {FORMAT_R, OPCODE_OP, 0b110, 0b0000000},
	OP_AND:  {FORMAT_R, OPCODE_OP, 0b111, 0b0000000},
	OP_LW:   {FORMAT_I, OPCODE_LOAD, 0b010, 0},
	OP_ADDI: {FORMAT_I, OPCODE_OP_IMM, 0b000, 0},
	OP_JALR: {FORMAT_I, OPCODE_JALR, 0b000, 0},
	OP_SW:   {FORMAT_S, OPCODE_STORE, 0b010, 0},
	OP_BEQ:  {FORMAT_B, OPCODE_BRANCH, 0b000, 0},
	OP_BNE:  {FORMAT_B, OPCODE_BRANCH, 0b001, 0},
	OP_JAL:  {FORMAT_J, OPCODE_JAL, 0, 0},
	OP_HALT: {FORMAT_HALT, OPCODE_BRANCH, 0, 0},
}

// Format returns the encoding format of the operation.
func (op CodeOp) Format() CodeFormat {
	return opTable[op].format
}

// Code is a single 32-bit instruction word.
type Code uint32

// Instruction is a decoded instruction word.
type Instruction struct {
	Format CodeFormat
	Op     CodeOp
	Rd     Register
	Rs1    Register
	Rs2    Register
	Imm    int32 // Sign-extended; byte offset for B and J.
}

// makeBase packs the fields shared by every format.
func makeBase(op CodeOp, rd Register, rs1 Register, rs2 Register) (word uint32) {
	info := opTable[op]
	word = info.opcode |
		(uint32(rd&0x1f) << 7) |
		(info.funct3 << 12) |
		(uint32(rs1&0x1f) << 15) |
		(uint32(rs2&0x1f) << 20) |
		(info.funct7 << 25)
	return
}

// MakeCodeR creates a register-register instruction.
func MakeCodeR(op CodeOp, rd, rs1, rs2 Register) Code {
	return Code(makeBase(op, rd, rs1, rs2))
}

// MakeCodeI creates a register-immediate instruction. The immediate is
// truncated to 12 bits.
func MakeCodeI(op CodeOp, rd, rs1 Register, imm int64) Code {
	immU := bitfield.Truncate(imm, IMM_I_BITS)
	return Code(makeBase(op, rd, rs1, 0) | (immU << 20))
}

// MakeCodeS creates a store instruction. The immediate is truncated to 12
// bits and split around the register fields.
func MakeCodeS(op CodeOp, rs1, rs2 Register, imm int64) Code {
	immU := bitfield.Truncate(imm, IMM_S_BITS)
	return Code(makeBase(op, 0, rs1, rs2) |
		(bitfield.Field(immU, 0, 5) << 7) |
		(bitfield.Field(immU, 5, 7) << 25))
}

// MakeCodeB creates a conditional branch. The byte offset is truncated to 13
// bits, bit 0 is dropped, and the remainder scattered as imm[12|10:5] in the
// top bits and imm[4:1|11] in the low bits.
func MakeCodeB(op CodeOp, rs1, rs2 Register, offset int64) Code {
	immU := bitfield.Truncate(offset, IMM_B_BITS)
	return Code(makeBase(op, 0, rs1, rs2) |
		(bitfield.Field(immU, 11, 1) << 7) |
		(bitfield.Field(immU, 1, 4) << 8) |
		(bitfield.Field(immU, 5, 6) << 25) |
		(bitfield.Field(immU, 12, 1) << 31))
}

// MakeCodeJ creates a jump-and-link. The byte offset is truncated to 21
// bits, bit 0 is dropped, and the remainder scattered as
// imm[20|10:1|11|19:12].
func MakeCodeJ(op CodeOp, rd Register, offset int64) Code {
	immU := bitfield.Truncate(offset, IMM_J_BITS)
	return Code(makeBase(op, rd, 0, 0) |
		(bitfield.Field(immU, 12, 8) << 12) |
		(bitfield.Field(immU, 11, 1) << 20) |
		(bitfield.Field(immU, 1, 10) << 21) |
		(bitfield.Field(immU, 20, 1) << 31))
}

// MakeCode creates an instruction from a decoded form.
func MakeCode(inst Instruction) (code Code) {
	switch inst.Op.Format() {
	case FORMAT_R:
		code = MakeCodeR(inst.Op, inst.Rd, inst.Rs1, inst.Rs2)
	case FORMAT_I:
		code = MakeCodeI(inst.Op, inst.Rd, inst.Rs1, int64(inst.Imm))
	case FORMAT_S:
		code = MakeCodeS(inst.Op, inst.Rs1, inst.Rs2, int64(inst.Imm))
	case FORMAT_B:
		code = MakeCodeB(inst.Op, inst.Rs1, inst.Rs2, int64(inst.Imm))
	case FORMAT_J:
		code = MakeCodeJ(inst.Op, inst.Rd, int64(inst.Imm))
	case FORMAT_HALT:
		code = CODE_HALT
	}
	return
}

// Opcode returns the major opcode field.
func (code Code) Opcode() uint32 {
	return bitfield.Field(uint32(code), 0, 7)
}

// Rd returns the destination register field.
func (code Code) Rd() Register {
	return Register(bitfield.Field(uint32(code), 7, 5))
}

// Funct3 returns the funct3 field.
func (code Code) Funct3() uint32 {
	return bitfield.Field(uint32(code), 12, 3)
}

// Rs1 returns the first source register field.
func (code Code) Rs1() Register {
	return Register(bitfield.Field(uint32(code), 15, 5))
}

// Rs2 returns the second source register field.
func (code Code) Rs2() Register {
	return Register(bitfield.Field(uint32(code), 20, 5))
}

// Funct7 returns the funct7 field.
func (code Code) Funct7() uint32 {
	return bitfield.Field(uint32(code), 25, 7)
}

// ImmI returns the sign-extended I-type immediate.
func (code Code) ImmI() int32 {
	return bitfield.SignExtend(bitfield.Field(uint32(code), 20, 12), IMM_I_BITS)
}

// ImmS returns the sign-extended S-type immediate.
func (code Code) ImmS() int32 {
	word := uint32(code)
	raw := bitfield.Field(word, 7, 5) | (bitfield.Field(word, 25, 7) << 5)
	return bitfield.SignExtend(raw, IMM_S_BITS)
}

// ImmB returns the B-type branch offset in bytes. The stored imm[12:1] is
// gathered, sign-extended and doubled.
func (code Code) ImmB() int32 {
	word := uint32(code)
	half := (bitfield.Field(word, 31, 1) << 11) |
		(bitfield.Field(word, 7, 1) << 10) |
		(bitfield.Field(word, 25, 6) << 4) |
		bitfield.Field(word, 8, 4)
	return bitfield.SignExtend(half, IMM_B_BITS-1) * 2
}

// ImmJ returns the J-type jump offset in bytes. The stored imm[20:1] is
// gathered, sign-extended and doubled.
func (code Code) ImmJ() int32 {
	word := uint32(code)
	half := (bitfield.Field(word, 31, 1) << 19) |
		(bitfield.Field(word, 12, 8) << 11) |
		(bitfield.Field(word, 20, 1) << 10) |
		bitfield.Field(word, 21, 10)
	return bitfield.SignExtend(half, IMM_J_BITS-1) * 2
}

// Decode decodes the instruction word.
func (code Code) Decode() (inst Instruction, err error) {
	if code == CODE_HALT {
		inst = Instruction{Format: FORMAT_HALT, Op: OP_HALT}
		return
	}

	var ok bool
	inst.Op, ok = code.lookup()
	if !ok {
		err = ErrOpcode(code)
		return
	}

	inst.Format = inst.Op.Format()
	switch inst.Format {
	case FORMAT_R:
		inst.Rd, inst.Rs1, inst.Rs2 = code.Rd(), code.Rs1(), code.Rs2()
	case FORMAT_I:
		inst.Rd, inst.Rs1, inst.Imm = code.Rd(), code.Rs1(), code.ImmI()
	case FORMAT_S:
		inst.Rs1, inst.Rs2, inst.Imm = code.Rs1(), code.Rs2(), code.ImmS()
	case FORMAT_B:
		inst.Rs1, inst.Rs2, inst.Imm = code.Rs1(), code.Rs2(), code.ImmB()
	case FORMAT_J:
		inst.Rd, inst.Imm = code.Rd(), code.ImmJ()
	}

	return
}

// lookup finds the operation matching the opcode and function fields.
func (code Code) lookup() (op CodeOp, ok bool) {
	opcode := code.Opcode()
	funct3 := code.Funct3()
	funct7 := code.Funct7()

	for op = OP_ADD; op < OP_HALT; op++ {
		info := opTable[op]
		if info.opcode != opcode {
			continue
		}
		switch info.format {
		case FORMAT_R:
			ok = info.funct3 == funct3 && info.funct7 == funct7
		case FORMAT_J:
			ok = true
		default:
			ok = info.funct3 == funct3
		}
		if ok {
			return
		}
	}

	return
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	inst, err := code.Decode()
	if err != nil {
		return fmt.Sprintf(".word 0x%08x", uint32(code))
	}

	return inst.String()
}

// String returns the assembly language representation of this instruction.
func (inst Instruction) String() (out string) {
	switch inst.Format {
	case FORMAT_R:
		out = fmt.Sprintf("%v %v, %v, %v", inst.Op, inst.Rd, inst.Rs1, inst.Rs2)
	case FORMAT_I:
		if inst.Op == OP_LW {
			out = fmt.Sprintf("%v %v, %d(%v)", inst.Op, inst.Rd, inst.Imm, inst.Rs1)
		} else {
			out = fmt.Sprintf("%v %v, %v, %d", inst.Op, inst.Rd, inst.Rs1, inst.Imm)
		}
	case FORMAT_S:
		out = fmt.Sprintf("%v %v, %d(%v)", inst.Op, inst.Rs2, inst.Imm, inst.Rs1)
	case FORMAT_B:
		out = fmt.Sprintf("%v %v, %v, %d", inst.Op, inst.Rs1, inst.Rs2, inst.Imm)
	case FORMAT_J:
		out = fmt.Sprintf("%v %v, %d", inst.Op, inst.Rd, inst.Imm)
	case FORMAT_HALT:
		out = inst.Op.String()
	}

	return
}

// Bits returns the instruction as a 32-character bit string.
func (code Code) Bits() string {
	return bitfield.FormatWord(uint32(code))
}
