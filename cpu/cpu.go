package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/rv32i/memory"
)

var _cpu_defines = map[string]string{
	"STACK_TOP": fmt.Sprintf("%#x", STACK_TOP),
	"REG_COUNT": fmt.Sprintf("%v", REG_COUNT),
}

// Cpu is the simulation context for the RV32I subset processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.
	Strict  bool // Set to fail on unmapped opcodes instead of skipping them.

	Memory *memory.Memory // Data memory.

	Pc       uint32           // Current program counter.
	Register [REG_COUNT]int32 // Register file.
	Text     []Code           // Program text, addressed by Pc/4.

	Ticks int // Instructions executed.
}

// NewCpu creates a new CPU with the standard data memory window.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Memory: memory.NewMemory(memory.DATA_BASE, memory.DATA_WORDS),
	}

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("% 5s: %04X_%04X\n", "pc", cpu.Pc>>16, cpu.Pc&0xffff)
	for n, val := range cpu.Register {
		uval := uint32(val)
		text += fmt.Sprintf("% 5s: %04X_%04X (%d)\n", Register(n), uval>>16, uval&0xffff, val)
	}

	return
}

// Reset the CPU state.
// - Clears the registers and data memory.
// - Seeds the stack pointer.
// - Sets the program counter to zero.
//
// The program text is kept.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	cpu.Register[REG_SP] = STACK_TOP
	cpu.Memory.Reset()
	cpu.Pc = 0
	cpu.Ticks = 0
}

// Load replaces the program text.
func (cpu *Cpu) Load(codes []Code) {
	cpu.Text = append(cpu.Text[:0], codes...)
}

// GetRegister reads a register.
func (cpu *Cpu) GetRegister(reg Register) int32 {
	if reg == REG_ZERO {
		return 0
	}
	return cpu.Register[reg&0x1f]
}

// SetRegister writes a register. Writes to zero are discarded.
func (cpu *Cpu) SetRegister(reg Register, value int32) {
	if reg == REG_ZERO {
		return
	}
	cpu.Register[reg&0x1f] = value
}

// FetchCode fetches the instruction at the program counter.
//
// Returns ErrPcEmpty past the end of the program text, and ErrHalt along
// with the code when the halt sentinel is fetched.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	if cpu.Pc%4 != 0 {
		err = ErrPcEmpty
		return
	}

	index := cpu.Pc / 4
	if uint64(index) >= uint64(len(cpu.Text)) {
		err = ErrPcEmpty
		return
	}

	code = cpu.Text[index]
	if code == CODE_HALT {
		err = ErrHalt
	}

	return
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick() (err error) {
	code, err := cpu.FetchCode()
	if err != nil {
		return
	}

	err = cpu.Execute(code)
	if err != nil {
		return
	}

	return
}

// Execute executes a single instruction word and advances the program
// counter.
func (cpu *Cpu) Execute(code Code) (err error) {
	if cpu.Verbose {
		log.Printf("%08x: %v", cpu.Pc, code)
	}

	next_pc := cpu.Pc + 4

	inst, err := code.Decode()
	if err != nil {
		if cpu.Strict {
			return
		}
		// Skip unmapped opcodes.
		if cpu.Verbose {
			log.Printf("cpu: %v skipped", err)
		}
		err = nil
		cpu.Pc = next_pc
		cpu.Ticks += 1
		return
	}

	rs1 := cpu.GetRegister(inst.Rs1)
	rs2 := cpu.GetRegister(inst.Rs2)

	switch inst.Format {
	case FORMAT_R:
		cpu.SetRegister(inst.Rd, doAlu(inst.Op, rs1, rs2))
	case FORMAT_I:
		addr := rs1 + inst.Imm
		switch inst.Op {
		case OP_LW:
			cpu.SetRegister(inst.Rd, cpu.Memory.Load(uint32(addr)))
		case OP_ADDI:
			cpu.SetRegister(inst.Rd, addr)
		case OP_JALR:
			cpu.SetRegister(inst.Rd, int32(cpu.Pc+4))
			next_pc = uint32(addr) &^ 1
		}
	case FORMAT_S:
		addr := rs1 + inst.Imm
		cpu.Memory.Store(uint32(addr), rs2)
	case FORMAT_B:
		var taken bool
		switch inst.Op {
		case OP_BEQ:
			taken = rs1 == rs2
		case OP_BNE:
			taken = rs1 != rs2
		}
		if taken {
			next_pc = cpu.Pc + uint32(inst.Imm)
		}
	case FORMAT_J:
		cpu.SetRegister(inst.Rd, int32(cpu.Pc+4))
		next_pc = cpu.Pc + uint32(inst.Imm)
	case FORMAT_HALT:
		err = ErrHalt
		return
	default:
		err = ErrOpcode(code)
		return
	}

	cpu.Pc = next_pc
	cpu.Ticks += 1

	return
}

// doAlu performs the register-register operation, and returns the result.
func doAlu(op CodeOp, a int32, b int32) (output int32) {
	switch op {
	case OP_ADD: // add
		output = a + b
	case OP_SUB: // sub
		output = a - b
	case OP_SLT: // slt
		if a < b {
			output = 1
		}
	case OP_SRL: // srl
		shift := uint32(b) & 0x1f // clamp to 31 bits of shift
		output = int32(uint32(a) >> shift)
	case OP_OR: // or
		output = a | b
	case OP_AND: // and
		output = a & b
	}

	return
}
