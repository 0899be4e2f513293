// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":    "0",
	"STACK_TOP": fmt.Sprintf("%#x", STACK_TOP),
	"HALT":      fmt.Sprintf("%#x", uint32(CODE_HALT)),
}

// Assembler is a two pass assembler for the RV32I subset.
//
// The first pass tokenizes every line, expands equates and $(...)
// expressions, and records labels. The second pass encodes each instruction.
// A line that fails is kept in the listing with its error, and assembly
// continues with the next line.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to instruction indexes.
	Equate    map[string]string // Map of equates.

	index int // Instruction index of the next instruction line.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// mnemonicMap maps instruction mnemonics to operations.
var mnemonicMap = map[string]CodeOp{
	"add":  OP_ADD,
	"sub":  OP_SUB,
	"slt":  OP_SLT,
	"srl":  OP_SRL,
	"or":   OP_OR,
	"and":  OP_AND,
	"lw":   OP_LW,
	"addi": OP_ADDI,
	"jalr": OP_JALR,
	"sw":   OP_SW,
	"beq":  OP_BEQ,
	"bne":  OP_BNE,
	"jal":  OP_JAL,
	"halt": OP_HALT,
}

// operandCount is the number of operands each format takes.
var operandCount = map[CodeFormat]int{
	FORMAT_R:    3,
	FORMAT_I:    3,
	FORMAT_S:    2,
	FORMAT_B:    3,
	FORMAT_J:    2,
	FORMAT_HALT: 0,
}

var labelRe = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)

var memoryRe = regexp.MustCompile(`^([^()]*)\(([^()]+)\)$`)

// valueOf returns the value of a simple word. Numbers are decimal unless
// prefixed with 0x, 0b or 0o; a leading zero does not mean octal.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	base := 10
	digits := strings.TrimLeft(word, "+-")
	if len(digits) > 2 && digits[0] == '0' && strings.ContainsRune("xXbBoO", rune(digits[1])) {
		base = 0
	}

	value, err = strconv.ParseInt(word, base, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// immediate returns the value of an immediate operand, warning when it
// will be truncated to bits.
func (asm *Assembler) immediate(word string, bits int) (value int64, err error) {
	value, err = asm.valueOf(word)
	if err != nil {
		return
	}

	asm.checkRange(value, bits)

	return
}

// checkRange logs immediates that do not fit a signed field of bits.
func (asm *Assembler) checkRange(value int64, bits int) {
	limit := int64(1) << (bits - 1)
	if asm.Verbose && (value < -limit || value >= limit) {
		log.Printf("asm: immediate %d truncated to %d bits", value, bits)
	}
}

// register returns the register for an operand.
func (asm *Assembler) register(word string) (reg Register, err error) {
	return ParseRegister(word)
}

// memory splits an offset(register) operand.
func (asm *Assembler) memory(word string) (offset int64, reg Register, err error) {
	match := memoryRe.FindStringSubmatch(word)
	if match == nil {
		err = ErrParseMemory(word)
		return
	}

	if text := strings.TrimSpace(match[1]); len(text) > 0 {
		offset, err = asm.immediate(text, IMM_I_BITS)
		if err != nil {
			return
		}
	}

	reg, err = asm.register(strings.TrimSpace(match[2]))

	return
}

// target returns the byte offset of a branch or jump operand, either a
// literal or a label relative to the instruction at index.
func (asm *Assembler) target(word string, index int, bits int) (offset int64, err error) {
	offset, err = asm.valueOf(word)
	if err == nil {
		asm.checkRange(offset, bits)
		return
	}

	if !labelRe.MatchString(word) {
		return
	}

	label, ok := asm.Label[word]
	if !ok {
		err = ErrLabelMissing(word)
		return
	}

	offset = int64(label-index) * 4
	asm.checkRange(offset, bits)
	err = nil

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value64 int64
		value64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(value64)
	}
	err = nil

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// expandExpressions replaces each $(...) in line with its decimal value.
// Parentheses inside the expression must balance.
func (asm *Assembler) expandExpressions(line string) (out string, err error) {
	for {
		start := strings.Index(line, "$(")
		if start < 0 {
			break
		}

		depth := 0
		end := -1
		for n := start + 1; n < len(line); n++ {
			switch line[n] {
			case '(':
				depth++
			case ')':
				depth--
			}
			if depth == 0 {
				end = n
				break
			}
		}
		if end < 0 {
			err = ErrParseExpression(line[start+2:])
			return
		}

		var value int64
		value, err = asm.parenEval(line[start+2 : end])
		if err != nil {
			return
		}

		out += line[:start] + fmt.Sprintf("%d", value)
		line = line[end+1:]
	}

	out += line
	return
}

// tokenize splits a line into words after comment removal and expansion.
func (asm *Assembler) tokenize(text string) (words []string, err error) {
	line, _, _ := strings.Cut(text, "#")
	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return
	}

	line, err = asm.expandExpressions(line)
	if err != nil {
		return
	}

	words = strings.Fields(strings.ReplaceAll(line, ",", " "))

	return
}

// parseLine runs the first pass over a single line.
//
// Returns the instruction words with labels stripped, or nil if the line
// holds no instruction. An error on an instruction line still consumes an
// instruction index, so later labels stay aligned with the source.
func (asm *Assembler) parseLine(text string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	words, err = asm.tokenize(text)
	if err != nil {
		asm.index++
		return
	}

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			words = nil
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			words = nil
			return
		}
		asm.Equate[words[1]] = words[2]
		words = nil
		return
	}

	for len(words) > 0 {
		label, rest, ok := strings.Cut(words[0], ":")
		if !ok {
			break
		}

		if !labelRe.MatchString(label) {
			err = ErrLabelSyntax
		} else if _, dup := asm.Label[label]; dup {
			err = ErrLabelDuplicate
		} else {
			asm.Label[label] = asm.index
		}

		if len(rest) > 0 {
			words[0] = rest
		} else {
			words = words[1:]
		}
	}

	if len(words) == 0 {
		words = nil
		return
	}

	// Equates apply to operands only; labels and the mnemonic are kept.
	for n, word := range words[1:] {
		equate, ok := asm.Equate[word]
		if ok {
			words[n+1] = equate
		}
	}

	asm.index++

	return
}

// Parse parses an input stream into a Program.
//
// The returned Program lists every instruction line, including those that
// failed. The returned error joins every per-line ErrSyntax, or is
// ErrProgramEmpty if the input held no instructions.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	asm.Label = make(map[string]int, 16)
	asm.Opcode = asm.Opcode[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}
	asm.index = 0

	// First pass: tokens and labels.
	lineno := -1
	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		index := asm.index
		words, line_err := asm.parseLine(text, lineno)
		if line_err == nil && len(words) == 0 {
			continue
		}

		opcode := Opcode{LineNo: lineno, Pc: uint32(index) * 4, Words: words}
		if line_err != nil {
			opcode.Err = ErrSyntax{LineNo: lineno, Line: strings.TrimSpace(text), Err: line_err}
		}
		asm.Opcode = append(asm.Opcode, opcode)
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Second pass: encode.
	var errs []error
	if asm.index == 0 {
		errs = append(errs, ErrProgramEmpty)
	}

	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if op.Err == nil {
			var code_err error
			op.Code, code_err = asm.parseWords(op.Words, int(op.Pc/4))
			if code_err != nil {
				op.Err = ErrSyntax{LineNo: op.LineNo, Line: strings.Join(op.Words, " "), Err: code_err}
			} else if asm.Verbose {
				log.Printf("%v: %08x %v", op.LineNo, uint32(op.Code), op.Code)
			}
		}

		if op.Err != nil {
			errs = append(errs, op.Err)
		}
	}

	prog = &Program{
		Opcodes: append([]Opcode(nil), asm.Opcode...),
	}

	err = errors.Join(errs...)

	return
}

// parseWords encodes the words of one instruction at index.
func (asm *Assembler) parseWords(words []string, index int) (code Code, err error) {
	mnemonic := strings.ToLower(words[0])
	args := words[1:]

	op, ok := mnemonicMap[mnemonic]
	if !ok {
		err = ErrMnemonic(words[0])
		return
	}

	format := op.Format()
	if len(args) != operandCount[format] {
		err = ErrOperandCount{Mnemonic: mnemonic, Want: operandCount[format], Got: len(args)}
		return
	}

	var inst Instruction
	inst.Op = op

	switch format {
	case FORMAT_R:
		// add rd, rs1, rs2
		inst.Rd, err = asm.register(args[0])
		if err != nil {
			return
		}
		inst.Rs1, err = asm.register(args[1])
		if err != nil {
			return
		}
		inst.Rs2, err = asm.register(args[2])
		if err != nil {
			return
		}
		code = MakeCodeR(op, inst.Rd, inst.Rs1, inst.Rs2)
	case FORMAT_I:
		var imm int64
		inst.Rd, err = asm.register(args[0])
		if err != nil {
			return
		}
		if op == OP_LW {
			// lw rd, offset(rs1)
			imm, inst.Rs1, err = asm.memory(args[1])
			if err != nil {
				return
			}
		} else {
			// addi rd, rs1, imm
			inst.Rs1, err = asm.register(args[1])
			if err != nil {
				return
			}
			imm, err = asm.immediate(args[2], IMM_I_BITS)
			if err != nil {
				return
			}
		}
		code = MakeCodeI(op, inst.Rd, inst.Rs1, imm)
	case FORMAT_S:
		// sw rs2, offset(rs1)
		var imm int64
		inst.Rs2, err = asm.register(args[0])
		if err != nil {
			return
		}
		imm, inst.Rs1, err = asm.memory(args[1])
		if err != nil {
			return
		}
		code = MakeCodeS(op, inst.Rs1, inst.Rs2, imm)
	case FORMAT_B:
		// beq rs1, rs2, offset|label
		var offset int64
		inst.Rs1, err = asm.register(args[0])
		if err != nil {
			return
		}
		inst.Rs2, err = asm.register(args[1])
		if err != nil {
			return
		}
		offset, err = asm.target(args[2], index, IMM_B_BITS)
		if err != nil {
			return
		}
		code = MakeCodeB(op, inst.Rs1, inst.Rs2, offset)
	case FORMAT_J:
		// jal rd, offset|label
		var offset int64
		inst.Rd, err = asm.register(args[0])
		if err != nil {
			return
		}
		offset, err = asm.target(args[1], index, IMM_J_BITS)
		if err != nil {
			return
		}
		code = MakeCodeJ(op, inst.Rd, offset)
	case FORMAT_HALT:
		code = CODE_HALT
	}

	return
}
