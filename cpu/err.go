package cpu

import (
	"errors"

	"github.com/ezrec/rv32i/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrPcEmpty        = errors.New(f("pc empty"))
	ErrHalt           = errors.New(f("halt"))
	ErrUnmappedOpcode = errors.New(f("unmapped opcode"))

	// Assembler errors
	ErrEquateSyntax         = errors.New(f(".equ syntax"))
	ErrEquateDuplicate      = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate       = errors.New(f("label duplicated"))
	ErrLabelSyntax          = errors.New(f("label syntax"))
	ErrUnknownMnemonic      = errors.New(f("unknown mnemonic"))
	ErrUnknownRegister      = errors.New(f("unknown register"))
	ErrInvalidOperandSyntax = errors.New(f("invalid operand syntax"))
	ErrWrongOperandCount    = errors.New(f("wrong operand count"))
	ErrProgramEmpty         = errors.New(f("no instructions"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

func (el ErrLabelMissing) Unwrap() error {
	return ErrInvalidOperandSyntax
}

type ErrRegister string

func (er ErrRegister) Error() string {
	return f("register '%v' unknown", string(er))
}

func (er ErrRegister) Unwrap() error {
	return ErrUnknownRegister
}

type ErrMnemonic string

func (em ErrMnemonic) Error() string {
	return f("mnemonic '%v' unknown", string(em))
}

func (em ErrMnemonic) Unwrap() error {
	return ErrUnknownMnemonic
}

type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%08x", uint32(eo))
}

func (eo ErrOpcode) Unwrap() error {
	return ErrUnmappedOpcode
}

type ErrOperandCount struct {
	Mnemonic string
	Want     int
	Got      int
}

func (err ErrOperandCount) Error() string {
	return f("%v takes %d operands, got %d", err.Mnemonic, err.Want, err.Got)
}

func (err ErrOperandCount) Unwrap() error {
	return ErrWrongOperandCount
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

func (err ErrParseNumber) Unwrap() error {
	return ErrInvalidOperandSyntax
}

type ErrParseMemory string

func (err ErrParseMemory) Error() string {
	return f("'%v' is not an offset(register) operand", string(err))
}

func (err ErrParseMemory) Unwrap() error {
	return ErrInvalidOperandSyntax
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

func (err ErrParseExpression) Unwrap() error {
	return ErrInvalidOperandSyntax
}
