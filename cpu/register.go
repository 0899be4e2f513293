package cpu

import (
	"fmt"
	"strconv"
	"strings"
)

// Register is an architectural register index, 0 through 31.
type Register uint8

const (
	REG_ZERO = Register(0)  // Hard-wired zero.
	REG_RA   = Register(1)  // Return address.
	REG_SP   = Register(2)  // Stack pointer.
	REG_T0   = Register(5)  // Temporary / alternate link.
	REG_S0   = Register(8)  // Saved / frame pointer.
	REG_A0   = Register(10) // First argument.
)

// REG_COUNT is the number of architectural registers.
const REG_COUNT = 32

// STACK_TOP is the initial stack pointer value.
const STACK_TOP = 0x17C

// RegisterNames lists the canonical register names in index order.
var RegisterNames = [REG_COUNT]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// regAlias maps the non-canonical register names.
var regAlias = map[string]Register{
	"fp": REG_S0,
}

// regMap maps every register name to its index.
var regMap = func() map[string]Register {
	m := make(map[string]Register, 2*REG_COUNT+len(regAlias))
	for n, name := range RegisterNames {
		m[name] = Register(n)
		m[fmt.Sprintf("x%d", n)] = Register(n)
	}
	for name, reg := range regAlias {
		m[name] = reg
	}
	return m
}()

// ParseRegister returns the register for a symbolic (a0) or numeric (x10) name.
func ParseRegister(name string) (reg Register, err error) {
	reg, ok := regMap[strings.ToLower(name)]
	if !ok {
		err = ErrRegister(name)
	}
	return
}

// String returns the canonical register name.
func (reg Register) String() string {
	if int(reg) < len(RegisterNames) {
		return RegisterNames[reg]
	}
	return "Register(" + strconv.Itoa(int(reg)) + ")"
}
