// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"iter"
	"log"

	"github.com/ezrec/rv32i/cpu"
	"github.com/ezrec/rv32i/internal"
	"github.com/ezrec/rv32i/io"
	"github.com/ezrec/rv32i/memory"
)

// Emulator state. CPU + data memory + trace output.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Trace io.Trace // Trace output.

	StepLimit int // If > 0, the maximum number of instructions per Run.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(
		emu.Cpu.Defines(),
		memory.Defines(),
	)
}

// Reset loads the program text and resets the CPU state.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Memory.Verbose = emu.Verbose

	var codes []cpu.Code
	for _, code := range emu.Program.Codes() {
		codes = append(codes, code)
	}

	emu.Cpu.Load(codes)
	emu.Cpu.Reset()

	if emu.Verbose {
		log.Printf("emulator: %d instructions loaded", len(codes))
	}

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Code returns the current instruction code.
func (emu *Emulator) Code() cpu.Code {
	code, _ := emu.Cpu.FetchCode()
	return code
}

// LineNo returns the source line number for the executing opcode, or -1
// when the program counter is outside the program.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return -1
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
//
// Returns done when the program counter leaves the program, or the halt
// sentinel is reached. A halt writes one last trace line of the unchanged
// state; running off the end writes nothing.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	switch {
	case errors.Is(err, cpu.ErrPcEmpty):
		err = nil
		done = true
		return
	case errors.Is(err, cpu.ErrHalt):
		err = nil
		done = true
	case err != nil:
		return
	}

	err = emu.Trace.State(emu.Cpu.Pc, emu.Cpu.Register[:])

	return
}

// Run ticks the emulator until done, then writes the memory dump. The dump
// is also written when StepLimit stops the run with ErrStepLimit.
func (emu *Emulator) Run() (err error) {
	for {
		if emu.StepLimit > 0 && emu.Cpu.Ticks >= emu.StepLimit {
			if _, fetch_err := emu.Cpu.FetchCode(); fetch_err == nil {
				// A capped run still ends with the memory dump.
				err = emu.Trace.Dump(emu.Cpu.Memory.All())
				if err == nil {
					err = ErrStepLimit
				}
				return
			}
		}

		var done bool
		done, err = emu.Tick()
		if err != nil {
			return
		}
		if done {
			break
		}
	}

	if emu.Verbose {
		log.Printf("emulator: done after %d ticks", emu.Cpu.Ticks)
	}

	err = emu.Trace.Dump(emu.Cpu.Memory.All())

	return
}
