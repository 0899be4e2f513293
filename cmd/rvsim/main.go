// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/ezrec/rv32i/cpu"
	"github.com/ezrec/rv32i/emulator"
	"github.com/ezrec/rv32i/io"
	"github.com/ezrec/rv32i/translate"
)

func main() {
	var verbose bool
	var strict bool
	var steps int

	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&strict, "strict", false, "Fail on unmapped opcodes")
	flag.IntVar(&steps, "steps", 0, "Maximum instructions to execute, 0 for no limit")
	flag.Usage = func() {
		for _, line := range translate.Lines(
			"usage: rvsim [-v] [-strict] [-steps N] input output",
			"Simulates a binary image, writing the state trace and memory dump to output.",
			"An output of - writes to standard output.",
		) {
			fmt.Fprintln(flag.CommandLine.Output(), line)
		}
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	input := flag.Arg(0)
	output := flag.Arg(1)

	inf, err := os.Open(input)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}
	defer inf.Close()

	rom := &io.Rom{}
	err = rom.Unmarshal(inf)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}

	emu := emulator.NewEmulator()
	emu.Program = cpu.NewProgram(rom.Data)
	emu.Verbose = verbose
	emu.Strict = strict
	emu.StepLimit = steps

	if output == "-" {
		emu.Trace.Output = os.Stdout
	} else {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		emu.Trace.Output = ouf
	}

	err = emu.Reset()
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}

	err = emu.Run()
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}

	if term.IsTerminal(int(os.Stderr.Fd())) {
		fmt.Fprintln(os.Stderr, translate.From("%v: %d instructions, %d steps, %d loads, %d stores",
			input, len(rom.Data), emu.Ticks(), emu.Cpu.Memory.Loads, emu.Cpu.Memory.Stores))
	}
}
