// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ezrec/rv32i/cpu"
	"github.com/ezrec/rv32i/emulator"
	"github.com/ezrec/rv32i/io"
	"github.com/ezrec/rv32i/translate"
)

// defineList collects -D NAME=VALUE flags.
type defineList map[string]string

func (dl defineList) String() string {
	var list []string
	for key, value := range dl {
		list = append(list, key+"="+value)
	}
	return strings.Join(list, ",")
}

func (dl defineList) Set(text string) error {
	key, value, ok := strings.Cut(text, "=")
	if !ok || len(key) == 0 {
		return cpu.ErrEquateSyntax
	}
	dl[key] = value
	return nil
}

// assemble translates the input file into a binary image at output.
//
// Per-line errors are logged and their lines left out of the image. If no
// line assembles, the output is not created and ErrProgramEmpty is returned.
func assemble(input string, output string, defines defineList, verbose bool) (err error) {
	asm := &cpu.Assembler{Verbose: verbose}
	for key, value := range emulator.NewEmulator().Defines() {
		asm.Predefine(key, value)
	}
	for key, value := range defines {
		asm.Predefine(key, value)
	}

	inf, err := os.Open(input)
	if err != nil {
		return
	}
	defer inf.Close()

	prog, err := asm.Parse(inf)
	if prog == nil {
		return
	}

	for line_err := range prog.Errors() {
		log.Printf("%v: %v", input, line_err)
	}

	rom := &io.Rom{Data: prog.Binary()}
	if len(rom.Data) == 0 {
		err = cpu.ErrProgramEmpty
		return
	}

	ouf, err := os.Create(output)
	if err != nil {
		return
	}
	defer ouf.Close()

	err = rom.Marshal(ouf)
	if err != nil {
		return
	}

	err = ouf.Close()

	return
}

func main() {
	var verbose bool
	defines := defineList{}

	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.Var(defines, "D", "Predefine an equate, as NAME=VALUE")
	flag.Usage = func() {
		for _, line := range translate.Lines(
			"usage: rvasm [-v] [-D NAME=VALUE]... input [output]",
			"Assembles input into a binary image, one 32-bit word per line.",
			"The output defaults to output.txt.",
		) {
			fmt.Fprintln(flag.CommandLine.Output(), line)
		}
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() < 1 || flag.NArg() > 2 {
		flag.Usage()
		os.Exit(2)
	}

	input := flag.Arg(0)
	output := "output.txt"
	if flag.NArg() == 2 {
		output = flag.Arg(1)
	}

	err := assemble(input, output, defines, verbose)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}
}
