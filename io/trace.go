package io

import (
	"bufio"
	"fmt"
	"io"
	"iter"

	"github.com/ezrec/rv32i/bitfield"
)

// Trace writes the simulator state after each step, and the final memory
// dump.
type Trace struct {
	Output io.Writer // Destination; nil discards.

	Lines int // Trace lines written.
}

// State writes one trace line: the program counter, then every register in
// index order, each as a 0b-prefixed 32-bit string followed by a space.
func (tr *Trace) State(pc uint32, regs []int32) (err error) {
	if tr.Output == nil {
		return
	}

	bw := bufio.NewWriter(tr.Output)

	_, err = fmt.Fprintf(bw, "0b%s ", bitfield.FormatWord(pc))
	if err != nil {
		return
	}

	for _, reg := range regs {
		_, err = fmt.Fprintf(bw, "0b%s ", bitfield.FormatWord(uint32(reg)))
		if err != nil {
			return
		}
	}

	_, err = fmt.Fprintln(bw)
	if err != nil {
		return
	}

	err = bw.Flush()
	if err != nil {
		return
	}

	tr.Lines++

	return
}

// Dump writes one line per memory word, as 0x<address>:0b<value>, in the
// order given by seq.
func (tr *Trace) Dump(seq iter.Seq2[uint32, int32]) (err error) {
	if tr.Output == nil {
		return
	}

	bw := bufio.NewWriter(tr.Output)

	for addr, value := range seq {
		_, err = fmt.Fprintf(bw, "0x%08X:0b%s\n", addr, bitfield.FormatWord(uint32(value)))
		if err != nil {
			return
		}
	}

	err = bw.Flush()

	return
}
