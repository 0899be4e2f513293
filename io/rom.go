// Package io reads and writes the text files of the toolchain: the binary
// image of assembled instruction words, and the simulator trace.
package io

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/ezrec/rv32i/bitfield"
)

// Rom is a binary image: one 32-character line of 0 and 1 per word, most
// significant bit first.
type Rom struct {
	Data []uint32
}

// Words iterates the image by word index.
func (rc *Rom) Words() iter.Seq2[int, uint32] {
	return func(yield func(n int, word uint32) bool) {
		for n, word := range rc.Data {
			if !yield(n, word) {
				return
			}
		}
	}
}

// Unmarshal replaces the image with the words read from r.
// Blank lines are skipped; any other malformed line fails with ErrRomLine.
func (rc *Rom) Unmarshal(r io.Reader) (err error) {
	rc.Data = rc.Data[:0]

	scanner := bufio.NewScanner(r)
	lineno := -1
	for scanner.Scan() {
		lineno++

		text := strings.TrimSpace(scanner.Text())
		if len(text) == 0 {
			continue
		}

		var word uint32
		word, err = bitfield.ParseWord(text)
		if err != nil {
			err = ErrRomLine{LineNo: lineno, Err: err}
			return
		}

		rc.Data = append(rc.Data, word)
	}

	err = scanner.Err()

	return
}

// Marshal writes the image to w.
func (rc *Rom) Marshal(w io.Writer) (err error) {
	bw := bufio.NewWriter(w)

	for _, word := range rc.Words() {
		_, err = fmt.Fprintln(bw, bitfield.FormatWord(word))
		if err != nil {
			return
		}
	}

	err = bw.Flush()

	return
}
