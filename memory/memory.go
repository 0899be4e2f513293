// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package memory models the bounded, word-addressed data memory of the
// simulator.
package memory

import (
	"fmt"
	"iter"
	"log"
	"maps"
)

const (
	WORD_SIZE  = 4          // Bytes per word.
	DATA_BASE  = 0x00010000 // First allocated address.
	DATA_WORDS = 32         // Allocated words, 0x00010000 through 0x0001007C.
)

var _memory_defines = map[string]string{
	"DATA_BASE":  fmt.Sprintf("%#x", DATA_BASE),
	"DATA_LIMIT": fmt.Sprintf("%#x", DATA_BASE+DATA_WORDS*WORD_SIZE),
	"DATA_WORDS": fmt.Sprintf("%v", DATA_WORDS),
}

// Memory is a fixed window of 32-bit words. Addresses outside the window,
// or not word aligned, read as zero and ignore writes.
type Memory struct {
	Verbose bool    // If set, logs dropped accesses.
	Base    uint32  // Address of Cell[0].
	Cell    []int32 // Word contents.

	Loads  int // Load counter.
	Stores int // Store counter, including dropped stores.
}

// NewMemory creates a memory of count words starting at base.
func NewMemory(base uint32, count uint) (mem *Memory) {
	mem = &Memory{
		Base: base,
		Cell: make([]int32, count),
	}

	mem.Reset()

	return
}

// Defines for the memory window.
func Defines() iter.Seq2[string, string] {
	return maps.All(_memory_defines)
}

// Reset zeroes every word and the counters.
func (mem *Memory) Reset() {
	clear(mem.Cell)
	mem.Loads = 0
	mem.Stores = 0
}

// Limit is the first address past the window.
func (mem *Memory) Limit() uint32 {
	return mem.Base + uint32(len(mem.Cell))*WORD_SIZE
}

// index returns the cell index for an address.
func (mem *Memory) index(addr uint32) (n int, ok bool) {
	if addr%WORD_SIZE != 0 || addr < mem.Base || addr >= mem.Limit() {
		return
	}

	n = int((addr - mem.Base) / WORD_SIZE)
	ok = true
	return
}

// Contains reports whether addr is an allocated word.
func (mem *Memory) Contains(addr uint32) bool {
	_, ok := mem.index(addr)
	return ok
}

// Load reads the word at addr, or 0 when unmapped.
func (mem *Memory) Load(addr uint32) (value int32) {
	mem.Loads++

	n, ok := mem.index(addr)
	if !ok {
		if mem.Verbose {
			log.Printf("memory: load 0x%08X unmapped", addr)
		}
		return
	}

	value = mem.Cell[n]
	return
}

// Store writes the word at addr. Stores outside the window are dropped.
func (mem *Memory) Store(addr uint32, value int32) (ok bool) {
	mem.Stores++

	n, ok := mem.index(addr)
	if !ok {
		if mem.Verbose {
			log.Printf("memory: store 0x%08X unmapped, dropped", addr)
		}
		return
	}

	mem.Cell[n] = value
	return
}

// All iterates every allocated word in ascending address order.
func (mem *Memory) All() iter.Seq2[uint32, int32] {
	return func(yield func(addr uint32, value int32) bool) {
		for n, value := range mem.Cell {
			if !yield(mem.Base+uint32(n)*WORD_SIZE, value) {
				return
			}
		}
	}
}
