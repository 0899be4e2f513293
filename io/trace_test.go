package io

import (
	"bytes"
	"errors"
	"maps"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failWriter struct{}

func (fw failWriter) Write(p []byte) (int, error) {
	return 0, errors.New("write failed")
}

func TestTrace_State(t *testing.T) {
	assert := assert.New(t)

	buf := &bytes.Buffer{}
	trace := &Trace{Output: buf}

	regs := make([]int32, 32)
	regs[2] = 0x17c
	regs[10] = -1

	err := trace.State(8, regs)
	assert.NoError(err)
	assert.Equal(1, trace.Lines)

	line := buf.String()
	assert.True(strings.HasSuffix(line, " \n"))

	fields := strings.Fields(line)
	assert.Equal(33, len(fields))
	assert.Equal("0b00000000000000000000000000001000", fields[0])
	assert.Equal("0b00000000000000000000000000000000", fields[1])
	assert.Equal("0b00000000000000000000000101111100", fields[3])
	assert.Equal("0b11111111111111111111111111111111", fields[11])
	for _, field := range fields {
		assert.Equal(34, len(field))
	}
}

func TestTrace_Dump(t *testing.T) {
	assert := assert.New(t)

	buf := &bytes.Buffer{}
	trace := &Trace{Output: buf}

	words := map[uint32]int32{
		0x10000: 0,
		0x10004: 42,
		0x10008: -2,
	}
	keys := slices.Sorted(maps.Keys(words))

	err := trace.Dump(func(yield func(uint32, int32) bool) {
		for _, addr := range keys {
			if !yield(addr, words[addr]) {
				return
			}
		}
	})
	assert.NoError(err)

	assert.Equal(strings.Join([]string{
		"0x00010000:0b00000000000000000000000000000000",
		"0x00010004:0b00000000000000000000000000101010",
		"0x00010008:0b11111111111111111111111111111110",
		"",
	}, "\n"), buf.String())
}

func TestTrace_Discard(t *testing.T) {
	assert := assert.New(t)

	trace := &Trace{}
	assert.NoError(trace.State(0, make([]int32, 32)))
	assert.NoError(trace.Dump(maps.All(map[uint32]int32{0x10000: 1})))
	assert.Equal(0, trace.Lines)
}

func TestTrace_WriteError(t *testing.T) {
	assert := assert.New(t)

	trace := &Trace{Output: failWriter{}}
	assert.Error(trace.State(0, make([]int32, 32)))
	assert.Equal(0, trace.Lines)
	assert.Error(trace.Dump(maps.All(map[uint32]int32{0x10000: 1})))
}
