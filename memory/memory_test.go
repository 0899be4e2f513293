// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package memory

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(DATA_BASE, DATA_WORDS)

	assert.Equal(uint32(0x00010080), mem.Limit())
	assert.True(mem.Contains(0x00010000))
	assert.True(mem.Contains(0x0001007C))
	assert.False(mem.Contains(0x00010080))
	assert.False(mem.Contains(0x0000FFFC))
	assert.False(mem.Contains(0x00010002))

	for addr, value := range mem.All() {
		assert.Equal(int32(0), value, "0x%08X", addr)
	}
}

func TestMemory_LoadStore(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(DATA_BASE, DATA_WORDS)

	assert.True(mem.Store(0x00010004, -7))
	assert.Equal(int32(-7), mem.Load(0x00010004))
	assert.Equal(int32(-7), mem.Cell[1])

	// Outside the window.
	assert.False(mem.Store(0x00020000, 99))
	assert.Equal(int32(0), mem.Load(0x00020000))

	// Unaligned.
	assert.False(mem.Store(0x00010005, 99))
	assert.Equal(int32(0), mem.Load(0x00010005))
	assert.Equal(int32(-7), mem.Load(0x00010004))

	assert.Equal(4, mem.Loads)
	assert.Equal(3, mem.Stores)

	mem.Reset()
	assert.Equal(int32(0), mem.Load(0x00010004))
	assert.Equal(1, mem.Loads)
	assert.Equal(0, mem.Stores)
}

func TestMemory_All(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(DATA_BASE, DATA_WORDS)
	mem.Store(0x0001007C, 3)

	var addrs []uint32
	var last int32
	for addr, value := range mem.All() {
		addrs = append(addrs, addr)
		last = value
	}

	assert.Len(addrs, DATA_WORDS)
	assert.Equal(uint32(0x00010000), addrs[0])
	assert.Equal(uint32(0x0001007C), addrs[len(addrs)-1])
	assert.Equal(int32(3), last)

	for addr := range mem.All() {
		if addr == 0x00010008 {
			break
		}
	}
}

func TestDefines(t *testing.T) {
	assert := assert.New(t)

	defines := maps.Collect(Defines())
	assert.Equal("0x10000", defines["DATA_BASE"])
	assert.Equal("0x10080", defines["DATA_LIMIT"])
	assert.Equal("32", defines["DATA_WORDS"])
}
