package bitfield

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeSigned(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		bits  string
		width int
		value int64
	}){
		{"000000000101", 12, 5},
		{"111111111111", 12, -1},
		{"100000000000", 12, -2048},
		{"011111111111", 12, 2047},
		{"1", 1, -1},
		{"0", 1, 0},
		{"11111111111111111111111111111100", 32, -4},
	}

	for _, entry := range table {
		value, err := DecodeSigned(entry.bits, entry.width)
		assert.NoError(err, entry.bits)
		assert.Equal(entry.value, value, entry.bits)
	}
}

func TestDecodeSigned_Malformed(t *testing.T) {
	assert := assert.New(t)

	for _, bits := range []string{"", "0101", "00000000010x", "0000000001010"} {
		_, err := DecodeSigned(bits, 12)
		assert.True(errors.Is(err, ErrMalformedBitstring), bits)
		var eb *ErrBits
		assert.True(errors.As(err, &eb), bits)
		assert.Equal(bits, eb.Bits)
	}

	_, err := DecodeSigned("0", 0)
	assert.True(errors.Is(err, ErrWidth))
}

func TestEncodeSigned(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("000000000101", EncodeSigned(5, 12))
	assert.Equal("111111111100", EncodeSigned(-4, 12))
	assert.Equal("1111111111100", EncodeSigned(-4, 13))
	assert.Equal("11111111111111111111111111111111", EncodeSigned(-1, 32))

	// Silent truncation to the low bits.
	assert.Equal("000000000000", EncodeSigned(4096, 12))
	assert.Equal("110001111000", EncodeSigned(-5000, 12))
	assert.Equal("", EncodeSigned(1, 0))
}

func TestRoundTrip12(t *testing.T) {
	assert := assert.New(t)

	for v := int64(-2048); v < 2048; v++ {
		bits := EncodeSigned(v, 12)
		assert.Len(bits, 12)
		got, err := DecodeSigned(bits, 12)
		assert.NoError(err)
		if got != v {
			t.Fatalf("round trip of %d gave %d (%v)", v, got, bits)
		}
	}
}

func TestSignExtend(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(int32(-1), SignExtend(0xfff, 12))
	assert.Equal(int32(2047), SignExtend(0x7ff, 12))
	assert.Equal(int32(-2048), SignExtend(0x800, 12))
	assert.Equal(int32(-1), SignExtend(0xffffffff, 32))
	assert.Equal(int32(5), SignExtend(0xf005, 12))
}

func TestTruncateField(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint32(0xffc), Truncate(-4, 12))
	assert.Equal(uint32(0x1ffc), Truncate(-4, 13))
	assert.Equal(uint32(0xffffffff), Truncate(-1, 32))

	word := uint32(0xfe551ee3)
	assert.Equal(uint32(0x63), Field(word, 0, 7))
	assert.Equal(uint32(0x7f), Field(word, 25, 7))
	assert.Equal(uint32(5), Field(word, 20, 5))
	assert.Equal(uint32(10), Field(word, 15, 5))
}

func TestWord(t *testing.T) {
	assert := assert.New(t)

	word, err := ParseWord("00000000010100000000010100010011")
	assert.NoError(err)
	assert.Equal(uint32(0x00500513), word)
	assert.Equal("00000000010100000000010100010011", FormatWord(word))

	word, err = ParseWord("11111110010101010001111011100011")
	assert.NoError(err)
	assert.Equal(uint32(0xfe551ee3), word)

	_, err = ParseWord("0000000001010000000001010001001")
	assert.ErrorIs(err, ErrMalformedBitstring)
}

func FuzzWord(f *testing.F) {
	f.Add(uint32(0))
	f.Add(uint32(0x63))
	f.Add(uint32(0xffffffff))

	f.Fuzz(func(t *testing.T, word uint32) {
		assert := assert.New(t)

		bits := FormatWord(word)
		assert.Len(bits, WORD_BITS)

		got, err := ParseWord(bits)
		assert.NoError(err)
		assert.Equal(word, got)
	})
}
