// Package bitfield converts between fixed-width two's-complement integers
// and their textual bit-string form, and extracts and sign-extends the bit
// fields of 32-bit instruction words.
//
// Bit strings are written most significant bit first: character 0 holds the
// MSB and character width-1 holds the LSB.
package bitfield

import (
	"strings"
)

// WORD_BITS is the width of an instruction or data word.
const WORD_BITS = 32

// checkWidth validates a field width.
func checkWidth(width int) error {
	if width < 1 || width > 63 {
		return ErrWidth
	}
	return nil
}

// DecodeSigned interprets bits as a two's-complement number of the given width.
func DecodeSigned(bits string, width int) (value int64, err error) {
	err = checkWidth(width)
	if err == nil && len(bits) != width {
		err = ErrMalformedBitstring
	}
	if err != nil {
		err = &ErrBits{Bits: bits, Width: width, Err: err}
		return
	}

	for n := range len(bits) {
		value <<= 1
		switch bits[n] {
		case '0':
		case '1':
			value |= 1
		default:
			err = &ErrBits{Bits: bits, Width: width, Err: ErrMalformedBitstring}
			value = 0
			return
		}
	}

	if value >= 1<<(width-1) {
		value -= 1 << width
	}

	return
}

// EncodeSigned renders value as a width-bit two's-complement string.
// Values that do not fit are truncated to their low width bits.
func EncodeSigned(value int64, width int) string {
	if checkWidth(width) != nil {
		return ""
	}

	raw := uint64(value)
	if value < 0 {
		raw = uint64((int64(1) << width) + value)
	}

	var sb strings.Builder
	sb.Grow(width)
	for n := width - 1; n >= 0; n-- {
		if (raw>>n)&1 != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}

	return sb.String()
}

// Truncate returns the low width bits of value's two's-complement form.
func Truncate(value int64, width int) uint32 {
	return uint32(uint64(value) & ((uint64(1) << width) - 1))
}

// SignExtend widens the low width bits of raw to a signed 32-bit integer.
func SignExtend(raw uint32, width int) int32 {
	shift := WORD_BITS - width
	return int32(raw<<shift) >> shift
}

// Field extracts width bits of word, starting at bit lsb (0 = LSB).
func Field(word uint32, lsb, width int) uint32 {
	return (word >> lsb) & ((uint32(1) << width) - 1)
}

// ParseWord decodes a 32-character bit string into a word.
func ParseWord(bits string) (word uint32, err error) {
	value, err := DecodeSigned(bits, WORD_BITS)
	if err != nil {
		return
	}

	word = uint32(value)

	return
}

// FormatWord renders a word as a 32-character bit string.
func FormatWord(word uint32) string {
	return EncodeSigned(int64(word), WORD_BITS)
}
