package bitfield

import (
	"errors"

	"github.com/ezrec/rv32i/translate"
)

var f = translate.From

var (
	ErrMalformedBitstring = errors.New(f("malformed bitstring"))
	ErrWidth              = errors.New(f("width out of range"))
)

// ErrBits reports the offending bit string.
type ErrBits struct {
	Bits  string
	Width int
	Err   error
}

func (err *ErrBits) Error() string {
	return f("'%v' (width %d) %v", err.Bits, err.Width, err.Err)
}

func (err *ErrBits) Unwrap() error {
	return err.Err
}
