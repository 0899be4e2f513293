package io

import (
	"github.com/ezrec/rv32i/translate"
)

var f = translate.From

// ErrRomLine is a malformed line in a binary image.
type ErrRomLine struct {
	LineNo int
	Err    error
}

func (err ErrRomLine) Error() string {
	return f("image line %d: %v", err.LineNo, err.Err)
}

func (err ErrRomLine) Unwrap() error {
	return err.Err
}
