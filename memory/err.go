package memory

import (
	"errors"

	"github.com/ezrec/regvm/translate"
)

var f = translate.From

var (
	// Memory errors
	ErrOutOfBounds = errors.New(f("out of bounds"))
)

// ErrAddress describes a memory access outside of the buffer.
type ErrAddress struct {
	Address uint32
	Width   uint32
	Size    uint32
}

func (ea ErrAddress) Error() string {
	return f("out of bounds access 0x%08x width %d size 0x%x", ea.Address, ea.Width, ea.Size)
}

func (ea ErrAddress) Is(err error) bool {
	return err == ErrOutOfBounds
}
