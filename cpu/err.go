package cpu

import (
	"errors"

	"github.com/ezrec/regvm/translate"
)

var f = translate.From

var (
	// Decode errors
	ErrIllegalInstruction = errors.New(f("illegal instruction"))
	ErrInvalidRegister    = errors.New(f("invalid register"))
	ErrOperandCount       = errors.New(f("operand count"))
)

// ErrOpcode names the opcode an error occurred in.
type ErrOpcode Opcode

func (eo ErrOpcode) Error() string {
	return f("opcode 0x%02x %v", uint8(eo), Opcode(eo).String())
}

// ErrRegister names an undefined register id.
type ErrRegister uint32

func (er ErrRegister) Error() string {
	return f("register id %d", uint32(er))
}

// ErrFault indicates the address of the instruction that halted the CPU.
type ErrFault struct {
	Ip  uint32
	Err error
}

func (err ErrFault) Error() string {
	return f("fault at 0x%08x %v", err.Ip, err.Err)
}

func (err ErrFault) Unwrap() error {
	return err.Err
}
