package cpu

import (
	"fmt"
	"iter"
	"strings"
)

// Register is the name of a cell in the RegisterFile.
type Register int

const (
	REG_R0 = Register(0) // r0
	REG_R1 = Register(1) // r1
	REG_R2 = Register(2) // r2
	REG_R3 = Register(3) // r3
	REG_IP = Register(4) // ip

	REG_COUNT = 5 // Number of registers.

	// REG_RESULT holds the value returned by a halting instruction.
	REG_RESULT = REG_R0
)

var _register_name = [REG_COUNT]string{
	REG_R0: "r0",
	REG_R1: "r1",
	REG_R2: "r2",
	REG_R3: "r3",
	REG_IP: "ip",
}

// String returns the assembly name of the register.
func (reg Register) String() string {
	if !reg.Valid() {
		return fmt.Sprintf("reg(%d)", int(reg))
	}
	return _register_name[reg]
}

// Valid returns true if the register is one of the named registers.
func (reg Register) Valid() bool {
	return reg >= 0 && reg < REG_COUNT
}

// RegisterOf converts an encoded register id to a Register.
func RegisterOf(id uint32) (reg Register, err error) {
	if id >= REG_COUNT {
		err = ErrRegister(id)
		return
	}

	reg = Register(id)
	return
}

// ParseRegister looks up a register by name, ignoring case.
func ParseRegister(name string) (reg Register, err error) {
	for n, regname := range _register_name {
		if strings.EqualFold(name, regname) {
			reg = Register(n)
			return
		}
	}

	err = ErrInvalidRegister
	return
}

// RegisterFile holds the value of every register.
// Index Value by Register name, ie:
//
//	RegisterFile{Value: [REG_COUNT]uint32{REG_R0: 0xdead, REG_IP: 0x100}}
type RegisterFile struct {
	Value [REG_COUNT]uint32
}

// Get the value of a register.
func (rf *RegisterFile) Get(reg Register) uint32 {
	return rf.Value[reg]
}

// Set the value of a register.
func (rf *RegisterFile) Set(reg Register, value uint32) {
	rf.Value[reg] = value
}

// All iterates over every register and its value.
func (rf *RegisterFile) All() iter.Seq2[Register, uint32] {
	return func(yield func(reg Register, value uint32) bool) {
		for n, value := range rf.Value {
			if !yield(Register(n), value) {
				return
			}
		}
	}
}

// String returns the register state as a string.
func (rf *RegisterFile) String() (text string) {
	for reg, val := range rf.All() {
		text += fmt.Sprintf("% 5s: %04X_%04X\n", reg.String(), val>>16, val&0xffff)
	}

	return
}
