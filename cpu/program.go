package cpu

import (
	"github.com/ezrec/regvm/memory"
)

// Program assembles encoded instructions into a program memory.
type Program struct {
	*memory.Memory
	Ip uint32 // Address the next instruction is emitted at.
}

// NewProgram creates an empty program memory of size bytes.
func NewProgram(size uint32) (prog *Program) {
	prog = &Program{
		Memory: memory.NewMemory(size),
	}

	return
}

// Emit encodes an instruction at Ip, and advances Ip past it.
func (prog *Program) Emit(op Opcode, operands ...uint32) (n int, err error) {
	code, err := Encode(op, operands...)
	if err != nil {
		return
	}

	n, err = prog.Memory.Write(prog.Ip, code)
	if err != nil {
		return
	}

	prog.Ip += uint32(n)
	return
}

// String returns the disassembly of the emitted instructions.
func (prog *Program) String() string {
	return Disassemble(prog.Memory, 0, prog.Ip)
}
