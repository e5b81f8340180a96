package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/regvm/memory"
)

func TestProgram_Emit(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram(0x1000)
	assert.Equal(uint32(0x1000), prog.Size())

	n, err := prog.Emit(OP_MOV_LIT_REG, 0x12121212, uint32(REG_R1))
	assert.NoError(err)
	assert.Equal(6, n)
	n, err = prog.Emit(OP_STORE_LIT_MEM, 0xffffffff, 0x1234)
	assert.NoError(err)
	assert.Equal(9, n)
	n, err = prog.Emit(OP_RETURN)
	assert.NoError(err)
	assert.Equal(1, n)

	assert.Equal(uint32(16), prog.Ip)

	raw := make([]byte, 16)
	assert.NoError(prog.Read(0, raw))
	assert.Equal([]byte{
		0x10, 0x12, 0x12, 0x12, 0x12, 0x01,
		0x14, 0xff, 0xff, 0xff, 0xff, 0x34, 0x12, 0x00, 0x00,
		0x01,
	}, raw)
}

func TestProgram_EmitErrors(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram(8)

	_, err := prog.Emit(OP_MOV_LIT_REG, 1, 99)
	assert.ErrorIs(err, ErrInvalidRegister)
	assert.Equal(uint32(0), prog.Ip)

	_, err = prog.Emit(Opcode(0xee))
	assert.ErrorIs(err, ErrIllegalInstruction)

	n, err := prog.Emit(OP_MOV_LIT_REG, 1, uint32(REG_R0))
	assert.NoError(err)
	assert.Equal(6, n)

	// Does not fit in the remaining two bytes, and writes nothing.
	digest := prog.Digest()
	_, err = prog.Emit(OP_MOV_REG_REG, uint32(REG_R0), uint32(REG_R1), 0)
	assert.ErrorIs(err, ErrOperandCount)
	_, err = prog.Emit(OP_STORE_LIT_MEM, 1, 2)
	assert.ErrorIs(err, memory.ErrOutOfBounds)
	assert.Equal(uint32(6), prog.Ip)
	assert.Equal(digest, prog.Digest())
}
