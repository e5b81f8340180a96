package memory

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory_New(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(0x100)
	assert.Equal(uint32(0x100), mem.Size())

	for addr := range uint32(0x100) {
		val, err := mem.Read8(addr)
		assert.NoError(err)
		assert.Equal(uint8(0), val)
	}
}

func TestMemory_Bounds(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(16)

	table := [](struct {
		name    string
		address uint32
		width   uint32
		ok      bool
	}){
		{"first", 0, 1, true},
		{"last8", 15, 1, true},
		{"past8", 16, 1, false},
		{"last32", 12, 4, true},
		{"straddle32", 13, 4, false},
		{"last16", 14, 2, true},
		{"straddle16", 15, 2, false},
		{"wrap32", 0xfffffffe, 4, false},
		{"huge", 0xffffffff, 1, false},
	}

	for _, entry := range table {
		var err error
		switch entry.width {
		case 1:
			_, err = mem.Read8(entry.address)
		case 2:
			_, err = mem.Read16(entry.address)
		case 4:
			_, err = mem.Read32(entry.address)
		}
		if entry.ok {
			assert.NoError(err, entry.name)
		} else {
			assert.ErrorIs(err, ErrOutOfBounds, entry.name)
			var ea ErrAddress
			assert.True(errors.As(err, &ea), entry.name)
			assert.Equal(entry.address, ea.Address, entry.name)
			assert.Equal(entry.width, ea.Width, entry.name)
			assert.Equal(uint32(16), ea.Size, entry.name)
		}
	}
}

func TestMemory_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(64)

	n, err := mem.Write8(3, 0xa5)
	assert.NoError(err)
	assert.Equal(1, n)
	val8, err := mem.Read8(3)
	assert.NoError(err)
	assert.Equal(uint8(0xa5), val8)

	n, err = mem.Write16(10, 0xbeef)
	assert.NoError(err)
	assert.Equal(2, n)
	val16, err := mem.Read16(10)
	assert.NoError(err)
	assert.Equal(uint16(0xbeef), val16)

	n, err = mem.Write32(20, 0x12345678)
	assert.NoError(err)
	assert.Equal(4, n)
	val32, err := mem.Read32(20)
	assert.NoError(err)
	assert.Equal(uint32(0x12345678), val32)

	// Little-endian layout
	raw := make([]byte, 4)
	assert.NoError(mem.Read(20, raw))
	assert.Equal([]byte{0x78, 0x56, 0x34, 0x12}, raw)
}

func TestMemory_Cursor(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(16)

	addr := uint32(0)
	for _, write := range []func(uint32) (int, error){
		func(a uint32) (int, error) { return mem.Write8(a, 0x10) },
		func(a uint32) (int, error) { return mem.Write32(a, 0x12121212) },
		func(a uint32) (int, error) { return mem.Write8(a, 0x01) },
	} {
		n, err := write(addr)
		assert.NoError(err)
		addr += uint32(n)
	}

	assert.Equal(uint32(6), addr)
}

func TestMemory_WriteNoPartial(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(8)
	before := mem.Digest()

	n, err := mem.Write(6, []byte{1, 2, 3})
	assert.ErrorIs(err, ErrOutOfBounds)
	assert.Equal(0, n)
	assert.Equal(before, mem.Digest())

	n, err = mem.Write(5, []byte{1, 2, 3})
	assert.NoError(err)
	assert.Equal(3, n)
	assert.NotEqual(before, mem.Digest())

	n, err = mem.Write(8, nil)
	assert.NoError(err)
	assert.Equal(0, n)
}

func TestMemory_SpanTooLong(t *testing.T) {
	assert := assert.New(t)

	if strconv.IntSize < 64 {
		t.Skip("int cannot hold a length past 32 bits")
	}

	mem := NewMemory(8)

	// Would wrap to a width of 4 if truncated to 32 bits.
	length := uint64(math.MaxUint32) + 1 + 4
	_, err := mem.span(0, int(length))
	assert.ErrorIs(err, ErrOutOfBounds)

	var ea ErrAddress
	assert.True(errors.As(err, &ea))
	assert.Equal(uint32(math.MaxUint32), ea.Width)

	window, err := mem.span(4, 4)
	assert.NoError(err)
	assert.Len(window, 4)
}

func TestMemory_Reset(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(8)
	zero := mem.Digest()

	_, err := mem.Write32(0, 0xffffffff)
	assert.NoError(err)
	assert.NotEqual(zero, mem.Digest())

	mem.Reset()
	assert.Equal(zero, mem.Digest())
}

func TestMemory_Inspect(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(0x40)
	_, err := mem.Write(0, []byte("Hello, World!"))
	assert.NoError(err)

	before := mem.Digest()
	text := mem.Inspect()
	assert.Equal(text, mem.Inspect())
	assert.Equal(before, mem.Digest())

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	assert.Equal(3, len(lines))
	assert.True(strings.HasPrefix(lines[0], "0000_0000: 48 65 6c 6c 6f"))
	assert.True(strings.HasSuffix(lines[0], "|Hello, World!...|"))
	assert.True(strings.HasPrefix(lines[1], "0000_0010: 00"))
	assert.Equal("*", lines[2])
}

func TestMemory_InspectShortRow(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(18)
	text := mem.Inspect()

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	assert.Equal(2, len(lines))
	assert.True(strings.HasPrefix(lines[1], "0000_0010: 00 00   "))
	assert.True(strings.HasSuffix(lines[1], "|..|"))
}

func TestMemory_Defines(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(0xbeef)
	defines := map[string]string{}
	for key, value := range mem.Defines() {
		defines[key] = value
	}
	assert.Equal("0xbeef", defines["MEMORY_SIZE"])
}
