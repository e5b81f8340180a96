// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package memory implements the byte addressable storage used for both
// program and data memory of the regvm machine.
//
// All multi-byte values are stored little-endian. Every access is bounds
// checked against the size fixed at construction.
package memory

import (
	"encoding/binary"
	"fmt"
	"iter"
	"maps"
	"math"
	"strings"

	"github.com/zeebo/blake3"
)

// INSPECT_WIDTH is the number of bytes per row of Inspect output.
const INSPECT_WIDTH = 16

// Memory is a fixed size, zero initialized byte buffer.
type Memory struct {
	data []byte
}

// NewMemory allocates a memory of size bytes.
func NewMemory(size uint32) (mem *Memory) {
	mem = &Memory{
		data: make([]byte, size),
	}

	return
}

// Size returns the size of the memory in bytes.
func (mem *Memory) Size() uint32 {
	return uint32(len(mem.data))
}

// Defines for the memory.
func (mem *Memory) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"MEMORY_SIZE": fmt.Sprintf("0x%x", mem.Size()),
	})
}

// Reset zeros the memory.
func (mem *Memory) Reset() {
	clear(mem.data)
}

// slice returns the window [address, address+width), or an ErrAddress.
func (mem *Memory) slice(address uint32, width uint32) (window []byte, err error) {
	end := uint64(address) + uint64(width)
	if end > uint64(len(mem.data)) {
		err = ErrAddress{Address: address, Width: width, Size: mem.Size()}
		return
	}

	window = mem.data[address:end]
	return
}

// span is slice for a buffer of length bytes.
func (mem *Memory) span(address uint32, length int) (window []byte, err error) {
	if uint64(length) > math.MaxUint32 {
		err = ErrAddress{Address: address, Width: math.MaxUint32, Size: mem.Size()}
		return
	}

	return mem.slice(address, uint32(length))
}

// Write copies data into memory at address.
// Nothing is written if any part of data would fall outside the memory.
func (mem *Memory) Write(address uint32, data []byte) (n int, err error) {
	window, err := mem.span(address, len(data))
	if err != nil {
		return
	}

	n = copy(window, data)
	return
}

// Write8 writes a byte at address, and returns the bytes written.
func (mem *Memory) Write8(address uint32, value uint8) (n int, err error) {
	window, err := mem.slice(address, 1)
	if err != nil {
		return
	}

	window[0] = value
	n = 1
	return
}

// Write16 writes a 16-bit value at address, and returns the bytes written.
func (mem *Memory) Write16(address uint32, value uint16) (n int, err error) {
	window, err := mem.slice(address, 2)
	if err != nil {
		return
	}

	binary.LittleEndian.PutUint16(window, value)
	n = 2
	return
}

// Write32 writes a 32-bit value at address, and returns the bytes written.
func (mem *Memory) Write32(address uint32, value uint32) (n int, err error) {
	window, err := mem.slice(address, 4)
	if err != nil {
		return
	}

	binary.LittleEndian.PutUint32(window, value)
	n = 4
	return
}

// Read fills data from memory at address.
func (mem *Memory) Read(address uint32, data []byte) (err error) {
	window, err := mem.span(address, len(data))
	if err != nil {
		return
	}

	copy(data, window)
	return
}

// Read8 reads the byte at address.
func (mem *Memory) Read8(address uint32) (value uint8, err error) {
	window, err := mem.slice(address, 1)
	if err != nil {
		return
	}

	value = window[0]
	return
}

// Read16 reads the 16-bit value at address.
func (mem *Memory) Read16(address uint32) (value uint16, err error) {
	window, err := mem.slice(address, 2)
	if err != nil {
		return
	}

	value = binary.LittleEndian.Uint16(window)
	return
}

// Read32 reads the 32-bit value at address.
func (mem *Memory) Read32(address uint32) (value uint32, err error) {
	window, err := mem.slice(address, 4)
	if err != nil {
		return
	}

	value = binary.LittleEndian.Uint32(window)
	return
}

// Digest returns the BLAKE3 hash of the memory contents.
func (mem *Memory) Digest() [32]byte {
	return blake3.Sum256(mem.data)
}

// Inspect renders the memory as a hex dump.
// Runs of identical rows are collapsed to a single '*' line.
func (mem *Memory) Inspect() string {
	var text strings.Builder

	var prior []byte
	collapsed := false
	for base := 0; base < len(mem.data); base += INSPECT_WIDTH {
		row := mem.data[base:min(base+INSPECT_WIDTH, len(mem.data))]
		if prior != nil && len(row) == INSPECT_WIDTH && string(row) == string(prior) {
			if !collapsed {
				text.WriteString("*\n")
				collapsed = true
			}
			continue
		}
		collapsed = false
		prior = row

		fmt.Fprintf(&text, "%04X_%04X:", base>>16, base&0xffff)
		for n := range INSPECT_WIDTH {
			if n < len(row) {
				fmt.Fprintf(&text, " %02x", row[n])
			} else {
				text.WriteString("   ")
			}
		}
		text.WriteString("  |")
		for _, b := range row {
			if b >= 0x20 && b < 0x7f {
				text.WriteByte(b)
			} else {
				text.WriteByte('.')
			}
		}
		text.WriteString("|\n")
	}

	return text.String()
}
